package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	domsession "github.com/kailas-cloud/bookfinder/internal/domain/session"
)

func TestSaveAndGet(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	s, err := domsession.New("s1", []domsession.Message{
		{Role: domsession.RoleUser, Content: "Sách hay về lịch sử"},
		{Role: domsession.RoleAssistant, Content: "Sapiens."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, &s, time.UnixMilli(1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.ttls["bookfinder:session:s1"] != 24*time.Hour {
		t.Errorf("expected ttl to be applied, got %v", ms.ttls)
	}
	if ms.zsets["bookfinder:session_order"]["s1"] != 1000 {
		t.Errorf("expected order score 1000, got %v", ms.zsets)
	}

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Sách hay về lịch sử" || len(got.Messages) != 2 {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getErr = errors.New("connection refused")
	_, err := repo.Get(context.Background(), "s1")
	if err == nil || errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestGet_CorruptValue(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.values["bookfinder:session:s1"] = []byte("{not json")
	if _, err := repo.Get(context.Background(), "s1"); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestRecentIDs_Order(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		s, _ := domsession.New(id, nil)
		if err := repo.Save(ctx, &s, time.UnixMilli(int64(i+1))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := repo.Touch(ctx, "a", time.UnixMilli(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := repo.RecentIDs(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "c", "b"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("RecentIDs = %v, want %v", ids, want)
		}
	}
}

func TestDelete(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	s, _ := domsession.New("s1", nil)
	if err := repo.Save(ctx, &s, time.UnixMilli(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ms.values["bookfinder:session:s1"]; ok {
		t.Error("value should be deleted")
	}
	if _, ok := ms.zsets["bookfinder:session_order"]["s1"]; ok {
		t.Error("order entry should be removed")
	}
	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Errorf("deleting twice should be a no-op, got %v", err)
	}
}

func TestUpdate_KeepsRecency(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	s, _ := domsession.New("s1", nil)
	if err := repo.Save(ctx, &s, time.UnixMilli(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Rename("Renamed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Update(ctx, &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.zsets["bookfinder:session_order"]["s1"] != 5 {
		t.Errorf("update must not touch recency, got %v", ms.zsets)
	}
	got, _ := repo.Get(ctx, "s1")
	if got.Title != "Renamed" {
		t.Errorf("title = %q", got.Title)
	}
}
