package session

import (
	"context"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	domsession "github.com/kailas-cloud/bookfinder/internal/domain/session"
)

// fakeRepo keeps sessions in memory; err fields inject failures.
type fakeRepo struct {
	sessions map[string]domsession.Session
	order    map[string]time.Time
	getErr   error
	saveErr  error
	touches  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions: make(map[string]domsession.Session),
		order:    make(map[string]time.Time),
	}
}

func (f *fakeRepo) Save(_ context.Context, s *domsession.Session, at time.Time) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[s.ID] = *s
	f.order[s.ID] = at
	return nil
}

func (f *fakeRepo) Update(_ context.Context, s *domsession.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (domsession.Session, error) {
	if f.getErr != nil {
		return domsession.Session{}, f.getErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return domsession.Session{}, domain.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeRepo) Touch(_ context.Context, id string, at time.Time) error {
	f.touches++
	f.order[id] = at
	return nil
}

func (f *fakeRepo) RecentIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.order))
	for id := range f.order {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return f.order[ids[i]].After(f.order[ids[j]]) })
	return ids, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	delete(f.order, id)
	return nil
}

// newTestService returns a service with a ticking clock and deterministic ids.
func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc := New(repo, zap.NewNop())

	tick := time.UnixMilli(1_000)
	svc.now = func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}
	svc.newID = func() string { return "generated-id" }
	return svc, repo
}

func msgs(pairs ...string) []domsession.Message {
	out := make([]domsession.Message, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domsession.Message{Role: pairs[i], Content: pairs[i+1]})
	}
	return out
}
