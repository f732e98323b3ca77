// Package session persists chat sessions as JSON values plus a recency sorted set.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/bookfinder/internal/db"
	"github.com/kailas-cloud/bookfinder/internal/domain"
	domsession "github.com/kailas-cloud/bookfinder/internal/domain/session"
)

var (
	sessionKeyPrefix = domain.KeyPrefix + "session:"
	orderKey         = domain.KeyPrefix + "session_order"
)

// store is the consumer interface for sessions (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRem(ctx context.Context, key, member string) error
}

// Repo implements usecase/session.Repository.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a session repository. A zero ttl keeps sessions until deleted.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Save writes the session and marks it as most recently used at the given time.
func (r *Repo) Save(ctx context.Context, s *domsession.Session, at time.Time) error {
	if err := r.Update(ctx, s); err != nil {
		return err
	}
	return r.Touch(ctx, s.ID, at)
}

// Update rewrites the session without changing its recency.
func (r *Repo) Update(ctx context.Context, s *domsession.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, sessionKey(s.ID), data, r.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// Get loads a session by ID.
func (r *Repo) Get(ctx context.Context, id string) (domsession.Session, error) {
	data, err := r.store.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsession.Session{}, domain.ErrSessionNotFound
		}
		return domsession.Session{}, fmt.Errorf("get session %s: %w", id, err)
	}

	var s domsession.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return domsession.Session{}, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	if s.ID == "" {
		s.ID = id
	}
	return s, nil
}

// Touch moves the session to the front of the recency order.
func (r *Repo) Touch(ctx context.Context, id string, at time.Time) error {
	if err := r.store.ZAdd(ctx, orderKey, float64(at.UnixMilli()), id); err != nil {
		return fmt.Errorf("touch session %s: %w", id, err)
	}
	return nil
}

// RecentIDs returns session IDs, most recently used first.
func (r *Repo) RecentIDs(ctx context.Context) ([]string, error) {
	ids, err := r.store.ZRevRange(ctx, orderKey, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}

// Delete removes the session and its recency entry. Deleting a missing session is a no-op.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if err := r.store.ZRem(ctx, orderKey, id); err != nil {
		return fmt.Errorf("unlist session %s: %w", id, err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
