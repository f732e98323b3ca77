package session

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/kailas-cloud/bookfinder/internal/db"
)

// memStore is an in-memory implementation of the consumer interface.
type memStore struct {
	values map[string][]byte
	ttls   map[string]time.Duration
	zsets  map[string]map[string]float64

	getErr error
}

func newMemStore() *memStore {
	return &memStore{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
		zsets:  make(map[string]map[string]float64),
	}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memStore) ZAdd(_ context.Context, key string, score float64, member string) error {
	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]float64)
	}
	m.zsets[key][member] = score
	return nil
}

func (m *memStore) ZRevRange(_ context.Context, key string, _, _ int64) ([]string, error) {
	set := m.zsets[key]
	out := make([]string, 0, len(set))
	for member := range set {
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return set[out[i]] > set[out[j]] })
	return out, nil
}

func (m *memStore) ZRem(_ context.Context, key, member string) error {
	delete(m.zsets[key], member)
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(ms, 24*time.Hour), ms
}
