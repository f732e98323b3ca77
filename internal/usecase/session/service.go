// Package session manages saved chat conversations.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	domsession "github.com/kailas-cloud/bookfinder/internal/domain/session"
)

// Autocomplete limits.
const (
	DefaultSuggestionLimit = 5
	MaxSuggestionLimit     = 50
)

// Service coordinates session persistence.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a session service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Save stores the full message list. An empty id gets a fresh UUID.
// A title set through Rename survives later saves.
func (s *Service) Save(ctx context.Context, id string, messages []domsession.Message) (domsession.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = s.newID()
	}

	sess, err := domsession.New(id, messages)
	if err != nil {
		return domsession.Session{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	prev, err := s.repo.Get(ctx, id)
	switch {
	case err == nil:
		if prev.Title != domsession.DeriveTitle(prev.Messages) {
			sess.Title = prev.Title
		}
	case !errors.Is(err, domain.ErrSessionNotFound):
		return domsession.Session{}, fmt.Errorf("load session: %w", err)
	}

	if err := s.repo.Save(ctx, &sess, s.now()); err != nil {
		return domsession.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Get returns a non-empty session and marks it as recently used.
func (s *Service) Get(ctx context.Context, id string) (domsession.Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsession.Session{}, fmt.Errorf("get session: %w", err)
	}
	if len(sess.Messages) == 0 {
		return domsession.Session{}, fmt.Errorf("session %s is empty: %w", id, domain.ErrSessionNotFound)
	}
	if err := s.repo.Touch(ctx, id, s.now()); err != nil {
		s.logger.Warn("Failed to touch session", zap.String("session_id", id), zap.Error(err))
	}
	return sess, nil
}

// List returns session summaries, most recently used first.
// Entries whose value expired are dropped from the order.
func (s *Service) List(ctx context.Context) ([]domsession.Summary, error) {
	ids, err := s.repo.RecentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]domsession.Summary, 0, len(ids))
	for _, id := range ids {
		sess, err := s.repo.Get(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			if delErr := s.repo.Delete(ctx, id); delErr != nil {
				s.logger.Warn("Failed to prune stale session", zap.String("session_id", id), zap.Error(delErr))
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		title := sess.Title
		if title == "" {
			title = domsession.UntitledTitle
		}
		out = append(out, domsession.Summary{ID: id, Title: title})
	}
	return out, nil
}

// Delete removes a session. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Rename changes a session title without touching its recency.
func (s *Service) Rename(ctx context.Context, id, title string) error {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	if err := sess.Rename(title); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Update(ctx, &sess); err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	return nil
}

// Autocomplete suggests previous user messages of the session that start with prefix.
// A missing session yields no suggestions.
func (s *Service) Autocomplete(ctx context.Context, id, prefix string, limit int) ([]string, error) {
	if prefix == "" {
		return nil, fmt.Errorf("%w: input_prefix is required", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	limit = min(limit, MaxSuggestionLimit)

	sess, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return sess.Suggestions(prefix, limit), nil
}

// CachedAnswer returns the answer already given in the session for the same query.
func (s *Service) CachedAnswer(ctx context.Context, id, query string) (string, bool, error) {
	sess, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cached answer: %w", err)
	}
	answer, ok := sess.AnswerFor(query)
	return answer, ok, nil
}
