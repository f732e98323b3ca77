package session

import (
	"context"
	"time"

	domsession "github.com/kailas-cloud/bookfinder/internal/domain/session"
)

// Repository persists sessions and their recency order.
type Repository interface {
	Save(ctx context.Context, s *domsession.Session, at time.Time) error
	Update(ctx context.Context, s *domsession.Session) error
	Get(ctx context.Context, id string) (domsession.Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	RecentIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}
