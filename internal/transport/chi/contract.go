package chi

import (
	"context"

	"github.com/kailas-cloud/bookfinder/internal/domain/book"
	domsession "github.com/kailas-cloud/bookfinder/internal/domain/session"
	chatuc "github.com/kailas-cloud/bookfinder/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/bookfinder/internal/usecase/health"
)

// Responder answers chat queries.
type Responder interface {
	Respond(ctx context.Context, query, lang, sessionID string) (chatuc.Response, error)
}

// Retriever runs the hybrid book search.
type Retriever interface {
	Search(ctx context.Context, query string, topK int, lang string) ([]book.Record, error)
}

// Sessions manages saved conversations.
type Sessions interface {
	Save(ctx context.Context, id string, messages []domsession.Message) (domsession.Session, error)
	Get(ctx context.Context, id string) (domsession.Session, error)
	List(ctx context.Context) ([]domsession.Summary, error)
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, id, title string) error
	Autocomplete(ctx context.Context, id, prefix string, limit int) ([]string, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
