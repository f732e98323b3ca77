package chat

import (
	"context"

	"github.com/kailas-cloud/bookfinder/internal/usecase/intent"
)

// SessionCache looks up answers already given in a session.
type SessionCache interface {
	CachedAnswer(ctx context.Context, sessionID, query string) (string, bool, error)
}

// IntentClassifier labels a query.
type IntentClassifier interface {
	Classify(ctx context.Context, query string) (intent.Intent, error)
}

// Answerer produces a reply for one workflow.
type Answerer interface {
	Answer(ctx context.Context, query, lang string) (string, error)
}
