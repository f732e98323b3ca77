// Package intent routes a user query to the workflow that can answer it.
package intent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Intent is the routing label produced by the classifier.
type Intent string

const (
	// UseRAG asks for book recommendations from the catalogue.
	UseRAG Intent = "use_rag"
	// UseWebSearch asks for facts (authors, publications) found on the web.
	UseWebSearch Intent = "use_ddg"
	// None marks queries unrelated to books.
	None Intent = "none"
)

const prompt = `You are an intent classifier for a book assistant system.

Your task:
- Classify the user's query only if it is related to books.
- If the query is about books and:
    - asking to find or recommend a book: respond use_rag
    - asking for facts about authors: respond use_ddg
- If the query is not related to books, respond none.

Respond with ONLY ONE of these three labels: use_rag, use_ddg, or none.`

// Completer sends a prompt to the chat model.
type Completer interface {
	Complete(ctx context.Context, operation, system, user string) (string, error)
}

// Classifier labels queries with a single chat completion.
type Classifier struct {
	llm    Completer
	logger *zap.Logger
}

// New creates an intent classifier.
func New(llm Completer, logger *zap.Logger) *Classifier {
	return &Classifier{llm: llm, logger: logger}
}

// Classify returns the query intent. Unknown labels become None.
func (c *Classifier) Classify(ctx context.Context, query string) (Intent, error) {
	reply, err := c.llm.Complete(ctx, "intent", prompt, fmt.Sprintf("Query: %q\nIntent:", query))
	if err != nil {
		return None, fmt.Errorf("classify intent: %w", err)
	}

	label := Parse(reply)
	c.logger.Debug("Intent classified", zap.String("raw", reply), zap.String("intent", string(label)))
	return label, nil
}

// Parse normalizes a model reply into a known intent.
func Parse(reply string) Intent {
	label := strings.ToLower(strings.Trim(strings.TrimSpace(reply), "`'\".:* \n"))
	switch Intent(label) {
	case UseRAG, UseWebSearch:
		return Intent(label)
	default:
		return None
	}
}
