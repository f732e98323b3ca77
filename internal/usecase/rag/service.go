// Package rag answers recommendation requests from retrieved book records.
package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/domain/book"
)

// DefaultTopK is the number of records handed to the model.
const DefaultTopK = 3

const systemPrompt = `You are a helpful assistant designed to recommend books based on the user's interests.

Here are some book details you can use to make recommendations:
%s
Your response should be in the user's language and based on the data provided. The suggestion should have the following fields: Title, Author, Summary. If the data provided does not contain the book requested by the user, give the user a reasonable response. Here is a sample format:
Based on your request, here are some of my suggestions:
    1. (book title) written by (author's name) about (summary description)
    2. as above
Hopefully, the above books can meet your current requirements. Enjoy reading.`

// Retriever finds book records for a query.
type Retriever interface {
	Search(ctx context.Context, query string, topK int, lang string) ([]book.Record, error)
}

// Completer sends a prompt to the chat model.
type Completer interface {
	Complete(ctx context.Context, operation, system, user string) (string, error)
}

// Service runs retrieve-then-generate.
type Service struct {
	retriever Retriever
	llm       Completer
	topK      int
	logger    *zap.Logger
}

// New creates a RAG service. topK <= 0 means DefaultTopK.
func New(retriever Retriever, llm Completer, topK int, logger *zap.Logger) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{retriever: retriever, llm: llm, topK: topK, logger: logger}
}

// Answer retrieves records for query and asks the model to recommend from them.
// The model sees the query as the user wrote it, so it replies in the user's language.
func (s *Service) Answer(ctx context.Context, query, lang string) (string, error) {
	records, err := s.retriever.Search(ctx, query, s.topK, lang)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}

	s.logger.Debug("Generating recommendation", zap.Int("records", len(records)))

	answer, err := s.llm.Complete(ctx, "rag_answer", BuildPrompt(records), query)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// BuildPrompt embeds the records' text blocks, one per line group, into the system prompt.
func BuildPrompt(records []book.Record) string {
	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].Text()
	}
	return fmt.Sprintf(systemPrompt, strings.Join(texts, "\n"))
}
