// Package websearch answers factual book questions from live web results.
package websearch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/domain"
)

const systemPrompt = `You are a helpful assistant designed to answer search queries based on web search results.
Here are the search results:
%s
Your task:
- Your response should be in the user's language and based on the data provided.
- Provide full relevant information in a clear and useful answer.
- If the data is irrelevant or unclear, respond appropriately.`

// Searcher runs a web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.WebResult, error)
}

// Translator converts the query into the search language.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Completer sends a prompt to the chat model.
type Completer interface {
	Complete(ctx context.Context, operation, system, user string) (string, error)
}

// Service runs translate, search, then generate.
type Service struct {
	search     Searcher
	translator Translator
	llm        Completer
	searchLang string
	logger     *zap.Logger
}

// New creates the web search workflow. translator may be nil.
func New(search Searcher, translator Translator, llm Completer, searchLang string, logger *zap.Logger) *Service {
	if searchLang == "" {
		searchLang = "en"
	}
	return &Service{search: search, translator: translator, llm: llm, searchLang: searchLang, logger: logger}
}

// Answer searches the web for query and summarizes the results.
func (s *Service) Answer(ctx context.Context, query, lang string) (string, error) {
	searchQuery := s.translate(ctx, query, lang)

	results, err := s.search.Search(ctx, searchQuery)
	if err != nil {
		return "", fmt.Errorf("web search: %w", err)
	}

	answer, err := s.llm.Complete(ctx, "websearch_answer", BuildPrompt(results), query)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

func (s *Service) translate(ctx context.Context, query, lang string) string {
	if s.translator == nil || lang == "" || strings.EqualFold(lang, s.searchLang) {
		return query
	}
	out, err := s.translator.Translate(ctx, query, lang, s.searchLang)
	if err != nil || strings.TrimSpace(out) == "" {
		s.logger.Warn("Query translation failed, searching original text", zap.String("lang", lang), zap.Error(err))
		return query
	}
	return out
}

// BuildPrompt lists results as title, snippet and source blocks.
func BuildPrompt(results []domain.WebResult) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s\n%s\nSource: %s", i+1, r.Title, r.Snippet, r.URL)
	}
	if len(results) == 0 {
		b.WriteString("(no results)")
	}
	return fmt.Sprintf(systemPrompt, b.String())
}
