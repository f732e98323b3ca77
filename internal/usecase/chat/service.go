// Package chat is the conversational entry point: cached answers, intent routing, fallback reply.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	"github.com/kailas-cloud/bookfinder/internal/logger"
	"github.com/kailas-cloud/bookfinder/internal/usecase/intent"
)

// Refusal is returned for queries unrelated to books.
const Refusal = "I cannot fulfill your request!"

// Response is the reply plus how it was produced.
type Response struct {
	Text   string
	Intent intent.Intent
	Cached bool
}

// Service answers chat queries.
type Service struct {
	sessions  SessionCache
	intents   IntentClassifier
	rag       Answerer
	websearch Answerer
}

// New creates the chat service. sessions may be nil to disable cached answers.
func New(sessions SessionCache, intents IntentClassifier, rag, websearch Answerer) *Service {
	return &Service{sessions: sessions, intents: intents, rag: rag, websearch: websearch}
}

// Respond answers query. When sessionID names a session that already holds an answer
// to the same query, that answer is returned without calling any model.
func (s *Service) Respond(ctx context.Context, query, lang, sessionID string) (Response, error) {
	if strings.TrimSpace(query) == "" {
		return Response{}, fmt.Errorf("%w: query is empty", domain.ErrInvalidQuery)
	}
	log := logger.FromContext(ctx)
	if sessionID != "" {
		ctx, log = logger.With(ctx, zap.String("session_id", sessionID))
	}
	start := time.Now()

	if sessionID != "" && s.sessions != nil {
		answer, ok, err := s.sessions.CachedAnswer(ctx, sessionID, query)
		switch {
		case err != nil:
			log.Warn("Session lookup failed, answering fresh", zap.Error(err))
		case ok:
			log.Info("Chat answered from session")
			return Response{Text: answer, Cached: true}, nil
		}
	}

	label, err := s.intents.Classify(ctx, query)
	if err != nil {
		return Response{}, fmt.Errorf("respond: %w", err)
	}

	var text string
	switch label {
	case intent.UseRAG:
		text, err = s.rag.Answer(ctx, query, lang)
	case intent.UseWebSearch:
		text, err = s.websearch.Answer(ctx, query, lang)
	default:
		text = Refusal
	}
	if err != nil {
		return Response{}, fmt.Errorf("respond via %s: %w", label, err)
	}

	log.Info("Chat answered",
		zap.String("intent", string(label)),
		zap.String("lang", lang),
		zap.Duration("duration", time.Since(start)),
	)
	return Response{Text: text, Intent: label}, nil
}
