// Package retrieval implements hybrid book retrieval: vector candidates from the index
// re-ranked with BM25 over the full corpus, deduplicated to one record per book.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	"github.com/kailas-cloud/bookfinder/internal/domain/book"
	"github.com/kailas-cloud/bookfinder/internal/metrics"
)

// Request defaults applied by callers that accept optional parameters.
const (
	DefaultTopK     = 3
	DefaultLanguage = "vi"
)

// Config bounds collaborator latency and names the corpus language.
type Config struct {
	CorpusLanguage string        // queries in other languages are translated; default "en"
	EmbedTimeout   time.Duration // zero = caller's deadline only
	IndexTimeout   time.Duration // zero = caller's deadline only
}

// Engine runs hybrid retrieval. Safe for concurrent use.
type Engine struct {
	embed      Embedder
	index      VectorIndex
	corpus     Corpus
	tokenizer  Tokenizer
	translator Translator
	cfg        Config
	logger     *zap.Logger
}

// New creates a retrieval engine. translator may be nil: queries are then searched as given.
func New(
	embed Embedder, index VectorIndex, corpus Corpus, tok Tokenizer, translator Translator,
	cfg Config, logger *zap.Logger,
) *Engine {
	if cfg.CorpusLanguage == "" {
		cfg.CorpusLanguage = "en"
	}
	return &Engine{
		embed:      embed,
		index:      index,
		corpus:     corpus,
		tokenizer:  tok,
		translator: translator,
		cfg:        cfg,
		logger:     logger,
	}
}

// Search returns up to topK records, one per book, ordered by fused score descending.
// lang is the query language; an empty lang means the corpus language.
// An empty corpus yields an empty result, not an error.
func (e *Engine) Search(ctx context.Context, query string, topK int, lang string) ([]book.Record, error) {
	start := time.Now()

	if strings.TrimSpace(query) == "" {
		metrics.RetrievalSearchesTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidQuery)
	}
	if topK < 1 {
		metrics.RetrievalSearchesTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: top_k must be at least 1, got %d", domain.ErrInvalidQuery, topK)
	}

	translated := e.translate(ctx, query, lang)
	pool := PoolFactor * topK

	candidates, lexicalScores, err := e.gather(ctx, translated, pool)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyIndex) {
			e.finish(ctx, start, "empty", translated, topK, pool, 0, 0)
			return []book.Record{}, nil
		}
		e.logger.Warn("Retrieval failed",
			zap.String("translated_query", translated),
			zap.Int("top_k", topK),
			zap.Error(err),
		)
		metrics.RetrievalSearchesTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	winners := fuse(candidates, lexicalScores, topK)
	records := make([]book.Record, len(winners))
	for i := range winners {
		records[i] = book.NewRecord(winners[i].BookID, winners[i].Metadata, winners[i].FusedScore)
	}

	e.finish(ctx, start, "ok", translated, topK, pool, len(candidates), len(records))
	return records, nil
}

// translate is best effort: any failure keeps the original text.
func (e *Engine) translate(ctx context.Context, query, lang string) string {
	if e.translator == nil || lang == "" || strings.EqualFold(lang, e.cfg.CorpusLanguage) {
		return query
	}

	start := time.Now()
	translated, err := e.translator.Translate(ctx, query, lang, e.cfg.CorpusLanguage)
	metrics.RetrievalDuration.WithLabelValues("translate").Observe(time.Since(start).Seconds())
	if err != nil || strings.TrimSpace(translated) == "" {
		if err == nil {
			err = domain.ErrTranslationFailure
		}
		metrics.RetrievalTranslationFallbacksTotal.Inc()
		e.logger.Warn("Query translation failed, searching original text",
			zap.String("lang", lang),
			zap.Error(err),
		)
		return query
	}
	return translated
}

// gather embeds the query, then runs the vector query and the lexical scoring concurrently.
func (e *Engine) gather(ctx context.Context, query string, pool int) ([]book.Candidate, map[string]float64, error) {
	vector, err := e.embedQuery(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	var (
		candidates []book.Candidate
		scores     map[string]float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qctx, cancel := withTimeout(gctx, e.cfg.IndexTimeout)
		defer cancel()

		start := time.Now()
		res, err := e.index.Query(qctx, vector, pool)
		metrics.RetrievalDuration.WithLabelValues("vector").Observe(time.Since(start).Seconds())
		if err != nil {
			return indexError("vector query", qctx, err)
		}
		candidates = res
		return nil
	})
	g.Go(func() error {
		lctx, cancel := withTimeout(gctx, e.cfg.IndexTimeout)
		defer cancel()

		start := time.Now()
		snap, err := e.corpus.Snapshot(lctx)
		if err != nil {
			return indexError("load corpus", lctx, err)
		}
		scores = snap.ScoresByID(e.tokenizer.Tokens(query))
		metrics.RetrievalDuration.WithLabelValues("lexical").Observe(time.Since(start).Seconds())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err //nolint:wrapcheck // both branches already classify their errors
	}

	return candidates, scores, nil
}

func (e *Engine) embedQuery(ctx context.Context, query string) ([]float32, error) {
	ectx, cancel := withTimeout(ctx, e.cfg.EmbedTimeout)
	defer cancel()

	start := time.Now()
	res, err := e.embed.Embed(ectx, query)
	metrics.RetrievalDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ectx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingTimeout, err)
		}
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(res.Embedding) == 0 {
		return nil, fmt.Errorf("embed query: %w: empty vector", domain.ErrEmbeddingProviderError)
	}

	domain.TraceFromContext(ctx).AddTokens(res.TotalTokens)
	return res.Embedding, nil
}

func (e *Engine) finish(
	ctx context.Context, start time.Time, result, translated string,
	topK, pool, candidates, returned int,
) {
	elapsed := time.Since(start)
	metrics.RetrievalSearchesTotal.WithLabelValues(result).Inc()
	metrics.RetrievalDuration.WithLabelValues("total").Observe(elapsed.Seconds())
	metrics.RetrievalResults.Observe(float64(returned))
	domain.TraceFromContext(ctx).Record(translated, candidates, returned)

	e.logger.Info("Retrieval completed",
		zap.String("outcome", result),
		zap.String("translated_query", translated),
		zap.Int("top_k", topK),
		zap.Int("pool_size", pool),
		zap.Int("candidates", candidates),
		zap.Int("returned", returned),
		zap.Duration("duration", elapsed),
	)
}

// indexError turns a deadline on the index side into ErrIndexUnavailable.
func indexError(op string, ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrEmptyIndex) || errors.Is(err, domain.ErrIndexUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrIndexUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmbeddingTimeout):
		return "embedding_timeout"
	case errors.Is(err, domain.ErrIndexUnavailable):
		return "index_unavailable"
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		return "embedding_error"
	default:
		return "error"
	}
}
