package bookfinder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/db"
	dbRedis "github.com/kailas-cloud/bookfinder/internal/db/redis"
	"github.com/kailas-cloud/bookfinder/internal/domain"
	dombook "github.com/kailas-cloud/bookfinder/internal/domain/book"
	"github.com/kailas-cloud/bookfinder/internal/lexical"
	bookrepo "github.com/kailas-cloud/bookfinder/internal/repository/book"
	healthuc "github.com/kailas-cloud/bookfinder/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/bookfinder/internal/usecase/retrieval"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultTopK             = 3
	defaultLang             = "vi"
)

// searchUseCase is the retrieval engine as seen by the client.
type searchUseCase interface {
	Search(ctx context.Context, query string, topK int, lang string) ([]dombook.Record, error)
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// counter reports the indexed passage count.
type counter interface {
	Count(ctx context.Context) (int, error)
}

// Client is the bookfinder SDK entry point. Safe for concurrent use.
type Client struct {
	store     db.Store
	engine    searchUseCase
	healthSvc healthUseCase
	passages  counter
	obs       *observer
	topK      int
	lang      string
}

// New creates a Client and connects to Redis.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("bookfinder: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
	if err != nil {
		return nil, fmt.Errorf("bookfinder: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("bookfinder: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	tok, err := lexical.NewTokenizer()
	if err != nil {
		return nil, fmt.Errorf("bookfinder: tokenizer: %w", err)
	}
	books := bookrepo.New(store, tok, bookrepo.Config{IndexName: cfg.indexName, KeyPrefix: cfg.keyPrefix})
	corpus := lexical.NewCache(books.AllDocuments, lexical.DefaultParams(), cfg.lexicalTTL)

	var emb domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
	}
	var translator retrievaluc.Translator
	if cfg.translator != nil {
		translator = cfg.translator
	}

	engine := retrievaluc.New(emb, books, corpus, tok, translator, retrievaluc.Config{
		CorpusLanguage: cfg.corpusLanguage,
		EmbedTimeout:   cfg.embedTimeout,
		IndexTimeout:   cfg.indexTimeout,
	}, zap.NewNop())

	c := &Client{
		store:     store,
		engine:    engine,
		healthSvc: healthuc.New(store, nil, books),
		passages:  books,
		obs:       obs,
		topK:      defaultTopK,
		lang:      defaultLang,
	}
	if cfg.topK > 0 {
		c.topK = cfg.topK
	}
	if cfg.lang != "" {
		c.lang = cfg.lang
	}
	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns up to the configured number of books for query, best first.
// An empty index yields an empty slice and no error.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (books []Book, err error) {
	sc := searchConfig{topK: c.topK, lang: c.lang}
	for _, o := range opts {
		o(&sc)
	}

	start := time.Now()
	defer func() {
		c.obs.observe("search", start, err, "query_len", len(query), "top_k", sc.topK, "books", len(books))
		if err == nil {
			c.obs.books(len(books))
		}
	}()

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("bookfinder: %w: query is empty", ErrInvalidQuery)
	}

	records, err := c.engine.Search(ctx, query, sc.topK, sc.lang)
	if err != nil {
		return nil, fmt.Errorf("bookfinder: search: %w", err)
	}

	books = make([]Book, len(records))
	for i := range records {
		books[i] = Book{
			ID:    records[i].BookID(),
			Text:  records[i].Text(),
			Score: records[i].FusedScore(),
		}
	}
	return books, nil
}

// Count returns the number of indexed passages.
func (c *Client) Count(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("count", start, err) }()

	n, err = c.passages.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("bookfinder: count: %w", err)
	}
	return n, nil
}

// Health checks the database and the book index.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:    string(report.Status),
		Checks:    checks,
		Documents: report.Documents,
	}
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder fails every call; used when no embedder is configured.
type noopEmbedder struct{}

func (noopEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, fmt.Errorf("bookfinder: embedder not configured (use WithEmbedder): %w",
		domain.ErrEmbeddingProviderError)
}
