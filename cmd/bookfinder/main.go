package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/config"
	"github.com/kailas-cloud/bookfinder/internal/db"
	dbRedis "github.com/kailas-cloud/bookfinder/internal/db/redis"
	"github.com/kailas-cloud/bookfinder/internal/domain"
	"github.com/kailas-cloud/bookfinder/internal/lexical"
	logpkg "github.com/kailas-cloud/bookfinder/internal/logger"
	"github.com/kailas-cloud/bookfinder/internal/metrics"
	bookrepo "github.com/kailas-cloud/bookfinder/internal/repository/book"
	"github.com/kailas-cloud/bookfinder/internal/repository/embcache"
	sessionrepo "github.com/kailas-cloud/bookfinder/internal/repository/session"
	"github.com/kailas-cloud/bookfinder/internal/resilience"
	chiTransport "github.com/kailas-cloud/bookfinder/internal/transport/chi"
	"github.com/kailas-cloud/bookfinder/internal/transport/ddg"
	openaiTransport "github.com/kailas-cloud/bookfinder/internal/transport/openai"
	chatuc "github.com/kailas-cloud/bookfinder/internal/usecase/chat"
	embeddinguc "github.com/kailas-cloud/bookfinder/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/bookfinder/internal/usecase/health"
	intentuc "github.com/kailas-cloud/bookfinder/internal/usecase/intent"
	raguc "github.com/kailas-cloud/bookfinder/internal/usecase/rag"
	retrievaluc "github.com/kailas-cloud/bookfinder/internal/usecase/retrieval"
	sessionuc "github.com/kailas-cloud/bookfinder/internal/usecase/session"
	websearchuc "github.com/kailas-cloud/bookfinder/internal/usecase/websearch"
	"github.com/kailas-cloud/bookfinder/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bookfinder API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()
	metrics.RegisterLLMMetrics()

	exec := resilience.NewExecutor(resilienceConfig(cfg.Resilience), logger)

	// Embedder chain: OpenAI -> Cached -> Instrumented -> Instruction
	embedder := buildEmbedder(cfg.Embedding, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	chat := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Logger:      logger,
	}, exec)
	translator := openaiTransport.NewTranslator(chat)

	tokenizer := lexical.MustTokenizer()
	books := bookrepo.New(store, tokenizer, bookrepo.Config{
		IndexName: cfg.Retrieval.IndexName,
		KeyPrefix: cfg.Retrieval.KeyPrefix,
	})
	corpus := lexical.NewCache(books.AllDocuments, lexical.DefaultParams(), cfg.Retrieval.LexicalCacheTTL())

	engine := retrievaluc.New(embedder, books, corpus, tokenizer, translator, retrievaluc.Config{
		CorpusLanguage: cfg.Retrieval.CorpusLanguage,
		EmbedTimeout:   cfg.Retrieval.EmbedTimeout(),
		IndexTimeout:   cfg.Retrieval.IndexTimeout(),
	}, logger)

	search := ddg.New(ddg.Config{
		Endpoint:   cfg.WebSearch.Endpoint,
		Timeout:    time.Duration(cfg.WebSearch.TimeoutSec) * time.Second,
		MaxResults: cfg.WebSearch.MaxResults,
	}, exec, logger)

	sessionSvc := sessionuc.New(sessionrepo.New(store, cfg.Session.TTL()), logger)
	chatSvc := chatuc.New(
		sessionSvc,
		intentuc.New(chat, logger),
		raguc.New(engine, chat, cfg.Retrieval.DefaultTopK, logger),
		websearchuc.New(search, translator, chat, cfg.Retrieval.CorpusLanguage, logger),
	)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder), books)

	server := chiTransport.NewServer(chatSvc, engine, sessionSvc, healthSvc, logger).
		WithDefaults(cfg.Retrieval.DefaultTopK, cfg.Retrieval.DefaultLanguage)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: server.Router(chiTransport.RouterConfig{
			CORSOrigins:    cfg.HTTP.CORSOrigins,
			RateLimitRPS:   cfg.HTTP.RateLimitRPS,
			RateLimitBurst: cfg.HTTP.RateLimitBurst,
		}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction
func buildEmbedder(cfg config.EmbeddingConfig, store db.KVStore, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger,
			embcache.WithNamespace(cfg.Model),
			embcache.WithTTL(time.Duration(cfg.CacheTTLHours)*time.Hour),
		)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger)

	// Instruction prefix (outermost, the cache key includes it)
	if cfg.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.QueryInstruction)
	}
	return embedder
}

func resilienceConfig(c config.ResilienceConfig) resilience.Config {
	out := resilience.DefaultConfig()
	if c.RetryMaxAttempts > 0 {
		out.RetryMaxAttempts = c.RetryMaxAttempts
	}
	if c.RetryInitialBackoffMs > 0 {
		out.RetryInitialBackoff = time.Duration(c.RetryInitialBackoffMs) * time.Millisecond
	}
	if c.RetryMaxBackoffMs > 0 {
		out.RetryMaxBackoff = time.Duration(c.RetryMaxBackoffMs) * time.Millisecond
	}
	out.BreakerEnabled = !c.BreakerDisabled
	if c.BreakerMinRequests > 0 {
		out.BreakerMinRequests = c.BreakerMinRequests
	}
	if c.BreakerFailureRatio > 0 {
		out.BreakerFailureRatio = c.BreakerFailureRatio
	}
	if c.BreakerOpenTimeoutSec > 0 {
		out.BreakerOpenTimeout = time.Duration(c.BreakerOpenTimeoutSec) * time.Second
	}
	if c.BreakerHalfOpenMaxCalls > 0 {
		out.BreakerHalfOpenMaxCalls = c.BreakerHalfOpenMaxCalls
	}
	return out
}
