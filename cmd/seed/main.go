// Command seed creates the book index and loads a JSON fixture of passages for local runs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/bookfinder/internal/config"
	dbRedis "github.com/kailas-cloud/bookfinder/internal/db/redis"
	"github.com/kailas-cloud/bookfinder/internal/domain/book"
	"github.com/kailas-cloud/bookfinder/internal/lexical"
	logpkg "github.com/kailas-cloud/bookfinder/internal/logger"
	"github.com/kailas-cloud/bookfinder/internal/metrics"
	bookrepo "github.com/kailas-cloud/bookfinder/internal/repository/book"
	openaiTransport "github.com/kailas-cloud/bookfinder/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/bookfinder/internal/usecase/embedding"
)

// passage is one fixture entry.
type passage struct {
	ID          string  `json:"id"`
	BookID      string  `json:"book_id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Genres      string  `json:"genres"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
	Content     string  `json:"content"`
}

func main() {
	file := flag.String("file", "testdata/books.json", "JSON array of passages")
	workers := flag.Int("workers", 4, "concurrent embedding calls")
	batch := flag.Int("batch", 50, "passages per write")
	flag.Parse()

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *file, *workers, *batch, logger); err != nil {
		logger.Fatal("Seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, file string, workers, batch int, logger *zap.Logger) error {
	f, err := os.Open(file) //nolint:gosec // path comes from the operator
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	docs, err := parsePassages(f)
	if err != nil {
		return err
	}
	logger.Info("Fixture parsed", zap.String("file", file), zap.Int("passages", len(docs)))

	store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Database.Addrs, Password: cfg.Database.Password})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	books := bookrepo.New(store, lexical.MustTokenizer(), bookrepo.Config{
		IndexName: cfg.Retrieval.IndexName,
		KeyPrefix: cfg.Retrieval.KeyPrefix,
	})
	if err := books.EnsureIndex(ctx, cfg.Embedding.Dimensions); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	metrics.RegisterEmbeddingMetrics()
	// Passages are embedded without the query instruction.
	embedder := embeddinguc.NewInstrumentedEmbedder(openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	}), cfg.Embedding.Provider, cfg.Embedding.Model, logger)

	if batch <= 0 {
		batch = 50
	}
	for start := 0; start < len(docs); start += batch {
		chunk := docs[start:min(start+batch, len(docs))]
		vectors := make([][]float32, len(chunk))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(1, workers))
		for i := range chunk {
			g.Go(func() error {
				res, err := embedder.Embed(gctx, chunk[i].Content())
				if err != nil {
					return fmt.Errorf("embed %s: %w", chunk[i].ID(), err)
				}
				vectors[i] = res.Embedding
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err //nolint:wrapcheck // already wrapped per passage
		}

		if err := books.Put(ctx, chunk, vectors); err != nil {
			return fmt.Errorf("store passages: %w", err)
		}
		logger.Info("Batch stored", zap.Int("from", start), zap.Int("count", len(chunk)))
	}

	count, err := books.Count(ctx)
	if err != nil {
		return fmt.Errorf("count passages: %w", err)
	}
	logger.Info("Seed complete", zap.Int("indexed", count))
	return nil
}

// parsePassages decodes and validates the fixture. Duplicate passage ids are rejected.
func parsePassages(r io.Reader) ([]book.Document, error) {
	var raw []passage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	docs := make([]book.Document, 0, len(raw))
	for i, p := range raw {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("passage %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}

		doc, err := book.New(p.ID, p.BookID, p.Content, book.Metadata{
			Title:       p.Title,
			Author:      p.Author,
			Genres:      p.Genres,
			Rating:      p.Rating,
			Description: p.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("passage %d (%s): %w", i, p.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
