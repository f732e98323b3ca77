// Package book stores book passages in a Redis FT index and serves both halves of hybrid retrieval:
// KNN candidate queries and full-corpus scans for lexical scoring.
package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/bookfinder/internal/db"
	"github.com/kailas-cloud/bookfinder/internal/domain"
	dombook "github.com/kailas-cloud/bookfinder/internal/domain/book"
)

// Defaults for the index layout.
const (
	DefaultIndexName = domain.KeyPrefix + "books:idx"
	DefaultKeyPrefix = domain.KeyPrefix + "books:"
	defaultPageSize  = 500

	// DefaultMaxCorpus matches the RediSearch MAXSEARCHRESULTS default. FT.SEARCH rejects
	// LIMIT offsets past it, so AllDocuments refuses larger corpora instead of paging into an error.
	// Raise it together with FT.CONFIG SET MAXSEARCHRESULTS.
	DefaultMaxCorpus = 10_000
)

// store is the consumer interface for book passages (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// tokenizer derives lexical tokens for passages as the corpus is loaded.
type tokenizer interface {
	Tokens(text string) []string
}

// Config names the index and the key space of the passages.
type Config struct {
	IndexName string
	KeyPrefix string
	PageSize  int
	MaxCorpus int
}

// Repo implements the vector index and corpus source of the retrieval engine.
type Repo struct {
	store     store
	tokenizer tokenizer
	indexName string
	keyPrefix string
	pageSize  int
	maxCorpus int
}

// New creates a book repository. Zero Config fields fall back to defaults.
func New(s store, tok tokenizer, cfg Config) *Repo {
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxCorpus <= 0 {
		cfg.MaxCorpus = DefaultMaxCorpus
	}
	return &Repo{
		store:     s,
		tokenizer: tok,
		indexName: cfg.IndexName,
		keyPrefix: cfg.KeyPrefix,
		pageSize:  cfg.PageSize,
		maxCorpus: cfg.MaxCorpus,
	}
}

// Query returns up to poolSize nearest passages ordered by ascending distance.
// Rank is the position in that ordering.
func (r *Repo) Query(ctx context.Context, vector []float32, poolSize int) ([]dombook.Candidate, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName,
		VectorField:  fieldVector,
		Vector:       vector,
		K:            poolSize,
		ReturnFields: metadataFields,
	})
	if err != nil {
		return nil, classify("knn query", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, domain.ErrEmptyIndex
	}

	out := make([]dombook.Candidate, 0, min(len(sr.Entries), poolSize))
	for i := range sr.Entries {
		if len(out) == poolSize {
			break
		}
		e := &sr.Entries[i]
		out = append(out, dombook.Candidate{
			DocumentID: documentID(e, r.keyPrefix),
			BookID:     e.Fields[fieldBookID],
			Rank:       len(out),
			Distance:   e.Distance,
			Metadata:   parseMetadata(e.Fields),
		})
	}
	return out, nil
}

// AllDocuments loads the whole corpus in stable id order, tokenizing each passage once.
func (r *Repo) AllDocuments(ctx context.Context) ([]dombook.Document, error) {
	var docs []dombook.Document
	for offset := 0; ; offset += r.pageSize {
		sr, err := r.store.SearchList(ctx, &db.ListQuery{
			IndexName:    r.indexName,
			Offset:       offset,
			Limit:        r.pageSize,
			SortBy:       fieldID,
			ReturnFields: corpusFields,
		})
		if err != nil {
			return nil, classify("load corpus", err)
		}
		if sr == nil || len(sr.Entries) == 0 {
			break
		}
		if sr.Total > r.maxCorpus {
			return nil, fmt.Errorf("load corpus: %d passages exceed the search window of %d: %w",
				sr.Total, r.maxCorpus, domain.ErrIndexUnavailable)
		}
		if docs == nil {
			docs = make([]dombook.Document, 0, sr.Total)
		}
		for i := range sr.Entries {
			e := &sr.Entries[i]
			content := e.Fields[fieldContent]
			docs = append(docs, dombook.Reconstruct(
				documentID(e, r.keyPrefix),
				e.Fields[fieldBookID],
				content,
				parseMetadata(e.Fields),
				r.tokenizer.Tokens(content),
			))
		}
		if offset+len(sr.Entries) >= sr.Total {
			break
		}
	}

	if len(docs) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	return docs, nil
}

// Count returns the number of indexed passages.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName, "*")
	if err != nil {
		return 0, classify("count", err)
	}
	return n, nil
}

// EnsureIndex creates the FT index when it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, vectorDim int) error {
	exists, err := r.store.IndexExists(ctx, r.indexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.indexName, err)
	}
	if exists {
		return nil
	}

	def, err := buildIndex(r.indexName, r.keyPrefix, vectorDim)
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.indexName, err)
	}
	return nil
}

// Put stores passages with their embeddings in one pipelined round-trip.
func (r *Repo) Put(ctx context.Context, docs []dombook.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("put: %d documents but %d vectors", len(docs), len(vectors))
	}
	items := make([]db.HashSetItem, len(docs))
	for i := range docs {
		items[i] = db.HashSetItem{
			Key:    r.keyPrefix + docs[i].ID(),
			Fields: buildHashFields(&docs[i], vectors[i]),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("put %d passages: %w", len(items), err)
	}
	return nil
}

// classify maps storage failures onto retrieval errors. Context errors stay matchable.
func classify(op string, err error) error {
	if errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("%s: %w", op, domain.ErrIndexUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrIndexUnavailable, err)
}
