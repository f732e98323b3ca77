package retrieval

import (
	"context"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	"github.com/kailas-cloud/bookfinder/internal/domain/book"
	"github.com/kailas-cloud/bookfinder/internal/lexical"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorIndex returns nearest passages ordered by ascending distance.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, poolSize int) ([]book.Candidate, error)
}

// Corpus provides the full-corpus snapshot lexical scores are computed over.
type Corpus interface {
	Snapshot(ctx context.Context) (*lexical.Snapshot, error)
}

// Translator converts a query into the corpus language.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Tokenizer splits the query the same way the corpus was split.
type Tokenizer interface {
	Tokens(text string) []string
}
