package bookfinder

import "context"

// Embedder converts text to vector embeddings. Required for Search.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Translator converts a query into the corpus language.
// Optional: without one, queries are searched as given.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}
