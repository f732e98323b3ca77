package retrieval

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	"github.com/kailas-cloud/bookfinder/internal/domain/book"
	"github.com/kailas-cloud/bookfinder/internal/lexical"
)

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
	lastIn  string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.lastIn = text
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 0, 0}, TotalTokens: 4}, nil
}

type mockIndex struct {
	queryFn  func(ctx context.Context, vector []float32, poolSize int) ([]book.Candidate, error)
	calls    int
	lastPool int
}

func (m *mockIndex) Query(ctx context.Context, vector []float32, poolSize int) ([]book.Candidate, error) {
	m.calls++
	m.lastPool = poolSize
	if m.queryFn != nil {
		return m.queryFn(ctx, vector, poolSize)
	}
	return nil, nil
}

type mockCorpus struct {
	snapshotFn func(ctx context.Context) (*lexical.Snapshot, error)
	calls      int
}

func (m *mockCorpus) Snapshot(ctx context.Context) (*lexical.Snapshot, error) {
	m.calls++
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx)
	}
	return lexical.NewSnapshot(nil, lexical.DefaultParams()), nil
}

type mockTranslator struct {
	translateFn func(ctx context.Context, text, from, to string) (string, error)
	calls       int
}

func (m *mockTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	m.calls++
	if m.translateFn != nil {
		return m.translateFn(ctx, text, from, to)
	}
	return text, nil
}

// wordTokenizer lowercases and splits on spaces; enough for deterministic BM25 in tests.
type wordTokenizer struct{}

func (wordTokenizer) Tokens(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

type fixture struct {
	embed      *mockEmbedder
	index      *mockIndex
	corpus     *mockCorpus
	translator *mockTranslator
	engine     *Engine
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		embed:      &mockEmbedder{},
		index:      &mockIndex{},
		corpus:     &mockCorpus{},
		translator: &mockTranslator{},
	}
	f.engine = New(f.embed, f.index, f.corpus, wordTokenizer{}, f.translator, cfg, zap.NewNop())
	return f
}

func meta(title string) book.Metadata {
	return book.Metadata{
		Title:       title,
		Author:      "Author of " + title,
		Genres:      "Fiction",
		Rating:      4.5,
		Description: "About " + title,
	}
}

func passage(id, bookID, title, content string) book.Document {
	return book.Reconstruct(id, bookID, content, meta(title), wordTokenizer{}.Tokens(content))
}

func snapshotOf(docs ...book.Document) func(context.Context) (*lexical.Snapshot, error) {
	return func(context.Context) (*lexical.Snapshot, error) {
		return lexical.NewSnapshot(docs, lexical.DefaultParams()), nil
	}
}

func hits(cands ...book.Candidate) func(context.Context, []float32, int) ([]book.Candidate, error) {
	return func(_ context.Context, _ []float32, pool int) ([]book.Candidate, error) {
		if len(cands) > pool {
			return cands[:pool], nil
		}
		return cands, nil
	}
}

func cand(rank int, docID, bookID, title string, distance float64) book.Candidate {
	return book.Candidate{
		DocumentID: docID,
		BookID:     bookID,
		Rank:       rank,
		Distance:   distance,
		Metadata:   meta(title),
	}
}
