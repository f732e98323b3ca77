package bookfinder

import (
	"context"

	dombook "github.com/kailas-cloud/bookfinder/internal/domain/book"
	healthuc "github.com/kailas-cloud/bookfinder/internal/usecase/health"
)

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockEngine struct {
	searchFn func(ctx context.Context, query string, topK int, lang string) ([]dombook.Record, error)
}

func (m *mockEngine) Search(ctx context.Context, query string, topK int, lang string) ([]dombook.Record, error) {
	return m.searchFn(ctx, query, topK, lang)
}

type mockCounter struct {
	n   int
	err error
}

func (m *mockCounter) Count(context.Context) (int, error) { return m.n, m.err }

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func testClient(engine searchUseCase, obs *observer) *Client {
	return &Client{engine: engine, obs: obs, topK: defaultTopK, lang: defaultLang}
}
