package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/domain/book"
	domsession "github.com/kailas-cloud/bookfinder/internal/domain/session"
	chatuc "github.com/kailas-cloud/bookfinder/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/bookfinder/internal/usecase/health"
)

type mockResponder struct {
	respondFn func(ctx context.Context, query, lang, sessionID string) (chatuc.Response, error)
}

func (m *mockResponder) Respond(ctx context.Context, query, lang, sessionID string) (chatuc.Response, error) {
	return m.respondFn(ctx, query, lang, sessionID)
}

type mockRetriever struct {
	searchFn func(ctx context.Context, query string, topK int, lang string) ([]book.Record, error)
}

func (m *mockRetriever) Search(ctx context.Context, query string, topK int, lang string) ([]book.Record, error) {
	return m.searchFn(ctx, query, topK, lang)
}

type mockSessions struct {
	saveFn         func(ctx context.Context, id string, messages []domsession.Message) (domsession.Session, error)
	getFn          func(ctx context.Context, id string) (domsession.Session, error)
	listFn         func(ctx context.Context) ([]domsession.Summary, error)
	deleteFn       func(ctx context.Context, id string) error
	renameFn       func(ctx context.Context, id, title string) error
	autocompleteFn func(ctx context.Context, id, prefix string, limit int) ([]string, error)
}

func (m *mockSessions) Save(ctx context.Context, id string, messages []domsession.Message) (domsession.Session, error) {
	return m.saveFn(ctx, id, messages)
}

func (m *mockSessions) Get(ctx context.Context, id string) (domsession.Session, error) {
	return m.getFn(ctx, id)
}

func (m *mockSessions) List(ctx context.Context) ([]domsession.Summary, error) {
	return m.listFn(ctx)
}

func (m *mockSessions) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSessions) Rename(ctx context.Context, id, title string) error {
	return m.renameFn(ctx, id, title)
}

func (m *mockSessions) Autocomplete(ctx context.Context, id, prefix string, limit int) ([]string, error) {
	return m.autocompleteFn(ctx, id, prefix, limit)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type fixture struct {
	chat     *mockResponder
	search   *mockRetriever
	sessions *mockSessions
	health   *mockHealth
	handler  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		chat:     &mockResponder{},
		search:   &mockRetriever{},
		sessions: &mockSessions{},
		health:   &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}},
	}
	srv := NewServer(f.chat, f.search, f.sessions, f.health, zap.NewNop())
	f.handler = srv.Router(RouterConfig{})
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func record(bookID, title string, score float64) book.Record {
	return book.NewRecord(bookID, book.Metadata{Title: title, Author: "A", Genres: "G", Rating: 4.5}, score)
}
