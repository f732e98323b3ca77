package ddg

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	"github.com/kailas-cloud/bookfinder/internal/metrics"
	"github.com/kailas-cloud/bookfinder/internal/resilience"
)

func TestMain(m *testing.M) {
	metrics.RegisterLLMMetrics()
	os.Exit(m.Run())
}

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="results">
  <div class="result results_links result--ad">
    <a class="result__a" href="https://ads.example.com">Sponsored</a>
    <a class="result__snippet">Buy now</a>
  </div>
  <div class="result results_links web-result">
    <h2 class="result__title">
      <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FGeorge_Orwell&amp;rut=abc">George <b>Orwell</b></a>
    </h2>
    <a class="result__snippet" href="#">Eric Arthur Blair, known as George Orwell,
      was an English novelist.</a>
  </div>
  <div class="result results_links web-result">
    <a class="result__a" href="https://www.britannica.com/biography/George-Orwell">George Orwell | Britannica</a>
    <a class="result__snippet">British novelist and essayist.</a>
  </div>
  <div class="result results_links web-result">
    <a class="result__a" href="https://example.org/third">Third</a>
  </div>
</div>
</body></html>`

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(resultsPage), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 organic results, got %d: %+v", len(got), got)
	}

	first := got[0]
	if first.Title != "George Orwell" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "https://en.wikipedia.org/wiki/George_Orwell" {
		t.Errorf("url = %q, want unwrapped redirect", first.URL)
	}
	if first.Snippet != "Eric Arthur Blair, known as George Orwell, was an English novelist." {
		t.Errorf("snippet = %q", first.Snippet)
	}
	if got[2].Snippet != "" {
		t.Errorf("missing snippet should stay empty, got %q", got[2].Snippet)
	}
}

func TestParse_Limit(t *testing.T) {
	got, err := Parse(strings.NewReader(resultsPage), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
}

func TestParse_NoResults(t *testing.T) {
	got, err := Parse(strings.NewReader(`<html><body><div class="no-results">No results.</div></body></html>`), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results, got %+v", got)
	}
}

func TestResolveLink(t *testing.T) {
	tests := map[string]string{
		"":                                   "",
		"https://example.com/a":              "https://example.com/a",
		"//example.com/b":                    "https://example.com/b",
		"/l/?uddg=https%3A%2F%2Fx.io%2Fp&x=1": "https://x.io/p",
	}
	for in, want := range tests {
		if got := resolveLink(in); got != want {
			t.Errorf("resolveLink(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("q") != "george orwell" {
			t.Errorf("q = %q", r.PostForm.Get("q"))
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	c := New(Config{Endpoint: server.URL, MaxResults: 2, Timeout: time.Second}, nil, zap.NewNop())
	got, err := c.Search(context.Background(), "george orwell")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 results, got %d", len(got))
	}
}

func TestClient_EmptyQuery(t *testing.T) {
	c := New(Config{Endpoint: "http://unused"}, nil, zap.NewNop())
	if _, err := c.Search(context.Background(), "  "); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestClient_RetriesThrottling(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
	}, zap.NewNop())
	c := New(Config{Endpoint: server.URL}, exec, zap.NewNop())

	got, err := c.Search(context.Background(), "orwell")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 || calls.Load() != 2 {
		t.Errorf("got %d results after %d calls", len(got), calls.Load())
	}
}

func TestClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := New(Config{Endpoint: server.URL}, nil, zap.NewNop())
	_, err := c.Search(context.Background(), "orwell")
	if !errors.Is(err, domain.ErrWebSearchFailure) {
		t.Fatalf("expected ErrWebSearchFailure, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected StatusError 403, got %v", err)
	}
}
