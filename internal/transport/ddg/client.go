// Package ddg queries the DuckDuckGo HTML endpoint and scrapes organic results.
package ddg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	"github.com/kailas-cloud/bookfinder/internal/metrics"
	"github.com/kailas-cloud/bookfinder/internal/resilience"
)

// DefaultEndpoint is the JavaScript-free DuckDuckGo search page.
const DefaultEndpoint = "https://html.duckduckgo.com/html/"

const (
	defaultMaxResults = 5
	maxBodyBytes      = 2 << 20
	userAgent         = "Mozilla/5.0 (compatible; bookfinder/1.0)"
)

// Config holds web search settings.
type Config struct {
	Endpoint   string
	Timeout    time.Duration
	MaxResults int
}

// Client searches DuckDuckGo.
type Client struct {
	endpoint   string
	http       *http.Client
	maxResults int
	exec       *resilience.Executor
	logger     *zap.Logger
}

// StatusError is a non-200 answer from the search endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("duckduckgo status %d", e.StatusCode)
}

// New creates a search client. exec may be nil.
func New(cfg Config, exec *resilience.Executor, logger *zap.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		http:       &http.Client{Timeout: cfg.Timeout},
		maxResults: cfg.MaxResults,
		exec:       exec,
		logger:     logger,
	}
}

// Search returns up to MaxResults organic results for query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.WebResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("web search: %w", domain.ErrInvalidQuery)
	}

	var (
		results []domain.WebResult
		err     error
	)
	if c.exec != nil {
		results, err = resilience.Do(ctx, c.exec, "websearch", classifyError, func(ctx context.Context) ([]domain.WebResult, error) {
			return c.fetch(ctx, query)
		})
	} else {
		results, err = c.fetch(ctx, query)
	}
	if err != nil {
		metrics.WebSearchRequestsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("Web search failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrWebSearchFailure, err)
	}

	metrics.WebSearchRequestsTotal.WithLabelValues("success").Inc()
	c.logger.Debug("Web search completed", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]domain.WebResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return Parse(io.LimitReader(resp.Body, maxBodyBytes), c.maxResults)
}

// Parse extracts organic results from a DuckDuckGo HTML results page.
// Ads are skipped; at most limit results are returned.
func Parse(r io.Reader, limit int) ([]domain.WebResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []domain.WebResult
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") && !hasClass(n, "result--ad") {
			if res, ok := parseResult(n); ok {
				out = append(out, res)
				if len(out) >= limit {
					return false
				}
			}
			return true
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	walk(doc)
	return out, nil
}

func parseResult(n *html.Node) (domain.WebResult, bool) {
	var res domain.WebResult
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result__a") && res.Title == "":
				res.Title = text(n)
				res.URL = resolveLink(attr(n, "href"))
			case hasClass(n, "result__snippet") && res.Snippet == "":
				res.Snippet = text(n)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return res, res.Title != "" && res.URL != ""
}

// resolveLink unwraps DuckDuckGo redirect links (//duckduckgo.com/l/?uddg=...).
func resolveLink(href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func classifyError(err error) resilience.Classification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Classification{}
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		retry := statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
		return resilience.Classification{Retryable: retry, RecordFailure: retry}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}
	return resilience.Classification{Retryable: false, RecordFailure: true}
}
