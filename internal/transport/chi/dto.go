package chi

import (
	"github.com/kailas-cloud/bookfinder/internal/domain/book"
	domsession "github.com/kailas-cloud/bookfinder/internal/domain/session"
)

type responseRequest struct {
	Query     string `json:"query"`
	Lang      string `json:"lang"`
	SessionID string `json:"session_id"`
}

type responseBody struct {
	Response string `json:"response"`
	Intent   string `json:"intent,omitempty"`
	Cached   bool   `json:"cached,omitempty"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k"`
	Lang  string `json:"lang"`
}

type searchResult struct {
	BookID string  `json:"book_id"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type saveSessionRequest struct {
	SessionID string               `json:"session_id"`
	Messages  []domsession.Message `json:"messages"`
}

type sessionResponse struct {
	SessionID string               `json:"session_id"`
	Title     string               `json:"title,omitempty"`
	Messages  []domsession.Message `json:"messages,omitempty"`
}

type sessionListResponse struct {
	Sessions []domsession.Summary `json:"sessions"`
}

type renameRequest struct {
	NewTitle string `json:"new_title"`
}

type autocompleteResponse struct {
	Completions []string `json:"completions"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Documents int               `json:"documents"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func recordsToResults(records []book.Record) []searchResult {
	out := make([]searchResult, len(records))
	for i := range records {
		out[i] = searchResult{
			BookID: records[i].BookID(),
			Text:   records[i].Text(),
			Score:  records[i].FusedScore(),
		}
	}
	return out
}
