package domain

// WebResult is one organic web search hit.
type WebResult struct {
	Title   string
	Snippet string
	URL     string
}
