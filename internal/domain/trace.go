package domain

import "context"

type searchTraceKey struct{}

// SearchTrace collects per-request retrieval facts.
// The handler puts a mutable pointer into the context before calling the engine;
// the engine fills it in; the handler reads it for response headers.
type SearchTrace struct {
	TranslatedQuery string
	EmbeddingTokens int
	Candidates      int
	Returned        int
}

// NewContextWithTrace returns a context carrying an empty search trace.
func NewContextWithTrace(ctx context.Context) (context.Context, *SearchTrace) {
	t := &SearchTrace{}
	return context.WithValue(ctx, searchTraceKey{}, t), t
}

// TraceFromContext extracts the search trace from context. Returns nil if not set.
func TraceFromContext(ctx context.Context) *SearchTrace {
	t, _ := ctx.Value(searchTraceKey{}).(*SearchTrace)
	return t
}

// AddTokens records consumed embedding tokens. Safe on a nil trace.
func (t *SearchTrace) AddTokens(n int) {
	if t != nil {
		t.EmbeddingTokens += n
	}
}

// Record stores the outcome of one retrieval call. Safe on a nil trace.
func (t *SearchTrace) Record(translated string, candidates, returned int) {
	if t == nil {
		return
	}
	t.TranslatedQuery = translated
	t.Candidates = candidates
	t.Returned = returned
}
