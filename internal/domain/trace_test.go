package domain

import (
	"context"
	"testing"
)

func TestSearchTrace_RoundTrip(t *testing.T) {
	ctx, tr := NewContextWithTrace(context.Background())

	TraceFromContext(ctx).AddTokens(7)
	TraceFromContext(ctx).Record("dystopian novels", 6, 3)

	if tr.EmbeddingTokens != 7 {
		t.Errorf("expected 7 tokens, got %d", tr.EmbeddingTokens)
	}
	if tr.TranslatedQuery != "dystopian novels" || tr.Candidates != 6 || tr.Returned != 3 {
		t.Errorf("unexpected trace: %+v", tr)
	}
}

func TestSearchTrace_NilSafe(t *testing.T) {
	tr := TraceFromContext(context.Background())
	if tr != nil {
		t.Fatalf("expected nil trace, got %+v", tr)
	}
	tr.AddTokens(1)
	tr.Record("q", 1, 1)
}
