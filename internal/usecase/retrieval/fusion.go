package retrieval

import (
	"sort"

	"github.com/kailas-cloud/bookfinder/internal/domain/book"
)

// Fusion constants. The weights are fixed: changing them changes ranking semantics.
const (
	SemanticWeight = 0.7
	LexicalWeight  = 0.3
	// PoolFactor sizes the vector candidate pool relative to topK so deduplication has headroom.
	PoolFactor = 2
)

// fuse scores candidates, orders them by fused score and keeps the best passage per book.
// Candidates missing from lexical score 0. Ties keep vector rank order.
// Passages with incomplete metadata are skipped and do not claim their book.
func fuse(candidates []book.Candidate, lexical map[string]float64, topK int) []book.Candidate {
	scored := make([]book.Candidate, len(candidates))
	copy(scored, candidates)
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Rank < scored[j].Rank })

	for i := range scored {
		c := &scored[i]
		c.LexicalScore = lexical[c.DocumentID]
		c.FusedScore = SemanticWeight*c.Similarity() + LexicalWeight*c.LexicalScore
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].FusedScore > scored[j].FusedScore })

	out := make([]book.Candidate, 0, min(topK, len(scored)))
	seen := make(map[string]struct{}, len(scored))
	for i := range scored {
		if len(out) == topK {
			break
		}
		c := scored[i]
		if c.BookID == "" || !c.Metadata.Complete() {
			continue
		}
		if _, dup := seen[c.BookID]; dup {
			continue
		}
		seen[c.BookID] = struct{}{}
		out = append(out, c)
	}
	return out
}
