package lexical

import "github.com/kailas-cloud/bookfinder/internal/domain/book"

// Snapshot is an immutable corpus view with its BM25 statistics.
type Snapshot struct {
	docs   []book.Document
	scorer *Scorer
}

// NewSnapshot builds BM25 statistics over the pre-tokenized documents, in the given order.
func NewSnapshot(docs []book.Document, p Params) *Snapshot {
	corpus := make([][]string, len(docs))
	for i := range docs {
		corpus[i] = docs[i].Tokens()
	}
	return &Snapshot{docs: docs, scorer: BuildWithParams(corpus, p)}
}

// Len returns the corpus size.
func (s *Snapshot) Len() int { return len(s.docs) }

// BookCount returns the number of distinct logical books in the corpus.
func (s *Snapshot) BookCount() int {
	seen := make(map[string]struct{}, len(s.docs))
	for i := range s.docs {
		seen[s.docs[i].BookID()] = struct{}{}
	}
	return len(seen)
}

// ScoresByID scores every document and keys the result by document ID.
func (s *Snapshot) ScoresByID(query []string) map[string]float64 {
	scores := s.scorer.Scores(query)
	out := make(map[string]float64, len(scores))
	for i, score := range scores {
		out[s.docs[i].ID()] = score
	}
	return out
}
