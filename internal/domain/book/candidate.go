package book

// Candidate is a per-query passage hit. It lives only for one retrieval call.
type Candidate struct {
	DocumentID   string
	BookID       string
	Rank         int     // position in the vector index ordering, 0-based
	Distance     float64 // in [0,1], 0 = identical
	LexicalScore float64
	FusedScore   float64
	Metadata     Metadata
}

// Similarity converts the vector distance into a [0,1] similarity.
func (c *Candidate) Similarity() float64 {
	return 1 - c.Distance
}
