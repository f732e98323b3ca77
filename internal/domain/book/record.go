package book

// Record is one logical book selected for a response (immutable value object).
type Record struct {
	bookID     string
	text       string
	fusedScore float64
}

// NewRecord creates a Record from the winning passage's metadata.
func NewRecord(bookID string, meta Metadata, fusedScore float64) Record {
	return Record{bookID: bookID, text: meta.Format(), fusedScore: fusedScore}
}

// BookID returns the logical book identifier.
func (r *Record) BookID() string { return r.bookID }

// Text returns the formatted display text.
func (r *Record) Text() string { return r.text }

// FusedScore returns the weighted semantic + lexical score.
func (r *Record) FusedScore() float64 { return r.fusedScore }
