package book

import "testing"

func TestNewRecord(t *testing.T) {
	r := NewRecord("B1", testMeta(), 0.82)

	if r.BookID() != "B1" {
		t.Errorf("BookID = %q", r.BookID())
	}
	if r.FusedScore() != 0.82 {
		t.Errorf("FusedScore = %v", r.FusedScore())
	}
	if r.Text() != testMeta().Format() {
		t.Errorf("Text = %q", r.Text())
	}
}

func TestCandidate_Similarity(t *testing.T) {
	c := Candidate{Distance: 0.25}
	if got := c.Similarity(); got != 0.75 {
		t.Errorf("Similarity = %v, want 0.75", got)
	}
}
