package lexical

import (
	"math"
	"testing"
)

func testCorpus() [][]string {
	return [][]string{
		{"dystopian", "future", "society"},
		{"space", "opera", "future", "future"},
		{"romance", "regency", "england"},
	}
}

func TestScores_ExactFormula(t *testing.T) {
	s := Build(testCorpus())

	got := s.Scores([]string{"future"})

	n := 3.0
	df := 2.0
	idf := math.Log(1 + (n-df+0.5)/(df+0.5))
	avgdl := 10.0 / 3.0
	score := func(f, dl float64) float64 {
		return idf * f * (DefaultK1 + 1) / (f + DefaultK1*(1-DefaultB+DefaultB*dl/avgdl))
	}

	want := []float64{score(1, 3), score(2, 4), 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("doc %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if got[1] <= got[0] {
		t.Errorf("higher term frequency should score higher: %v", got)
	}
}

func TestScores_EmptyQuery(t *testing.T) {
	s := Build(testCorpus())
	for i, v := range s.Scores(nil) {
		if v != 0 {
			t.Errorf("doc %d: expected 0, got %v", i, v)
		}
	}
}

func TestScores_OutOfVocabulary(t *testing.T) {
	s := Build(testCorpus())
	scores := s.Scores([]string{"cyberpunk", "noir"})
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	for i, v := range scores {
		if v != 0 {
			t.Errorf("doc %d: expected 0, got %v", i, v)
		}
	}
}

func TestScores_TermInEveryDocumentStaysPositive(t *testing.T) {
	s := Build([][]string{{"book", "a"}, {"book", "b"}})
	for i, v := range s.Scores([]string{"book"}) {
		if v <= 0 {
			t.Errorf("doc %d: expected positive score, got %v", i, v)
		}
	}
}

func TestScores_EmptyCorpus(t *testing.T) {
	s := Build(nil)
	if s.Len() != 0 {
		t.Fatalf("expected empty scorer, got %d", s.Len())
	}
	if got := s.Scores([]string{"future"}); len(got) != 0 {
		t.Errorf("expected no scores, got %v", got)
	}
}

func TestScores_EmptyDocuments(t *testing.T) {
	s := Build([][]string{{}, {}})
	for i, v := range s.Scores([]string{"x"}) {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("doc %d: expected 0, got %v", i, v)
		}
	}
}

func TestScores_Deterministic(t *testing.T) {
	query := []string{"future", "society", "future"}
	a := Build(testCorpus()).Scores(query)
	b := Build(testCorpus()).Scores(query)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("doc %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestScores_LengthNormalization(t *testing.T) {
	short := []string{"war"}
	long := []string{"war", "peace", "russia", "napoleon", "moscow", "society"}
	s := Build([][]string{short, long})
	scores := s.Scores([]string{"war"})
	if scores[0] <= scores[1] {
		t.Errorf("shorter document should win with equal tf: %v", scores)
	}

	flat := BuildWithParams([][]string{short, long}, Params{K1: DefaultK1, B: 0})
	flatScores := flat.Scores([]string{"war"})
	if math.Abs(flatScores[0]-flatScores[1]) > 1e-12 {
		t.Errorf("b=0 disables length normalization: %v", flatScores)
	}
}
