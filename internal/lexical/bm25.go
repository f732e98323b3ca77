package lexical

import "math"

// Okapi BM25 defaults.
const (
	DefaultK1 = 1.5
	DefaultB  = 0.75
)

// Params tunes term-frequency saturation (K1) and document-length normalization (B).
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams returns K1=1.5, B=0.75.
func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB}
}

// Scorer holds corpus statistics for Okapi BM25. Read-only after Build.
type Scorer struct {
	params    Params
	docLens   []float64
	avgDocLen float64
	termFreqs []map[string]int
	idf       map[string]float64
}

// Build computes corpus statistics with default parameters.
func Build(corpus [][]string) *Scorer {
	return BuildWithParams(corpus, DefaultParams())
}

// BuildWithParams computes corpus statistics.
// IDF is smoothed as ln(1 + (N - n + 0.5) / (n + 0.5)), positive for every n in [0, N].
func BuildWithParams(corpus [][]string, p Params) *Scorer {
	s := &Scorer{
		params:    p,
		docLens:   make([]float64, len(corpus)),
		termFreqs: make([]map[string]int, len(corpus)),
		idf:       make(map[string]float64),
	}

	docFreq := make(map[string]int)
	var total float64
	for i, doc := range corpus {
		tf := make(map[string]int, len(doc))
		for _, term := range doc {
			tf[term]++
		}
		for term := range tf {
			docFreq[term]++
		}
		s.termFreqs[i] = tf
		s.docLens[i] = float64(len(doc))
		total += float64(len(doc))
	}

	n := float64(len(corpus))
	if n > 0 {
		s.avgDocLen = total / n
	}
	for term, df := range docFreq {
		s.idf[term] = math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))
	}

	return s
}

// Len returns the number of documents in the corpus.
func (s *Scorer) Len() int { return len(s.docLens) }

// Scores ranks every corpus document against query, in corpus order.
// Repeated query terms contribute once per occurrence. Unknown terms contribute nothing.
func (s *Scorer) Scores(query []string) []float64 {
	scores := make([]float64, len(s.docLens))
	if len(query) == 0 || s.avgDocLen == 0 {
		return scores
	}

	k1, b := s.params.K1, s.params.B
	for _, term := range query {
		idf, ok := s.idf[term]
		if !ok {
			continue
		}
		for i, tf := range s.termFreqs {
			f := float64(tf[term])
			if f == 0 {
				continue
			}
			norm := k1 * (1 - b + b*s.docLens[i]/s.avgDocLen)
			scores[i] += idf * f * (k1 + 1) / (f + norm)
		}
	}

	return scores
}
