// Package lexical implements the term-frequency side of hybrid retrieval:
// tokenization shared by corpus and query, Okapi BM25 scoring and a corpus snapshot cache.
package lexical

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// analyzer is the subset of a bleve analyzer the tokenizer needs.
type analyzer interface {
	Analyze(input []byte) analysis.TokenStream
}

// Tokenizer splits text into lexical terms with the bleve standard analyzer:
// Unicode word boundaries, lowercasing and English stop-word removal.
type Tokenizer struct {
	analyzer analyzer
}

// NewTokenizer resolves the standard analyzer from a fresh bleve mapping.
func NewTokenizer() (*Tokenizer, error) {
	a := mapping.NewIndexMapping().AnalyzerNamed(standard.Name)
	if a == nil {
		return nil, fmt.Errorf("bleve analyzer %q not registered", standard.Name)
	}
	return &Tokenizer{analyzer: a}, nil
}

// MustTokenizer creates a Tokenizer or panics.
func MustTokenizer() *Tokenizer {
	t, err := NewTokenizer()
	if err != nil {
		panic(err)
	}
	return t
}

// Tokens returns the terms of text in order. Blank text yields nil.
func (t *Tokenizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	stream := t.analyzer.Analyze([]byte(text))
	if len(stream) == 0 {
		return nil
	}
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		if len(tok.Term) == 0 {
			continue
		}
		out = append(out, string(tok.Term))
	}
	return out
}
