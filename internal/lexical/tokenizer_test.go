package lexical

import (
	"reflect"
	"testing"
)

func TestTokenizer_Tokens(t *testing.T) {
	tok := MustTokenizer()

	got := tok.Tokens("The Dystopian Future Society!")
	want := []string{"dystopian", "future", "society"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestTokenizer_Empty(t *testing.T) {
	tok := MustTokenizer()
	if got := tok.Tokens(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := tok.Tokens("   "); len(got) != 0 {
		t.Errorf("expected no tokens, got %v", got)
	}
}

func TestTokenizer_QueryAndCorpusAgree(t *testing.T) {
	tok := MustTokenizer()
	doc := tok.Tokens("A story about a FUTURE society.")
	query := tok.Tokens("future society")

	s := Build([][]string{doc})
	if got := s.Scores(query)[0]; got <= 0 {
		t.Errorf("expected positive score for shared terms, got %v", got)
	}
}
