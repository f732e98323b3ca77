package main

import (
	"strings"
	"testing"
)

func TestParsePassages(t *testing.T) {
	in := `[
		{"id":"dune-1","book_id":"dune","title":"Dune","author":"Frank Herbert","genres":"Science Fiction",
		 "rating":4.25,"description":"Desert planet politics.","content":"Spice must flow."},
		{"id":"dune-2","book_id":"dune","title":"Dune","author":"Frank Herbert","genres":"Science Fiction",
		 "rating":4.25,"description":"Desert planet politics.","content":"Fear is the mind-killer."}
	]`
	docs, err := parsePassages(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(docs))
	}
	if docs[1].BookID() != "dune" || docs[1].Content() != "Fear is the mind-killer." {
		t.Errorf("unexpected passage: %s %q", docs[1].BookID(), docs[1].Content())
	}
	if docs[0].Metadata().Rating != 4.25 {
		t.Errorf("expected rating 4.25, got %v", docs[0].Metadata().Rating)
	}
}

func TestParsePassages_Rejects(t *testing.T) {
	tests := map[string]string{
		"not json":     `{`,
		"duplicate id": `[{"id":"a","book_id":"b","title":"T","content":"x"},{"id":"a","book_id":"b","title":"T","content":"y"}]`,
		"no title":     `[{"id":"a","book_id":"b","content":"x"}]`,
		"no content":   `[{"id":"a","book_id":"b","title":"T"}]`,
		"bad id":       `[{"id":"a b","book_id":"b","title":"T","content":"x"}]`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := parsePassages(strings.NewReader(in)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
