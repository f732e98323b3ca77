package db

import (
	"strings"
	"testing"
)

func bookIndex() *IndexBuilder {
	return NewIndex("bookfinder:books:idx").
		Prefix("bookfinder:books:").
		SortableTag("id").
		Tag("book_id").
		Text("title").
		Numeric("rating").
		VectorHNSW("vector", 384, DistanceCosine, 16, 200)
}

func TestIndexBuilder_BookSchema(t *testing.T) {
	idx := bookIndex().MustBuild()

	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Prefixes) != 1 || idx.Prefixes[0] != "bookfinder:books:" {
		t.Errorf("prefixes = %v", idx.Prefixes)
	}
	if len(idx.Fields) != 5 {
		t.Fatalf("fields count = %d, want 5", len(idx.Fields))
	}

	id := idx.Fields[0]
	if id.Type != IndexFieldTag || !id.Sortable || !id.TagCaseSensitive {
		t.Errorf("id field = %+v, want sortable case-sensitive TAG", id)
	}
	if idx.Fields[3].Type != IndexFieldNumeric {
		t.Errorf("rating field = %+v, want NUMERIC", idx.Fields[3])
	}

	vec := idx.Fields[4]
	if vec.VectorAlgo != VectorHNSW || vec.VectorDim != 384 || vec.VectorDistance != DistanceCosine {
		t.Errorf("vector field = %+v", vec)
	}
	if vec.VectorM != 16 || vec.VectorEFConstruct != 200 {
		t.Errorf("HNSW params = M %d, EF %d", vec.VectorM, vec.VectorEFConstruct)
	}
}

func TestIndexBuilder_VectorFlat(t *testing.T) {
	idx := NewIndex("flat-idx").
		VectorFlat("vector", 8, DistanceCosine).
		MustBuild()

	if idx.Fields[0].VectorAlgo != VectorFlat {
		t.Errorf("algo = %q, want FLAT", idx.Fields[0].VectorAlgo)
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Tag("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "vector without dim",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").VectorFlat("v", 0, DistanceCosine).Build()
			},
			wantErr: "positive DIM",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Tag("x").Build()
			},
			wantErr: "invalid characters",
		},
		{
			name: "duplicate field",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Tag("x").Text("x").Build()
			},
			wantErr: "duplicate field name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_SortableVectorRejected(t *testing.T) {
	idx := &IndexDefinition{
		Name: "idx",
		Fields: []IndexField{
			{Name: "v", Type: IndexFieldVector, VectorDim: 4, Sortable: true},
		},
	}
	if err := idx.Validate(); err == nil {
		t.Fatal("expected error for sortable vector field")
	}
}

func TestIndexDefinition_String(t *testing.T) {
	s := bookIndex().MustBuild().String()

	if !strings.HasPrefix(s, "FT.CREATE bookfinder:books:idx ON HASH PREFIX bookfinder:books: SCHEMA") {
		t.Errorf("unexpected prefix: %q", s)
	}
	if !strings.Contains(s, "id TAG SORTABLE") {
		t.Errorf("missing sortable id: %q", s)
	}
	if !strings.Contains(s, "vector VECTOR HNSW") {
		t.Errorf("missing vector field: %q", s)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := map[string]bool{
		"bookfinder:books:idx": true,
		"a-b_c":                true,
		"":                     false,
		"has space":            false,
		"dot.name":             false,
	}
	for in, want := range tests {
		if got := IsValidIdentifier(in); got != want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", in, got, want)
		}
	}
}
