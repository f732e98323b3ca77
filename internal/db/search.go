package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	VectorField  string // defaults to "vector"
	Vector       []float32
	K            int
	ReturnFields []string
}

// ListQuery is the input for paged FT.SEARCH scans.
type ListQuery struct {
	IndexName    string
	Query        string // defaults to "*"
	Offset       int
	Limit        int
	SortBy       string // ascending; field must be SORTABLE
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// Distance is set for KNN hits only: cosine distance normalized to [0,1], 0 = identical.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
