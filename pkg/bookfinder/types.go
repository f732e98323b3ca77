package bookfinder

// Book is one search hit: a logical book, its display text and fused relevance.
type Book struct {
	ID    string
	Text  string
	Score float64
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status    string            // "ok", "degraded", "error"
	Checks    map[string]string // component -> "ok"/"error"/"empty"
	Documents int
}
