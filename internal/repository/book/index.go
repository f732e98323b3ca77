package book

import "github.com/kailas-cloud/bookfinder/internal/db"

// HNSW defaults for the passage vector field.
const (
	defaultHNSWM           = 16
	defaultHNSWEFConstruct = 200
)

func buildIndex(name, keyPrefix string, vectorDim int) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		Prefix(keyPrefix).
		SortableTag(fieldID).
		Tag(fieldBookID).
		Text(fieldTitle).
		Text(fieldAuthor).
		Numeric(fieldRating).
		VectorHNSW(fieldVector, vectorDim, db.DistanceCosine, defaultHNSWM, defaultHNSWEFConstruct).
		Build()
}
