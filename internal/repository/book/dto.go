package book

import (
	"strings"

	"github.com/kailas-cloud/bookfinder/internal/db"
	dombook "github.com/kailas-cloud/bookfinder/internal/domain/book"
)

// Hash field names of a stored passage.
const (
	fieldID          = "id"
	fieldBookID      = "book_id"
	fieldTitle       = "title"
	fieldAuthor      = "author"
	fieldGenres      = "genres"
	fieldRating      = "rating"
	fieldDescription = "description"
	fieldContent     = "content"
	fieldVector      = "vector"
)

var metadataFields = []string{fieldID, fieldBookID, fieldTitle, fieldAuthor, fieldGenres, fieldRating, fieldDescription}

var corpusFields = append(append([]string{}, metadataFields...), fieldContent)

// buildHashFields flattens a passage and its embedding for HSET.
func buildHashFields(doc *dombook.Document, vector []float32) map[string]string {
	meta := doc.Metadata()
	return map[string]string{
		fieldID:          doc.ID(),
		fieldBookID:      doc.BookID(),
		fieldTitle:       meta.Title,
		fieldAuthor:      meta.Author,
		fieldGenres:      meta.Genres,
		fieldRating:      dombook.FormatRating(meta.Rating),
		fieldDescription: meta.Description,
		fieldContent:     doc.Content(),
		fieldVector:      db.EncodeVector(vector),
	}
}

func parseMetadata(m map[string]string) dombook.Metadata {
	return dombook.Metadata{
		Title:       m[fieldTitle],
		Author:      m[fieldAuthor],
		Genres:      m[fieldGenres],
		Rating:      dombook.ParseRating(m[fieldRating]),
		Description: m[fieldDescription],
	}
}

// documentID prefers the stored id field and falls back to the key suffix.
func documentID(entry *db.SearchEntry, keyPrefix string) string {
	if id := entry.Fields[fieldID]; id != "" {
		return id
	}
	return strings.TrimPrefix(entry.Key, keyPrefix)
}
