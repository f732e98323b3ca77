package book

import (
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// MaxContentSize is the maximum passage size in bytes.
const MaxContentSize = 163840 // 160KB

// Document is one indexed passage of a book (immutable value object).
// Several documents may share a BookID: editions, chapters or review snippets.
type Document struct {
	id       string
	bookID   string
	content  string
	metadata Metadata
	tokens   []string
}

// New validates and creates a Document.
// IDs: ^[a-zA-Z0-9_.-]+$, 1-256 chars. Content: non-empty, max 160KB. Title is required.
func New(id, bookID, content string, meta Metadata) (Document, error) {
	if err := validateID("document ID", id); err != nil {
		return Document{}, err
	}
	if err := validateID("book ID", bookID); err != nil {
		return Document{}, err
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if meta.Title == "" {
		return Document{}, fmt.Errorf("title is required")
	}

	return Document{id: id, bookID: bookID, content: content, metadata: meta}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, bookID, content string, meta Metadata, tokens []string) Document {
	return Document{id: id, bookID: bookID, content: content, metadata: meta, tokens: tokens}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// BookID returns the logical book the passage belongs to.
func (d *Document) BookID() string { return d.bookID }

// Content returns the passage text.
func (d *Document) Content() string { return d.content }

// Metadata returns the display metadata of the book.
func (d *Document) Metadata() Metadata { return d.metadata }

// Tokens returns the lexical tokens derived when the corpus was loaded.
func (d *Document) Tokens() []string { return d.tokens }

func validateID(what, id string) error {
	if id == "" {
		return fmt.Errorf("%s is required", what)
	}
	if len(id) > 256 {
		return fmt.Errorf("%s too long (max 256)", what)
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("%s must be alphanumeric with dots, underscores and hyphens", what)
	}
	return nil
}
