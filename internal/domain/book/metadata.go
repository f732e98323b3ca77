package book

import (
	"strconv"
	"strings"
)

// Metadata is the display information attached to every passage of a book.
type Metadata struct {
	Title       string
	Author      string
	Genres      string
	Rating      float64
	Description string
}

// Complete reports whether the metadata can be rendered as a record.
func (m Metadata) Complete() bool {
	return m.Title != "" && m.Author != ""
}

// Format renders the metadata as the text block handed to prompt construction.
func (m Metadata) Format() string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(m.Title)
	b.WriteString("\nAuthor: ")
	b.WriteString(m.Author)
	b.WriteString("\nGenres: ")
	b.WriteString(m.Genres)
	b.WriteString("\nRating: ")
	b.WriteString(FormatRating(m.Rating))
	b.WriteString("\nDescription: ")
	b.WriteString(m.Description)
	return b.String()
}

// FormatRating renders a rating the shortest way that round-trips (4.5, 4, 3.87).
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// ParseRating parses a stored rating; empty or malformed values yield 0.
func ParseRating(s string) float64 {
	r, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return r
}
