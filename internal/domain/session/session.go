// Package session models a saved chat conversation.
package session

import (
	"errors"
	"strings"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UntitledTitle is used when a session has no user message yet.
const UntitledTitle = "Untitled Session"

// MaxTitleLength caps stored titles in runes.
const MaxTitleLength = 200

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is a titled, ordered list of messages.
type Session struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// Summary is the listing view of a session.
type Summary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// New builds a session titled after its first user message.
func New(id string, messages []Message) (Session, error) {
	if strings.TrimSpace(id) == "" {
		return Session{}, errors.New("session id is required")
	}
	for i := range messages {
		if messages[i].Role == "" {
			return Session{}, errors.New("message role is required")
		}
	}
	return Session{ID: id, Title: DeriveTitle(messages), Messages: messages}, nil
}

// DeriveTitle returns the first user message, or UntitledTitle.
func DeriveTitle(messages []Message) string {
	for i := range messages {
		if messages[i].Role == RoleUser && strings.TrimSpace(messages[i].Content) != "" {
			return truncate(strings.TrimSpace(messages[i].Content), MaxTitleLength)
		}
	}
	return UntitledTitle
}

// Rename validates and applies a new title.
func (s *Session) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	s.Title = truncate(title, MaxTitleLength)
	return nil
}

// AnswerFor returns the assistant reply that directly followed the latest identical user query.
func (s *Session) AnswerFor(query string) (string, bool) {
	query = strings.TrimSpace(query)
	for i := len(s.Messages) - 2; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role != RoleUser || strings.TrimSpace(m.Content) != query {
			continue
		}
		next := s.Messages[i+1]
		if next.Role == RoleAssistant && next.Content != "" {
			return next.Content, true
		}
	}
	return "", false
}

// Suggestions returns distinct previous user messages starting with prefix
// (case-insensitive), most recent first, at most limit.
func (s *Session) Suggestions(prefix string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	p := strings.ToLower(prefix)
	seen := make(map[string]struct{})
	out := make([]string, 0, limit)
	for i := len(s.Messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := s.Messages[i]
		if m.Role != RoleUser || !strings.HasPrefix(strings.ToLower(m.Content), p) {
			continue
		}
		if _, dup := seen[m.Content]; dup {
			continue
		}
		seen[m.Content] = struct{}{}
		out = append(out, m.Content)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
