package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/bookfinder/internal/domain"
)

const translatePrompt = "You are a translation engine. Translate the user's text from %s to %s. " +
	"Reply with the translation only, without quotes, notes or explanations."

var languageNames = map[string]string{
	"vi": "Vietnamese",
	"en": "English",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
	"ja": "Japanese",
	"zh": "Chinese",
}

type completer interface {
	Complete(ctx context.Context, operation, system, user string) (string, error)
}

// Translator translates short queries through the chat model.
type Translator struct {
	chat completer
}

// NewTranslator creates a chat-backed translator.
func NewTranslator(chat completer) *Translator {
	return &Translator{chat: chat}
}

// Translate converts text between language codes. Same-language calls return text unchanged.
func (t *Translator) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.EqualFold(from, to) || strings.TrimSpace(text) == "" {
		return text, nil
	}

	out, err := t.chat.Complete(ctx, "translate", fmt.Sprintf(translatePrompt, languageName(from), languageName(to)), text)
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w: %w", from, to, domain.ErrTranslationFailure, err)
	}
	out = strings.Trim(strings.TrimSpace(out), "\"")
	if out == "" {
		return "", fmt.Errorf("translate %s->%s: empty reply: %w", from, to, domain.ErrTranslationFailure)
	}
	return out, nil
}

func languageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
