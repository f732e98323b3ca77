package domain

import (
	"errors"
)

var (
	// ErrInvalidQuery signals an empty or malformed search request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidInput signals a malformed request outside the search path.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIndexUnavailable signals that the vector index cannot be reached or opened.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrEmptyIndex signals a corpus with zero documents. Retrieval turns it into an empty result.
	ErrEmptyIndex = errors.New("empty index")
	// ErrEmbeddingTimeout signals that the embedding provider did not answer in time.
	ErrEmbeddingTimeout = errors.New("embedding timeout")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrTranslationFailure signals a failed query translation.
	ErrTranslationFailure = errors.New("translation failure")
	// ErrLLMProviderError signals a chat completion failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrWebSearchFailure signals a failed web search.
	ErrWebSearchFailure = errors.New("web search failure")
	// ErrSessionNotFound signals a missing chat session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)
