package bookfinder

import "github.com/kailas-cloud/bookfinder/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrIndexUnavailable       = domain.ErrIndexUnavailable
	ErrEmbeddingTimeout       = domain.ErrEmbeddingTimeout
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
