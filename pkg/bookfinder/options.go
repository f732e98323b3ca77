package bookfinder

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder   Embedder
	translator Translator

	topK           int
	lang           string
	corpusLanguage string
	indexName      string
	keyPrefix      string
	lexicalTTL     time.Duration
	embedTimeout   time.Duration
	indexTimeout   time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance with the search module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the query embedding provider. It must produce vectors
// of the same model the passages were indexed with.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithTranslator enables query translation into the corpus language.
func WithTranslator(t Translator) Option {
	return optionFunc(func(c *clientConfig) {
		c.translator = t
	})
}

// WithTopK sets the default number of books returned by Search. Default: 3.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithLanguage sets the default query language. Default: "vi".
func WithLanguage(lang string) Option {
	return optionFunc(func(c *clientConfig) {
		c.lang = lang
	})
}

// WithCorpusLanguage names the language of the indexed passages. Default: "en".
func WithCorpusLanguage(lang string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusLanguage = lang
	})
}

// WithIndex overrides the FT index name and passage key prefix.
func WithIndex(name, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
		c.keyPrefix = keyPrefix
	})
}

// WithLexicalCacheTTL reuses the loaded corpus for ttl. Zero (default) reloads per search.
func WithLexicalCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.lexicalTTL = ttl
	})
}

// WithTimeouts bounds the embedding call and the index queries. Zero means no bound.
func WithTimeouts(embed, index time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedTimeout = embed
		c.indexTimeout = index
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// SearchOption tunes a single Search call.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK int
	lang string
}

// Limit caps the number of books returned.
func Limit(k int) SearchOption {
	return func(s *searchConfig) { s.topK = k }
}

// Lang names the query language.
func Lang(lang string) SearchOption {
	return func(s *searchConfig) { s.lang = lang }
}
