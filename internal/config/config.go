package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the bookfinder API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	LLM        LLMConfig        `yaml:"llm"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Session    SessionConfig    `yaml:"session"`
	WebSearch  WebSearchConfig  `yaml:"websearch"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
	RateLimitRPS    float64  `yaml:"rate_limit_rps"` // 0 = unlimited
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider         string `yaml:"provider"`
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
	CacheTTLHours    int    `yaml:"cache_ttl_hours"` // 0 = keep forever
}

// LLMConfig holds chat completion settings.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// RetrievalConfig holds hybrid retrieval settings.
type RetrievalConfig struct {
	DefaultTopK        int    `yaml:"default_top_k"`
	DefaultLanguage    string `yaml:"default_language"`
	CorpusLanguage     string `yaml:"corpus_language"`
	EmbedTimeoutSec    int    `yaml:"embed_timeout_sec"`
	IndexTimeoutSec    int    `yaml:"index_timeout_sec"`
	LexicalCacheTTLSec int    `yaml:"lexical_cache_ttl_sec"` // 0 = rebuild per call
	IndexName          string `yaml:"index_name"`
	KeyPrefix          string `yaml:"key_prefix"`
}

// SessionConfig holds chat session settings.
type SessionConfig struct {
	TTLHours int `yaml:"ttl_hours"` // 0 = keep until deleted
}

// WebSearchConfig holds web search settings.
type WebSearchConfig struct {
	Endpoint   string `yaml:"endpoint"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxResults int    `yaml:"max_results"`
}

// ResilienceConfig holds retry and circuit breaker settings for outbound calls.
type ResilienceConfig struct {
	RetryMaxAttempts        int     `yaml:"retry_max_attempts"`
	RetryInitialBackoffMs   int     `yaml:"retry_initial_backoff_ms"`
	RetryMaxBackoffMs       int     `yaml:"retry_max_backoff_ms"`
	BreakerDisabled         bool    `yaml:"breaker_disabled"`
	BreakerMinRequests      uint32  `yaml:"breaker_min_requests"`
	BreakerFailureRatio     float64 `yaml:"breaker_failure_ratio"`
	BreakerOpenTimeoutSec   int     `yaml:"breaker_open_timeout_sec"`
	BreakerHalfOpenMaxCalls uint32  `yaml:"breaker_half_open_max_calls"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.RateLimitRPS > 0 && c.HTTP.RateLimitBurst <= 0 {
		c.HTTP.RateLimitBurst = max(1, int(c.HTTP.RateLimitRPS))
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Retrieval.DefaultTopK <= 0 {
		c.Retrieval.DefaultTopK = 3
	}
	if c.Retrieval.DefaultLanguage == "" {
		c.Retrieval.DefaultLanguage = "vi"
	}
	if c.Retrieval.CorpusLanguage == "" {
		c.Retrieval.CorpusLanguage = "en"
	}
	if c.Retrieval.EmbedTimeoutSec <= 0 {
		c.Retrieval.EmbedTimeoutSec = 10
	}
	if c.Retrieval.IndexTimeoutSec <= 0 {
		c.Retrieval.IndexTimeoutSec = 5
	}
	if c.Retrieval.IndexName == "" {
		c.Retrieval.IndexName = "bookfinder:books:idx"
	}
	if c.Retrieval.KeyPrefix == "" {
		c.Retrieval.KeyPrefix = "bookfinder:books:"
	}
	if c.WebSearch.TimeoutSec <= 0 {
		c.WebSearch.TimeoutSec = 10
	}
	if c.WebSearch.MaxResults <= 0 {
		c.WebSearch.MaxResults = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("http.rate_limit_rps must not be negative, got %v", c.HTTP.RateLimitRPS)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.Retrieval.LexicalCacheTTLSec < 0 {
		return fmt.Errorf("retrieval.lexical_cache_ttl_sec must not be negative, got %d", c.Retrieval.LexicalCacheTTLSec)
	}
	if r := c.Resilience.BreakerFailureRatio; r < 0 || r > 1 {
		return fmt.Errorf("resilience.breaker_failure_ratio must be between 0 and 1, got %v", r)
	}
	return nil
}

// EmbedTimeout returns the embedding deadline.
func (r RetrievalConfig) EmbedTimeout() time.Duration {
	return time.Duration(r.EmbedTimeoutSec) * time.Second
}

// IndexTimeout returns the vector index deadline.
func (r RetrievalConfig) IndexTimeout() time.Duration {
	return time.Duration(r.IndexTimeoutSec) * time.Second
}

// LexicalCacheTTL returns how long a corpus snapshot is reused.
func (r RetrievalConfig) LexicalCacheTTL() time.Duration {
	return time.Duration(r.LexicalCacheTTLSec) * time.Second
}

// TTL returns the session lifetime; zero means no expiry.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
