package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookfinder/internal/domain"
	"github.com/kailas-cloud/bookfinder/internal/metrics"
	"github.com/kailas-cloud/bookfinder/internal/resilience"
)

// ChatConfig holds the chat completion settings.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Logger      *zap.Logger
}

// ChatClient sends single-turn prompts to an OpenAI-compatible chat completion API.
type ChatClient struct {
	client      *openai.Client
	model       string
	temperature float32
	exec        *resilience.Executor
	logger      *zap.Logger
}

// NewChatClient creates a chat client. exec may be nil to call the API without retries.
func NewChatClient(cfg *ChatConfig, exec *resilience.Executor) *ChatClient {
	return &ChatClient{
		client:      newClient(cfg.APIKey, cfg.BaseURL),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		exec:        exec,
		logger:      cfg.Logger,
	}
}

// Complete sends the system and user prompts and returns the trimmed reply.
// operation labels metrics and selects the circuit breaker.
func (c *ChatClient) Complete(ctx context.Context, operation, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, 2),
	}
	if system != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user})

	start := time.Now()
	call := func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return c.client.CreateChatCompletion(ctx, req) //nolint:wrapcheck // classified below
	}

	var (
		resp openai.ChatCompletionResponse
		err  error
	)
	if c.exec != nil {
		resp, err = resilience.Do(ctx, c.exec, "llm."+operation, classifyError, call)
	} else {
		resp, err = call(ctx)
	}
	metrics.LLMRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(operation, "error").Inc()
		c.logger.Warn("Chat completion failed",
			zap.String("operation", operation),
			zap.String("model", c.model),
			zap.Error(err),
		)
		if resilience.IsCircuitOpen(err) {
			return "", fmt.Errorf("%s: circuit open: %w: %w", operation, domain.ErrLLMProviderError, err)
		}
		return "", parseAPIError("chat", err, domain.ErrLLMProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("%s: empty completion: %w", operation, domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(operation, "success").Inc()
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(operation, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(operation, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability via ListModels.
func (c *ChatClient) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// classifyError retries throttling, server errors and network failures.
// Client-side cancellation is neither retried nor held against the provider.
func classifyError(err error) resilience.Classification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Classification{}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}
	if code := statusCode(err); code != 0 {
		retry := code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		return resilience.Classification{Retryable: retry, RecordFailure: retry}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}
	return resilience.Classification{Retryable: false, RecordFailure: true}
}
