// ABOUTME: OpenAI client for drafting referee training notes
// ABOUTME: Turns the deterministic considerations summary into prose (model configurable)
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/review-console/internal/config"
	"github.com/harper/review-console/internal/util"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
)

// ErrNoAPIKey is returned when drafting is requested without credentials
var ErrNoAPIKey = errors.New("OpenAI API key is required")

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  DefaultChatModel,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// ConfigFrom maps application config onto client config
func ConfigFrom(cfg *config.Config) *ClientConfig {
	cc := DefaultConfig(cfg.OpenAIKey)
	cc.BaseURL = cfg.OpenAIBaseURL
	if cfg.ChatModel != "" {
		cc.ChatModel = cfg.ChatModel
	}
	if cfg.Timeout > 0 {
		cc.Timeout = cfg.Timeout
	}
	cc.MaxRetries = cfg.MaxRetries
	cc.RetryDelay = cfg.RetryDelay
	return cc
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(cfg *ClientConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		chatModel:  cfg.ChatModel,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Model returns the chat model used for drafting
func (c *OpenAIClient) Model() string {
	return c.chatModel
}

const draftPrompt = `You are a referee instructor. You will receive the decisions a reviewer
selected for one video clip and the incident topics they tagged, each optionally graded
as correct, incorrect, or debatable.

Write a short training note (at most 120 words) for the referee involved. Refer only to
the decisions and topics provided. Do not invent facts about the incident. Plain text only.`

// DraftConsiderations asks the chat model to turn a considerations summary into a training note
func (c *OpenAIClient) DraftConsiderations(ctx context.Context, summary string) (string, error) {
	userPrompt := fmt.Sprintf("Reviewer selections:\n\n%s", summary)

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: draftPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			Temperature: 0.3,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			lastErr = fmt.Errorf("attempt %d: empty completion", attempt+1)
			continue
		}

		return content, nil
	}

	return "", fmt.Errorf("failed to draft considerations after %d attempts: %w", c.maxRetries+1, lastErr)
}
