package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"secure-recipe/internal/core/ai/provider"
	"secure-recipe/internal/infrastructure/config"
	"secure-recipe/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrMissingAPIKey no OpenRouter key configured
var ErrMissingAPIKey = errors.New("openrouter api key is not configured")

// Message chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request chat completion request
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Response chat completion response
type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Usage   UsageInfo `json:"usage"`
}

// Choice completion choice
type Choice struct {
	Message Message `json:"message"`
}

// UsageInfo token usage
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Error API error body
type Error struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// Client OpenRouter chat completion client
type Client struct {
	client    *resty.Client
	model     string
	maxTokens int
}

var _ provider.Provider = (*Client)(nil)

// NewClient creates an OpenRouter client
func NewClient(cfg config.OpenRouterConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://secure-recipe.app").
		SetHeader("X-Title", "SecureRecipe")

	return &Client{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Generate sends prompt as a single user message and returns the first choice
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := &Request{
		Model: c.model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", c.model),
		zap.Int("prompt_length", len(prompt)),
	)

	var result Response
	var apiErr Error
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", fmt.Errorf("OpenRouter API error (status %d): %s", resp.StatusCode(), msg)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response: %w", provider.ErrEmptyResponse)
	}

	content := result.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", provider.ErrEmptyResponse
	}

	common.LogDebug("OpenRouter response received",
		zap.String("model", c.model),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	return content, nil
}

// GetModel returns the configured model
func (c *Client) GetModel() string {
	return c.model
}

// Close releases idle connections
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
