package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"secure-recipe/internal/core/ai/provider"
	"secure-recipe/internal/infrastructure/config"
	"secure-recipe/internal/pkg/common"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	// ErrMissingAPIKey no Gemini key configured
	ErrMissingAPIKey = errors.New("gemini api key is not configured")
	// ErrNoModels the model list is empty
	ErrNoModels = errors.New("no gemini models configured")
)

// modelsAPI the subset of genai.Models the client needs
type modelsAPI interface {
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client Gemini text generation client bound to a single resolved model
type Client struct {
	models modelsAPI
	model  string
}

var _ provider.Provider = (*Client)(nil)

// NewClient connects to the Gemini API and resolves the first usable model from cfg.Models
func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newClient(ctx, client.Models, cfg.Models, cfg.ProbeModels)
}

func newClient(ctx context.Context, models modelsAPI, candidates []string, probe bool) (*Client, error) {
	model, err := resolveModel(ctx, models, candidates, probe)
	if err != nil {
		return nil, err
	}
	return &Client{models: models, model: model}, nil
}

// resolveModel walks candidates in order and keeps the first the API knows about.
// Without probing the first candidate is taken as-is.
func resolveModel(ctx context.Context, models modelsAPI, candidates []string, probe bool) (string, error) {
	var names []string
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			names = append(names, c)
		}
	}
	if len(names) == 0 {
		return "", ErrNoModels
	}
	if !probe {
		return names[0], nil
	}

	var lastErr error
	for _, name := range names {
		if _, err := models.Get(ctx, name, nil); err != nil {
			common.LogWarn("Gemini model unavailable",
				zap.String("model", name),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		common.LogInfo("Using Gemini model", zap.String("model", name))
		return name, nil
	}
	return "", fmt.Errorf("no usable gemini model among %v: %w", names, lastErr)
}

// Generate sends prompt as a single user turn and returns the response text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return "", provider.ErrEmptyResponse
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", provider.ErrEmptyResponse
	}
	return text, nil
}

// GetModel returns the resolved model id
func (c *Client) GetModel() string {
	return c.model
}

// Close is a no-op; the genai client holds no long-lived connections of its own
func (c *Client) Close() error {
	return nil
}
