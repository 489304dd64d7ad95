package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secure-recipe/internal/core/ai/gemini"
	"secure-recipe/internal/core/ai/openrouter"
	"secure-recipe/internal/core/ai/provider"
	"secure-recipe/internal/infrastructure/config"
	"secure-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrUnavailable no generation backend was resolved at startup
var ErrUnavailable = errors.New("generation backend unavailable")

// Service the process-wide generation backend handle. It is resolved once at
// startup and either wraps a provider or is permanently unavailable.
type Service struct {
	provider provider.Provider
	reason   string
}

// NewService resolves the configured provider. Resolution failures are logged
// and leave the service unavailable rather than failing startup.
func NewService(ctx context.Context, cfg *config.Config) *Service {
	p, err := resolveProvider(ctx, cfg)
	if err != nil {
		common.LogWarn("Generation backend unavailable, recipes will be served from the fallback catalog",
			zap.String("provider", cfg.AI.Provider),
			zap.Error(err),
		)
		return &Service{reason: err.Error()}
	}

	common.LogInfo("Generation backend ready",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", p.GetModel()),
	)
	return &Service{provider: p}
}

// NewWithProvider wraps an already constructed provider; nil yields an unavailable service
func NewWithProvider(p provider.Provider) *Service {
	if p == nil {
		return &Service{reason: "no provider configured"}
	}
	return &Service{provider: p}
}

func resolveProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		return gemini.NewClient(ctx, cfg.Gemini)
	case config.ProviderOpenRouter:
		return openrouter.NewClient(cfg.OpenRouter)
	case config.ProviderNone:
		return nil, errors.New("generation disabled by configuration")
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

// Available reports whether a backend was resolved
func (s *Service) Available() bool {
	return s != nil && s.provider != nil
}

// Model returns the resolved model id, empty when unavailable
func (s *Service) Model() string {
	if !s.Available() {
		return ""
	}
	return s.provider.GetModel()
}

// Reason explains why the service is unavailable
func (s *Service) Reason() string {
	if s == nil {
		return "not initialized"
	}
	return s.reason
}

// Generate calls the backend exactly once. A panic inside the provider is
// reported as an error so callers only ever deal with (text, error).
func (s *Service) Generate(ctx context.Context, prompt string) (text string, err error) {
	if !s.Available() {
		return "", ErrUnavailable
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation backend panicked: %v", r)
		}
		common.LogAICall(s.provider.GetModel(), time.Since(start), err, requestIDFrom(ctx))
	}()

	return s.provider.Generate(ctx, prompt)
}

// Close releases the provider
func (s *Service) Close() error {
	if !s.Available() {
		return nil
	}
	return s.provider.Close()
}

type requestIDKey struct{}

// WithRequestID attaches a request id used when logging backend calls
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
