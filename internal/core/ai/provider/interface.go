package provider

import (
	"context"
	"errors"
)

// ErrEmptyResponse the backend answered without any text
var ErrEmptyResponse = errors.New("empty response from generation backend")

// Provider a text generation backend: one prompt in, one text out
type Provider interface {
	// Generate sends prompt to the backend and returns its raw text answer
	Generate(ctx context.Context, prompt string) (string, error)

	// GetModel returns the model the provider resolved to
	GetModel() string

	// Close releases the provider's connections
	Close() error
}
