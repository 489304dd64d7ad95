package recipe

import (
	"context"
	"errors"
	"fmt"

	"secure-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// Generator produces free text for a prompt. Available is fixed at startup.
type Generator interface {
	Available() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// Source where the returned recipes came from
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// FallbackReason why the catalog was used instead of generated output
type FallbackReason string

const (
	ReasonNone               FallbackReason = ""
	ReasonBackendUnavailable FallbackReason = "backend_unavailable"
	ReasonGenerationFailed   FallbackReason = "generation_failed"
	ReasonExtractionFailed   FallbackReason = "extraction_failed"
	ReasonEmptyCollection    FallbackReason = "empty_collection"
)

// Result outcome of a recipe request; Recipes is never empty
type Result struct {
	Recipes []common.Recipe
	Source  Source
	Reason  FallbackReason
}

// Service generates and searches recipes, falling back to canned catalogs
type Service struct {
	generator Generator
	generate  *Catalog
	search    *Catalog
}

// NewService creates a recipe service; a nil generator is treated as unavailable
func NewService(generator Generator) *Service {
	return &Service{
		generator: generator,
		generate:  GenerateCatalog,
		search:    SearchCatalog,
	}
}

// GenerateRecipes returns two recipes built around ingredients
func (s *Service) GenerateRecipes(ctx context.Context, ingredients string) (*Result, error) {
	clean := common.Sanitize(ingredients)
	if clean == "" {
		return nil, common.ErrMissingIngredients
	}
	return s.run(ctx, clean, BuildGeneratePrompt(clean), s.generate), nil
}

// SearchRecipes returns up to three recipes matching query
func (s *Service) SearchRecipes(ctx context.Context, query string) (*Result, error) {
	clean := common.Sanitize(query)
	if clean == "" {
		return nil, common.ErrMissingQuery
	}
	return s.run(ctx, clean, BuildSearchPrompt(clean), s.search), nil
}

func (s *Service) run(ctx context.Context, input, prompt string, catalog *Catalog) *Result {
	op := catalog.Name()
	if s.generator == nil || !s.generator.Available() {
		common.LogDebug("Generation backend unavailable, using fallback catalog",
			zap.String("operation", op),
		)
		return fallback(catalog, input, ReasonBackendUnavailable)
	}

	text, err := s.callGenerator(ctx, prompt)
	if err != nil {
		common.LogWarn("Recipe generation failed, using fallback catalog",
			zap.String("operation", op),
			zap.Error(err),
		)
		return fallback(catalog, input, ReasonGenerationFailed)
	}

	recipes, err := ExtractRecipes(text)
	if err != nil {
		common.LogWarn("Could not parse generated recipes, using fallback catalog",
			zap.String("operation", op),
			zap.Error(err),
			zap.Int("response_length", len(text)),
		)
		common.LogDebug("Raw generated response", zap.String("response", text))
		return fallback(catalog, input, ReasonExtractionFailed)
	}

	if len(recipes) == 0 {
		common.LogWarn("Generated response held no recipes, using fallback catalog",
			zap.String("operation", op),
		)
		return fallback(catalog, input, ReasonEmptyCollection)
	}

	return &Result{Recipes: recipes, Source: SourceGenerated}
}

// callGenerator invokes the backend once and converts a panic into an error
func (s *Service) callGenerator(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()

	text, err = s.generator.Generate(ctx, prompt)
	if err == nil && text == "" {
		err = errors.New("empty response")
	}
	return text, err
}

func fallback(catalog *Catalog, input string, reason FallbackReason) *Result {
	return &Result{
		Recipes: catalog.Lookup(input),
		Source:  SourceFallback,
		Reason:  reason,
	}
}
