// Package generator produces SEO metadata suggestions for catalog products.
package generator

import (
	"context"
	"fmt"

	"seo-optimizer/internal/config"
	"seo-optimizer/internal/domain"
)

// MetadataGenerator derives SEO fields from a product name and plain-text description.
// Implementations may block on network calls and must honour ctx cancellation.
type MetadataGenerator interface {
	Generate(ctx context.Context, req domain.OptimizationRequest) (domain.MetadataSuggestion, error)
	Name() string
}

// New selects a generator backend from configuration
func New(ctx context.Context, cfg config.GeneratorConfig) (MetadataGenerator, error) {
	switch cfg.Backend {
	case "", "mock":
		return NewMockGenerator(cfg.MockLatency), nil
	case "gemini":
		return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown generator backend %q", cfg.Backend)
	}
}
