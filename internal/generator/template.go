package generator

import (
	"context"
	"time"

	"seo-optimizer/internal/domain"
)

// TemplatePolicy names the template wording below. Bump it if the wording changes.
const TemplatePolicy = "template-v1"

// DefaultMockLatency mirrors the round trip of a hosted model
const DefaultMockLatency = time.Second

// TemplateSuggestion applies the template policy. It is pure and total.
func TemplateSuggestion(name, description string) domain.MetadataSuggestion {
	return domain.MetadataSuggestion{
		Title: "[SEO] " + name + " - Premium Quality",
		Description: description + "\n\n" +
			"Experience the best with our handcrafted " + name +
			". Designed for modern living, this product combines " +
			"style and functionality seamlessly. Get yours today!",
		MetaTitle: "Buy " + name + " - Top Rated & Affordable",
		MetaDescription: "Discover the best " + name + " online. High quality, " +
			"great prices, and fast shipping. Shop now!",
	}
}

// MockGenerator returns TemplateSuggestion after a simulated delay
type MockGenerator struct {
	latency time.Duration
}

var _ MetadataGenerator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock generator; a negative latency is treated as zero.
func NewMockGenerator(latency time.Duration) *MockGenerator {
	if latency < 0 {
		latency = 0
	}
	return &MockGenerator{latency: latency}
}

// Name identifies the generator in logs and history records
func (g *MockGenerator) Name() string {
	return "mock:" + TemplatePolicy
}

// Generate waits for the configured latency, then applies the template
func (g *MockGenerator) Generate(ctx context.Context, req domain.OptimizationRequest) (domain.MetadataSuggestion, error) {
	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return domain.MetadataSuggestion{}, ctx.Err()
		case <-timer.C:
		}
	}

	return TemplateSuggestion(req.ProductName, req.ProductDescription), nil
}
