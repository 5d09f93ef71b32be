package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"seo-optimizer/internal/domain"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

const geminiSystemPrompt = `You are an e-commerce SEO copywriter.
Reply with a single JSON object with the string fields "title", "description", "metaTitle" and "metaDescription".
"description" is HTML suitable for a Shopify product page. "metaTitle" stays under 60 characters and
"metaDescription" under 160 characters. Do not invent product facts that are not in the input.`

// GeminiGenerator asks a Gemini model for suggestions
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

var _ MetadataGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a Gemini-backed generator
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Name identifies the generator in logs and history records
func (g *GeminiGenerator) Name() string {
	return "gemini:" + g.model
}

// Generate sends the product to the model and decodes its JSON answer
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.OptimizationRequest) (domain.MetadataSuggestion, error) {
	prompt := fmt.Sprintf("Product name: %s\nProduct description:\n%s", req.ProductName, req.ProductDescription)

	resp, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(geminiSystemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0.4),
		},
	)
	if err != nil {
		return domain.MetadataSuggestion{}, fmt.Errorf("gemini generate: %w", err)
	}

	return parseSuggestion(resp.Text())
}

type suggestionPayload struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

var errIncompleteSuggestion = errors.New("model answer is missing fields")

func parseSuggestion(raw string) (domain.MetadataSuggestion, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.MetadataSuggestion{}, fmt.Errorf("decode model answer: %w", err)
	}

	var missing []string
	if strings.TrimSpace(payload.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(payload.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(payload.MetaTitle) == "" {
		missing = append(missing, "metaTitle")
	}
	if strings.TrimSpace(payload.MetaDescription) == "" {
		missing = append(missing, "metaDescription")
	}
	if len(missing) > 0 {
		return domain.MetadataSuggestion{}, fmt.Errorf("%w: %s", errIncompleteSuggestion, strings.Join(missing, ", "))
	}

	return domain.MetadataSuggestion{
		Title:           payload.Title,
		Description:     payload.Description,
		MetaTitle:       payload.MetaTitle,
		MetaDescription: payload.MetaDescription,
	}, nil
}
