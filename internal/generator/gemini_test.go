package generator

import (
	"context"
	"errors"
	"testing"

	"seo-optimizer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestion(t *testing.T) {
	raw := "```json\n" + `{"title":"Blue Mug","description":"<p>Glazed.</p>","metaTitle":"Buy Blue Mug","metaDescription":"A glazed mug."}` + "\n```"

	s, err := parseSuggestion(raw)
	require.NoError(t, err)
	assert.Equal(t, "Blue Mug", s.Title)
	assert.Equal(t, "<p>Glazed.</p>", s.Description)
	assert.Equal(t, "Buy Blue Mug", s.MetaTitle)
	assert.Equal(t, "A glazed mug.", s.MetaDescription)
}

func TestParseSuggestion_RejectsIncompleteAnswers(t *testing.T) {
	_, err := parseSuggestion(`{"title":"Blue Mug","description":""}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errIncompleteSuggestion))
	assert.Contains(t, err.Error(), "description, metaTitle, metaDescription")

	_, err = parseSuggestion("not json")
	assert.Error(t, err)
}

func TestNew_SelectsBackend(t *testing.T) {
	g, err := New(context.Background(), config.GeneratorConfig{Backend: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &MockGenerator{}, g)

	_, err = New(context.Background(), config.GeneratorConfig{Backend: "gemini"})
	assert.Error(t, err, "gemini without an API key must fail")

	_, err = New(context.Background(), config.GeneratorConfig{Backend: "gpt-9"})
	assert.Error(t, err)
}
