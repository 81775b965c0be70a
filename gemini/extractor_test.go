package gemini_test

import (
	"testing"

	"github.com/beanatlas/beanatlas/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalogPrompt(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildCatalogPrompt("Test Roasters", []string{
		"https://roaster.example/products/guji-natural",
		"https://roaster.example/products/la-palma",
	})

	assert.Contains(t, prompt, "Roaster: Test Roasters")
	assert.Contains(t, prompt, "https://roaster.example/products/guji-natural")
	assert.Contains(t, prompt, "https://roaster.example/products/la-palma")
	assert.Contains(t, prompt, "<urls>")
	assert.Contains(t, prompt, "</urls>")
}

func TestBuildProductPrompt(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildProductPrompt(
		"Guji Natural. Tasting notes: blueberry, rose.",
		"Test Roasters",
		"https://roaster.example/products/guji-natural",
	)

	assert.Contains(t, prompt, "Roaster: Test Roasters")
	assert.Contains(t, prompt, "URL: https://roaster.example/products/guji-natural")
	assert.Contains(t, prompt, "Tasting notes: blueberry, rose.")
	assert.Contains(t, prompt, "<page>")
	assert.Contains(t, prompt, "</page>")
}

func TestBuildCatalogConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildCatalogConfig()
	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.ResponseSchema)
	assert.NotNil(t, config.ResponseSchema.Items, "catalog responses are arrays")
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, *config.Temperature, 0.001)
}

func TestBuildProductConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildProductConfig()
	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.ResponseSchema)
	assert.Nil(t, config.ResponseSchema.Items, "product responses are single objects")
	assert.Contains(t, config.ResponseSchema.Properties, "name")
	assert.Contains(t, config.ResponseSchema.Properties, "tastingNotes")
}
