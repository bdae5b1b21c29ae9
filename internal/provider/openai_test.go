package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProvider_NoAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewOpenAIProvider(context.Background(), &OpenAIConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestOpenAIProvider_Defaults(t *testing.T) {
	p, err := NewOpenAIProvider(context.Background(), &OpenAIConfig{
		APIKey: "test-key",
	})
	require.NoError(t, err)

	assert.Equal(t, "openai", p.ID())
	assert.Equal(t, "OpenAI", p.Name())
	assert.Equal(t, "gpt-4o", p.config.Model)
	assert.Equal(t, 4096, p.config.MaxTokens)
	assert.NotNil(t, p.ChatModel())
}

func TestOpenAIProvider_Models(t *testing.T) {
	p, err := NewOpenAIProvider(context.Background(), &OpenAIConfig{
		APIKey: "test-key",
	})
	require.NoError(t, err)

	models := p.Models()
	require.NotEmpty(t, models)
	for _, m := range models {
		assert.Equal(t, "openai", m.ProviderID)
		assert.True(t, m.SupportsTools)
	}
}

func TestOpenAIProvider_AzureRequiresKey(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewOpenAIProvider(context.Background(), &OpenAIConfig{UseAzure: true})
	require.Error(t, err)
}

func TestOpenAIProvider_ChatModelFor(t *testing.T) {
	p, err := NewOpenAIProvider(context.Background(), &OpenAIConfig{
		APIKey: "test-key",
	})
	require.NoError(t, err)

	cm, err := p.ChatModelFor(context.Background(), "gpt-4o-mini")
	require.NoError(t, err)
	assert.NotNil(t, cm)
}
