package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferProviderName(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gemini-2.5-flash-image", "gemini"},
		{"gemini-2.0-flash-exp", "gemini"},
		{"gpt-image-1", "openai"},
		{"GPT-Image-1", "openai"},
		{"dall-e-2", "openai"},
		{"", "gemini"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, InferProviderName(tt.model))
		})
	}
}

func TestProviderFactory_GetProvider(t *testing.T) {
	ctx := context.Background()
	factory := NewProviderFactory(ProviderCredentials{
		GeminiAPIKey: "gemini-key",
		OpenAIAPIKey: "openai-key",
	})

	p, err := factory.GetProvider(ctx, "gemini-2.5-flash-image", "")
	require.NoError(t, err)
	assert.IsType(t, &GeminiProvider{}, p)

	p, err = factory.GetProvider(ctx, "gpt-image-1", "")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	p, err = factory.GetProvider(ctx, "gemini-2.5-flash-image", "OpenAI")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestProviderFactory_MissingKey(t *testing.T) {
	factory := NewProviderFactory(ProviderCredentials{})

	p, err := factory.GetProvider(context.Background(), "gemini-2.5-flash-image", "")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())

	_, err = p.Generate(context.Background(), &ImageRequest{})
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestProviderFactory_UnknownProvider(t *testing.T) {
	factory := NewProviderFactory(ProviderCredentials{GeminiAPIKey: "k"})
	_, err := factory.GetProvider(context.Background(), "m", "anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestProviderFactory_HasCredential(t *testing.T) {
	factory := NewProviderFactory(ProviderCredentials{OpenAIAPIKey: "k"})

	assert.True(t, factory.HasCredential(ResolveName("gpt-image-1", "")))
	assert.False(t, factory.HasCredential(ResolveName("gemini-2.5-flash-image", "")))
	assert.True(t, factory.HasCredential(ResolveName("gemini-2.5-flash-image", "OPENAI")))
	assert.False(t, factory.HasCredential("anthropic"))
}
