package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// ProviderFactory creates image providers based on model name or explicit provider choice
type ProviderFactory struct {
	geminiAPIKey  string
	geminiBaseURL string
	openaiAPIKey  string
	openaiBaseURL string
}

// ProviderCredentials are the explicit credentials handed to the factory
type ProviderCredentials struct {
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(creds ProviderCredentials) *ProviderFactory {
	return &ProviderFactory{
		geminiAPIKey:  creds.GeminiAPIKey,
		geminiBaseURL: creds.GeminiBaseURL,
		openaiAPIKey:  creds.OpenAIAPIKey,
		openaiBaseURL: creds.OpenAIBaseURL,
	}
}

// GetProvider returns the provider for the given model/provider name.
// A missing API key yields a provider that fails each call rather than an error here.
func (f *ProviderFactory) GetProvider(ctx context.Context, model, providerName string) (ImageProvider, error) {
	if providerName != "" {
		return f.getProviderByName(ctx, providerName)
	}
	return f.getProviderByName(ctx, InferProviderName(model))
}

// InferProviderName maps a model name onto a provider name
func InferProviderName(model string) string {
	modelLower := strings.ToLower(model)
	if strings.HasPrefix(modelLower, "gpt-image") || strings.HasPrefix(modelLower, "dall-e") {
		return providerNameOpenAI
	}
	return providerNameGemini
}

func (f *ProviderFactory) getProviderByName(ctx context.Context, providerName string) (ImageProvider, error) {
	switch strings.ToLower(providerName) {
	case providerNameGemini:
		if f.geminiAPIKey == "" {
			log.Printf("⚠️  Gemini API key not configured; image requests will fail")
			return NewUnavailableProvider(providerNameGemini, ErrMissingCredential), nil
		}
		return NewGeminiProvider(ctx, f.geminiAPIKey, f.geminiBaseURL)

	case providerNameOpenAI:
		if f.openaiAPIKey == "" {
			log.Printf("⚠️  OpenAI API key not configured; image requests will fail")
			return NewUnavailableProvider(providerNameOpenAI, ErrMissingCredential), nil
		}
		return NewOpenAIProvider(f.openaiAPIKey, f.openaiBaseURL), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s (allowed: gemini, openai)", providerName)
	}
}

// ResolveName returns the provider GetProvider would build for model/providerName
func ResolveName(model, providerName string) string {
	if providerName != "" {
		return strings.ToLower(providerName)
	}
	return InferProviderName(model)
}

// HasCredential reports whether an API key is configured for providerName
func (f *ProviderFactory) HasCredential(providerName string) bool {
	switch strings.ToLower(providerName) {
	case providerNameGemini:
		return f.geminiAPIKey != ""
	case providerNameOpenAI:
		return f.openaiAPIKey != ""
	default:
		return false
	}
}
