package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"

	// DefaultGeminiImageModel is the image-capable Gemini model used when none is configured
	DefaultGeminiImageModel = "gemini-2.5-flash-image"
)

var errNilGeminiResponse = errors.New("gemini returned no response body")

// GeminiProvider implements ImageProvider using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider. baseURL is optional and only
// overrides the API endpoint (proxies, tests).
func NewGeminiProvider(ctx context.Context, apiKey, baseURL string) (*GeminiProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Generate sends the parts as a single user turn and requests an IMAGE response
func (p *GeminiProvider) Generate(ctx context.Context, request *ImageRequest) (*models.RawResponse, error) {
	startTime := time.Now()
	log.Printf("🎨 GEMINI IMAGE REQUEST STARTED (Model: %s, Mode: %s, Parts: %s)",
		request.Model, request.Mode, describeParts(request.Parts))

	transaction := sentry.StartTransaction(ctx, "gemini.generate_image")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)
	transaction.SetTag("mode", string(request.Mode))

	contents, err := p.buildGeminiContents(request.Parts)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("failed to build Gemini contents: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage)},
	}

	span := transaction.StartChild("gemini.api_call")
	apiStartTime := time.Now()
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ GEMINI REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	log.Printf("⏱️  GEMINI API CALL COMPLETED in %v", apiDuration)

	response, err := p.convertGeminiResponse(request.Model, result)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}

	transaction.SetTag("success", "true")
	log.Printf("✅ GEMINI IMAGE REQUEST COMPLETED in %v (candidates: %d)", time.Since(startTime), len(response.Candidates))
	return response, nil
}

// buildGeminiContents maps our parts onto one user Content, preserving order
func (p *GeminiProvider) buildGeminiContents(parts []models.ContentPart) ([]*genai.Content, error) {
	if len(parts) == 0 {
		return nil, errors.New("no content parts to send")
	}

	geminiParts := make([]*genai.Part, 0, len(parts))
	for i, part := range parts {
		switch v := part.(type) {
		case models.ImagePart:
			geminiParts = append(geminiParts, genai.NewPartFromBytes(v.Image.Data(), v.Image.MIMEType()))
		case models.TextPart:
			geminiParts = append(geminiParts, genai.NewPartFromText(v.Text))
		default:
			return nil, fmt.Errorf("unsupported content part %d of type %T", i, part)
		}
	}

	return []*genai.Content{genai.NewContentFromParts(geminiParts, genai.RoleUser)}, nil
}

// convertGeminiResponse copies candidates and their inline-data/text parts into a RawResponse.
// Parts that carry neither text nor bytes (e.g. thought signatures) are dropped.
func (p *GeminiProvider) convertGeminiResponse(
	model string,
	result *genai.GenerateContentResponse,
) (*models.RawResponse, error) {
	if result == nil {
		return nil, errNilGeminiResponse
	}

	response := &models.RawResponse{Model: model}
	if result.ModelVersion != "" {
		response.Model = result.ModelVersion
	}

	for _, candidate := range result.Candidates {
		if candidate == nil {
			continue
		}
		converted := models.Candidate{FinishReason: string(candidate.FinishReason)}
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part == nil {
					continue
				}
				switch {
				case part.InlineData != nil && len(part.InlineData.Data) > 0:
					converted.Parts = append(converted.Parts, models.ImagePart{
						Image: models.NewImagePayload(part.InlineData.Data, part.InlineData.MIMEType),
					})
				case part.Text != "":
					converted.Parts = append(converted.Parts, models.TextPart{Text: part.Text})
				}
			}
		}
		response.Candidates = append(response.Candidates, converted)
	}

	if result.UsageMetadata != nil {
		log.Printf("📊 GEMINI USAGE: input=%d, output=%d, total=%d",
			result.UsageMetadata.PromptTokenCount,
			result.UsageMetadata.CandidatesTokenCount,
			result.UsageMetadata.TotalTokenCount)
		response.Usage = &models.Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return response, nil
}
