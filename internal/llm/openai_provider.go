package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/stylist-api/internal/media"
	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	providerNameOpenAI = "openai"

	// DefaultOpenAIImageModel is used when an OpenAI model is requested without a name
	DefaultOpenAIImageModel = "gpt-image-1"

	referenceFileName = "reference"
	maskFileName      = "mask"
)

var (
	errNoPrompt       = errors.New("image edit requires a text prompt")
	errNoImage        = errors.New("image edit requires a reference image")
	errTooManyImages  = errors.New("image edit accepts at most a reference image and a mask")
	errNilOpenAIReply = errors.New("openai returned no response body")
)

// OpenAIProvider implements ImageProvider using OpenAI's image edit endpoint.
// The second image part, when present, is sent as the edit mask.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client: &client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Generate submits an image edit and returns every produced image as parts of one candidate
func (p *OpenAIProvider) Generate(ctx context.Context, request *ImageRequest) (*models.RawResponse, error) {
	startTime := time.Now()
	log.Printf("🎨 OPENAI IMAGE EDIT STARTED (Model: %s, Mode: %s, Parts: %s)",
		request.Model, request.Mode, describeParts(request.Parts))

	transaction := sentry.StartTransaction(ctx, "openai.edit_image")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)
	transaction.SetTag("mode", string(request.Mode))

	params, err := buildImageEditParams(request)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("failed to build OpenAI image edit: %w", err)
	}

	span := transaction.StartChild("openai.api_call")
	apiStartTime := time.Now()
	resp, err := p.client.Images.Edit(ctx, params)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ OPENAI IMAGE EDIT FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	response, err := convertOpenAIImages(request.Model, resp)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}

	transaction.SetTag("success", "true")
	log.Printf("✅ OPENAI IMAGE EDIT COMPLETED in %v", time.Since(startTime))
	return response, nil
}

// buildImageEditParams maps [reference, mask?, text...] onto the edit form fields
func buildImageEditParams(request *ImageRequest) (openai.ImageEditParams, error) {
	var images []models.ImagePayload
	var texts []string

	for i, part := range request.Parts {
		switch v := part.(type) {
		case models.ImagePart:
			images = append(images, v.Image)
		case models.TextPart:
			texts = append(texts, v.Text)
		default:
			return openai.ImageEditParams{}, fmt.Errorf("unsupported content part %d of type %T", i, part)
		}
	}

	if len(images) == 0 {
		return openai.ImageEditParams{}, errNoImage
	}
	if len(images) > 2 {
		return openai.ImageEditParams{}, errTooManyImages
	}
	if len(texts) == 0 {
		return openai.ImageEditParams{}, errNoPrompt
	}

	model := request.Model
	if model == "" {
		model = DefaultOpenAIImageModel
	}

	params := openai.ImageEditParams{
		Image: openai.ImageEditParamsImageUnion{
			OfFile: uploadFile(images[0], referenceFileName),
		},
		Prompt: strings.Join(texts, "\n\n"),
		Model:  openai.ImageModel(model),
		N:      openai.Int(1),
	}
	if len(images) == 2 {
		params.Mask = uploadFile(images[1], maskFileName)
	}
	// gpt-image models always answer with base64; dall-e-2 needs to be asked
	if params.Model == openai.ImageModelDallE2 {
		params.ResponseFormat = openai.ImageEditParamsResponseFormatB64JSON
	}

	return params, nil
}

func uploadFile(image models.ImagePayload, name string) io.Reader {
	ext := media.AllowedMIMEs[image.MIMEType()]
	if ext == "" {
		ext = "png"
	}
	return openai.File(bytes.NewReader(image.Data()), name+"."+ext, image.MIMEType())
}

// convertOpenAIImages decodes base64 images; URLs are ignored because the result must be inline
func convertOpenAIImages(model string, resp *openai.ImagesResponse) (*models.RawResponse, error) {
	if resp == nil {
		return nil, errNilOpenAIReply
	}

	response := &models.RawResponse{Model: model}
	if len(resp.Data) == 0 {
		return response, nil
	}

	candidate := models.Candidate{}
	for i, img := range resp.Data {
		if img.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("malformed image %d in openai response: %w", i, err)
		}
		candidate.Parts = append(candidate.Parts, models.ImagePart{
			Image: models.NewImagePayload(data, media.DetectMIME(data)),
		})
		if img.RevisedPrompt != "" {
			candidate.Parts = append(candidate.Parts, models.TextPart{Text: img.RevisedPrompt})
		}
	}
	response.Candidates = []models.Candidate{candidate}

	return response, nil
}
