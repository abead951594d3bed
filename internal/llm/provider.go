package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
)

// ImageProvider is the external generation capability.
// Implementations submit an ordered list of content parts and ask for an image-modality answer.
type ImageProvider interface {
	// Generate performs exactly one blocking call. Any error it returns is a transport,
	// authentication or malformed-response failure.
	Generate(ctx context.Context, request *ImageRequest) (*models.RawResponse, error)

	// Name returns the provider name (e.g., "gemini", "openai")
	Name() string
}

// ImageRequest contains everything a provider needs for one call
type ImageRequest struct {
	Model string
	Mode  models.EditMode
	Parts []models.ContentPart
}

// ErrMissingCredential is returned when a provider has no API key configured
var ErrMissingCredential = errors.New("API key not configured")

// unavailableProvider fails every call; it stands in for a provider whose credential is missing
// so the failure surfaces per request instead of at startup.
type unavailableProvider struct {
	name string
	err  error
}

// NewUnavailableProvider returns a provider that always fails with err
func NewUnavailableProvider(name string, err error) ImageProvider {
	return &unavailableProvider{name: name, err: err}
}

func (p *unavailableProvider) Name() string {
	return p.name
}

func (p *unavailableProvider) Generate(_ context.Context, _ *ImageRequest) (*models.RawResponse, error) {
	return nil, fmt.Errorf("%s provider unavailable: %w", p.name, p.err)
}

// describeParts summarises a part list for logs without dumping image bytes
func describeParts(parts []models.ContentPart) string {
	images, texts := 0, 0
	for _, part := range parts {
		switch part.(type) {
		case models.ImagePart:
			images++
		case models.TextPart:
			texts++
		}
	}
	return fmt.Sprintf("%d image(s), %d text part(s)", images, texts)
}
