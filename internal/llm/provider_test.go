package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider is a test implementation of the ImageProvider interface
type MockProvider struct {
	name         string
	generateFunc func(ctx context.Context, request *ImageRequest) (*models.RawResponse, error)
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Generate(ctx context.Context, request *ImageRequest) (*models.RawResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, request)
	}
	return &models.RawResponse{}, nil
}

func TestProviderInterface(t *testing.T) {
	var p ImageProvider = &MockProvider{name: "mock"}
	assert.Equal(t, "mock", p.Name())
}

func TestMockProviderGenerate(t *testing.T) {
	callCount := 0
	mock := &MockProvider{
		name: "test",
		generateFunc: func(_ context.Context, request *ImageRequest) (*models.RawResponse, error) {
			callCount++
			require.Equal(t, "test-model", request.Model)
			require.Len(t, request.Parts, 2)
			return &models.RawResponse{Model: request.Model}, nil
		},
	}

	req := &ImageRequest{
		Model: "test-model",
		Mode:  models.EditModeDirect,
		Parts: []models.ContentPart{
			models.ImagePart{Image: models.NewImagePayload([]byte{1}, "image/png")},
			models.TextPart{Text: "sepia"},
		},
	}

	resp, err := mock.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "test-model", resp.Model)
	assert.Equal(t, 1, callCount)
}

func TestUnavailableProvider(t *testing.T) {
	p := NewUnavailableProvider("gemini", ErrMissingCredential)
	assert.Equal(t, "gemini", p.Name())

	resp, err := p.Generate(context.Background(), &ImageRequest{})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestDescribeParts(t *testing.T) {
	parts := []models.ContentPart{
		models.ImagePart{},
		models.ImagePart{},
		models.TextPart{Text: "x"},
	}
	assert.Equal(t, "2 image(s), 1 text part(s)", describeParts(parts))
	assert.Equal(t, "0 image(s), 0 text part(s)", describeParts(nil))
}
