package stylist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/stylist-api/internal/llm"
	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/testutil"
)

// MockProvider is a test implementation of llm.ImageProvider
type MockProvider struct {
	generateFunc func(ctx context.Context, request *llm.ImageRequest) (*models.RawResponse, error)
	requests     []*llm.ImageRequest
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Generate(ctx context.Context, request *llm.ImageRequest) (*models.RawResponse, error) {
	m.requests = append(m.requests, request)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, request)
	}
	return &models.RawResponse{}, nil
}

type recordedGeneration struct {
	mode, model, outcome string
}

type recordingRecorder struct {
	mu          sync.Mutex
	generations []recordedGeneration
	tokenCalls  int
}

func (r *recordingRecorder) RecordAPIRequest(context.Context, string, int, time.Duration) {}

func (r *recordingRecorder) RecordGeneration(_ context.Context, mode, model, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations = append(r.generations, recordedGeneration{mode, model, outcome})
}

func (r *recordingRecorder) RecordTokenUsage(context.Context, string, int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokenCalls++
}

func imageResponse(image models.ImagePayload) *models.RawResponse {
	return &models.RawResponse{
		Candidates: []models.Candidate{{Parts: []models.ContentPart{
			models.TextPart{Text: "done"},
			models.ImagePart{Image: image},
		}}},
		Usage: &models.Usage{InputTokens: 10, OutputTokens: 1290, TotalTokens: 1300},
	}
}

func TestService_RunStructuredEdit(t *testing.T) {
	output := testutil.PNGPayload(t, 99)
	provider := &MockProvider{
		generateFunc: func(_ context.Context, _ *llm.ImageRequest) (*models.RawResponse, error) {
			return imageResponse(output), nil
		},
	}
	recorder := &recordingRecorder{}
	svc := NewService(provider, Options{Model: "gemini-2.5-flash-image", Recorder: recorder})

	mask := testutil.PNGPayload(t, 2)
	result, err := svc.RunStructuredEdit(context.Background(), models.StructuredEditRequest{
		ReferenceImage: testutil.PNGPayload(t, 1),
		MaskImage:      &mask,
		Parameters:     models.StylingParameters{ClothingStyle: "red jacket"},
	})
	require.NoError(t, err)
	require.True(t, result.HasImage())
	assert.True(t, result.Image.Equal(output))

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, "gemini-2.5-flash-image", req.Model)
	assert.Equal(t, models.EditModeStructured, req.Mode)
	require.Len(t, req.Parts, 3)

	require.Len(t, recorder.generations, 1)
	assert.Equal(t, recordedGeneration{"structured", "gemini-2.5-flash-image", "succeeded"}, recorder.generations[0])
	assert.Equal(t, 1, recorder.tokenCalls)
}

func TestService_RunDirectEdit(t *testing.T) {
	provider := &MockProvider{}
	svc := NewService(provider, Options{})

	result, err := svc.RunDirectEdit(context.Background(), models.DirectEditRequest{
		ReferenceImage: testutil.PNGPayload(t, 1),
		Instruction:    "convert to black and white",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResultEmpty, result.Status)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, llm.DefaultGeminiImageModel, req.Model)
	require.Len(t, req.Parts, 2)
	assert.Equal(t, models.TextPart{Text: "convert to black and white"}, req.Parts[1])
}

func TestService_TransportFailure(t *testing.T) {
	cause := errors.New("401 Unauthorized")
	provider := &MockProvider{
		generateFunc: func(_ context.Context, _ *llm.ImageRequest) (*models.RawResponse, error) {
			return nil, cause
		},
	}
	recorder := &recordingRecorder{}
	svc := NewService(provider, Options{Recorder: recorder})

	tests := []struct {
		name string
		run  func() (*models.GenerationResult, error)
	}{
		{
			name: "structured",
			run: func() (*models.GenerationResult, error) {
				return svc.RunStructuredEdit(context.Background(), models.StructuredEditRequest{
					ReferenceImage: testutil.PNGPayload(t, 1),
				})
			},
		},
		{
			name: "direct",
			run: func() (*models.GenerationResult, error) {
				return svc.RunDirectEdit(context.Background(), models.DirectEditRequest{
					ReferenceImage: testutil.PNGPayload(t, 1),
					Instruction:    "sepia",
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.run()
			assert.Nil(t, result)

			var transportErr *models.GenerationTransportError
			require.True(t, errors.As(err, &transportErr))
			assert.Equal(t, "mock", transportErr.Provider)
			assert.ErrorIs(t, err, cause)
			assert.Contains(t, err.Error(), models.TransportErrorMessage)
		})
	}

	for _, g := range recorder.generations {
		assert.Equal(t, "failed", g.outcome)
	}
}

func TestService_NilResponseIsTransportError(t *testing.T) {
	provider := &MockProvider{
		generateFunc: func(_ context.Context, _ *llm.ImageRequest) (*models.RawResponse, error) {
			return nil, nil
		},
	}
	svc := NewService(provider, Options{})

	_, err := svc.RunDirectEdit(context.Background(), models.DirectEditRequest{
		ReferenceImage: testutil.PNGPayload(t, 1),
		Instruction:    "x",
	})
	var transportErr *models.GenerationTransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestService_Timeout(t *testing.T) {
	provider := &MockProvider{
		generateFunc: func(ctx context.Context, _ *llm.ImageRequest) (*models.RawResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	svc := NewService(provider, Options{Timeout: 20 * time.Millisecond})

	_, err := svc.RunDirectEdit(context.Background(), models.DirectEditRequest{
		ReferenceImage: testutil.PNGPayload(t, 1),
		Instruction:    "x",
	})
	var transportErr *models.GenerationTransportError
	require.True(t, errors.As(err, &transportErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestService_RunDispatch(t *testing.T) {
	provider := &MockProvider{}
	svc := NewService(provider, Options{})
	ref := testutil.PNGPayload(t, 1)

	_, err := svc.Run(context.Background(), models.StructuredEditRequest{ReferenceImage: ref})
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), &models.DirectEditRequest{ReferenceImage: ref, Instruction: "x"})
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), nil)
	assert.Error(t, err)

	var validationErr *models.ValidationError
	for _, req := range []models.EditRequest{(*models.StructuredEditRequest)(nil), (*models.DirectEditRequest)(nil)} {
		_, err = svc.Run(context.Background(), req)
		assert.True(t, errors.As(err, &validationErr), "%T", req)
	}

	require.Len(t, provider.requests, 2)
	assert.Equal(t, models.EditModeStructured, provider.requests[0].Mode)
	assert.Equal(t, models.EditModeDirect, provider.requests[1].Mode)
}

func TestService_Synthesize(t *testing.T) {
	svc := NewService(&MockProvider{}, Options{})
	out := svc.Synthesize(models.StylingParameters{ClothingStyle: "red jacket"})
	assert.Contains(t, out, "red jacket")
}
