package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Conceptual-Machines/stylist-api/internal/config"
	"github.com/Conceptual-Machines/stylist-api/internal/models"
)

func TestCalculateImageCost(t *testing.T) {
	tests := []struct {
		name  string
		model string
		usage *models.Usage
		want  float64
	}{
		{
			name:  "gemini flash image, one output image",
			model: "gemini-2.5-flash-image",
			usage: &models.Usage{InputTokens: 1000, OutputTokens: 1290},
			want:  0.0003 + 1.29*0.03,
		},
		{
			name:  "versioned model name matches by prefix",
			model: "gpt-image-1-2025",
			usage: &models.Usage{InputTokens: 1000, OutputTokens: 1000},
			want:  0.05,
		},
		{
			name:  "unknown model",
			model: "mystery",
			usage: &models.Usage{InputTokens: 1000},
			want:  0,
		},
		{
			name:  "no usage",
			model: "gpt-image-1",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateImageCost(tt.model, tt.usage), 1e-9)
		})
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.039000", FormatCost(0.039))
}

func TestInitializeLangfuse_DisabledWithoutKeys(t *testing.T) {
	c := InitializeLangfuse(context.Background(), &config.Config{LangfuseEnabled: true})
	assert.False(t, c.IsEnabled())
}

func TestDisabledTrace_IsNoop(t *testing.T) {
	var c *LangfuseClient
	assert.False(t, c.IsEnabled())

	trace := Disabled().StartTrace(context.Background(), "stylist.edit", nil)
	gen := trace.Generation("image_edit", nil)
	gen.LogImageEdit("gemini-2.5-flash-image", EditInput{Mode: "direct"}, nil, nil, errors.New("boom"))
	gen.Finish()
	trace.Finish()
}
