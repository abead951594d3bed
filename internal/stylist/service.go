package stylist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Conceptual-Machines/stylist-api/internal/llm"
	"github.com/Conceptual-Machines/stylist-api/internal/logger"
	"github.com/Conceptual-Machines/stylist-api/internal/metrics"
	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/observability"
	"github.com/Conceptual-Machines/stylist-api/internal/prompt"
)

const defaultTimeout = 120 * time.Second

var errNoResponse = errors.New("provider returned neither a response nor an error")

// Options configures a Service; zero values fall back to defaults
type Options struct {
	Model    string
	Timeout  time.Duration
	Recorder metrics.Recorder
	Tracer   *observability.LangfuseClient
}

// Service runs edits against one injected image provider.
// It keeps no state between calls.
type Service struct {
	provider llm.ImageProvider
	model    string
	timeout  time.Duration
	recorder metrics.Recorder
	tracer   *observability.LangfuseClient
}

// NewService creates a service bound to provider
func NewService(provider llm.ImageProvider, opts Options) *Service {
	s := &Service{
		provider: provider,
		model:    opts.Model,
		timeout:  opts.Timeout,
		recorder: opts.Recorder,
		tracer:   opts.Tracer,
	}
	if s.model == "" {
		s.model = llm.DefaultGeminiImageModel
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	if s.recorder == nil {
		s.recorder = metrics.Nop{}
	}
	if s.tracer == nil {
		s.tracer = observability.Disabled()
	}
	return s
}

// Model returns the model name sent to the provider
func (s *Service) Model() string {
	return s.model
}

// Synthesize exposes the structured prompt for previews and logging
func (s *Service) Synthesize(p models.StylingParameters) string {
	return prompt.Synthesize(p)
}

// RunStructuredEdit sends [reference, mask?, prompt] and extracts the image.
// It fails only with *models.GenerationTransportError.
func (s *Service) RunStructuredEdit(ctx context.Context, req models.StructuredEditRequest) (*models.GenerationResult, error) {
	parts := BuildStructuredEdit(req)
	input := observability.EditInput{
		Mode:           string(models.EditModeStructured),
		Prompt:         promptText(parts),
		ReferenceMIME:  req.ReferenceImage.MIMEType(),
		ReferenceBytes: req.ReferenceImage.Size(),
		HasMask:        req.MaskImage != nil,
	}
	return s.run(ctx, models.EditModeStructured, parts, input)
}

// RunDirectEdit sends [reference, instruction] and extracts the image.
// It fails only with *models.GenerationTransportError.
func (s *Service) RunDirectEdit(ctx context.Context, req models.DirectEditRequest) (*models.GenerationResult, error) {
	parts := BuildDirectEdit(req)
	input := observability.EditInput{
		Mode:           string(models.EditModeDirect),
		Prompt:         req.Instruction,
		ReferenceMIME:  req.ReferenceImage.MIMEType(),
		ReferenceBytes: req.ReferenceImage.Size(),
	}
	return s.run(ctx, models.EditModeDirect, parts, input)
}

// Run dispatches on the request variant
func (s *Service) Run(ctx context.Context, req models.EditRequest) (*models.GenerationResult, error) {
	switch r := req.(type) {
	case models.StructuredEditRequest:
		return s.RunStructuredEdit(ctx, r)
	case *models.StructuredEditRequest:
		if r != nil {
			return s.RunStructuredEdit(ctx, *r)
		}
	case models.DirectEditRequest:
		return s.RunDirectEdit(ctx, r)
	case *models.DirectEditRequest:
		if r != nil {
			return s.RunDirectEdit(ctx, *r)
		}
	}
	return nil, models.NewValidationError("", fmt.Sprintf("unsupported edit request %T", req))
}

func (s *Service) run(
	ctx context.Context,
	mode models.EditMode,
	parts []models.ContentPart,
	input observability.EditInput,
) (*models.GenerationResult, error) {
	startTime := time.Now()

	trace := s.tracer.StartTrace(ctx, "stylist.edit", map[string]interface{}{
		"mode":     string(mode),
		"provider": s.provider.Name(),
	})
	defer trace.Finish()
	generation := trace.Generation("image_edit", nil)
	defer generation.Finish()

	raw, err := s.invoke(ctx, mode, parts)

	var result *models.GenerationResult
	outcome := metrics.OutcomeFailed
	if err == nil {
		result = ExtractImage(raw)
		outcome = string(result.Status)
	}
	duration := time.Since(startTime)

	var usage *models.Usage
	if raw != nil {
		usage = raw.Usage
	}
	s.record(ctx, mode, outcome, duration, usage, err)
	generation.LogImageEdit(s.model, input, result, usage, err)

	if err != nil {
		return nil, err
	}
	return result, nil
}

// invoke is the only blocking step. Every provider failure, including the
// timeout, comes back as *models.GenerationTransportError.
func (s *Service) invoke(ctx context.Context, mode models.EditMode, parts []models.ContentPart) (*models.RawResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.provider.Generate(callCtx, &llm.ImageRequest{
		Model: s.model,
		Mode:  mode,
		Parts: parts,
	})
	if err != nil {
		return nil, &models.GenerationTransportError{Provider: s.provider.Name(), Err: err}
	}
	if raw == nil {
		return nil, &models.GenerationTransportError{Provider: s.provider.Name(), Err: errNoResponse}
	}
	return raw, nil
}

func (s *Service) record(
	ctx context.Context,
	mode models.EditMode,
	outcome string,
	duration time.Duration,
	usage *models.Usage,
	err error,
) {
	s.recorder.RecordGeneration(ctx, string(mode), s.model, outcome, duration)

	var usageFields map[string]int
	if usage != nil {
		s.recorder.RecordTokenUsage(ctx, s.model, usage.InputTokens, usage.OutputTokens, usage.TotalTokens)
		usageFields = map[string]int{
			"input_tokens":  usage.InputTokens,
			"output_tokens": usage.OutputTokens,
			"total_tokens":  usage.TotalTokens,
		}
	}

	logger.LogEditOutcome(ctx, logger.EditOutcome{
		Mode:     string(mode),
		Model:    s.model,
		Provider: s.provider.Name(),
		Outcome:  outcome,
		Duration: duration,
		Usage:    usageFields,
		Err:      err,
	}, nil)
}

// promptText returns the last text part, which is the synthesized prompt
func promptText(parts []models.ContentPart) string {
	for i := len(parts) - 1; i >= 0; i-- {
		if t, ok := parts[i].(models.TextPart); ok {
			return t.Text
		}
	}
	return ""
}
