package models

// ContentPart is one element of the ordered multimodal payload exchanged with a provider.
// The only implementations are ImagePart and TextPart.
type ContentPart interface {
	contentPart()
}

// ImagePart carries inline image bytes
type ImagePart struct {
	Image ImagePayload
}

// TextPart carries plain text
type TextPart struct {
	Text string
}

func (ImagePart) contentPart() {}
func (TextPart) contentPart()  {}

// Usage holds token accounting reported by a provider, when available
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Candidate is one alternative outcome returned by a provider
type Candidate struct {
	Parts        []ContentPart
	FinishReason string
}

// RawResponse is the provider-neutral form of a generation response
type RawResponse struct {
	Model      string
	Candidates []Candidate
	Usage      *Usage
}

// ResultStatus distinguishes a produced image from the explicit empty marker
type ResultStatus string

const (
	ResultSucceeded ResultStatus = "succeeded"
	ResultEmpty     ResultStatus = "empty"
)

// EmptyResultMessage is shown when the provider answered without an image
const EmptyResultMessage = "Failed to generate image. The result was empty."

// GenerationResult is either an image or the "no image produced" marker.
// It is not an error type: an empty result is a valid terminal outcome.
type GenerationResult struct {
	Status ResultStatus
	Image  *ImagePayload
}

// NewImageResult wraps a produced image
func NewImageResult(image ImagePayload) *GenerationResult {
	return &GenerationResult{Status: ResultSucceeded, Image: &image}
}

// NewEmptyResult returns the "no image produced" marker
func NewEmptyResult() *GenerationResult {
	return &GenerationResult{Status: ResultEmpty}
}

// HasImage reports whether the result carries an image
func (r *GenerationResult) HasImage() bool {
	return r != nil && r.Status == ResultSucceeded && r.Image != nil
}
