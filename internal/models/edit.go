package models

import (
	"encoding/base64"
	"strings"
)

// EditMode identifies which pipeline an edit request runs through
type EditMode string

const (
	// EditModeStructured is the stylist mode: styling fields plus an optional mask
	EditModeStructured EditMode = "structured"
	// EditModeDirect is the editor mode: a single free-text instruction, no mask
	EditModeDirect EditMode = "direct"
)

// StylingParameters holds the eight free-text styling fields of a structured edit.
// Every field is optional; empty fields fall back to a fixed phrase during synthesis.
type StylingParameters struct {
	ClothingStyle  string `json:"clothing_style" form:"clothing_style"`
	Materials      string `json:"materials" form:"materials"`
	Accessories    string `json:"accessories" form:"accessories"`
	Colors         string `json:"colors" form:"colors"`
	Background     string `json:"background" form:"background"`
	Lighting       string `json:"lighting" form:"lighting"`
	Quality        string `json:"quality" form:"quality"`
	NegativePrompt string `json:"negative_prompt" form:"negative_prompt"`
}

// DefaultStylingParameters returns the values the web form is pre-filled with
func DefaultStylingParameters() StylingParameters {
	return StylingParameters{
		ClothingStyle:  "blue night suit, white shirt",
		Materials:      "super 110 wool, matte",
		Accessories:    "none",
		Colors:         "#0A1633, #FFFFFF",
		Background:     "neutral gray studio, light gradient",
		Lighting:       "key light from the left",
		Quality:        "4K",
		NegativePrompt: "deformed face, added fingers, plastic skin, excessive blur, distortion, artifacts, parasitic text, color banding",
	}
}

// ImagePayload pairs image bytes with their declared media type.
// It is immutable once constructed; Data returns the internal slice and callers must not modify it.
type ImagePayload struct {
	data     []byte
	mimeType string
}

// NewImagePayload copies data into a new payload
func NewImagePayload(data []byte, mimeType string) ImagePayload {
	buf := make([]byte, len(data))
	copy(buf, data)
	return ImagePayload{data: buf, mimeType: mimeType}
}

// Data returns the raw image bytes
func (p ImagePayload) Data() []byte {
	return p.data
}

// MIMEType returns the declared media type (e.g. image/png)
func (p ImagePayload) MIMEType() string {
	return p.mimeType
}

// Size returns the payload length in bytes
func (p ImagePayload) Size() int {
	return len(p.data)
}

// IsZero reports whether the payload carries no image data
func (p ImagePayload) IsZero() bool {
	return len(p.data) == 0
}

// Base64 returns the standard base64 encoding of the image bytes
func (p ImagePayload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.data)
}

// DataURL renders the payload as a data: URL suitable for an <img> src
func (p ImagePayload) DataURL() string {
	return "data:" + p.mimeType + ";base64," + p.Base64()
}

// Equal compares media type and bytes
func (p ImagePayload) Equal(other ImagePayload) bool {
	return p.mimeType == other.mimeType && string(p.data) == string(other.data)
}

// EditRequest is implemented by StructuredEditRequest and DirectEditRequest only
type EditRequest interface {
	Mode() EditMode
	Reference() ImagePayload
	Validate() error
	editRequest()
}

// StructuredEditRequest drives the stylist pipeline
type StructuredEditRequest struct {
	ReferenceImage ImagePayload
	MaskImage      *ImagePayload
	Parameters     StylingParameters
}

// Mode implements EditRequest
func (r StructuredEditRequest) Mode() EditMode { return EditModeStructured }

// Reference implements EditRequest
func (r StructuredEditRequest) Reference() ImagePayload { return r.ReferenceImage }

// Validate checks the preconditions for submitting a structured edit
func (r StructuredEditRequest) Validate() error {
	if r.ReferenceImage.IsZero() {
		return NewValidationError(FieldReferenceImage, "Please upload a reference image.")
	}
	return nil
}

func (StructuredEditRequest) editRequest() {}

// DirectEditRequest drives the editor pipeline. It has no mask by construction.
type DirectEditRequest struct {
	ReferenceImage ImagePayload
	Instruction    string
}

// Mode implements EditRequest
func (r DirectEditRequest) Mode() EditMode { return EditModeDirect }

// Reference implements EditRequest
func (r DirectEditRequest) Reference() ImagePayload { return r.ReferenceImage }

// Validate checks the preconditions for submitting a direct edit
func (r DirectEditRequest) Validate() error {
	if r.ReferenceImage.IsZero() {
		return NewValidationError(FieldReferenceImage, "Please upload a reference image.")
	}
	if strings.TrimSpace(r.Instruction) == "" {
		return NewValidationError(FieldInstruction, "Please describe the edit to apply.")
	}
	return nil
}

func (DirectEditRequest) editRequest() {}
