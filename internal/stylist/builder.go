// Package stylist turns edit requests into provider calls and provider
// responses into generation results.
package stylist

import (
	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/prompt"
)

// BuildStructuredEdit returns [reference, mask?, synthesized prompt].
// Images always precede the text and the reference precedes the mask.
func BuildStructuredEdit(req models.StructuredEditRequest) []models.ContentPart {
	parts := make([]models.ContentPart, 0, 3)
	parts = append(parts, models.ImagePart{Image: req.ReferenceImage})
	if req.MaskImage != nil {
		parts = append(parts, models.ImagePart{Image: *req.MaskImage})
	}
	return append(parts, models.TextPart{Text: prompt.Synthesize(req.Parameters)})
}

// BuildDirectEdit returns [reference, instruction]. The instruction is sent
// verbatim and is not validated here.
func BuildDirectEdit(req models.DirectEditRequest) []models.ContentPart {
	return []models.ContentPart{
		models.ImagePart{Image: req.ReferenceImage},
		models.TextPart{Text: req.Instruction},
	}
}

// BuildParts dispatches on the request variant; nil yields no parts
func BuildParts(req models.EditRequest) []models.ContentPart {
	switch r := req.(type) {
	case models.StructuredEditRequest:
		return BuildStructuredEdit(r)
	case *models.StructuredEditRequest:
		if r != nil {
			return BuildStructuredEdit(*r)
		}
	case models.DirectEditRequest:
		return BuildDirectEdit(r)
	case *models.DirectEditRequest:
		if r != nil {
			return BuildDirectEdit(*r)
		}
	}
	return nil
}
