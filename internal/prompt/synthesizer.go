package prompt

import (
	"strings"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
)

const (
	specificationsHeader = "SPECIFICATIONS:"
	negativePromptHeader = "NEGATIVE PROMPTS (AVOID THESE):"

	// DefaultNegativePrompt lists the artefacts excluded when the user gives no negative prompt
	DefaultNegativePrompt = "deformed face, extra fingers, plastic skin, excessive blur, distortion, artifacts, parasitic text, color banding"
)

// Field maps one styling parameter to its label and fallback phrase
type Field struct {
	Name     string
	Label    string
	Fallback string
	Value    func(models.StylingParameters) string
}

// Resolve returns the field's value, or its fallback when the value is empty
func (f Field) Resolve(p models.StylingParameters) string {
	if v := f.Value(p); v != "" {
		return v
	}
	return f.Fallback
}

// SpecificationFields are rendered in this order in the SPECIFICATIONS block
var SpecificationFields = []Field{
	{Name: "clothing_style", Label: "Clothing Style", Fallback: "As per user image, but improved.",
		Value: func(p models.StylingParameters) string { return p.ClothingStyle }},
	{Name: "materials", Label: "Material Details", Fallback: "High quality and realistic.",
		Value: func(p models.StylingParameters) string { return p.Materials }},
	{Name: "accessories", Label: "Accessories", Fallback: "None.",
		Value: func(p models.StylingParameters) string { return p.Accessories }},
	{Name: "colors", Label: "Color Palette", Fallback: "Harmonious with the overall scene.",
		Value: func(p models.StylingParameters) string { return p.Colors }},
	{Name: "background", Label: "Background", Fallback: "A clean, neutral studio background.",
		Value: func(p models.StylingParameters) string { return p.Background }},
	{Name: "lighting", Label: "Light Coherence", Fallback: "Match original key light direction and intensity.",
		Value: func(p models.StylingParameters) string { return p.Lighting }},
	{Name: "quality", Label: "Output Quality", Fallback: "4K, photorealistic, zero artifacts.",
		Value: func(p models.StylingParameters) string { return p.Quality }},
}

// NegativePromptField has its own block after the specifications
var NegativePromptField = Field{
	Name:     "negative_prompt",
	Label:    "Negative Prompts",
	Fallback: DefaultNegativePrompt,
	Value:    func(p models.StylingParameters) string { return p.NegativePrompt },
}

var stylistPreamble = NewPromptLoader().GetStylistPreamble()

// Synthesize turns styling parameters into the structured-edit instruction.
// The preamble is never interpolated with user data; user values only appear
// in the SPECIFICATIONS and NEGATIVE PROMPTS blocks.
func Synthesize(p models.StylingParameters) string {
	var b strings.Builder

	b.WriteString(stylistPreamble)
	b.WriteString("\n\n")

	b.WriteString(specificationsHeader)
	b.WriteString("\n")
	for _, field := range SpecificationFields {
		b.WriteString("- ")
		b.WriteString(field.Label)
		b.WriteString(": ")
		b.WriteString(field.Resolve(p))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(negativePromptHeader)
	b.WriteString("\n")
	b.WriteString(NegativePromptField.Resolve(p))

	return strings.TrimSpace(b.String())
}

// Preamble returns the fixed constraint text shared by every structured prompt
func Preamble() string {
	return stylistPreamble
}
