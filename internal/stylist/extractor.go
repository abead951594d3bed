package stylist

import "github.com/Conceptual-Machines/stylist-api/internal/models"

// ExtractImage returns the first inline image of the first candidate.
// A nil response, no candidates or an image-less first candidate yield the
// empty marker; text parts are ignored.
func ExtractImage(raw *models.RawResponse) *models.GenerationResult {
	if raw == nil || len(raw.Candidates) == 0 {
		return models.NewEmptyResult()
	}

	for _, part := range raw.Candidates[0].Parts {
		switch p := part.(type) {
		case models.ImagePart:
			if p.Image.IsZero() {
				continue
			}
			return models.NewImageResult(p.Image)
		case models.TextPart:
			continue
		}
	}

	return models.NewEmptyResult()
}
