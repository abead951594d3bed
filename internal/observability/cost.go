package observability

import (
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
)

// Pricing constants
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6

	// Gemini 2.5 Flash Image pricing (an output image is billed as 1290 tokens)
	geminiFlashImageInputPrice  = 0.0003
	geminiFlashImageOutputPrice = 0.03

	// gpt-image-1 pricing (image input / image output tokens)
	gptImage1InputPrice  = 0.01
	gptImage1OutputPrice = 0.04
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for the image models we call
var PricingTable = map[string]ModelPricing{
	"gemini-2.5-flash-image": {
		InputPricePer1K:  geminiFlashImageInputPrice,
		OutputPricePer1K: geminiFlashImageOutputPrice,
	},
	"gpt-image-1": {
		InputPricePer1K:  gptImage1InputPrice,
		OutputPricePer1K: gptImage1OutputPrice,
	},
}

// lookupPricing matches exact names first, then versioned variants such as
// "gemini-2.5-flash-image-preview"
func lookupPricing(model string) (ModelPricing, bool) {
	if pricing, ok := PricingTable[model]; ok {
		return pricing, true
	}
	for name, pricing := range PricingTable {
		if strings.HasPrefix(model, name) {
			return pricing, true
		}
	}
	return ModelPricing{}, false
}

// CalculateImageCost calculates the cost in USD of one image call.
// Unknown models and missing usage cost zero.
func CalculateImageCost(model string, usage *models.Usage) float64 {
	if usage == nil {
		return 0
	}
	pricing, ok := lookupPricing(model)
	if !ok {
		return 0
	}

	inputCost := (float64(usage.InputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.OutputTokens) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + formatFloat(cost, costFormatPrecision)
}

func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}
