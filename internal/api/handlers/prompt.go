package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/prompt"
)

// Synthesizer renders the structured prompt; *stylist.Service implements it
type Synthesizer interface {
	Synthesize(p models.StylingParameters) string
}

// PromptHandler serves form defaults and prompt previews
type PromptHandler struct {
	synthesizer Synthesizer
}

// NewPromptHandler creates a prompt handler
func NewPromptHandler(synthesizer Synthesizer) *PromptHandler {
	return &PromptHandler{synthesizer: synthesizer}
}

// FieldResponse describes one styling field of the form
type FieldResponse struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Default  string `json:"default"`
	Fallback string `json:"fallback"`
}

// Defaults handles GET /api/v1/styling/defaults
func (h *PromptHandler) Defaults(c *gin.Context) {
	defaults := models.DefaultStylingParameters()

	all := make([]prompt.Field, 0, len(prompt.SpecificationFields)+1)
	all = append(all, prompt.SpecificationFields...)
	all = append(all, prompt.NegativePromptField)

	fields := make([]FieldResponse, 0, len(all))
	for _, f := range all {
		fields = append(fields, FieldResponse{
			Name:     f.Name,
			Label:    f.Label,
			Default:  f.Value(defaults),
			Fallback: f.Fallback,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"parameters": defaults,
		"fields":     fields,
	})
}

// Preview handles POST /api/v1/prompt/preview; accepts JSON or form fields
func (h *PromptHandler) Preview(c *gin.Context) {
	var params models.StylingParameters
	if err := c.ShouldBind(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid styling parameters",
			Details:   err.Error(),
			RequestID: c.GetString("request_id"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prompt": h.synthesizer.Synthesize(params),
	})
}
