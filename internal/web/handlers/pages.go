package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/prompt"
	"github.com/Conceptual-Machines/stylist-api/pkg/embedded"
)

type formField struct {
	Name     string
	Label    string
	Default  string
	Fallback string
}

type pageData struct {
	Fields  []formField
	Model   string
	Version string
}

// WebHandler renders the single-page front-end
type WebHandler struct {
	page *template.Template
	data pageData
}

// NewWebHandler parses the embedded page once
func NewWebHandler(model, version string) (*WebHandler, error) {
	page, err := template.New("index").Parse(string(embedded.IndexHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	defaults := models.DefaultStylingParameters()
	fields := make([]formField, 0, len(prompt.SpecificationFields)+1)
	for _, f := range prompt.SpecificationFields {
		fields = append(fields, formField{Name: f.Name, Label: f.Label, Default: f.Value(defaults), Fallback: f.Fallback})
	}
	neg := prompt.NegativePromptField
	fields = append(fields, formField{Name: neg.Name, Label: neg.Label, Default: neg.Value(defaults), Fallback: neg.Fallback})

	return &WebHandler{
		page: page,
		data: pageData{Fields: fields, Model: model, Version: version},
	}, nil
}

// Home renders the stylist/editor page
func (h *WebHandler) Home(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, h.data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
