package prompt

import (
	"strings"

	"github.com/Conceptual-Machines/stylist-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetStylistPreamble loads the fixed objective, constraints and instructions
// that open every structured-edit prompt. The text is embedded at build time.
func (l *Loader) GetStylistPreamble() string {
	return strings.TrimSpace(string(embedded.StylistPreambleTxt))
}
