package prompt

import (
	"strings"
	"testing"
)

func TestNewPromptLoader(t *testing.T) {
	loader := NewPromptLoader()
	if loader == nil {
		t.Fatal("NewPromptLoader() returned nil")
	}
}

func TestGetStylistPreamble(t *testing.T) {
	loader := NewPromptLoader()
	preamble := loader.GetStylistPreamble()
	if preamble == "" {
		t.Fatal("GetStylistPreamble() returned empty string")
	}

	if preamble != strings.TrimSpace(preamble) {
		t.Error("GetStylistPreamble() should be trimmed")
	}

	if !strings.HasPrefix(preamble, "OBJECTIVE:") {
		t.Errorf("preamble should start with the objective, got %q", preamble[:20])
	}
}

func TestPreambleContainsConstraints(t *testing.T) {
	preamble := NewPromptLoader().GetStylistPreamble()

	required := []string{
		"Do not alter age, gender, or facial features.",
		"Preserve the original hairstyle and body proportions.",
		"Strictly respect the original perspective and lighting direction.",
		"Maintain natural textures; avoid over-smoothing or plastic-like skin.",
	}
	for _, line := range required {
		if !strings.Contains(preamble, line) {
			t.Errorf("preamble missing constraint %q", line)
		}
	}
}

func TestPreambleInstructionsNumbered(t *testing.T) {
	preamble := NewPromptLoader().GetStylistPreamble()

	for _, n := range []string{"1. ", "2. ", "3. ", "4. ", "5. ", "6. "} {
		if !strings.Contains(preamble, "\n"+n) {
			t.Errorf("preamble missing instruction %q", n)
		}
	}
}

func TestSynthesizeUsesLoadedPreamble(t *testing.T) {
	preamble := NewPromptLoader().GetStylistPreamble()
	if Preamble() != preamble {
		t.Error("Preamble() should match the embedded preamble")
	}
}

func TestPreambleLinesStartAtColumnZero(t *testing.T) {
	preamble := NewPromptLoader().GetStylistPreamble()

	for i, line := range strings.Split(preamble, "\n") {
		if line != strings.TrimLeft(line, " \t") {
			t.Errorf("preamble line %d is indented: %q", i+1, line)
		}
	}
}
