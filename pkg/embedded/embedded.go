package embedded

import (
	_ "embed"
)

// Prompt assets
//
//go:embed data/prompts/stylist_preamble.txt
var StylistPreambleTxt []byte

// Web front-end
//
//go:embed data/web/index.html
var IndexHTML []byte
