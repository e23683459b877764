package pdf

import "github.com/a3tai/crosstab-extractor/internal/crosstab"

// ConvertRequest asks for a document to be converted to crosstab text.
type ConvertRequest struct {
	Input string `json:"input"`
	// Output is the destination text file. Empty means the default name
	// next to Input; it is ignored by Preview.
	Output string `json:"output,omitempty"`
	// Observer receives progress notifications. Nil discards them.
	Observer crosstab.Observer `json:"-"`
}

// ConvertResult describes a finished conversion.
type ConvertResult struct {
	Input     string                `json:"input"`
	Output    string                `json:"output,omitempty"`
	Pages     int                   `json:"pages"`
	Extracted int                   `json:"extracted"`
	Skipped   []*crosstab.PageError `json:"-"`
	Text      string                `json:"text"`
	Document  *crosstab.Document    `json:"-"`
}

// ValidateResult represents the result of a PDF validation operation
type ValidateResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}
