package crosstab

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	outputSuffix = "_for_gpt.txt"
	outputPerm   = 0o644
)

// DefaultOutputPath derives the text file name for an input document:
// "report.pdf" becomes "report_for_gpt.txt" in the same directory.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	if strings.EqualFold(ext, ".pdf") {
		input = strings.TrimSuffix(input, ext)
	}
	return input + outputSuffix
}

// WriteFile writes the document text to path. Failures are reported as a
// *DocumentError naming the destination.
func WriteFile(path string, doc *Document) error {
	if err := os.WriteFile(path, []byte(doc.String()), outputPerm); err != nil {
		return &DocumentError{Path: path, Op: "write", Err: err}
	}
	return nil
}
