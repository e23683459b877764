package crosstab

import (
	"regexp"
	"strings"
)

var (
	// hyphenWrapPattern matches a word split across a line wrap, e.g. "exam- ple".
	hyphenWrapPattern = regexp.MustCompile(`([\p{L}\p{N}_]+)-\s+([\p{L}\p{N}_]+)`)

	// dashRunPattern matches decorative rules such as "-----" in header cells.
	dashRunPattern = regexp.MustCompile(`-{2,}`)

	lineBreakReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// CleanCell normalizes the raw text of a single table cell. It never fails:
// empty input yields "", line breaks become single spaces and words split by
// a hyphen followed by whitespace are rejoined.
func CleanCell(raw string) string {
	if raw == "" {
		return ""
	}

	text := collapseLineBreaks(raw)

	// A single pass leaves "a- b- c" as "ab- c", so repeat until stable.
	for {
		joined := hyphenWrapPattern.ReplaceAllString(text, "$1$2")
		if joined == text {
			break
		}
		text = joined
	}

	return strings.TrimSpace(text)
}

// collapseLineBreaks replaces each line break with a single space and
// leaves the rest of the text untouched.
func collapseLineBreaks(s string) string {
	return lineBreakReplacer.Replace(s)
}

// stripDashRuns removes runs of two or more hyphens and trims the result.
func stripDashRuns(s string) string {
	return strings.TrimSpace(dashRunPattern.ReplaceAllString(s, ""))
}

// isBlankRow reports whether every cell of row is empty or whitespace.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// dropBlankRows returns the rows of table that contain at least one
// non-blank cell, preserving order.
func dropBlankRows(table [][]string) [][]string {
	rows := make([][]string, 0, len(table))
	for _, row := range table {
		if !isBlankRow(row) {
			rows = append(rows, row)
		}
	}
	return rows
}
