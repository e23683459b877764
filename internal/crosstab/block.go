package crosstab

import (
	"strconv"
	"strings"
)

const cellSeparator = ", "

// PageBlock is the flattened text representation of one page's crosstab.
type PageBlock struct {
	Page     int
	Labels   Labels
	Header   Header
	DataRows [][]string
}

// ComposeBlock builds the block for a page. Every data row is aligned to
// the header width: extra trailing cells are dropped and missing ones are
// rendered empty.
func ComposeBlock(page int, labels Labels, header Header, dataRows [][]string) PageBlock {
	aligned := make([][]string, 0, len(dataRows))
	for _, row := range dataRows {
		aligned = append(aligned, alignRow(row, header.NumCols()))
	}

	return PageBlock{
		Page:     page,
		Labels:   labels,
		Header:   header,
		DataRows: aligned,
	}
}

// Lines returns the block as ordered text lines.
func (b PageBlock) Lines() []string {
	lines := make([]string, 0, 5+len(b.DataRows))
	lines = append(lines,
		"Page: "+strconv.Itoa(b.Page),
		"Question: "+b.Labels.Question,
		"Banner: "+b.Labels.Banner,
		strings.Join(b.Header.Labels, cellSeparator),
		strings.Join(b.Header.Values, cellSeparator),
	)
	for _, row := range b.DataRows {
		lines = append(lines, strings.Join(row, cellSeparator))
	}
	return lines
}

// String renders the block with newline-separated lines.
func (b PageBlock) String() string {
	return strings.Join(b.Lines(), "\n")
}

func alignRow(row []string, numCols int) []string {
	aligned := make([]string, numCols)
	for col := 0; col < numCols && col < len(row); col++ {
		aligned[col] = collapseLineBreaks(row[col])
	}
	return aligned
}
