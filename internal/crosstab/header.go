package crosstab

// unnamedLabel stands in for a column with neither a top nor a bottom label.
const unnamedLabel = "Unnamed"

// HeaderRows is the three-row composite header of a crosstab.
type HeaderRows struct {
	Top       []string
	Bottom    []string
	ValueType []string
}

// Header is the flattened form of HeaderRows. Labels and Values always have
// the same length, one entry per table column.
type Header struct {
	Labels []string
	Values []string
}

// NumCols returns the number of columns covered by the header.
func (h Header) NumCols() int {
	return len(h.Labels)
}

// Width returns the length of the longest of the three header rows.
func (r HeaderRows) Width() int {
	return max(len(r.Top), len(r.Bottom), len(r.ValueType))
}

// Flatten builds one label per column. A blank top cell inherits the last
// non-blank top cell to its left, which models a merged category spanning
// several columns.
func (r HeaderRows) Flatten() Header {
	numCols := r.Width()
	header := Header{
		Labels: make([]string, 0, numCols),
		Values: make([]string, 0, numCols),
	}

	lastTop := ""
	for col := 0; col < numCols; col++ {
		top := stripDashRuns(cellAt(r.Top, col))
		bottom := stripDashRuns(cellAt(r.Bottom, col))
		value := cellAt(r.ValueType, col)

		if top != "" {
			lastTop = top
		} else {
			top = lastTop
		}

		header.Labels = append(header.Labels, joinLabel(top, bottom))
		header.Values = append(header.Values, value)
	}

	return header
}

// joinLabel composes a flattened column label from its top and bottom parts.
func joinLabel(top, bottom string) string {
	switch {
	case top != "" && bottom != "":
		return top + ": " + bottom
	case bottom != "":
		return unnamedLabel + ": " + bottom
	case top != "":
		return top
	default:
		return unnamedLabel
	}
}

// cellAt returns the cleaned cell at col, or "" past the end of row.
func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return CleanCell(row[col])
}
