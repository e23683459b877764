package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultRowTolerance is the maximum baseline difference, in points, for
	// two glyphs to sit on the same text line.
	DefaultRowTolerance = 2.0
	// DefaultCellGap is the horizontal gap, as a multiple of the font size,
	// that separates two table cells on one line.
	DefaultCellGap = 1.5

	wordGap         = 0.25 // multiple of font size
	defaultFontSize = 10.0
	columnSlack     = 1.0 // points
	centreTolerance = 2.0 // points
	minTableCells   = 2
)

// LayoutOptions tunes how glyphs are grouped into lines and cells.
type LayoutOptions struct {
	RowTolerance float64
	CellGap      float64
}

// DefaultLayoutOptions returns the tolerances used for typical crosstab
// exports.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		RowTolerance: DefaultRowTolerance,
		CellGap:      DefaultCellGap,
	}
}

// segment is a run of words on one line, separated from its neighbours by
// at least one cell gap.
type segment struct {
	x0, x1 float64
	text   string
}

type textLine struct {
	y        float64
	glyphs   []pdf.Text
	segments []segment
}

// PageLayout is the text of one page arranged as lines and a table grid.
type PageLayout struct {
	Lines []string
	Table [][]string
}

// Layout arranges the glyphs of a page into plain-text lines and a table
// grid. The table is the run of lines from the first to the last line that
// holds at least two cells.
func Layout(glyphs []pdf.Text, opts LayoutOptions) PageLayout {
	lines := groupLines(glyphs, opts.RowTolerance)

	var layout PageLayout
	for i := range lines {
		lines[i].segments = splitSegments(lines[i].glyphs, opts.CellGap)
		if text := joinSegments(lines[i].segments); text != "" {
			layout.Lines = append(layout.Lines, text)
		}
	}

	first, last := tableSpan(lines)
	if first < 0 {
		return layout
	}
	region := lines[first : last+1]
	columns := findColumns(region)
	for _, line := range region {
		if len(line.segments) == 0 {
			continue
		}
		layout.Table = append(layout.Table, placeSegments(line.segments, columns))
	}

	return layout
}

// groupLines sorts glyphs top to bottom and groups those whose baselines
// are within tolerance of the first glyph of the line.
func groupLines(glyphs []pdf.Text, tolerance float64) []textLine {
	visible := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		g.S = norm.NFC.String(g.S)
		visible = append(visible, g)
	}
	if len(visible) == 0 {
		return nil
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Y > visible[j].Y
	})

	var lines []textLine
	current := textLine{y: visible[0].Y, glyphs: []pdf.Text{visible[0]}}
	for _, g := range visible[1:] {
		if math.Abs(g.Y-current.y) <= tolerance {
			current.glyphs = append(current.glyphs, g)
			continue
		}
		lines = append(lines, current)
		current = textLine{y: g.Y, glyphs: []pdf.Text{g}}
	}
	lines = append(lines, current)

	for i := range lines {
		sort.SliceStable(lines[i].glyphs, func(a, b int) bool {
			return lines[i].glyphs[a].X < lines[i].glyphs[b].X
		})
	}
	return lines
}

// splitSegments merges the glyphs of a line into words and the words into
// cell segments. Whitespace glyphs only mark word boundaries; gaps are
// measured from the last visible glyph.
func splitSegments(glyphs []pdf.Text, cellGap float64) []segment {
	var (
		segments     []segment
		current      *segment
		builder      strings.Builder
		pendingSpace bool
	)

	flush := func() {
		if current != nil {
			current.text = strings.TrimSpace(builder.String())
			segments = append(segments, *current)
		}
		builder.Reset()
		current = nil
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			pendingSpace = current != nil
			continue
		}

		size := g.FontSize
		if size <= 0 {
			size = defaultFontSize
		}

		if current != nil {
			gap := g.X - current.x1
			switch {
			case gap > cellGap*size:
				flush()
			case pendingSpace || gap > wordGap*size:
				builder.WriteByte(' ')
			}
		}
		if current == nil {
			current = &segment{x0: g.X}
		}

		builder.WriteString(g.S)
		current.x1 = math.Max(current.x1, g.X+g.W)
		pendingSpace = false
	}
	flush()

	return segments
}

func joinSegments(segments []segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.text != "" {
			parts = append(parts, s.text)
		}
	}
	return strings.Join(parts, " ")
}

// tableSpan returns the indices of the first and last line with at least
// two segments, or -1, -1 when no line qualifies.
func tableSpan(lines []textLine) (int, int) {
	first, last := -1, -1
	for i, line := range lines {
		if len(line.segments) >= minTableCells {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}

type column struct {
	x0, x1 float64
}

// findColumns derives column extents from the widest lines of the region.
// Spanning header labels live on narrower lines, so they cannot merge two
// columns into one.
func findColumns(region []textLine) []column {
	widest := 0
	for _, line := range region {
		widest = max(widest, len(line.segments))
	}

	var spans []column
	for _, line := range region {
		if len(line.segments) != widest {
			continue
		}
		for _, s := range line.segments {
			spans = append(spans, column{x0: s.x0, x1: s.x1})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].x0 < spans[j].x0 })

	var columns []column
	for _, span := range spans {
		n := len(columns)
		if n > 0 && span.x0 <= columns[n-1].x1+columnSlack {
			columns[n-1].x1 = math.Max(columns[n-1].x1, span.x1)
			continue
		}
		columns = append(columns, span)
	}
	return columns
}

// placeSegments lays the segments of one line out on the column grid. A
// label spanning merged cells lands in the first cell of its span, whether
// it is left-aligned or centred over the span.
func placeSegments(segments []segment, columns []column) []string {
	row := make([]string, len(columns))
	leftEdge := math.Inf(-1)
	for k, s := range segments {
		rightEdge := math.Inf(1)
		if k+1 < len(segments) {
			rightEdge = segments[k+1].x0
		}

		col := centredStart(s, columns, anchorColumn(s, columns), leftEdge, rightEdge)
		if row[col] != "" {
			row[col] += " " + s.text
		} else {
			row[col] = s.text
		}
		leftEdge = s.x1
	}
	return row
}

// anchorColumn returns the first column the segment overlaps. A segment
// sitting in the gap between two columns anchors to the column on its left.
func anchorColumn(s segment, columns []column) int {
	for i, c := range columns {
		if s.x0 < c.x1-columnSlack && s.x1 > c.x0+columnSlack {
			return i
		}
	}

	anchor := 0
	for i, c := range columns {
		if c.x1 <= s.x0+columnSlack {
			anchor = i
		}
	}
	return anchor
}

// centredStart moves a segment left of its anchor when it is centred over a
// run of columns starting there. The run must lie between the neighbouring
// segments of the line.
func centredStart(s segment, columns []column, anchor int, leftEdge, rightEdge float64) int {
	mid := (s.x0 + s.x1) / 2
	for i := 0; i < anchor; i++ {
		if columns[i].x0 < leftEdge-columnSlack {
			continue
		}
		for j := anchor; j < len(columns) && columns[j].x1 <= rightEdge+columnSlack; j++ {
			if math.Abs((columns[i].x0+columns[j].x1)/2-mid) <= centreTolerance {
				return i
			}
		}
	}
	return anchor
}
