package tabular

import (
	"sort"
	"strconv"
	"strings"
)

// Geometry thresholds in PDF points. A gap wider than colGap splits two
// cells; narrower gaps merge text chunks into the same cell.
const (
	colGap  = 18.0
	wordGap = 1.5
	lineTol = 2.0
)

// chunk is a positioned piece of text from a PDF content stream.
type chunk struct {
	x, y, w float64
	s       string
}

// textLine is one visual line: its vertical position and the cells on it.
type textLine struct {
	y     float64
	cells []string
}

// cellsFromChunks merges x-sorted chunks into cells, splitting on gaps
// wider than colGap and spacing words separated by more than wordGap.
func cellsFromChunks(chunks []chunk) []string {
	var cells []string
	var cur strings.Builder
	prevEnd := 0.0

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			cells = append(cells, s)
		}
		cur.Reset()
	}

	for i, c := range chunks {
		if i > 0 {
			gap := c.x - prevEnd
			switch {
			case gap > colGap:
				flush()
			case gap > wordGap:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(c.s)
		end := c.x + c.w
		if end > prevEnd {
			prevEnd = end
		}
	}
	flush()
	return cells
}

// linesFromChunks clusters unordered chunks into visual lines, top to
// bottom (PDF y grows upward), each line's chunks sorted left to right.
func linesFromChunks(chunks []chunk) []textLine {
	if len(chunks) == 0 {
		return nil
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].y != chunks[j].y {
			return chunks[i].y > chunks[j].y
		}
		return chunks[i].x < chunks[j].x
	})

	var lines []textLine
	var group []chunk
	groupY := chunks[0].y

	flush := func() {
		if len(group) == 0 {
			return
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].x < group[j].x })
		cells := cellsFromChunks(group)
		if len(cells) > 0 {
			lines = append(lines, textLine{y: groupY, cells: cells})
		}
		group = nil
	}

	for _, c := range chunks {
		if groupY-c.y > lineTol {
			flush()
			groupY = c.y
		}
		group = append(group, c)
	}
	flush()
	return lines
}

// headerLike reports whether a line of cells can serve as a column header:
// every cell non-empty and none of them numeric.
func headerLike(cells []string) bool {
	for _, c := range cells {
		if c == "" {
			return false
		}
		if _, err := strconv.ParseFloat(strings.ReplaceAll(c, ",", ""), 64); err == nil {
			return false
		}
	}
	return len(cells) > 0
}

// columnNames builds column names for a table: the header line's cells when
// header detection succeeded, positional col_0, col_1, … otherwise.
// Duplicate or empty header cells fall back to their positional name.
func columnNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]bool, width)
	for i := range names {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" || seen[name] {
			name = "col_" + strconv.Itoa(i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// cellValue converts a cell to a number when it parses as one.
func cellValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// mergeColumns appends the names missing from cols, preserving first-seen
// order, and returns the updated list.
func mergeColumns(cols []string, names []string, seen map[string]bool) []string {
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			cols = append(cols, n)
		}
	}
	return cols
}
