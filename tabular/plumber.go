package tabular

import (
	"bytes"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"
)

// plumberExtractor reconstructs tables page by page from positioned text.
// Contiguous runs of multi-cell lines form tables; the first line of a run
// becomes the header when it looks like one.
type plumberExtractor struct{}

func (plumberExtractor) extract(data []byte) (rows []Row, cols []string, err error) {
	// The reader panics on some malformed files instead of returning an
	// error; normalize that so auto mode can fall back.
	defer func() {
		if r := recover(); r != nil {
			rows, cols = nil, nil
			err = fmt.Errorf("pdfplumber reader: %v", r)
		}
	}()

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("pdfplumber open: %w", err)
	}

	seen := make(map[string]bool)
	for pageNr := 1; pageNr <= r.NumPage(); pageNr++ {
		page := r.Page(pageNr)
		if page.V.IsNull() {
			continue
		}
		textRows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		var lines []textLine
		for _, tr := range textRows {
			chunks := make([]chunk, 0, len(tr.Content))
			for _, t := range tr.Content {
				if t.S == "" {
					continue
				}
				chunks = append(chunks, chunk{x: t.X, y: t.Y, w: t.W, s: t.S})
			}
			cells := cellsFromChunks(chunks)
			if len(cells) > 0 {
				lines = append(lines, textLine{y: float64(tr.Position), cells: cells})
			}
		}

		tableIdx := 0
		for start := 0; start < len(lines); {
			if len(lines[start].cells) < 2 {
				start++
				continue
			}
			end := start
			for end < len(lines) && len(lines[end].cells) >= 2 {
				end++
			}
			tableIdx++
			tRows, tCols := tableFromLines(lines[start:end], pageNr, tableIdx)
			rows = append(rows, tRows...)
			cols = mergeColumns(cols, tCols, seen)
			start = end
		}
	}

	if len(rows) > 0 {
		cols = append(cols, ColPage, ColTable)
	}
	return rows, cols, nil
}

// tableFromLines normalizes one detected table into row mappings with
// page/table provenance attached.
func tableFromLines(lines []textLine, pageNr, tableIdx int) ([]Row, []string) {
	width := 0
	for _, l := range lines {
		if len(l.cells) > width {
			width = len(l.cells)
		}
	}

	var names []string
	data := lines
	if len(lines) > 1 && len(lines[0].cells) == width && headerLike(lines[0].cells) {
		names = columnNames(lines[0].cells, width)
		data = lines[1:]
	} else {
		names = columnNames(nil, width)
	}

	rows := make([]Row, 0, len(data))
	for _, l := range data {
		row := Row{ColPage: pageNr, ColTable: tableIdx}
		for i, cell := range l.cells {
			if i >= len(names) {
				break
			}
			row[names[i]] = cellValue(cell)
		}
		rows = append(rows, row)
	}
	return rows, names
}
