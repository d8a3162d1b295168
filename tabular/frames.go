package tabular

import (
	"bytes"
	"fmt"

	dpdf "github.com/dslipak/pdf"
)

// tabulaExtractor extracts one frame per detected table across the whole
// document. The frame's page number is applied to every row it produced —
// the library reports position per text chunk, not rows per page region,
// so a frame spanning a page break keeps its starting page. Table indexes
// increment per frame over the document, not per page.
type tabulaExtractor struct{}

func (tabulaExtractor) extract(data []byte) (rows []Row, cols []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, cols = nil, nil
			err = fmt.Errorf("tabula reader: %v", r)
		}
	}()

	r, err := dpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("tabula open: %w", err)
	}

	seen := make(map[string]bool)
	frameIdx := 0
	for pageNr := 1; pageNr <= r.NumPage(); pageNr++ {
		page := r.Page(pageNr)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()

		chunks := make([]chunk, 0, len(content.Text))
		for _, t := range content.Text {
			if t.S == "" {
				continue
			}
			chunks = append(chunks, chunk{x: t.X, y: t.Y, w: t.W, s: t.S})
		}
		lines := linesFromChunks(chunks)

		for start := 0; start < len(lines); {
			if len(lines[start].cells) < 2 {
				start++
				continue
			}
			end := start
			for end < len(lines) && len(lines[end].cells) >= 2 {
				end++
			}
			frameIdx++
			fRows, fCols := tableFromLines(lines[start:end], pageNr, frameIdx)
			rows = append(rows, fRows...)
			cols = mergeColumns(cols, fCols, seen)
			start = end
		}
	}

	if len(rows) > 0 {
		cols = append(cols, ColPage, ColTable)
	}
	return rows, cols, nil
}
