// Package tabular converts PDF documents into uniform rows and columns.
//
// Three extraction methods are available, named after the capability each
// one provides (richest first):
//   - pdfplumber — per-page table reconstruction from positioned text
//   - tabula    — whole-document frame extraction, one frame per table
//   - pypdf2    — plain text fallback, one row per non-empty line
//
// Auto mode tries them in that order and keeps the first method that
// yields at least one row.
//
// Usage:
//
//	pipe := tabular.New(tabular.Config{})
//	res, err := pipe.Extract(ctx, fileBytes, tabular.MethodAuto)
//	fmt.Println(res.MethodUsed, res.RowsExtracted)
package tabular

import (
	"fmt"
	"time"
)

// Method identifies an extraction backend.
type Method string

const (
	MethodAuto    Method = "auto"
	MethodPlumber Method = "pdfplumber"
	MethodTabula  Method = "tabula"
	MethodText    Method = "pypdf2"
)

// ParseMethod validates a method string from the request surface.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodAuto, MethodPlumber, MethodTabula, MethodText:
		return Method(s), nil
	case "":
		return MethodAuto, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// OutputFormat identifies a serialization format for extraction results.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputCSV  OutputFormat = "csv"
)

// ParseOutputFormat validates a format string from the request surface.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputJSON, OutputCSV:
		return OutputFormat(s), nil
	case "":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Provenance columns added to every row regardless of backend.
const (
	ColPage  = "page"
	ColTable = "table"
)

// Row maps column name → cell value. Values are strings or numbers.
type Row map[string]any

// Result is the normalized outcome of an extraction.
//
// RowsExtracted always equals len(Rows), and a CSV rendering of the result
// uses exactly Columns, in order, as its header.
type Result struct {
	MethodUsed    Method    `json:"method_used"`
	RowsExtracted int       `json:"rows_extracted"`
	Columns       []string  `json:"columns"`
	Rows          []Row     `json:"data"`
	ExtractedAt   time.Time `json:"timestamp"`
}
