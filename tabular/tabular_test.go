package tabular

import (
	"context"
	"errors"
	"testing"
)

// stubBackend stands in for a real extraction backend so pipeline
// behavior can be tested without depending on PDF library internals.
type stubBackend struct {
	rows  []Row
	cols  []string
	err   error
	calls *int
}

func (s stubBackend) extract([]byte) ([]Row, []string, error) {
	if s.calls != nil {
		*s.calls++
	}
	return s.rows, s.cols, s.err
}

func stubRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"name": "item", ColPage: 1, ColTable: 1}
	}
	return rows
}

func TestExtract_EmptyInput(t *testing.T) {
	// WHAT: Zero-byte payload fails before any backend runs.
	// WHY: Backends must never see data the pipeline already rejected.
	p := New(Config{})
	calls := 0
	p.backends[MethodPlumber] = stubBackend{calls: &calls}
	p.backends[MethodTabula] = stubBackend{calls: &calls}
	p.backends[MethodText] = stubBackend{calls: &calls}

	_, err := p.Extract(context.Background(), nil, MethodAuto)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no backend calls, got %d", calls)
	}
}

func TestExtract_NotAPDF(t *testing.T) {
	p := New(Config{})
	_, err := p.Extract(context.Background(), []byte("plain text, not a pdf"), MethodAuto)
	if !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF, got %v", err)
	}
}

func TestExtract_OverSizeLimit(t *testing.T) {
	p := New(Config{MaxFileSize: 16})
	data := buildTextPDF("way past sixteen bytes")
	_, err := p.Extract(context.Background(), data, MethodAuto)
	if !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF for oversized payload, got %v", err)
	}
}

func TestExtract_AutoKeepsFirstSuccess(t *testing.T) {
	// WHAT: Auto mode stops at the first backend that yields rows.
	// WHY: The fallback order is quality-descending; later backends must
	// not run once a richer one succeeded.
	p := New(Config{})
	laterCalls := 0
	p.backends[MethodPlumber] = stubBackend{rows: stubRows(2), cols: []string{"name", ColPage, ColTable}}
	p.backends[MethodTabula] = stubBackend{calls: &laterCalls}
	p.backends[MethodText] = stubBackend{calls: &laterCalls}

	res, err := p.Extract(context.Background(), buildTextPDF("x"), MethodAuto)
	if err != nil {
		t.Fatal(err)
	}
	if res.MethodUsed != MethodPlumber {
		t.Fatalf("expected %s, got %s", MethodPlumber, res.MethodUsed)
	}
	if laterCalls != 0 {
		t.Fatalf("expected later backends untouched, got %d calls", laterCalls)
	}
}

func TestExtract_AutoFallsThrough(t *testing.T) {
	// WHAT: A backend error and a zero-row result are both treated as
	// "try the next one".
	p := New(Config{})
	p.backends[MethodPlumber] = stubBackend{err: errors.New("parse failure")}
	p.backends[MethodTabula] = stubBackend{} // no rows, no error
	p.backends[MethodText] = stubBackend{rows: stubRows(3), cols: []string{"name", ColPage, ColTable}}

	res, err := p.Extract(context.Background(), buildTextPDF("x"), MethodAuto)
	if err != nil {
		t.Fatal(err)
	}
	if res.MethodUsed != MethodText {
		t.Fatalf("expected fallback to %s, got %s", MethodText, res.MethodUsed)
	}
	if res.RowsExtracted != 3 || len(res.Rows) != 3 {
		t.Fatalf("expected 3 rows, got RowsExtracted=%d len=%d", res.RowsExtracted, len(res.Rows))
	}
}

func TestExtract_AutoExhausted(t *testing.T) {
	p := New(Config{})
	p.backends[MethodPlumber] = stubBackend{err: errors.New("bad")}
	p.backends[MethodTabula] = stubBackend{err: errors.New("worse")}
	p.backends[MethodText] = stubBackend{err: errors.New("worst")}

	_, err := p.Extract(context.Background(), buildTextPDF("x"), MethodAuto)
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent when every method fails, got %v", err)
	}
}

func TestExtract_ExplicitMethodNoFallback(t *testing.T) {
	// WHAT: An explicitly requested method that fails surfaces its own
	// error instead of silently trying another backend.
	p := New(Config{})
	cause := errors.New("tabula broke")
	textCalls := 0
	p.backends[MethodTabula] = stubBackend{err: cause}
	p.backends[MethodText] = stubBackend{rows: stubRows(1), calls: &textCalls}

	_, err := p.Extract(context.Background(), buildTextPDF("x"), MethodTabula)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if textCalls != 0 {
		t.Fatal("explicit method must not fall back")
	}
}

func TestExtract_ExplicitMethodNoRows(t *testing.T) {
	p := New(Config{})
	p.backends[MethodPlumber] = stubBackend{}

	_, err := p.Extract(context.Background(), buildTextPDF("x"), MethodPlumber)
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestExtract_ResultShape(t *testing.T) {
	p := New(Config{})
	cols := []string{"name", "qty", ColPage, ColTable}
	p.backends[MethodPlumber] = stubBackend{rows: stubRows(5), cols: cols}

	res, err := p.Extract(context.Background(), buildTextPDF("x"), MethodPlumber)
	if err != nil {
		t.Fatal(err)
	}
	if res.RowsExtracted != len(res.Rows) {
		t.Fatalf("RowsExtracted=%d but len(Rows)=%d", res.RowsExtracted, len(res.Rows))
	}
	if len(res.Columns) != 4 {
		t.Fatalf("expected 4 columns, got %v", res.Columns)
	}
	if res.ExtractedAt.IsZero() {
		t.Fatal("expected ExtractedAt to be set")
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
		ok   bool
	}{
		{"", MethodAuto, true},
		{"auto", MethodAuto, true},
		{"pdfplumber", MethodPlumber, true},
		{"tabula", MethodTabula, true},
		{"pypdf2", MethodText, true},
		{"camelot", "", false},
		{"PDFPLUMBER", "", false},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseMethod(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, ErrUnknownMethod) {
			t.Errorf("ParseMethod(%q): expected ErrUnknownMethod, got %v", tt.in, err)
		}
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want OutputFormat
		ok   bool
	}{
		{"", OutputJSON, true},
		{"json", OutputJSON, true},
		{"csv", OutputCSV, true},
		{"xml", "", false},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseOutputFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseOutputFormat(%q): expected ErrUnknownFormat, got %v", tt.in, err)
		}
	}
}

func TestSupportedMethods(t *testing.T) {
	methods := SupportedMethods()
	if len(methods) != 4 {
		t.Fatalf("expected 4 methods, got %d: %v", len(methods), methods)
	}
	if methods[0] != "auto" {
		t.Fatalf("expected auto first, got %v", methods)
	}
}
