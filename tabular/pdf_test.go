package tabular

import (
	"context"
	"strings"
	"testing"
)

func TestExtract_PlainTextPDF(t *testing.T) {
	// WHAT: A text-only PDF yields one row per line via the pypdf2 method.
	// WHY: Core plain-text extraction must produce normalized rows with
	// page and table provenance.
	data := buildTextPDF("Invoice 2024-001", "Total due: 199.99")

	p := New(Config{})
	res, err := p.Extract(context.Background(), data, MethodText)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.MethodUsed != MethodText {
		t.Fatalf("expected %s, got %s", MethodText, res.MethodUsed)
	}
	if res.RowsExtracted != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", res.RowsExtracted, res.Rows)
	}
	for i, row := range res.Rows {
		if row[ColPage] != 1 {
			t.Errorf("row %d: expected page 1, got %v", i, row[ColPage])
		}
		if row[ColTable] != 1 {
			t.Errorf("row %d: expected table 1, got %v", i, row[ColTable])
		}
	}
	text, _ := res.Rows[0]["text"].(string)
	if !strings.Contains(text, "Invoice") {
		t.Errorf("expected first row to carry the first line, got %q", text)
	}

	want := []string{"text", ColPage, ColTable}
	if len(res.Columns) != len(want) {
		t.Fatalf("expected columns %v, got %v", want, res.Columns)
	}
	for i := range want {
		if res.Columns[i] != want[i] {
			t.Fatalf("expected columns %v, got %v", want, res.Columns)
		}
	}
}

func TestExtract_AutoOnPlainTextPDF(t *testing.T) {
	// A single column of free text carries no table structure, so the
	// structural methods find nothing and auto mode lands on pypdf2.
	data := buildTextPDF("just a paragraph of prose")

	p := New(Config{})
	res, err := p.Extract(context.Background(), data, MethodAuto)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.MethodUsed != MethodText {
		t.Fatalf("expected auto to fall through to %s, got %s", MethodText, res.MethodUsed)
	}
	if res.RowsExtracted == 0 {
		t.Fatal("expected at least one row")
	}
}

func TestTextFromStream(t *testing.T) {
	stream := "BT\n/F1 12 Tf\n72 720 Td\n(first line) Tj\n0 -14 Td\n(second) Tj\nT*\n(third) Tj\nET"
	got := textFromStream([]byte(stream))
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "first line" || lines[1] != "second" || lines[2] != "third" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, "plain"},
		{`with \( parens \)`, "with ( parens )"},
		{`back\\slash`, `back\slash`},
		{`octal\040space`, "octal space"},
		{`tab\there`, "tab\there"},
	}
	for _, tt := range tests {
		if got := decodePDFString([]byte(tt.in)); got != tt.want {
			t.Errorf("decodePDFString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// buildTextPDF creates a valid single-page PDF with proper xref offsets,
// one text-show operation per line.
func buildTextPDF(lines ...string) []byte {
	var stream strings.Builder
	stream.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
	for i, line := range lines {
		escaped := strings.ReplaceAll(line, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, "(", `\(`)
		escaped = strings.ReplaceAll(escaped, ")", `\)`)
		if i > 0 {
			stream.WriteString("0 -14 Td\n")
		}
		stream.WriteString("(" + escaped + ") Tj\n")
	}
	stream.WriteString("ET")
	content := stream.String()

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 6)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")

	offsets[4] = b.Len()
	b.WriteString("4 0 obj\n<< /Length ")
	b.WriteString(pdfItoa(len(content)))
	b.WriteString(" >>\nstream\n")
	b.WriteString(content)
	b.WriteString("\nendstream\nendobj\n")

	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xrefOffset := b.Len()
	b.WriteString("xref\n0 6\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		b.WriteString(pdfPadOffset(offsets[i]))
		b.WriteString(" 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n")
	b.WriteString(pdfItoa(xrefOffset))
	b.WriteString("\n%%EOF\n")

	return []byte(b.String())
}

func pdfItoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}

func pdfPadOffset(n int) string {
	s := pdfItoa(n)
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}
