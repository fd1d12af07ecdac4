package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"report.pdf", FormatPDF},
		{"REPORT.PDF", FormatPDF},
		{"scan.jpg", FormatImage},
		{"scan.jpeg", FormatImage},
		{"scan.png", FormatImage},
		{"scan.tiff", FormatImage},
		{"letter.docx", FormatDOCX},
		{"letter.doc", FormatDOCX},
		{"numbers.xlsx", FormatSpreadsheet},
		{"numbers.xls", FormatSpreadsheet},
		{"data.csv", FormatDelimited},
		{"notes.txt", FormatText},
		{"archive.zip", FormatGeneric},
		{"no-extension", FormatGeneric},
		{"/some/dir/nested.pdf", FormatPDF},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatForPath(tt.path))
		})
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.pdf"))
	assert.True(t, Supported("a.csv"))
	assert.False(t, Supported("a.zip"))
	assert.False(t, Supported("a"))
}

func TestNewDocumentRef(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	doc, err := NewDocumentRef(path)
	require.NoError(t, err)
	assert.Equal(t, "sample.txt", doc.Name)
	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, int64(11), doc.SizeBytes)
}

func TestNewDocumentRefMissingFile(t *testing.T) {
	_, err := NewDocumentRef(filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestNewDocumentRefDirectory(t *testing.T) {
	_, err := NewDocumentRef(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestEstimatePages(t *testing.T) {
	tests := []struct {
		name  string
		chars int
		want  int
	}{
		{"no text", 0, 0},
		{"single character", 1, 1},
		{"just under one page", 2999, 1},
		{"three pages", 9000, 3},
		{"partial pages round down", 9500, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimatePages(tt.chars))
		})
	}
}

func TestNewResult(t *testing.T) {
	doc := DocumentRef{Name: "sample.pdf", SizeBytes: 2048}

	res := NewResult(doc, "  some extracted text  ", MethodLedongthuc)
	assert.True(t, res.Success)
	assert.Equal(t, "some extracted text", res.Text)
	assert.Equal(t, 19, res.CharCount)
	assert.Equal(t, 1, res.PageCountEstimate)
	assert.Equal(t, "sample.pdf", res.SourceFileName)
	assert.InDelta(t, 2.0, res.SourceFileSizeKB, 0.001)
	assert.Equal(t, "2.00KB", res.SizeLabel())
}

func TestNewResultEmptyTextIsFailure(t *testing.T) {
	res := NewResult(DocumentRef{Name: "blank.pdf"}, "   \n  ", MethodPDFCPU)
	assert.False(t, res.Success)
	assert.Zero(t, res.CharCount)
	assert.Zero(t, res.PageCountEstimate)
}

func TestNewResultCountsRunes(t *testing.T) {
	res := NewResult(DocumentRef{Name: "jp.pdf"}, "日本語テキスト", MethodOCR)
	assert.Equal(t, 6, res.CharCount)
}

func TestNewFailure(t *testing.T) {
	doc := DocumentRef{Name: "bad.pdf", SizeBytes: 1024}

	res := NewFailure(doc, "something went wrong")
	assert.False(t, res.Success)
	assert.Equal(t, MethodError, res.Method)
	assert.Equal(t, "something went wrong", res.Text)
	assert.Equal(t, "bad.pdf", res.SourceFileName)
}

func TestMethodWithOCR(t *testing.T) {
	assert.Equal(t, Method("ledongthuc+ocr"), MethodLedongthuc.WithOCR())
	assert.Equal(t, Method("pdfcpu+ocr"), MethodPDFCPU.WithOCR())
}

func TestResultWithMetric(t *testing.T) {
	res := NewResult(DocumentRef{Name: "a.csv"}, "text", MethodCSV).
		WithMetric("row_count", "42")
	assert.Equal(t, "42", res.Metrics["row_count"])
}

func TestLargeTextEstimate(t *testing.T) {
	text := strings.Repeat("x", 30000)
	res := NewResult(DocumentRef{Name: "big.pdf"}, text, MethodLedongthuc)
	assert.Equal(t, 10, res.PageCountEstimate)
}
