package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format classifies a document by its extension and selects the extraction
// route.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatImage       Format = "image"
	FormatDOCX        Format = "docx"
	FormatSpreadsheet Format = "spreadsheet"
	FormatDelimited   Format = "delimited"
	FormatText        Format = "text"
	FormatGeneric     Format = "generic"
)

// formatByExtension routes known extensions. Anything absent here routes to
// the generic best-effort text reader.
var formatByExtension = map[string]Format{
	".pdf":  FormatPDF,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".png":  FormatImage,
	".tiff": FormatImage,
	".bmp":  FormatImage,
	".gif":  FormatImage,
	".docx": FormatDOCX,
	".doc":  FormatDOCX,
	".xlsx": FormatSpreadsheet,
	".xls":  FormatSpreadsheet,
	".csv":  FormatDelimited,
	".txt":  FormatText,
}

// FormatForPath returns the detected format tag for a file path.
func FormatForPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatByExtension[ext]; ok {
		return f
	}
	return FormatGeneric
}

// Supported reports whether the extension belongs to the supported set the
// batch orchestrator picks up. Unsupported files are skipped, not failed.
func Supported(path string) bool {
	_, ok := formatByExtension[strings.ToLower(filepath.Ext(path))]
	return ok
}

// DocumentRef identifies one document to extract. Immutable once created.
type DocumentRef struct {
	Path      string
	Name      string
	Format    Format
	SizeBytes int64
}

// NewDocumentRef stats the file and builds its reference. A missing file is
// fatal here, before any pipeline work starts.
func NewDocumentRef(path string) (DocumentRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DocumentRef{}, &Error{Op: "stat", Path: path, Err: ErrFileNotFound}
		}
		return DocumentRef{}, &Error{Op: "stat", Path: path, Err: err}
	}
	if info.IsDir() {
		return DocumentRef{}, &Error{Op: "stat", Path: path, Err: errors.New("path is a directory, not a file")}
	}

	return DocumentRef{
		Path:      path,
		Name:      filepath.Base(path),
		Format:    FormatForPath(path),
		SizeBytes: info.Size(),
	}, nil
}

// Method tags which engine produced a result's text. Recorded at extraction
// time, never inferred afterwards.
type Method string

const (
	MethodLedongthuc Method = "ledongthuc"
	MethodPDFCPU     Method = "pdfcpu"
	MethodOCR        Method = "ocr"
	MethodDOCX       Method = "docx"
	MethodXLSX       Method = "xlsx"
	MethodCSV        Method = "csv"
	MethodText       Method = "text"
	MethodGeneric    Method = "generic"
	MethodError      Method = "error"
)

// WithOCR marks a direct-engine method as escalated to OCR.
func (m Method) WithOCR() Method {
	return m + "+ocr"
}

// charsPerPage is the heuristic used to estimate page counts from text
// length. It is an approximation kept for output compatibility, not a
// structural page count.
const charsPerPage = 3000

// Result is the normalized outcome of extracting one document. Built once,
// immutable after construction, owned by the caller.
type Result struct {
	Text              string            `json:"text"`
	Method            Method            `json:"method"`
	Success           bool              `json:"success"`
	CharCount         int               `json:"char_count"`
	PageCountEstimate int               `json:"page_count_estimate"`
	SourceFileName    string            `json:"source_file_name"`
	SourceFileSizeKB  float64           `json:"source_file_size_kb"`
	Metrics           map[string]string `json:"metrics,omitempty"`
}

// NewResult builds a result from extracted text. Success requires non-blank
// text and a non-error method.
func NewResult(doc DocumentRef, text string, method Method) *Result {
	text = strings.TrimSpace(text)
	chars := utf8.RuneCountInString(text)

	return &Result{
		Text:              text,
		Method:            method,
		Success:           chars > 0 && method != MethodError,
		CharCount:         chars,
		PageCountEstimate: estimatePages(chars),
		SourceFileName:    doc.Name,
		SourceFileSizeKB:  float64(doc.SizeBytes) / 1024,
		Metrics:           map[string]string{},
	}
}

// NewFailure builds a terminal failed result whose text describes the cause
// in human-readable form. Failures are reported, not thrown.
func NewFailure(doc DocumentRef, cause string) *Result {
	return &Result{
		Text:             cause,
		Method:           MethodError,
		SourceFileName:   doc.Name,
		SourceFileSizeKB: float64(doc.SizeBytes) / 1024,
		Metrics:          map[string]string{},
	}
}

// WithMetric records one extra metric on the result and returns it for
// chaining during construction.
func (r *Result) WithMetric(key, value string) *Result {
	r.Metrics[key] = value
	return r
}

// estimatePages derives the page-count estimate, floored at one page.
func estimatePages(chars int) int {
	if chars == 0 {
		return 0
	}
	if pages := chars / charsPerPage; pages > 1 {
		return pages
	}
	return 1
}

// SizeLabel formats the source file size the way the CLI reports it.
func (r *Result) SizeLabel() string {
	return fmt.Sprintf("%.2fKB", r.SourceFileSizeKB)
}
