// Package capability tracks which optional extraction engines are usable in
// the running environment. The registry is probed once at startup and
// injected into the components that need it; nothing queries the environment
// ad hoc after that.
package capability

import (
	"os/exec"
)

// Kind names one extraction capability.
type Kind string

const (
	// DirectPDF is the primary direct PDF text engine (ledongthuc/pdf).
	DirectPDF Kind = "pdf-direct"

	// DirectPDFAlt is the alternate direct PDF text engine (pdfcpu).
	DirectPDFAlt Kind = "pdf-direct-alt"

	// OCR is optical character recognition over rasterized pages. It needs
	// both the tesseract and pdftoppm binaries on PATH.
	OCR Kind = "ocr"

	// Office covers the structured-document converters (DOCX, XLSX).
	Office Kind = "office"
)

// kinds is the display order for capability reports.
var kinds = []Kind{DirectPDF, DirectPDFAlt, OCR, Office}

// Status describes one capability: whether it is usable and either where it
// was found or how to install it.
type Status struct {
	Available bool
	Detail    string
}

// Registry answers availability queries for every capability kind. Pure
// lookup after construction, safe for concurrent readers.
type Registry struct {
	statuses map[Kind]Status
}

// Detect probes the running environment once and returns the resulting
// registry. The direct engines and office converters are compiled in and
// always available; OCR depends on external binaries.
func Detect() *Registry {
	statuses := map[Kind]Status{
		DirectPDF:    {Available: true, Detail: "ledongthuc/pdf (built in)"},
		DirectPDFAlt: {Available: true, Detail: "pdfcpu (built in)"},
		Office:       {Available: true, Detail: "docx + excelize (built in)"},
	}

	tesseract, tessErr := exec.LookPath("tesseract")
	pdftoppm, ppmErr := exec.LookPath("pdftoppm")
	switch {
	case tessErr != nil:
		statuses[OCR] = Status{Detail: "install tesseract-ocr"}
	case ppmErr != nil:
		statuses[OCR] = Status{Detail: "install poppler-utils (pdftoppm)"}
	default:
		statuses[OCR] = Status{Available: true, Detail: tesseract + ", " + pdftoppm}
	}

	return &Registry{statuses: statuses}
}

// NewStatic builds a registry from a fixed status map. Kinds missing from
// the map report as unavailable. Intended for tests that simulate absent
// providers.
func NewStatic(statuses map[Kind]Status) *Registry {
	copied := make(map[Kind]Status, len(statuses))
	for k, s := range statuses {
		copied[k] = s
	}
	return &Registry{statuses: copied}
}

// Available reports whether the named capability is usable.
func (r *Registry) Available(kind Kind) bool {
	return r.statuses[kind].Available
}

// Detail returns the probe detail for the named capability: a location when
// available, an install hint when not.
func (r *Registry) Detail(kind Kind) string {
	return r.statuses[kind].Detail
}

// ReportRow is one line of the capability report.
type ReportRow struct {
	Kind   Kind
	Status Status
}

// Report returns every capability in display order, for the startup banner
// and the dependency check command.
func (r *Registry) Report() []ReportRow {
	rows := make([]ReportRow, 0, len(kinds))
	for _, k := range kinds {
		rows = append(rows, ReportRow{Kind: k, Status: r.statuses[k]})
	}
	return rows
}
