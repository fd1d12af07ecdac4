package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatic(t *testing.T) {
	r := NewStatic(map[Kind]Status{
		DirectPDF: {Available: true, Detail: "built in"},
		OCR:       {Detail: "install tesseract-ocr"},
	})

	assert.True(t, r.Available(DirectPDF))
	assert.Equal(t, "built in", r.Detail(DirectPDF))
	assert.False(t, r.Available(OCR))
	assert.Equal(t, "install tesseract-ocr", r.Detail(OCR))

	// Kinds absent from the map report as unavailable.
	assert.False(t, r.Available(DirectPDFAlt))
	assert.Empty(t, r.Detail(DirectPDFAlt))
}

func TestNewStaticCopiesInput(t *testing.T) {
	in := map[Kind]Status{DirectPDF: {Available: true}}
	r := NewStatic(in)

	in[DirectPDF] = Status{Available: false}
	assert.True(t, r.Available(DirectPDF), "registry must not alias the caller's map")
}

func TestReportOrder(t *testing.T) {
	r := NewStatic(map[Kind]Status{OCR: {Available: true}})

	rows := r.Report()
	assert.Len(t, rows, 4)
	assert.Equal(t, DirectPDF, rows[0].Kind)
	assert.Equal(t, DirectPDFAlt, rows[1].Kind)
	assert.Equal(t, OCR, rows[2].Kind)
	assert.Equal(t, Office, rows[3].Kind)
	assert.True(t, rows[2].Status.Available)
}

func TestDetectBuiltIns(t *testing.T) {
	// The compiled-in capabilities never depend on the environment.
	r := Detect()
	assert.True(t, r.Available(DirectPDF))
	assert.True(t, r.Available(DirectPDFAlt))
	assert.True(t, r.Available(Office))
	assert.NotEmpty(t, r.Detail(OCR))
}
