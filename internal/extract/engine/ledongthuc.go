package engine

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/textlift/textlift/internal/capability"
)

// Ledongthuc is the primary direct engine, built on ledongthuc/pdf. It is
// fast and handles the common case well, but it cannot open encrypted
// documents; those fall through to the alternate engine.
type Ledongthuc struct{}

// NewLedongthuc creates the primary direct extraction engine.
func NewLedongthuc() *Ledongthuc {
	return &Ledongthuc{}
}

// Name identifies the engine in logs.
func (e *Ledongthuc) Name() string {
	return "ledongthuc"
}

// Method is the tag recorded on results produced by this engine.
func (e *Ledongthuc) Method() string {
	return "ledongthuc"
}

// Capability is the registry kind this engine is gated on.
func (e *Ledongthuc) Capability() capability.Kind {
	return capability.DirectPDF
}

// SupportsEncrypted reports that ledongthuc/pdf cannot decrypt protected
// containers.
func (e *Ledongthuc) SupportsEncrypted() bool {
	return false
}

// ExtractPages extracts the text layer of every page independently. The
// underlying library panics on some malformed documents, so the whole call
// is guarded and a panic surfaces as a document-level hard failure.
func (e *Ledongthuc) ExtractPages(ctx context.Context, path, _ string) (pages []PageResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("ledongthuc parser panicked: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages = make([]PageResult, 0, total)

	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(n)
		if page.V.IsNull() {
			pages = append(pages, PageResult{Number: n})
			continue
		}

		text, pageErr := plainText(page)
		if pageErr != nil {
			pages = append(pages, PageResult{Number: n, Err: pageErr})
			continue
		}
		pages = append(pages, PageResult{Number: n, Text: text})
	}

	return pages, nil
}

// plainText extracts one page's text, containing per-page parser panics so
// a single bad page degrades instead of aborting the document.
func plainText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page text extraction panicked: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}
