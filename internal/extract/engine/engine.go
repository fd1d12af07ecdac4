// Package engine provides the direct text extraction engines for PDF
// documents. Each engine reads the document's internal text layer through a
// different PDF library; the pipeline tries them in a fixed priority order
// and falls through on document-level failures.
package engine

import (
	"context"

	"github.com/textlift/textlift/internal/capability"
)

// PageResult is the outcome of extracting a single page. A page either
// produced text or failed with Err set; a failed page never fails the
// document.
type PageResult struct {
	Number int
	Text   string
	Err    error
}

// DirectEngine reads structured text straight from a document's text layer,
// as opposed to deriving it from a rasterized rendering.
type DirectEngine interface {
	// Name identifies the engine in logs.
	Name() string

	// Method is the tag recorded on results produced by this engine.
	Method() string

	// Capability is the registry kind this engine is gated on.
	Capability() capability.Kind

	// SupportsEncrypted reports whether the engine can open a
	// credential-protected container once the gate has verified the
	// credential.
	SupportsEncrypted() bool

	// ExtractPages extracts every page independently. A non-nil error is a
	// document-level hard failure; per-page failures are reported inside
	// the returned slice and must not abort the document.
	ExtractPages(ctx context.Context, path, password string) ([]PageResult, error)
}
