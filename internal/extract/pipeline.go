// Package extract implements the extraction decision pipeline: given a
// document and an optional credential it chooses, in a deterministic order,
// among an encryption gate, competing direct text engines, a text-quality
// policy and OCR escalation, and normalizes whatever happened into one
// Result shape.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/textlift/textlift/internal/capability"
	"github.com/textlift/textlift/internal/extract/engine"
	"github.com/textlift/textlift/internal/extract/gate"
	"github.com/textlift/textlift/internal/logging"
)

// pageErrorPlaceholder is recorded inline for a page that failed to
// extract. Page-level errors are absorbed and annotated, never surfaced as
// pipeline failure.
const pageErrorPlaceholder = "[Error extracting page content]"

// Recognizer runs text recognition over rasterized document pages.
type Recognizer interface {
	RecognizePDF(ctx context.Context, path, password string) ([]engine.PageResult, error)
	RecognizeImage(ctx context.Context, path string) (string, error)
}

// Pipeline orchestrates PDF extraction: encryption gate, the ordered list
// of direct engines, the quality policy and OCR escalation.
type Pipeline struct {
	gate    gate.Gate
	engines []engine.DirectEngine
	ocr     Recognizer
	caps    *capability.Registry
	log     zerolog.Logger
}

// NewPipeline wires the pipeline from its collaborators. Engines are tried
// in slice order; the registry decides which of them (and whether OCR) may
// run at all.
func NewPipeline(g gate.Gate, engines []engine.DirectEngine, ocr Recognizer, caps *capability.Registry) *Pipeline {
	return &Pipeline{
		gate:    g,
		engines: engines,
		ocr:     ocr,
		caps:    caps,
		log:     logging.WithComponent("pipeline"),
	}
}

// Extract runs the full decision flow for one PDF document. Document-level
// failures come back inside the Result; nothing is thrown past this point.
func (p *Pipeline) Extract(ctx context.Context, doc DocumentRef, password string) *Result {
	state, failure := p.checkGate(doc, password)
	if failure != nil {
		return failure
	}
	protected := state == gate.ProtectedUnlocked

	var (
		text         string
		method       Method
		ocrAttempted bool
	)

	for _, eng := range p.engines {
		if !p.caps.Available(eng.Capability()) {
			p.log.Debug().Str("engine", eng.Name()).Msg("engine unavailable, skipping")
			continue
		}
		if protected && !eng.SupportsEncrypted() {
			p.log.Debug().Str("engine", eng.Name()).Msg("engine cannot open protected container, falling through")
			continue
		}

		pages, err := eng.ExtractPages(ctx, doc.Path, password)
		if err != nil {
			p.log.Warn().Err(err).Str("engine", eng.Name()).Str("file", doc.Name).
				Msg("direct engine failed, falling through")
			continue
		}

		text = JoinPages(pages)
		method = Method(eng.Method())

		if NeedsEscalation(text) && p.ocrAvailable() {
			p.log.Info().Str("file", doc.Name).Int("chars", strippedLength(text)).
				Msg("low text content, escalating to ocr")

			ocrAttempted = true
			ocrPages, ocrErr := p.ocr.RecognizePDF(ctx, doc.Path, password)
			if ocrErr != nil {
				p.log.Warn().Err(ocrErr).Str("file", doc.Name).Msg("ocr escalation failed, keeping direct text")
			} else {
				text = JoinPages(ocrPages)
				method = method.WithOCR()
			}
		}
		break
	}

	// Last resort: no direct engine produced usable text. One OCR attempt
	// per document, whatever its outcome; a failed escalation above is not
	// retried here.
	if BelowHardFloor(text) && !ocrAttempted {
		switch {
		case p.ocrAvailable():
			ocrPages, err := p.ocr.RecognizePDF(ctx, doc.Path, password)
			if err != nil {
				if strings.TrimSpace(text) == "" {
					return NewFailure(doc, fmt.Sprintf("%v: ocr failed: %v", ErrEscalationExhausted, err))
				}
				p.log.Warn().Err(err).Str("file", doc.Name).Msg("last-resort ocr failed, keeping direct text")
			} else {
				text = JoinPages(ocrPages)
				method = MethodOCR
			}
		case strings.TrimSpace(text) == "":
			return NewFailure(doc,
				"no text layer found and OCR is not available (install tesseract-ocr and poppler-utils)")
		}
	}

	if strings.TrimSpace(text) == "" {
		return NewFailure(doc, ErrEscalationExhausted.Error())
	}
	return NewResult(doc, text, method)
}

// checkGate runs the encryption gate and translates its terminal states
// into failure results. No extraction engine has run yet when either
// failure is produced.
func (p *Pipeline) checkGate(doc DocumentRef, password string) (gate.State, *Result) {
	state, err := p.gate.Check(doc.Path)
	if err != nil {
		// The container could not be inspected at all; let the engines
		// report their own failure.
		p.log.Warn().Err(err).Str("file", doc.Name).Msg("protection check failed")
		return gate.Unknown, nil
	}

	if state != gate.ProtectedLocked {
		return state, nil
	}

	if password == "" {
		return state, NewFailure(doc,
			fmt.Sprintf("%s is password protected. Provide a password with --password", doc.Name))
	}

	state, err = p.gate.Unlock(doc.Path, password)
	if err != nil {
		return state, NewFailure(doc, fmt.Sprintf("credential verification failed for %s: %v", doc.Name, err))
	}
	if state != gate.ProtectedUnlocked {
		return state, NewFailure(doc, fmt.Sprintf("incorrect password for %s", doc.Name))
	}

	p.log.Debug().Str("file", doc.Name).Msg("container unlocked")
	return state, nil
}

func (p *Pipeline) ocrAvailable() bool {
	return p.ocr != nil && p.caps.Available(capability.OCR)
}

// JoinPages renders per-page outcomes into one text block with explicit
// page-boundary markers, so direct extraction and OCR output are textually
// interchangeable to downstream consumers.
func JoinPages(pages []engine.PageResult) string {
	var b strings.Builder
	for _, pg := range pages {
		fmt.Fprintf(&b, "\n--- Page %d ---\n", pg.Number)
		if pg.Err != nil {
			b.WriteString(pageErrorPlaceholder)
			continue
		}
		b.WriteString(pg.Text)
	}
	return b.String()
}
