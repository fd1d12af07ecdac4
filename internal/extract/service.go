package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/textlift/textlift/internal/capability"
	"github.com/textlift/textlift/internal/extract/gate"
	"github.com/textlift/textlift/internal/extract/office"
	"github.com/textlift/textlift/internal/logging"
)

// Service routes documents to the extraction path for their format: the
// full decision pipeline for PDFs, straight OCR for raster images, and the
// single-pass converters for structured documents.
type Service struct {
	pipeline *Pipeline
	ocr      Recognizer
	caps     *capability.Registry
	checker  gate.Gate
	timeout  time.Duration
	log      zerolog.Logger
}

// NewService wires the router from its collaborators. A zero timeout
// disables the per-file deadline.
func NewService(pipeline *Pipeline, ocr Recognizer, caps *capability.Registry, checker gate.Gate, timeout time.Duration) *Service {
	return &Service{
		pipeline: pipeline,
		ocr:      ocr,
		caps:     caps,
		checker:  checker,
		timeout:  timeout,
		log:      logging.WithComponent("extract"),
	}
}

// Extract processes one document to completion. The returned error covers
// construction problems only (a missing file); every extraction outcome,
// including failure, comes back as a Result.
func (s *Service) Extract(ctx context.Context, path, password string) (*Result, error) {
	doc, err := NewDocumentRef(path)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res := s.dispatchWithDeadline(ctx, doc, password)

	s.log.Info().
		Str("file", doc.Name).
		Str("format", string(doc.Format)).
		Str("method", string(res.Method)).
		Bool("success", res.Success).
		Int("chars", res.CharCount).
		Dur("elapsed", time.Since(start)).
		Msg("extraction finished")

	return res, nil
}

// dispatchWithDeadline runs the format dispatch and abandons it when the
// per-file deadline expires, recording a timeout failure instead of hanging
// the batch. The abandoned engine call finishes in the background. Dispatch
// runs on its own goroutine, so a parser panic must be recovered here; a
// recover on the calling goroutine can never see it.
func (s *Service) dispatchWithDeadline(ctx context.Context, doc DocumentRef, password string) *Result {
	done := make(chan *Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Str("file", doc.Name).Interface("panic", r).Msg("extraction panicked")
				done <- NewFailure(doc, fmt.Sprintf("extraction panicked: %v", r))
			}
		}()
		done <- s.dispatch(ctx, doc, password)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return NewFailure(doc, fmt.Sprintf("extraction timed out after %s", s.timeout))
	}
}

func (s *Service) dispatch(ctx context.Context, doc DocumentRef, password string) *Result {
	switch doc.Format {
	case FormatPDF:
		return s.pipeline.Extract(ctx, doc, password)
	case FormatImage:
		return s.extractImage(ctx, doc)
	case FormatDOCX:
		return s.convert(doc, MethodDOCX, office.DOCX)
	case FormatSpreadsheet:
		return s.convert(doc, MethodXLSX, office.XLSX)
	case FormatDelimited:
		return s.convert(doc, MethodCSV, office.CSV)
	case FormatText:
		return s.convert(doc, MethodText, office.PlainText)
	default:
		return s.extractGeneric(doc)
	}
}

// extractImage routes raster images straight to OCR; there is no direct
// text layer to try first.
func (s *Service) extractImage(ctx context.Context, doc DocumentRef) *Result {
	if s.ocr == nil || !s.caps.Available(capability.OCR) {
		return NewFailure(doc, "OCR is not available for image extraction (install tesseract-ocr)")
	}

	text, err := s.ocr.RecognizeImage(ctx, doc.Path)
	if err != nil {
		return NewFailure(doc, fmt.Sprintf("image recognition failed: %v", err))
	}
	return NewResult(doc, text, MethodOCR)
}

// convert runs one deterministic single-pass converter.
func (s *Service) convert(doc DocumentRef, method Method, fn func(string) (string, map[string]string, error)) *Result {
	text, metrics, err := fn(doc.Path)
	if err != nil {
		return NewFailure(doc, fmt.Sprintf("%s extraction failed: %v", method, err))
	}

	res := NewResult(doc, text, method)
	for k, v := range metrics {
		res.Metrics[k] = v
	}
	return res
}

// extractGeneric is the best-effort route for unknown extensions.
func (s *Service) extractGeneric(doc DocumentRef) *Result {
	text, err := office.Generic(doc.Path)
	if err != nil || strings.TrimSpace(text) == "" {
		return NewFailure(doc, fmt.Sprintf("%v: %s", ErrUnsupportedFormat, filepath.Ext(doc.Path)))
	}

	res := NewResult(doc, text, MethodGeneric)
	res.Metrics["note"] = "unsupported file type, attempted generic text extraction"
	return res
}

// Save writes the result text to path byte-for-byte, creating parent
// directories as needed.
func (s *Service) Save(res *Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(res.Text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// CheckProtected reports the protection state of a document without
// extracting anything. Only PDF containers support the check.
func (s *Service) CheckProtected(path string) (gate.State, error) {
	doc, err := NewDocumentRef(path)
	if err != nil {
		return gate.Unknown, err
	}
	if doc.Format != FormatPDF {
		return gate.Unknown, &Error{
			Op:   "check-protected",
			Path: path,
			Err:  fmt.Errorf("protection check not supported for extension %q", filepath.Ext(path)),
		}
	}
	return s.checker.Check(path)
}
