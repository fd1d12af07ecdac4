// Package ocr implements optical character recognition over rasterized
// document pages. PDF pages are rendered to PNG images with pdftoppm at a
// fixed resolution and each page is recognized independently with
// Tesseract, so one unreadable page degrades instead of failing the call.
package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
	"github.com/textlift/textlift/internal/extract/engine"
	"github.com/textlift/textlift/internal/logging"
)

// rasterDPI is the fixed rasterization resolution. Keeping it constant keeps
// recognition output reproducible across runs.
const rasterDPI = "300"

// Engine rasterizes document pages and runs per-page text recognition.
type Engine struct {
	languages     []string
	tesseractPath string
	pdftoppmPath  string
	log           zerolog.Logger
}

// New probes PATH for the tesseract and pdftoppm binaries and returns an
// engine configured with the given recognition languages (default "eng").
func New(languages []string) *Engine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}

	tesseract, _ := exec.LookPath("tesseract")
	pdftoppm, _ := exec.LookPath("pdftoppm")

	return &Engine{
		languages:     languages,
		tesseractPath: tesseract,
		pdftoppmPath:  pdftoppm,
		log:           logging.WithComponent("ocr"),
	}
}

// Available reports whether both external binaries were found.
func (e *Engine) Available() bool {
	return e.tesseractPath != "" && e.pdftoppmPath != ""
}

// RecognizePDF renders every page of the PDF at path to a raster image and
// recognizes each one independently. It fails only when rasterization
// itself cannot run; per-page recognition failures are reported inside the
// returned slice. All transient raster files are released before returning.
func (e *Engine) RecognizePDF(ctx context.Context, path, password string) ([]engine.PageResult, error) {
	if !e.Available() {
		return nil, fmt.Errorf("ocr requires tesseract and pdftoppm on PATH")
	}

	tmpDir, err := os.MkdirTemp("", "textlift-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("create raster dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	args := []string{"-png", "-r", rasterDPI}
	if password != "" {
		args = append(args, "-upw", password)
	}
	args = append(args, path, filepath.Join(tmpDir, "page"))

	cmd := exec.CommandContext(ctx, e.pdftoppmPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	images, err := rasterImages(tmpDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no pages rasterized from %s", filepath.Base(path))
	}

	pages := make([]engine.PageResult, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, recErr := e.recognize(img)
		if recErr != nil {
			e.log.Warn().Err(recErr).Int("page", i+1).Msg("page recognition failed, continuing")
			pages = append(pages, engine.PageResult{Number: i + 1, Err: recErr})
			continue
		}
		pages = append(pages, engine.PageResult{Number: i + 1, Text: text})
	}

	e.log.Debug().Int("pages", len(pages)).Str("file", filepath.Base(path)).Msg("ocr completed")
	return pages, nil
}

// RecognizeImage runs text recognition directly on a raster image file.
func (e *Engine) RecognizeImage(ctx context.Context, path string) (string, error) {
	if e.tesseractPath == "" {
		return "", fmt.Errorf("ocr requires tesseract on PATH")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.recognize(path)
}

// recognize runs one Tesseract pass over a single image file.
func (e *Engine) recognize(imagePath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// rasterImages lists the generated page images in page order. pdftoppm
// zero-pads page numbers, so a lexical sort preserves ordering.
func rasterImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read raster dir: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".png") {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}
