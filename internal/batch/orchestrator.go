// Package batch processes every supported document in a directory through
// the extraction service with per-file failure isolation: one bad document
// never aborts a run.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/textlift/textlift/internal/extract"
	"github.com/textlift/textlift/internal/logging"
)

// Summary aggregates one batch run. Results are ordered by enumeration
// order regardless of completion order.
type Summary struct {
	Total      int
	Successful int
	Failed     int
	Results    []*extract.Result
}

// Orchestrator fans the files of a directory out over a bounded worker
// pool.
type Orchestrator struct {
	svc     *extract.Service
	workers int
	log     zerolog.Logger
}

// NewOrchestrator creates an orchestrator backed by the given service.
// Workers at or below zero defaults to the CPU count.
func NewOrchestrator(svc *extract.Service, workers int) *Orchestrator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Orchestrator{
		svc:     svc,
		workers: workers,
		log:     logging.WithComponent("batch"),
	}
}

type job struct {
	path  string
	index int
}

// Run extracts every supported file directly inside dir (non-recursive) and
// writes each successful result to outDir/<stem>.txt. Unsupported files
// are skipped silently. The only fatal errors are failing to enumerate the
// directory and failing to create the output directory; everything else is
// isolated at the file boundary.
func (o *Orchestrator) Run(ctx context.Context, dir, outDir, password string) (*Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !extract.Supported(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	// Created once, before any worker writes into it.
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	o.log.Info().Int("files", len(files)).Int("workers", o.workers).Str("dir", dir).Msg("starting batch run")

	results := make([]*extract.Result, len(files))
	jobs := make(chan job)

	workers := o.workers
	if workers > len(files) {
		workers = len(files)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				results[jb.index] = o.processFile(ctx, jb.path, outDir, password)
			}
		}()
	}

	for i, path := range files {
		jobs <- job{path: path, index: i}
	}
	close(jobs)
	wg.Wait()

	summary := &Summary{Total: len(results), Results: results}
	for _, res := range results {
		if res.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	o.log.Info().
		Int("total", summary.Total).
		Int("successful", summary.Successful).
		Int("failed", summary.Failed).
		Msg("batch run complete")

	return summary, nil
}

// processFile extracts one file and writes its output. Anything that goes
// wrong is converted into a failed result so the run continues; the recover
// is the backstop for panics on this worker goroutine (parser panics are
// already absorbed inside the service).
func (o *Orchestrator) processFile(ctx context.Context, path, outDir, password string) (res *extract.Result) {
	doc := extract.DocumentRef{Path: path, Name: filepath.Base(path)}

	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Str("file", doc.Name).Interface("panic", r).Msg("extraction panicked")
			res = extract.NewFailure(doc, fmt.Sprintf("extraction panicked: %v", r))
		}
	}()

	result, err := o.svc.Extract(ctx, path, password)
	if err != nil {
		return extract.NewFailure(doc, err.Error())
	}

	if result.Success {
		outPath := filepath.Join(outDir, outputName(doc.Name))
		if err := o.svc.Save(result, outPath); err != nil {
			o.log.Error().Err(err).Str("file", doc.Name).Msg("failed to write output")
			return extract.NewFailure(doc, fmt.Sprintf("extracted but failed to write output: %v", err))
		}
	}
	return result
}

// outputName maps a source file name to its output artifact name.
func outputName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".txt"
}
