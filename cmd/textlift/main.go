package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/textlift/textlift/internal/batch"
	"github.com/textlift/textlift/internal/capability"
	"github.com/textlift/textlift/internal/config"
	"github.com/textlift/textlift/internal/extract"
	"github.com/textlift/textlift/internal/extract/engine"
	"github.com/textlift/textlift/internal/extract/gate"
	"github.com/textlift/textlift/internal/extract/ocr"
	"github.com/textlift/textlift/internal/logging"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
)

const previewLimit = 2000

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logging.WithComponent("main")
	log.Debug().Str("version", version).Str("build_time", buildTime).Msg("starting textlift")

	caps := capability.Detect()

	if cfg.Check {
		printCapabilityReport(os.Stdout, caps)
		return
	}
	// Startup banner; stderr keeps stdout clean for extracted text.
	printCapabilityReport(os.Stderr, caps)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc := buildService(cfg, caps)

	switch {
	case cfg.BatchDir != "":
		runBatch(ctx, cfg, svc, log)
	case cfg.File == "":
		pflag.Usage()
		os.Exit(2)
	case cfg.CheckProtected:
		runCheckProtected(cfg, svc)
	default:
		runSingleFile(ctx, cfg, svc, log)
	}
}

// buildService wires the full extraction stack: gate, direct engines in
// priority order, OCR, all behind one service.
func buildService(cfg *config.Config, caps *capability.Registry) *extract.Service {
	recognizer := ocr.New(cfg.OCRLanguages)
	engines := []engine.DirectEngine{
		engine.NewLedongthuc(),
		engine.NewPDFCPU(),
	}
	checker := gate.NewPDFGate()
	pipeline := extract.NewPipeline(checker, engines, recognizer, caps)
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return extract.NewService(pipeline, recognizer, caps, checker, timeout)
}

// printCapabilityReport renders the availability of every extraction
// capability as a table.
func printCapabilityReport(w io.Writer, caps *capability.Registry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Capability", "Available", "Detail"})
	for _, row := range caps.Report() {
		available := "no"
		if row.Status.Available {
			available = "yes"
		}
		table.Append([]string{string(row.Kind), available, row.Status.Detail})
	}
	table.Render()
}

func runCheckProtected(cfg *config.Config, svc *extract.Service) {
	state, err := svc.CheckProtected(cfg.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %s\n", cfg.File, state)
}

func runSingleFile(ctx context.Context, cfg *config.Config, svc *extract.Service, log zerolog.Logger) {
	started := time.Now()
	res, err := svc.Extract(ctx, cfg.File, cfg.Password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Debug().
		Str("file", res.SourceFileName).
		Str("method", string(res.Method)).
		Dur("elapsed", time.Since(started)).
		Msg("extraction finished")

	printResultSummary(res)

	if !res.Success {
		fmt.Fprintf(os.Stderr, "Extraction failed: %s\n", res.Text)
		os.Exit(1)
	}

	if cfg.Output != "" {
		if err := svc.Save(res, cfg.Output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved %d characters to %s\n", res.CharCount, cfg.Output)
		return
	}

	fmt.Println(preview(res.Text))
}

// printResultSummary writes the per-file summary table to stderr so stdout
// stays clean for the extracted text.
func printResultSummary(res *extract.Result) {
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader([]string{"File", "Method", "Chars", "Pages (est.)", "Size"})
	table.Append([]string{
		res.SourceFileName,
		string(res.Method),
		fmt.Sprintf("%d", res.CharCount),
		fmt.Sprintf("%d", res.PageCountEstimate),
		res.SizeLabel(),
	})
	table.Render()
}

func runBatch(ctx context.Context, cfg *config.Config, svc *extract.Service, log zerolog.Logger) {
	orch := batch.NewOrchestrator(svc, cfg.Workers)
	started := time.Now()
	summary, err := orch.Run(ctx, cfg.BatchDir, cfg.OutputDir, cfg.Password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"File", "Status", "Method", "Chars"})
	for _, res := range summary.Results {
		status := "ok"
		if !res.Success {
			status = "failed"
		}
		table.Append([]string{
			res.SourceFileName,
			status,
			string(res.Method),
			fmt.Sprintf("%d", res.CharCount),
		})
	}
	table.Render()

	fmt.Printf("Processed %d files in %s: %d succeeded, %d failed\n",
		summary.Total, time.Since(started).Round(time.Millisecond),
		summary.Successful, summary.Failed)
	log.Info().
		Int("total", summary.Total).
		Int("successful", summary.Successful).
		Int("failed", summary.Failed).
		Msg("batch run complete")

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// preview returns up to previewLimit runes of text for terminal display.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "\n\n... (truncated, use -o to save the full text)"
}
