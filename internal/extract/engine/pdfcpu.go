package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/textlift/textlift/internal/capability"
)

// PDFCPU is the alternate direct engine, built on pdfcpu. It is slower than
// the primary engine but supports encrypted containers, so it also serves
// credential-protected documents after the gate has unlocked them.
type PDFCPU struct{}

// NewPDFCPU creates the alternate direct extraction engine.
func NewPDFCPU() *PDFCPU {
	return &PDFCPU{}
}

// Name identifies the engine in logs.
func (e *PDFCPU) Name() string {
	return "pdfcpu"
}

// Method is the tag recorded on results produced by this engine.
func (e *PDFCPU) Method() string {
	return "pdfcpu"
}

// Capability is the registry kind this engine is gated on.
func (e *PDFCPU) Capability() capability.Kind {
	return capability.DirectPDFAlt
}

// SupportsEncrypted reports that pdfcpu can decrypt protected containers
// given the verified credential.
func (e *PDFCPU) SupportsEncrypted() bool {
	return true
}

// ExtractPages decodes each page's content stream independently and scans it
// for text-showing operators. A page whose stream cannot be decoded degrades
// to a per-page failure.
func (e *PDFCPU) ExtractPages(ctx context.Context, path, password string) ([]PageResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}

	pdfCtx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("read pdf context: %w", err)
	}
	if err := pdfCtx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("resolve page count: %w", err)
	}

	pages := make([]PageResult, 0, pdfCtx.PageCount)
	for n := 1; n <= pdfCtx.PageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stream, pageErr := pdfcpu.ExtractPageContent(pdfCtx, n)
		if pageErr != nil {
			pages = append(pages, PageResult{Number: n, Err: pageErr})
			continue
		}
		if stream == nil {
			pages = append(pages, PageResult{Number: n})
			continue
		}

		raw, readErr := io.ReadAll(stream)
		if readErr != nil {
			pages = append(pages, PageResult{Number: n, Err: readErr})
			continue
		}
		pages = append(pages, PageResult{Number: n, Text: decodeContentText(string(raw))})
	}

	return pages, nil
}

// Text-showing operators in a decoded content stream: (..) Tj, (..) ' and
// (..) " show a single string, [..] TJ shows an array of strings with kern
// adjustments interleaved.
var (
	textShowRE   = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*(?:Tj|'|")`)
	textArrayRE  = regexp.MustCompile(`\[((?:\\.|[^\\\]])*)\]\s*TJ`)
	arrayStrRE   = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
	octalEscRE   = regexp.MustCompile(`\\([0-7]{1,3})`)
	simpleEscMap = strings.NewReplacer(`\n`, "\n", `\r`, "\r", `\t`, "\t", `\b`, "", `\f`, "", `\(`, "(", `\)`, ")", `\\`, `\`)
)

// decodeContentText pulls the shown strings out of a page content stream,
// grouped by operator form. The result approximates reading order; exact
// layout reconstruction is the primary engine's job.
func decodeContentText(content string) string {
	var parts []string

	for _, match := range textShowRE.FindAllStringSubmatch(content, -1) {
		if s := unescapeString(match[1]); strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	for _, match := range textArrayRE.FindAllStringSubmatch(content, -1) {
		for _, inner := range arrayStrRE.FindAllStringSubmatch(match[1], -1) {
			if s := unescapeString(inner[1]); strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
	}

	return strings.Join(parts, " ")
}

// unescapeString resolves PDF literal-string escapes: the named escapes,
// escaped delimiters, and octal character codes.
func unescapeString(s string) string {
	s = octalEscRE.ReplaceAllStringFunc(s, func(esc string) string {
		code, err := strconv.ParseUint(esc[1:], 8, 16)
		if err != nil || code > 0xFF {
			return ""
		}
		return string(rune(code))
	})
	return simpleEscMap.Replace(s)
}
