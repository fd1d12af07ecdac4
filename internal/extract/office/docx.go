// Package office holds the single-pass converters for structured document
// types: word-processor files, spreadsheets, delimited text and plain text.
// Each converter is deterministic with no fallback chain and no quality
// policy; the PDF pipeline's decision logic does not apply here.
package office

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	docxParagraphRE = regexp.MustCompile(`</w:p>`)
	docxTagRE       = regexp.MustCompile(`<[^>]+>`)
	blankLinesRE    = regexp.MustCompile(`\n{3,}`)
)

// DOCX extracts the text of a Word document, paragraphs and table cells in
// document order.
func DOCX(path string) (string, map[string]string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	text := flattenDocumentXML(content)

	metrics := map[string]string{
		"paragraph_count": strconv.Itoa(len(docxParagraphRE.FindAllString(content, -1))),
	}
	return text, metrics, nil
}

// flattenDocumentXML reduces WordprocessingML to plain text: paragraph ends
// become newlines, every other tag is dropped, entities are decoded.
func flattenDocumentXML(content string) string {
	content = docxParagraphRE.ReplaceAllString(content, "\n")
	content = docxTagRE.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "&amp;", "&")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	content = strings.ReplaceAll(content, "&quot;", "\"")
	content = strings.ReplaceAll(content, "&apos;", "'")

	content = blankLinesRE.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
