package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeContentText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "single Tj operator",
			content: `BT /F1 12 Tf 72 720 Td (Hello World) Tj ET`,
			want:    "Hello World",
		},
		{
			name:    "quote operators show strings",
			content: `(first line) ' (second line) "`,
			want:    "first line second line",
		},
		{
			name:    "TJ array with kern adjustments",
			content: `[(Hel) -20 (lo) 4 ( World)] TJ`,
			want:    "Hel lo  World",
		},
		{
			name:    "escaped parentheses",
			content: `(a \(nested\) value) Tj`,
			want:    "a (nested) value",
		},
		{
			name:    "no text operators",
			content: `0 0 612 792 re f`,
			want:    "",
		},
		{
			name:    "whitespace-only strings dropped",
			content: `(   ) Tj (kept) Tj`,
			want:    "kept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeContentText(tt.content))
		})
	}
}

func TestUnescapeString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"newline escape", `line1\nline2`, "line1\nline2"},
		{"tab escape", `a\tb`, "a\tb"},
		{"escaped backslash", `a\\b`, `a\b`},
		{"escaped parens", `\(x\)`, "(x)"},
		{"octal escape", `\101\102\103`, "ABC"},
		{"octal space", `a\040b`, "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unescapeString(tt.in))
		})
	}
}

func TestEngineMetadata(t *testing.T) {
	a := NewLedongthuc()
	assert.Equal(t, "ledongthuc", a.Method())
	assert.False(t, a.SupportsEncrypted())

	b := NewPDFCPU()
	assert.Equal(t, "pdfcpu", b.Method())
	assert.True(t, b.SupportsEncrypted())
	assert.NotEqual(t, a.Capability(), b.Capability())
}
