package office

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDOCXMissingFile(t *testing.T) {
	_, _, err := DOCX(filepath.Join(t.TempDir(), "absent.docx"))
	require.Error(t, err)
}

func TestDOCXNotAZipArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text pretending to be docx"), 0o644))

	_, _, err := DOCX(path)
	require.Error(t, err)
}

func TestFlattenDocumentXML(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "paragraphs become newlines",
			content: `<w:p><w:r><w:t>first</w:t></w:r></w:p><w:p><w:r><w:t>second</w:t></w:r></w:p>`,
			want:    "first\nsecond",
		},
		{
			name: "table cells survive in document order",
			content: `<w:p>before table</w:p>` +
				`<w:tbl><w:tr><w:tc><w:p>name</w:p></w:tc><w:tc><w:p>amount</w:p></w:tc></w:tr>` +
				`<w:tr><w:tc><w:p>rent</w:p></w:tc><w:tc><w:p>1200</w:p></w:tc></w:tr></w:tbl>` +
				`<w:p>after table</w:p>`,
			want: "before table\nname\namount\nrent\n1200\nafter table",
		},
		{
			name:    "entities are decoded",
			content: `<w:p><w:t>Smith &amp; Jones &lt;ltd&gt;</w:t></w:p>`,
			want:    "Smith & Jones <ltd>",
		},
		{
			name:    "blank line runs collapse",
			content: "<w:p>a</w:p><w:p></w:p><w:p></w:p><w:p></w:p><w:p>b</w:p>",
			want:    "a\n\nb",
		},
		{
			name:    "empty document",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flattenDocumentXML(tt.content))
		})
	}
}
