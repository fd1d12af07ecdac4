package office

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVBasicTable(t *testing.T) {
	path := writeCSV(t, "name,city\nalice,berlin\nbob,paris\n")

	text, metrics, err := CSV(path)
	require.NoError(t, err)
	assert.Contains(t, text, "# CSV Data")
	assert.Contains(t, text, "| name | city |")
	assert.Contains(t, text, "| --- | --- |")
	assert.Contains(t, text, "| alice | berlin |")
	assert.Contains(t, text, "| bob | paris |")
	assert.Equal(t, "3", metrics["row_count"])
	assert.Equal(t, "2", metrics["column_count"])
}

func TestCSVRowCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,value\n")
	for i := 1; i <= 150; i++ {
		fmt.Fprintf(&b, "%d,item-%d\n", i, i)
	}
	path := writeCSV(t, b.String())

	text, metrics, err := CSV(path)
	require.NoError(t, err)

	assert.Contains(t, text, "| 100 | item-100 |")
	assert.NotContains(t, text, "| 101 | item-101 |")
	assert.Contains(t, text, "*Showing 100 rows of 150 total*")
	assert.Equal(t, "151", metrics["row_count"])
}

func TestCSVExactlyAtCapHasNoNote(t *testing.T) {
	var b strings.Builder
	b.WriteString("id\n")
	for i := 1; i <= 100; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	path := writeCSV(t, b.String())

	text, _, err := CSV(path)
	require.NoError(t, err)
	assert.Contains(t, text, "| 100 |")
	assert.NotContains(t, text, "Showing")
}

func TestCSVRaggedRowsDoNotCountTowardCap(t *testing.T) {
	// 100 well-formed rows interleaved with ragged ones: every well-formed
	// row renders and no truncation note appears.
	var b strings.Builder
	b.WriteString("id,value\n")
	for i := 1; i <= 98; i++ {
		fmt.Fprintf(&b, "%d,item-%d\n", i, i)
	}
	b.WriteString("ragged\n")
	b.WriteString("also,ragged,extra\n")
	b.WriteString("99,item-99\n")
	b.WriteString("100,item-100\n")
	path := writeCSV(t, b.String())

	text, _, err := CSV(path)
	require.NoError(t, err)
	assert.Contains(t, text, "| 99 | item-99 |")
	assert.Contains(t, text, "| 100 | item-100 |")
	assert.NotContains(t, text, "Showing")
}

func TestCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	text, metrics, err := CSV(path)
	require.NoError(t, err)
	assert.Contains(t, text, "# CSV Data")
	assert.Equal(t, "0", metrics["row_count"])
	assert.Equal(t, "0", metrics["column_count"])
}

func TestCSVRaggedRowsSkipped(t *testing.T) {
	path := writeCSV(t, "a,b\n1,2\nonly-one-field\n3,4\n")

	text, _, err := CSV(path)
	require.NoError(t, err)
	assert.Contains(t, text, "| 1 | 2 |")
	assert.Contains(t, text, "| 3 | 4 |")
	assert.NotContains(t, text, "only-one-field |")
}

func TestCSVMissingFile(t *testing.T) {
	_, _, err := CSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
