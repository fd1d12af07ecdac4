package office

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSX renders every sheet of a workbook as a tabular text block under a
// per-sheet heading.
func XLSX(path string) (string, map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "# Excel Data - %s\n\n", filepath.Base(path))

	sheets := f.GetSheetList()
	for _, sheet := range sheets {
		fmt.Fprintf(&b, "## Sheet: %s\n\n", sheet)

		rows, err := f.GetRows(sheet)
		if err != nil {
			// A broken sheet degrades; the rest of the workbook still renders.
			fmt.Fprintf(&b, "[Error reading sheet: %v]\n\n", err)
			continue
		}
		for _, row := range rows {
			b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		b.WriteString("\n")
	}

	metrics := map[string]string{
		"sheet_count": strconv.Itoa(len(sheets)),
	}
	return strings.TrimSpace(b.String()), metrics, nil
}
