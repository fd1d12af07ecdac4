package office

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxDataRows caps how many data rows a delimited file contributes to the
// output, to bound output size. The true row count is noted after the
// table. Kept fixed for output compatibility.
const maxDataRows = 100

// CSV renders a delimited text file as a markdown table: header row, at
// most maxDataRows data rows, and a truncation note when rows were cut.
func CSV(path string) (string, map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Tolerate ragged or malformed records; keep what parses.
			continue
		}
		rows = append(rows, record)
	}

	var b strings.Builder
	b.WriteString("# CSV Data\n\n")

	columns := 0
	if len(rows) > 0 {
		headers := rows[0]
		columns = len(headers)

		b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")

		// Rows whose width differs from the header never render, so they
		// must not count toward the cap or the truncation note.
		var data [][]string
		for _, row := range rows[1:] {
			if len(row) == len(headers) {
				data = append(data, row)
			}
		}
		shown := data
		if len(shown) > maxDataRows {
			shown = shown[:maxDataRows]
		}
		for _, row := range shown {
			b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		if len(data) > maxDataRows {
			fmt.Fprintf(&b, "\n*Showing %d rows of %d total*\n", maxDataRows, len(data))
		}
	}

	metrics := map[string]string{
		"row_count":    strconv.Itoa(len(rows)),
		"column_count": strconv.Itoa(columns),
	}
	return b.String(), metrics, nil
}
