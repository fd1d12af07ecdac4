package office

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PlainText reads a text file as-is.
func PlainText(path string) (string, map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read text file: %w", err)
	}

	text := string(data)
	metrics := map[string]string{
		"line_count": strconv.Itoa(len(strings.Split(text, "\n"))),
	}
	return text, metrics, nil
}

// Generic attempts a best-effort text read of an unknown file type. The
// caller decides whether blank output counts as failure.
func Generic(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}
