package extract

import (
	"errors"
	"fmt"
)

// Error kinds reported by the extraction pipeline. Document-level kinds end
// up inside a failed Result rather than propagating to the caller; only
// construction-time problems surface as Go errors.
var (
	// ErrFileNotFound is returned when the document does not exist. Raised
	// at construction, before any extraction work.
	ErrFileNotFound = errors.New("file not found")

	// ErrPasswordRequired means the container is protected and no
	// credential was supplied. No extraction engine runs in this case.
	ErrPasswordRequired = errors.New("document is password protected")

	// ErrIncorrectPassword means the supplied credential failed
	// verification. No content-extraction engine runs in this case.
	ErrIncorrectPassword = errors.New("incorrect password")

	// ErrEngineUnavailable means a named capability is missing from the
	// environment. The pipeline degrades to the next fallback.
	ErrEngineUnavailable = errors.New("extraction engine unavailable")

	// ErrEscalationExhausted means every engine, including OCR, failed or
	// was unavailable. Terminal, but a normal outcome rather than a crash.
	ErrEscalationExhausted = errors.New("all extraction engines failed or were unavailable")

	// ErrUnsupportedFormat means the extension has no dedicated route and
	// the generic best-effort read also produced nothing.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Error wraps a pipeline error with the operation and document it belongs
// to.
type Error struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("extract: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("extract: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
