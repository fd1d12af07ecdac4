// Package gate implements the encryption gate that runs before any content
// extraction. It inspects the document container for access protection and
// verifies credentials, without ever invoking an extraction engine: a
// protected container fails identically at the render level, so there is
// nothing to gain by trying.
package gate

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// State is the protection state of a document container. Terminal states
// are NotProtected, ProtectedUnlocked and WrongCredential; WrongCredential
// is reachable only from ProtectedLocked.
type State int

const (
	Unknown State = iota
	NotProtected
	ProtectedLocked
	ProtectedUnlocked
	WrongCredential
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case NotProtected:
		return "not-protected"
	case ProtectedLocked:
		return "protected-locked"
	case ProtectedUnlocked:
		return "protected-unlocked"
	case WrongCredential:
		return "wrong-credential"
	default:
		return "unknown"
	}
}

// Gate determines whether a document is access-protected and verifies
// credentials before extraction is attempted.
type Gate interface {
	// Check inspects the container without consuming it. It never mutates
	// the document and leaves no handle open.
	Check(path string) (State, error)

	// Unlock verifies a credential against a container that Check reported
	// as ProtectedLocked.
	Unlock(path, password string) (State, error)
}

// PDFGate checks PDF containers using pdfcpu. Every call opens and fully
// releases its own handle; the extraction stage reopens the file itself.
type PDFGate struct{}

// NewPDFGate creates a gate for PDF containers.
func NewPDFGate() *PDFGate {
	return &PDFGate{}
}

// Check reports whether the PDF at path requires a credential.
func (g *PDFGate) Check(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("open container: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(f, conf)
	if err != nil {
		if isCredentialError(err) {
			return ProtectedLocked, nil
		}
		return Unknown, fmt.Errorf("read container: %w", err)
	}
	if pdfCtx.Encrypt != nil {
		return ProtectedLocked, nil
	}
	return NotProtected, nil
}

// Unlock verifies the supplied password against a locked container.
func (g *PDFGate) Unlock(path, password string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("open container: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.UserPW = password
	conf.OwnerPW = password

	if _, err := api.ReadContext(f, conf); err != nil {
		if isCredentialError(err) {
			return WrongCredential, nil
		}
		return Unknown, fmt.Errorf("read container: %w", err)
	}
	return ProtectedUnlocked, nil
}

// isCredentialError reports whether pdfcpu rejected the read for lack of a
// valid password rather than for a structural problem.
func isCredentialError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}
