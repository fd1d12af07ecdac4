package gate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Unknown, "unknown"},
		{NotProtected, "not-protected"},
		{ProtectedLocked, "protected-locked"},
		{ProtectedUnlocked, "protected-unlocked"},
		{WrongCredential, "wrong-credential"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestIsCredentialError(t *testing.T) {
	assert.True(t, isCredentialError(errors.New("pdfcpu: please provide the correct password")))
	assert.True(t, isCredentialError(errors.New("this file is encrypted")))
	assert.False(t, isCredentialError(errors.New("xref table corrupt")))
}

func TestCheckMissingFile(t *testing.T) {
	g := NewPDFGate()

	state, err := g.Check(filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
	assert.Equal(t, Unknown, state)
}

func TestCheckNotAPDF(t *testing.T) {
	g := NewPDFGate()
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	state, err := g.Check(path)
	require.Error(t, err)
	assert.Equal(t, Unknown, state)
}

func TestUnlockMissingFile(t *testing.T) {
	g := NewPDFGate()

	state, err := g.Unlock(filepath.Join(t.TempDir(), "absent.pdf"), "pw")
	require.Error(t, err)
	assert.Equal(t, Unknown, state)
}
