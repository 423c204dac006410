package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentFileAdapter_LoadFragments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fragment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: dev\nassignments:\n  USB: \"y\"\n"), 0o644))

	a := NewFragmentFileAdapter()
	fragments, err := a.LoadFragments([]string{path})
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, "dev", fragments[0].Name)
	assert.Equal(t, "y", fragments[0].Assignments["USB"])
}

func TestFragmentFileAdapter_DefaultsNameToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fragment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assignments:\n  USB: \"y\"\n"), 0o644))

	a := NewFragmentFileAdapter()
	fragments, err := a.LoadFragments([]string{path})
	require.NoError(t, err)
	assert.Equal(t, path, fragments[0].Name)
}

func TestFragmentFileAdapter_EmptyExplicit(t *testing.T) {
	a := NewFragmentFileAdapter()
	fragments, err := a.LoadFragments(nil)
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestFragmentFileAdapter_NotFound(t *testing.T) {
	a := NewFragmentFileAdapter()
	_, err := a.LoadFragments([]string{filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
