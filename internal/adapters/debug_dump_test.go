package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kconfresolve/internal/ports"
)

func TestDebugDumpAdapter_DumpConstraints(t *testing.T) {
	dir := t.TempDir()
	a := NewDebugDumpAdapter()
	err := a.DumpConstraints(dir, []ports.ConstraintDump{
		{Name: "b.dep", Source: "B", Text: "A"},
		{Name: "a.dep", Source: "A", Text: "B"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "constraints.txt"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[A] a.dep: B")
	assert.Contains(t, content, "[B] b.dep: A")
	// sorted by source first
	assert.Less(t, indexOf(content, "[A]"), indexOf(content, "[B]"))
}

func TestDebugDumpAdapter_DumpCNF(t *testing.T) {
	dir := t.TempDir()
	a := NewDebugDumpAdapter()
	err := a.DumpCNF(dir, [][]int{{1, -2}, {2}}, map[int]string{1: "A_Y", 2: "B_Y"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "cnf.dimacs"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "p cnf 2 2")
	assert.Contains(t, content, "c 1 A_Y")
	assert.Contains(t, content, "1 -2 0")
}

func TestDebugDumpAdapter_EmptyDirRejected(t *testing.T) {
	a := NewDebugDumpAdapter()
	assert.Error(t, a.DumpConstraints("", nil))
	assert.Error(t, a.DumpCNF("", nil, nil))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
