package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"kconfresolve/internal/ports"
)

// DebugDumpAdapter is the ports.DumpPort implementation: writes the
// constraint set and DIMACS CNF spec.md §6 names as plain text next to
// each other in dir, grounded on the teacher's OutputFileAdapter
// (ensurePath-then-os.WriteFile, deterministic sort before writing).
type DebugDumpAdapter struct{}

func NewDebugDumpAdapter() DebugDumpAdapter { return DebugDumpAdapter{} }

func (a DebugDumpAdapter) DumpConstraints(dir string, constraints []ports.ConstraintDump) error {
	path, err := ensureDumpPath(dir, "constraints.txt")
	if err != nil {
		return err
	}
	ordered := append([]ports.ConstraintDump(nil), constraints...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Source != ordered[j].Source {
			return ordered[i].Source < ordered[j].Source
		}
		return ordered[i].Name < ordered[j].Name
	})
	var b strings.Builder
	for _, c := range ordered {
		fmt.Fprintf(&b, "[%s] %s: %s\n", c.Source, c.Name, c.Text)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func (a DebugDumpAdapter) DumpCNF(dir string, clauses [][]int, atomNames map[int]string) error {
	path, err := ensureDumpPath(dir, "cnf.dimacs")
	if err != nil {
		return err
	}
	numVars := 0
	for v := range atomNames {
		if v > numVars {
			numVars = v
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "p cnf %d %d\n", numVars, len(clauses))
	for v := 1; v <= numVars; v++ {
		if name, ok := atomNames[v]; ok {
			fmt.Fprintf(&b, "c %d %s\n", v, name)
		}
	}
	for _, clause := range clauses {
		parts := make([]string, len(clause))
		for i, lit := range clause {
			parts[i] = fmt.Sprintf("%d", lit)
		}
		fmt.Fprintf(&b, "%s 0\n", strings.Join(parts, " "))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func ensureDumpPath(dir, filename string) (string, error) {
	if dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dump directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create dump directory").
			WithCause(err)
	}
	return filepath.Join(dir, filename), nil
}

var _ ports.DumpPort = DebugDumpAdapter{}
