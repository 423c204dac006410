package ports

import "kconfresolve/internal/types"

// MutabilityPolicyPort decides which features RangeFix's soft set may
// touch when building a diagnosis (SPEC_FULL.md §8).
type MutabilityPolicyPort interface {
	Locked(feature string) bool
}

// OverridesSourcePort loads the force/lock/ignore directives applied to
// a live config before a session is built (SPEC_FULL.md §8). Absent is
// not an error: a caller with no overrides file passes an empty path
// and gets back an empty slice.
type OverridesSourcePort interface {
	LoadOverrides(path string) ([]types.OverrideDirective, error)
}

// DumpPort persists the two debug artefacts spec.md §6 names: a
// human-readable constraint dump and a DIMACS CNF dump.
type DumpPort interface {
	DumpConstraints(dir string, constraints []ConstraintDump) error
	DumpCNF(dir string, clauses [][]int, atomNames map[int]string) error
}

// ConstraintDump is the printable form of a types.Constraint, decoupled
// from the core package so adapters doesn't import core.
type ConstraintDump struct {
	Name   string
	Source string
	Text   string
}
