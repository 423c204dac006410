package adapters

import (
	"github.com/crillab/gophersat/solver"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// GopherSATEngine is the ports.SATEnginePort implementation wrapping
// github.com/crillab/gophersat/solver, grounded on the teacher's
// apt_solver.go solveSAT (solver.ParseSliceNb / solver.New / .Model()).
// gophersat's public API has no incremental "add assumption, re-solve"
// call, so each SATProblemHandle.Solve re-parses the base clauses plus
// one unit clause per assumption (SPEC_FULL.md §4).
type GopherSATEngine struct{}

func NewGopherSATEngine() GopherSATEngine { return GopherSATEngine{} }

func (e GopherSATEngine) NewProblem(clauses []types.Clause, numVars int) (ports.SATProblemHandle, error) {
	base := make([][]int, len(clauses))
	for i, c := range clauses {
		base[i] = []int(c)
	}
	return &gopherSATProblem{base: base, numVars: numVars}, nil
}

type gopherSATProblem struct {
	base    [][]int
	numVars int
}

func (p *gopherSATProblem) Solve(assumptions []types.Literal) (ports.SATEngineResult, error) {
	clauses := make([][]int, 0, len(p.base)+len(assumptions))
	clauses = append(clauses, p.base...)
	for _, a := range assumptions {
		clauses = append(clauses, []int{a.DIMACS()})
	}
	problem := solver.ParseSliceNb(clauses, p.numVars)
	sat := solver.New(problem)
	switch sat.Solve() {
	case solver.Sat:
		return ports.SATEngineResult{Satisfiable: true, Model: sat.Model()}, nil
	case solver.Unsat:
		return ports.SATEngineResult{Satisfiable: false}, nil
	default:
		return ports.SATEngineResult{Unknown: true}, nil
	}
}
