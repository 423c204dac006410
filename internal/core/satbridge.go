package core

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// SATBridge is C6: a thin wrapper around a ports.SATProblemHandle adding
// the one capability gophersat's public API does not offer natively,
// deletion-based minimization of an unsatisfiable assumption set. The
// source's failed_assumptions() call has no gophersat equivalent, so
// RangeFix's core extraction is reproduced here as repeated re-solves
// instead (SPEC_FULL.md §4, spec.md §9 open questions).
type SATBridge struct {
	handle ports.SATProblemHandle
}

func NewSATBridge(engine ports.SATEnginePort, clauses []types.Clause, numVars int) (*SATBridge, error) {
	handle, err := engine.NewProblem(clauses, numVars)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("construct SAT problem").
			WithCause(err)
	}
	return &SATBridge{handle: handle}, nil
}

// Solve runs one assumption-constrained solve.
func (s *SATBridge) Solve(assumptions []types.Literal) (ports.SATEngineResult, error) {
	return s.handle.Solve(assumptions)
}

// FailedCore assumes the caller already knows assumptions is
// unsatisfiable and returns a locally-minimal unsatisfiable subset of it:
// repeatedly try dropping one assumption; keep the drop if the remainder
// is still UNSAT, otherwise that assumption was necessary and stays.
func (s *SATBridge) FailedCore(ctx context.Context, assumptions []types.Literal) ([]types.Literal, error) {
	working := append([]types.Literal(nil), assumptions...)
	for i := 0; i < len(working); {
		if err := ctx.Err(); err != nil {
			return working, err
		}
		trial := make([]types.Literal, 0, len(working)-1)
		trial = append(trial, working[:i]...)
		trial = append(trial, working[i+1:]...)
		res, err := s.handle.Solve(trial)
		if err != nil {
			return nil, err
		}
		if !res.Satisfiable && !res.Unknown {
			working = trial
			continue
		}
		i++
	}
	return working, nil
}
