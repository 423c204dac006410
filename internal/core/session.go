package core

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// Session owns the immutable per-model pipeline (C2-C7): one atom table,
// one constraint set, one CNF, one prepared SAT problem, built once and
// reused across every Diagnose call for that model snapshot (spec.md §11
// "Concurrency"). A Session is single-goroutine-owned; callers needing
// concurrent diagnosis build one Session per goroutine.
type Session struct {
	tbl         *TableBuilder
	pb          *PExprBuilder
	constraints []types.Constraint
	clauses     []types.Clause
	bridge      *SATBridge
	rangeFix    *RangeFix
	model       types.FeatureModel
}

// NewSession builds the full C2-C6 pipeline for model and prepares a SAT
// problem from the resulting CNF. Building is eager so a Diagnose call
// never pays translation cost, only solves.
func NewSession(ctx context.Context, model types.FeatureModel, engine ports.SATEnginePort, policy ports.MutabilityPolicyPort) (*Session, error) {
	tbl := NewTableBuilder(model)
	tbl.Populate()
	pb := NewPExprBuilder(tbl)
	constraints := NewConstraintGenerator(tbl, pb).Generate(ctx)
	clauses := NewCNFEncoder(tbl).Encode(constraints)

	bridge, err := NewSATBridge(engine, clauses, tbl.Table.NumVars())
	if err != nil {
		return nil, err
	}
	return &Session{
		tbl:         tbl,
		pb:          pb,
		constraints: constraints,
		clauses:     clauses,
		bridge:      bridge,
		rangeFix:    NewRangeFix(tbl, bridge, policy),
		model:       model,
	}, nil
}

// Diagnose runs C7 for one target assignment.
func (s *Session) Diagnose(ctx context.Context, feature, targetValue string, budget types.DiagnosisBudget) (types.DiagnosisResult, error) {
	f, ok := s.model.Get(feature)
	if !ok {
		return types.DiagnosisResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("unknown feature: " + feature)
	}
	if f.Type.Tristateish() {
		if !types.Tristate(targetValue).Valid() {
			return types.DiagnosisResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid tristate value: " + targetValue)
		}
	}
	return s.rangeFix.Diagnose(ctx, feature, targetValue, budget)
}

// Constraints exposes C4's output for the debug dumper.
func (s *Session) Constraints() []types.Constraint { return s.constraints }

// Clauses exposes C5's output, as plain DIMACS ints, for the debug
// dumper.
func (s *Session) Clauses() [][]int {
	out := make([][]int, len(s.clauses))
	for i, c := range s.clauses {
		out[i] = []int(c)
	}
	return out
}

// AtomNames exposes C2's trace names for the debug dumper.
func (s *Session) AtomNames() map[int]string { return s.tbl.Names }
