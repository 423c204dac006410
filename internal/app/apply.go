package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"kconfresolve/internal/core"
	"kconfresolve/internal/types"
)

// Apply runs the same search as Diagnose, picks the DiagnosisIndex'th
// result, and applies its fixes to ConfigPath via C8.
func (s Service) Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error) {
	session, live, policy, err := s.buildSession(ctx, req.ModelPath, req.FragmentPaths, req.OverridesPath, req.ConfigPath, req.LockPatterns)
	if err != nil {
		return ApplyResult{}, err
	}
	budget := req.Budget
	if budget.MaxDiagnoses == 0 && budget.TimeBudget == 0 {
		budget = types.DefaultDiagnosisBudget()
	}
	diag, err := session.Diagnose(ctx, req.Feature, req.TargetValue, budget)
	if err != nil {
		return ApplyResult{}, err
	}
	if diag.Satisfiable {
		return ApplyResult{}, nil
	}
	if req.DiagnosisIndex < 0 || req.DiagnosisIndex >= len(diag.Diagnoses) {
		return ApplyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("diagnosis index out of range")
	}
	chosen := diag.Diagnoses[req.DiagnosisIndex]

	applied := core.NewApplier(live, policy).Apply(ctx, chosen)
	log.Ctx(ctx).Info().
		Str("feature", req.Feature).
		Int("applied", len(applied.Applied)).
		Int("unapplied", len(applied.Unapplied)).
		Msg("apply complete")
	return ApplyResult{Chosen: chosen, Applied: applied}, nil
}
