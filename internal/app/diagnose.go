package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"kconfresolve/internal/types"
)

// Diagnose loads the model, layers fragments and overrides, and runs
// RangeFix against req.Feature==req.TargetValue, returning every
// minimal fix set found within the budget.
func (s Service) Diagnose(ctx context.Context, req DiagnoseRequest) (DiagnoseResult, error) {
	session, _, _, err := s.buildSession(ctx, req.ModelPath, req.FragmentPaths, req.OverridesPath, "", req.LockPatterns)
	if err != nil {
		return DiagnoseResult{}, err
	}
	budget := req.Budget
	if budget.MaxDiagnoses == 0 && budget.TimeBudget == 0 {
		budget = types.DefaultDiagnosisBudget()
	}
	result, err := session.Diagnose(ctx, req.Feature, req.TargetValue, budget)
	if err != nil {
		return DiagnoseResult{}, err
	}
	log.Ctx(ctx).Info().
		Str("feature", req.Feature).
		Str("target", req.TargetValue).
		Int("diagnoses", len(result.Diagnoses)).
		Bool("satisfiable", result.Satisfiable).
		Msg("diagnose complete")
	return DiagnoseResult{Result: result}, nil
}
