package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// Applier is C8: applies a FeatureDiagnosis to a live FeatureModelPort.
// Fixes are retried across multiple rounds because one fix can unlock
// another (a dependency edit makes a previously out-of-range value valid,
// or clears the lock a choice's earlier member held); spec.md §4.6 bounds
// the retry budget at 2*|d| rounds so the loop always terminates even if
// two fixes are mutually exclusive.
type Applier struct {
	live   ports.FeatureModelPort
	policy ports.MutabilityPolicyPort
}

func NewApplier(live ports.FeatureModelPort, policy ports.MutabilityPolicyPort) *Applier {
	return &Applier{live: live, policy: policy}
}

func (a *Applier) Apply(ctx context.Context, diag types.FeatureDiagnosis) types.ApplyResult {
	rounds := 2 * len(diag.Fixes)
	if rounds == 0 {
		return types.ApplyResult{}
	}

	var applied, unapplied []types.FeatureFix
	pending := append([]types.FeatureFix(nil), diag.Fixes...)

	for round := 0; round < rounds && len(pending) > 0; round++ {
		if ctx.Err() != nil {
			unapplied = append(unapplied, pending...)
			pending = nil
			break
		}
		var retry []types.FeatureFix
		progressed := false
		snapshot := a.live.Snapshot()
		for _, fix := range pending {
			if a.policy.Locked(fix.Feature) {
				unapplied = append(unapplied, fix)
				continue
			}
			current, ok := snapshot.Get(fix.Feature)
			if ok && current.Value == fix.NewValue {
				applied = append(applied, fix)
				progressed = true
				continue
			}
			if err := a.live.SetValue(fix.Feature, fix.NewValue); err != nil {
				log.Ctx(ctx).Debug().Str("feature", fix.Feature).Str("value", fix.NewValue).Err(err).Msg("fix rejected, retrying next round")
				retry = append(retry, fix)
				continue
			}
			applied = append(applied, fix)
			progressed = true
		}
		pending = retry
		if !progressed {
			break
		}
	}
	unapplied = append(unapplied, pending...)
	return types.ApplyResult{Applied: applied, Unapplied: unapplied}
}
