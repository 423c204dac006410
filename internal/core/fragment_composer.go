package core

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"kconfresolve/internal/types"
)

// FragmentComposer is SPEC_FULL.md §6: layers ConfigFragment overlays
// onto a base FeatureModel in order, last fragment wins per-feature,
// grounded on the teacher's layered product/profile merge
// (product_composer.go), generalized from spec-merging to
// assignment-merging.
type FragmentComposer struct{}

func NewFragmentComposer() FragmentComposer { return FragmentComposer{} }

// Compose applies every fragment's assignments onto a copy of base, in
// order, and returns the resulting snapshot. An assignment naming a
// feature absent from base is an error (fragments describe values for an
// already-known model, they never introduce new features).
func (c FragmentComposer) Compose(ctx context.Context, base types.FeatureModel, fragments []types.ConfigFragment) (types.FeatureModel, error) {
	composed := cloneModel(base)
	for _, fragment := range fragments {
		for feature, value := range fragment.Assignments {
			f, ok := composed.Features[feature]
			if !ok {
				return types.FeatureModel{}, errbuilder.New().
					WithCode(errbuilder.CodeNotFound).
					WithMsg(fmt.Sprintf("fragment %q sets unknown feature %q", fragment.Name, feature))
			}
			if f.Value != "" && f.Value != value {
				log.Ctx(ctx).Debug().Str("fragment", fragment.Name).Str("feature", feature).
					Str("previous", f.Value).Str("new", value).Msg("fragment overrides prior assignment")
			}
			f.Value = value
		}
	}
	return composed, nil
}

func cloneModel(base types.FeatureModel) types.FeatureModel {
	clone := types.NewFeatureModel()
	clone.Order = append([]string(nil), base.Order...)
	clone.ModulesFeature = base.ModulesFeature
	for name, f := range base.Features {
		cp := *f
		clone.Features[name] = &cp
	}
	return clone
}
