package app

import (
	"context"

	"kconfresolve/internal/core"
)

// Validate loads a model plus its fragment overlays and runs C1's
// structural checks without building a SAT session, grounded on the
// teacher's app.Validate (load-and-check, no solver involvement).
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	base, err := s.ModelLoader.LoadModel(req.ModelPath)
	if err != nil {
		return ValidateResult{}, err
	}
	fragments, err := s.FragmentSource.LoadFragments(req.FragmentPaths)
	if err != nil {
		return ValidateResult{}, err
	}
	composed, err := core.NewFragmentComposer().Compose(ctx, base, fragments)
	if err != nil {
		return ValidateResult{}, err
	}
	if err := core.NewModelValidator().Validate(ctx, composed); err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{FeatureCount: len(composed.Order)}, nil
}
