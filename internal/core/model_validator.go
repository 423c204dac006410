package core

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"kconfresolve/internal/types"
)

// ModelValidator is SPEC_FULL.md §7: structural validation a
// FeatureModel must pass before a Session can be built from it,
// grounded on the teacher's spec_compiler.go field-by-field checks.
type ModelValidator struct{}

func NewModelValidator() ModelValidator { return ModelValidator{} }

// Validate walks every feature and rejects the three model
// inconsistency kinds spec.md §7 names: a feature missing required
// fields, a rule expression referencing an undeclared feature, and a
// choice member whose GroupName does not point back at its owning
// group.
func (v ModelValidator) Validate(ctx context.Context, model types.FeatureModel) error {
	if len(model.Order) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("feature model must declare at least one feature")
	}

	for _, name := range model.Order {
		f, ok := model.Features[name]
		if !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("feature %q listed in order but missing from table", name))
		}
		if f.Name != name {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("feature key %q does not match its own Name %q", name, f.Name))
		}
		if f.Type == types.FeatureUnknown || f.Type == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("feature %q has no declared type", name))
		}
		if f.Type.Tristateish() && f.Value != "" && !types.Tristate(f.Value).Valid() {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("feature %q has invalid tristate value %q", name, f.Value))
		}
		if err := v.checkRef(model, name, f.DirectDep); err != nil {
			return err
		}
		if err := v.checkRef(model, name, f.ReverseDep); err != nil {
			return err
		}
		if f.Prompt != nil {
			if err := v.checkRef(model, name, f.Prompt.Visible); err != nil {
				return err
			}
		}
		for _, d := range f.Defaults {
			if err := v.checkRef(model, name, d.Cond); err != nil {
				return err
			}
		}
		for _, s := range f.Selects {
			if _, ok := model.Get(s.Target); !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeNotFound).
					WithMsg(fmt.Sprintf("feature %q selects unknown feature %q", name, s.Target))
			}
			if err := v.checkRef(model, name, s.Cond); err != nil {
				return err
			}
		}
		for _, r := range f.Ranges {
			if err := v.checkRef(model, name, r.Cond); err != nil {
				return err
			}
		}
		if f.Type == types.FeatureChoice {
			for _, member := range f.Members {
				mf, ok := model.Get(member)
				if !ok {
					return errbuilder.New().
						WithCode(errbuilder.CodeNotFound).
						WithMsg(fmt.Sprintf("choice %q lists unknown member %q", name, member))
				}
				if mf.GroupName != name {
					return errbuilder.New().
						WithCode(errbuilder.CodeInvalidArgument).
						WithMsg(fmt.Sprintf("choice member %q.GroupName=%q does not point back at %q", member, mf.GroupName, name))
				}
			}
		}
	}
	log.Ctx(ctx).Debug().Int("features", len(model.Order)).Msg("feature model validated")
	return nil
}

// checkRef recursively walks a rule expression, rejecting any reference
// to a feature absent from model (spec.md §7 kind 2).
func (v ModelValidator) checkRef(model types.FeatureModel, owner string, e *types.RuleExpr) error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case types.RuleSymbol:
		if _, ok := model.Get(e.Feature); !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("feature %q references unknown feature %q", owner, e.Feature))
		}
	case types.RuleAnd, types.RuleOr:
		if err := v.checkRef(model, owner, e.Left); err != nil {
			return err
		}
		return v.checkRef(model, owner, e.Right)
	case types.RuleNot:
		return v.checkRef(model, owner, e.Left)
	case types.RuleEqual, types.RuleUnequal, types.RuleLt, types.RuleLe, types.RuleGt, types.RuleGe:
		if _, ok := model.Get(e.Feature); !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("feature %q references unknown feature %q", owner, e.Feature))
		}
		return v.checkRef(model, owner, e.Right)
	}
	return nil
}
