package policies

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// ApplyOverride is SPEC_FULL.md §8's three-case directive dispatcher,
// grounded on the teacher's conflict_policy.go ApplyResolution switch:
// Force writes a value directly through live, Lock adds the feature to
// the returned lock set without touching its value, and Ignore is a
// documented no-op (present so an override file can disable a directive
// without deleting it).
func ApplyOverride(live ports.FeatureModelPort, locks map[string]struct{}, directive types.OverrideDirective) error {
	switch directive.Action {
	case types.OverrideForce:
		if directive.Value == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("force override for %q requires a value", directive.Feature))
		}
		if err := live.SetValue(directive.Feature, directive.Value); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("force override for %q rejected", directive.Feature)).
				WithCause(err)
		}
		return nil
	case types.OverrideLock:
		locks[directive.Feature] = struct{}{}
		return nil
	case types.OverrideIgnore:
		return nil
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown override action: %s", directive.Action))
	}
}
