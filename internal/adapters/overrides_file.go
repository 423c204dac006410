package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// OverridesFileAdapter is the ports.OverridesSourcePort implementation:
// a YAML list of force/lock/ignore directives (SPEC_FULL.md §8).
type OverridesFileAdapter struct{}

func NewOverridesFileAdapter() OverridesFileAdapter { return OverridesFileAdapter{} }

func (a OverridesFileAdapter) LoadOverrides(path string) ([]types.OverrideDirective, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("overrides file not found").
			WithCause(err)
	}
	var directives []types.OverrideDirective
	if err := yaml.Unmarshal(data, &directives); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid overrides file format").
			WithCause(err)
	}
	return directives, nil
}

var _ ports.OverridesSourcePort = OverridesFileAdapter{}
