package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// FragmentFileAdapter is the ports.FragmentSourcePort implementation:
// each explicit path names one YAML-encoded types.ConfigFragment.
type FragmentFileAdapter struct{}

func NewFragmentFileAdapter() FragmentFileAdapter { return FragmentFileAdapter{} }

func (a FragmentFileAdapter) LoadFragments(explicit []string) ([]types.ConfigFragment, error) {
	fragments := make([]types.ConfigFragment, 0, len(explicit))
	for _, path := range explicit {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("config fragment not found: " + path).
				WithCause(err)
		}
		var fragment types.ConfigFragment
		if err := yaml.Unmarshal(data, &fragment); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid config fragment: " + path).
				WithCause(err)
		}
		if fragment.Name == "" {
			fragment.Name = path
		}
		fragments = append(fragments, fragment)
	}
	return fragments, nil
}

var _ ports.FragmentSourcePort = FragmentFileAdapter{}
