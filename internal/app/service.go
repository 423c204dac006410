package app

import (
	"context"

	"kconfresolve/internal/adapters"
	"kconfresolve/internal/core"
	"kconfresolve/internal/policies"
	"kconfresolve/internal/ports"
)

// Service wires the ports the CLI layer drives, grounded on the
// teacher's app.Service (one struct field per port, one adapter per
// field, a constructor that wires concrete adapters).
type Service struct {
	ModelLoader    ports.FeatureModelLoaderPort
	FragmentSource ports.FragmentSourcePort
	OverridesSrc   ports.OverridesSourcePort
	DumpSink       ports.DumpPort
	Engine         ports.SATEnginePort
}

func NewService() Service {
	return Service{
		ModelLoader:    adapters.NewModelFileAdapter(),
		FragmentSource: adapters.NewFragmentFileAdapter(),
		OverridesSrc:   adapters.NewOverridesFileAdapter(),
		DumpSink:       adapters.NewDebugDumpAdapter(),
		Engine:         adapters.NewGopherSATEngine(),
	}
}

// buildLiveModel loads the base model, layers requested fragments on
// top via FragmentComposer, and wraps the result in a LiveConfigAdapter
// persisting to configPath ("" means in-memory only).
func (s Service) buildLiveModel(ctx context.Context, modelPath string, fragmentPaths []string, configPath string) (*adapters.LiveConfigAdapter, error) {
	base, err := s.ModelLoader.LoadModel(modelPath)
	if err != nil {
		return nil, err
	}
	if err := core.NewModelValidator().Validate(ctx, base); err != nil {
		return nil, err
	}
	fragments, err := s.FragmentSource.LoadFragments(fragmentPaths)
	if err != nil {
		return nil, err
	}
	composed, err := core.NewFragmentComposer().Compose(ctx, base, fragments)
	if err != nil {
		return nil, err
	}
	return adapters.NewLiveConfigAdapter(configPath, composed), nil
}

// buildPolicy loads an overrides file, applies Force/Lock/Ignore
// directives to live, and returns the resulting lock set merged with
// lockPatterns as a ports.MutabilityPolicyPort.
func (s Service) buildPolicy(overridesPath string, lockPatterns []string, live ports.FeatureModelPort) (ports.MutabilityPolicyPort, error) {
	directives, err := s.OverridesSrc.LoadOverrides(overridesPath)
	if err != nil {
		return nil, err
	}
	locks := map[string]struct{}{}
	for _, d := range directives {
		if err := policies.ApplyOverride(live, locks, d); err != nil {
			return nil, err
		}
	}
	patterns := append([]string(nil), lockPatterns...)
	for feature := range locks {
		patterns = append(patterns, feature)
	}
	return policies.NewMutabilityPolicy(patterns), nil
}

// buildSession is the common Diagnose/Apply/Dump setup: load, compose,
// apply overrides, then construct a core.Session from the resulting
// snapshot.
func (s Service) buildSession(ctx context.Context, modelPath string, fragmentPaths []string, overridesPath, configPath string, lockPatterns []string) (*core.Session, *adapters.LiveConfigAdapter, ports.MutabilityPolicyPort, error) {
	live, err := s.buildLiveModel(ctx, modelPath, fragmentPaths, configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	policy, err := s.buildPolicy(overridesPath, lockPatterns, live)
	if err != nil {
		return nil, nil, nil, err
	}
	session, err := core.NewSession(ctx, live.Snapshot(), s.Engine, policy)
	if err != nil {
		return nil, nil, nil, err
	}
	return session, live, policy, nil
}
