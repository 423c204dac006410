package ports

import "kconfresolve/internal/types"

// FeatureModelPort is the live, mutable configuration C8 writes fixes
// into. It is distinct from the immutable FeatureModel snapshot a
// Session is built from: a port implementation is free to persist every
// write immediately (as adapters.LiveConfigAdapter does, to a YAML file).
type FeatureModelPort interface {
	Snapshot() types.FeatureModel
	SetValue(feature, value string) error
}

// FeatureModelLoaderPort loads the initial snapshot C1 hands the rest of
// the pipeline, analogous to the teacher's ProfileSourcePort/SpecPort
// pair for loading a product spec from disk.
type FeatureModelLoaderPort interface {
	LoadModel(path string) (types.FeatureModel, error)
}

// FragmentSourcePort loads the overlay fragments the fragment composer
// applies on top of a base FeatureModel (SPEC_FULL.md §6).
type FragmentSourcePort interface {
	LoadFragments(explicit []string) ([]types.ConfigFragment, error)
}
