package app

import "kconfresolve/internal/types"

// DiagnoseRequest drives Service.Diagnose: load a model, layer
// fragments on top, then search for minimal fixes that make
// Feature==TargetValue satisfiable.
type DiagnoseRequest struct {
	ModelPath     string
	FragmentPaths []string
	OverridesPath string
	LockPatterns  []string
	Feature       string
	TargetValue   string
	Budget        types.DiagnosisBudget
}

type DiagnoseResult struct {
	Result types.DiagnosisResult
}

// ApplyRequest drives Service.Apply: run the same search as Diagnose,
// then write the chosen diagnosis's fixes into ConfigPath.
type ApplyRequest struct {
	ModelPath      string
	FragmentPaths  []string
	OverridesPath  string
	LockPatterns   []string
	ConfigPath     string
	Feature        string
	TargetValue    string
	Budget         types.DiagnosisBudget
	DiagnosisIndex int
}

type ApplyResult struct {
	Chosen  types.FeatureDiagnosis
	Applied types.ApplyResult
}

// ValidateRequest drives Service.Validate: load and structurally
// validate a model plus its fragment overlays without building a
// session.
type ValidateRequest struct {
	ModelPath     string
	FragmentPaths []string
}

type ValidateResult struct {
	FeatureCount int
}

// DumpRequest drives Service.Dump: build a session and persist its
// constraints and CNF for inspection.
type DumpRequest struct {
	ModelPath     string
	FragmentPaths []string
	OverridesPath string
	LockPatterns  []string
	OutputDir     string
}

type DumpResult struct {
	ConstraintCount int
	ClauseCount     int
}
