package app

import "context"

// Dump builds a session and persists its constraint set and CNF for
// inspection (spec.md §6 "Debuggability"), without running any solve.
func (s Service) Dump(ctx context.Context, req DumpRequest) (DumpResult, error) {
	session, _, _, err := s.buildSession(ctx, req.ModelPath, req.FragmentPaths, req.OverridesPath, "", req.LockPatterns)
	if err != nil {
		return DumpResult{}, err
	}
	if err := s.DumpSink.DumpConstraints(req.OutputDir, session.RenderConstraints()); err != nil {
		return DumpResult{}, err
	}
	if err := s.DumpSink.DumpCNF(req.OutputDir, session.Clauses(), session.AtomNames()); err != nil {
		return DumpResult{}, err
	}
	return DumpResult{
		ConstraintCount: len(session.Constraints()),
		ClauseCount:     len(session.Clauses()),
	}, nil
}
