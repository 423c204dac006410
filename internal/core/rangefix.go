package core

import (
	"context"
	"sort"
	"time"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// RangeFix is C7: the hitting-set diagnosis search of spec.md §4.4. Given
// a conflicting target assignment, it searches the "soft" atoms (the
// ones a policy allows touching) for minimal sets whose removal from the
// assumption set restores satisfiability.
type RangeFix struct {
	tbl    *TableBuilder
	bridge *SATBridge
	model  types.FeatureModel
	policy ports.MutabilityPolicyPort
}

func NewRangeFix(tbl *TableBuilder, bridge *SATBridge, policy ports.MutabilityPolicyPort) *RangeFix {
	return &RangeFix{tbl: tbl, bridge: bridge, model: tbl.Model, policy: policy}
}

// softAtoms is every user-settable atom (a feature's own prompt governs
// whether the user, rather than the solver's propagation, controls it):
// SYMBOL_Y/M for prompted bool/tristate features and NONBOOL_EQ for
// prompted non-boolean features, excluding anything mutability policy
// locks and excluding the conflict feature's own atoms.
func (rf *RangeFix) softAtoms(exclude string) []int {
	var soft []int
	for _, name := range rf.model.Order {
		if name == exclude {
			continue
		}
		f := rf.model.Features[name]
		if f == nil || f.Prompt == nil || rf.policy.Locked(name) {
			continue
		}
		switch {
		case f.Type.Tristateish():
			soft = append(soft, rf.tbl.AtomOfFeatureY(name))
			if f.Type == types.FeatureTri {
				soft = append(soft, rf.tbl.AtomOfFeatureM(name))
			}
		case f.Type.Numeric() || f.Type == types.FeatureString:
			soft = append(soft, rf.tbl.AtomForValue(name, ""))
			for _, v := range f.Values {
				soft = append(soft, rf.tbl.AtomForValue(name, v))
			}
		}
	}
	return soft
}

func (rf *RangeFix) polarity(atom types.Atom) bool {
	f, ok := rf.model.Get(atom.Feature)
	if !ok {
		return false
	}
	switch atom.Kind {
	case types.AtomSymbolY:
		return f.Value == string(types.Yes)
	case types.AtomSymbolM:
		return f.Value == string(types.Mod)
	case types.AtomNonBoolEq:
		return f.Value == atom.Literal
	default:
		return false
	}
}

func (rf *RangeFix) assumptionFor(v int) types.Literal {
	atom, _ := rf.tbl.LookupBySAT(v)
	return types.Literal{Var: v, Negated: !rf.polarity(atom)}
}

// conflictLiterals is the hard-locked assumption set demanding
// feature==targetValue, covering both the tristate and non-boolean
// encodings.
func (rf *RangeFix) conflictLiterals(feature, targetValue string) []types.Literal {
	f, ok := rf.model.Get(feature)
	if !ok {
		return nil
	}
	if f.Type.Tristateish() {
		switch types.Tristate(targetValue) {
		case types.Yes:
			return []types.Literal{types.Pos(rf.tbl.AtomOfFeatureY(feature)), types.Neg(rf.tbl.AtomOfFeatureM(feature))}
		case types.Mod:
			return []types.Literal{types.Neg(rf.tbl.AtomOfFeatureY(feature)), types.Pos(rf.tbl.AtomOfFeatureM(feature))}
		default:
			return []types.Literal{types.Neg(rf.tbl.AtomOfFeatureY(feature)), types.Neg(rf.tbl.AtomOfFeatureM(feature))}
		}
	}
	return []types.Literal{types.Pos(rf.tbl.AtomForValue(feature, targetValue))}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func sortedCopy(xs []int) []int {
	out := append([]int(nil), xs...)
	sort.Ints(out)
	return out
}

func isSubset(a, b []int) bool {
	bs := map[int]bool{}
	for _, v := range b {
		bs[v] = true
	}
	for _, v := range a {
		if !bs[v] {
			return false
		}
	}
	return true
}

// Diagnose runs the RangeFix loop (spec.md §4.4) and returns up to
// budget.MaxDiagnoses minimal diagnoses, FIFO-ordered as discovered,
// within budget.TimeBudget; the atom sets it finds are converted to
// feature-level fixes before they are returned.
func (rf *RangeFix) Diagnose(ctx context.Context, feature, targetValue string, budget types.DiagnosisBudget) (types.DiagnosisResult, error) {
	conflict := rf.conflictLiterals(feature, targetValue)
	soft := rf.softAtoms(feature)

	baseAssumptions := append([]types.Literal(nil), conflict...)
	for _, v := range soft {
		baseAssumptions = append(baseAssumptions, rf.assumptionFor(v))
	}
	base, err := rf.bridge.Solve(baseAssumptions)
	if err != nil {
		return types.DiagnosisResult{}, err
	}
	if base.Unknown {
		return types.DiagnosisResult{Unknown: true}, nil
	}
	if base.Satisfiable {
		return types.DiagnosisResult{Satisfiable: true}, nil
	}

	deadline := time.Now().Add(budget.TimeBudget)
	queue := [][]int{{}}
	var results []types.AtomDiagnosis

	for len(queue) > 0 && len(results) < budget.MaxDiagnoses && time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return types.DiagnosisResult{Diagnoses: rf.minimise(ctx, conflict, soft, results), Cancelled: true}, nil
		}
		e0 := queue[0]
		queue = queue[1:]

		assumptions := append([]types.Literal(nil), conflict...)
		for _, v := range soft {
			if containsInt(e0, v) {
				continue
			}
			assumptions = append(assumptions, rf.assumptionFor(v))
		}

		res, err := rf.bridge.Solve(assumptions)
		if err != nil {
			return types.DiagnosisResult{}, err
		}
		if res.Unknown {
			continue
		}
		if res.Satisfiable {
			if len(e0) > 0 {
				results = append(results, sortedCopy(e0))
			}
			continue
		}

		core, err := rf.bridge.FailedCore(ctx, assumptions)
		if err != nil {
			if ctx.Err() != nil {
				return types.DiagnosisResult{Diagnoses: rf.minimise(ctx, conflict, soft, results), Cancelled: true}, nil
			}
			return types.DiagnosisResult{}, err
		}
		softSet := map[int]bool{}
		for _, v := range soft {
			softSet[v] = true
		}
		var candidates []int
		for _, l := range core {
			if softSet[l.Var] && !containsInt(e0, l.Var) {
				candidates = append(candidates, l.Var)
			}
		}
		for _, x := range candidates {
			e1 := sortedCopy(append(append([]int(nil), e0...), x))
			if rf.dominated(e1, queue, results) {
				continue
			}
			queue = append(queue, e1)
		}
	}

	timedOut := len(queue) > 0 && len(results) < budget.MaxDiagnoses
	diag := rf.minimise(ctx, conflict, soft, results)
	return types.DiagnosisResult{Diagnoses: diag, Cancelled: timedOut}, nil
}

func (rf *RangeFix) dominated(candidate []int, queue [][]int, results []types.AtomDiagnosis) bool {
	for _, q := range queue {
		if isSubset(q, candidate) {
			return true
		}
	}
	for _, r := range results {
		if isSubset([]int(r), candidate) {
			return true
		}
	}
	return false
}

// minimise drops any atom from a found diagnosis whose flip turns out
// unnecessary once the other flips are in place, converts the surviving
// atom sets into feature-level fixes, and removes duplicate fixes.
func (rf *RangeFix) minimise(ctx context.Context, conflict []types.Literal, soft []int, sets [][]int) []types.FeatureDiagnosis {
	softSet := map[int]bool{}
	for _, v := range soft {
		softSet[v] = true
	}
	var out []types.FeatureDiagnosis
	for _, set := range sets {
		reduced := append([]int(nil), set...)
		for i := 0; i < len(reduced); {
			without := append(append([]int(nil), reduced[:i]...), reduced[i+1:]...)
			assumptions := append([]types.Literal(nil), conflict...)
			for _, v := range soft {
				if containsInt(without, v) {
					continue
				}
				assumptions = append(assumptions, rf.assumptionFor(v))
			}
			res, err := rf.bridge.Solve(assumptions)
			if err == nil && res.Satisfiable {
				reduced = without
				continue
			}
			i++
		}
		out = append(out, rf.toFeatureDiagnosis(reduced))
	}
	return out
}

// tristateAtomPresence records, for one TRI/BOOL feature, which of its
// SYMBOL_Y/SYMBOL_M atoms appear in an accepted diagnosis.
type tristateAtomPresence struct {
	y, m bool
}

// toFeatureDiagnosis maps a flipped-atom set back to feature-level fixes.
// A tristate feature's new value is decoded from which of SYMBOL_Y/
// SYMBOL_M appear in the diagnosis and what their assumed (current-value)
// polarity was (spec.md §4.4's four-case table, §8 scenario 4): an atom
// present in the diagnosis was necessarily forced away from its assumed
// polarity for the diagnosis to be satisfiable (every other soft atom
// stayed fixed at its assumed polarity throughout RangeFix's search), an
// atom absent stays at its assumed polarity. A non-boolean feature's
// NONBOOL_EQ atom carries its literal directly.
func (rf *RangeFix) toFeatureDiagnosis(atoms []int) types.FeatureDiagnosis {
	presence := map[string]*tristateAtomPresence{}
	var order []string
	for _, v := range atoms {
		atom, ok := rf.tbl.LookupBySAT(v)
		if !ok {
			continue
		}
		switch atom.Kind {
		case types.AtomSymbolY, types.AtomSymbolM:
			p, exists := presence[atom.Feature]
			if !exists {
				p = &tristateAtomPresence{}
				presence[atom.Feature] = p
				order = append(order, atom.Feature)
			}
			if atom.Kind == types.AtomSymbolY {
				p.y = true
			} else {
				p.m = true
			}
		}
	}

	seen := map[string]bool{}
	var fixes []types.FeatureFix
	for _, feature := range order {
		f, ok := rf.model.Get(feature)
		if !ok || seen[feature] {
			continue
		}
		seen[feature] = true
		p := presence[feature]
		fixes = append(fixes, types.FeatureFix{Feature: feature, NewValue: string(flippedTristate(f.Value, p.y, p.m))})
	}
	for _, v := range atoms {
		atom, ok := rf.tbl.LookupBySAT(v)
		if !ok || atom.Kind != types.AtomNonBoolEq || seen[atom.Feature] {
			continue
		}
		if f, ok := rf.model.Get(atom.Feature); ok && f.Value == atom.Literal {
			continue
		}
		seen[atom.Feature] = true
		fixes = append(fixes, types.FeatureFix{Feature: atom.Feature, NewValue: atom.Literal})
	}
	return types.FeatureDiagnosis{Fixes: fixes}
}

// flippedTristate is spec.md §4.4's four-case tristate decoder: an atom
// present in the diagnosis was forced away from its assumed polarity (the
// polarity implied by current), an absent one keeps its assumed polarity.
// yPresent/mPresent reflect which of SYMBOL_Y(f)/SYMBOL_M(f) appear in
// the (already-minimised) diagnosis atom set. A plain bool feature never
// has mPresent true (it owns no SYMBOL_M atom), so only the Y-only cases
// below are reachable for it.
func flippedTristate(current string, yPresent, mPresent bool) types.Tristate {
	assumedY := types.Tristate(current) == types.Yes
	assumedM := types.Tristate(current) == types.Mod

	newY, newM := assumedY, assumedM
	if yPresent {
		newY = !assumedY
	}
	if mPresent {
		newM = !assumedM
	}

	switch {
	case newY && !newM:
		return types.Yes
	case !newY && newM:
		return types.Mod
	default:
		return types.No
	}
}
