package core

import "kconfresolve/internal/types"

// PExprBuilder is C3: smart constructors that keep every produced pexpr
// in NNF with constants absorbed and identical atom operands collapsed
// (spec.md §3 "Propositional expression", §4.2). Only atom leaves are
// compared; structurally identical compound operands are not merged.
type PExprBuilder struct {
	tbl *TableBuilder
}

func NewPExprBuilder(tbl *TableBuilder) *PExprBuilder {
	return &PExprBuilder{tbl: tbl}
}

func (b *PExprBuilder) true_() *types.PExpr  { return types.AtomExpr(types.Pos(b.tbl.True)) }
func (b *PExprBuilder) false_() *types.PExpr { return types.AtomExpr(types.Pos(b.tbl.False)) }

// constValue reports whether p is literally the const-true or const-false
// atom (accounting for a negated reference to either), returning its
// boolean value.
func (b *PExprBuilder) constValue(p *types.PExpr) (isConst bool, value bool) {
	if p.Kind != types.PExprAtom {
		return false, false
	}
	switch p.Lit.Var {
	case b.tbl.True:
		return true, !p.Lit.Negated
	case b.tbl.False:
		return true, p.Lit.Negated
	default:
		return false, false
	}
}

func sameLeaf(a, b *types.PExpr) bool {
	return a.Kind == types.PExprAtom && b.Kind == types.PExprAtom && a.Lit == b.Lit
}

// PAnd builds x∧y, absorbing constants and collapsing identical operands.
func (b *PExprBuilder) PAnd(x, y *types.PExpr) *types.PExpr {
	if c, v := b.constValue(x); c {
		if !v {
			return b.false_()
		}
		return y
	}
	if c, v := b.constValue(y); c {
		if !v {
			return b.false_()
		}
		return x
	}
	if sameLeaf(x, y) {
		return x
	}
	return types.AndExpr(x, y)
}

// POr builds x∨y, absorbing constants and collapsing identical operands.
func (b *PExprBuilder) POr(x, y *types.PExpr) *types.PExpr {
	if c, v := b.constValue(x); c {
		if v {
			return b.true_()
		}
		return y
	}
	if c, v := b.constValue(y); c {
		if v {
			return b.true_()
		}
		return x
	}
	if sameLeaf(x, y) {
		return x
	}
	return types.OrExpr(x, y)
}

// PNot pushes negation to atoms (De Morgan), eliminating double negation,
// so the result is always already in NNF.
func (b *PExprBuilder) PNot(x *types.PExpr) *types.PExpr {
	switch x.Kind {
	case types.PExprAtom:
		return types.AtomExpr(x.Lit.Negate())
	case types.PExprAnd:
		return b.POr(b.PNot(x.Children[0]), b.PNot(x.Children[1]))
	case types.PExprOr:
		return b.PAnd(b.PNot(x.Children[0]), b.PNot(x.Children[1]))
	default:
		return b.false_()
	}
}

// PImplies(a,b) ≡ por(pnot(a), b).
func (b *PExprBuilder) PImplies(a, c *types.PExpr) *types.PExpr {
	return b.POr(b.PNot(a), c)
}

func (b *PExprBuilder) lit(v int) *types.PExpr { return types.AtomExpr(types.Pos(v)) }

// canEvalModule is the single pre-pass spec.md §4.2 requires: a rule can
// evaluate to module iff it references the tristate constant `mod` or a
// TRI-typed feature.
func (b *PExprBuilder) canEvalModule(e *types.RuleExpr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case types.RuleConst:
		return e.Const == types.Mod
	case types.RuleSymbol:
		f, ok := b.tbl.Model.Get(e.Feature)
		return ok && f.Type == types.FeatureTri
	case types.RuleNot:
		return b.canEvalModule(e.Left)
	case types.RuleAnd, types.RuleOr:
		return b.canEvalModule(e.Left) || b.canEvalModule(e.Right)
	default:
		return false
	}
}

// ToPExprY is "evaluates to yes".
func (b *PExprBuilder) ToPExprY(e *types.RuleExpr) *types.PExpr { return b.translate(e, viewY) }

// ToPExprBoth is "evaluates to yes or module".
func (b *PExprBuilder) ToPExprBoth(e *types.RuleExpr) *types.PExpr { return b.translate(e, viewBoth) }

// ToPExprM is "evaluates exactly to module"; ⊥ if e cannot evaluate to
// module (short-circuited via the canEvalModule pre-pass).
func (b *PExprBuilder) ToPExprM(e *types.RuleExpr) *types.PExpr {
	if !b.canEvalModule(e) {
		return b.false_()
	}
	return b.translate(e, viewM)
}

type view int

const (
	viewY view = iota
	viewBoth
	viewM
)

func (b *PExprBuilder) translate(e *types.RuleExpr, v view) *types.PExpr {
	if e == nil {
		return b.false_()
	}
	switch e.Kind {
	case types.RuleConst:
		switch v {
		case viewY:
			if e.Const == types.Yes {
				return b.true_()
			}
			return b.false_()
		case viewBoth:
			if e.Const == types.Yes || e.Const == types.Mod {
				return b.true_()
			}
			return b.false_()
		default: // viewM
			if e.Const == types.Mod {
				return b.true_()
			}
			return b.false_()
		}
	case types.RuleSymbol:
		if _, ok := b.tbl.Model.Get(e.Feature); !ok {
			return b.false_()
		}
		y := b.lit(b.tbl.AtomOfFeatureY(e.Feature))
		m := b.lit(b.tbl.AtomOfFeatureM(e.Feature))
		switch v {
		case viewY:
			return y
		case viewBoth:
			return b.POr(y, m)
		default:
			return m
		}
	case types.RuleAnd:
		return b.translateAnd(e, v)
	case types.RuleOr:
		return b.translateOr(e, v)
	case types.RuleNot:
		switch v {
		case viewY:
			return b.PNot(b.POr(b.translate(e.Left, viewY), b.translate(e.Left, viewM)))
		case viewBoth:
			return b.PNot(b.translate(e.Left, viewY))
		default:
			return b.translate(e.Left, viewM)
		}
	case types.RuleEqual:
		return b.translateEqual(e, v, false)
	case types.RuleUnequal:
		return b.translateEqual(e, v, true)
	case types.RuleLt, types.RuleLe, types.RuleGt, types.RuleGe:
		return b.translateCompare(e, v)
	default:
		return b.false_()
	}
}

func (b *PExprBuilder) translateAnd(e *types.RuleExpr, v view) *types.PExpr {
	ya, yb := b.translate(e.Left, viewY), b.translate(e.Right, viewY)
	switch v {
	case viewY:
		return b.PAnd(ya, yb)
	case viewBoth:
		botha := b.POr(ya, b.translate(e.Left, viewM))
		bothb := b.POr(yb, b.translate(e.Right, viewM))
		return b.PAnd(botha, bothb)
	default:
		botha := b.POr(ya, b.translate(e.Left, viewM))
		bothb := b.POr(yb, b.translate(e.Right, viewM))
		both := b.PAnd(botha, bothb)
		return b.PAnd(both, b.PNot(b.PAnd(ya, yb)))
	}
}

func (b *PExprBuilder) translateOr(e *types.RuleExpr, v view) *types.PExpr {
	ya, yb := b.translate(e.Left, viewY), b.translate(e.Right, viewY)
	switch v {
	case viewY:
		return b.POr(ya, yb)
	case viewBoth:
		botha := b.POr(ya, b.translate(e.Left, viewM))
		bothb := b.POr(yb, b.translate(e.Right, viewM))
		return b.POr(botha, bothb)
	default:
		ma, mb := b.translate(e.Left, viewM), b.translate(e.Right, viewM)
		return b.PAnd(b.PAnd(b.POr(ma, mb), b.PNot(ya)), b.PNot(yb))
	}
}

// translateEqual implements spec.md §4.2's EQUAL case split; unequal is
// the negation of the same translation.
func (b *PExprBuilder) translateEqual(e *types.RuleExpr, v view, negate bool) *types.PExpr {
	result := b.equalCore(e)
	if negate {
		result = b.PNot(result)
	}
	// EQUAL/UNEQUAL are boolean-valued (never "module"); fold into the
	// requested view the same way a constant would be.
	switch v {
	case viewM:
		return b.PAnd(result, b.false_())
	default:
		return result
	}
}

func (b *PExprBuilder) equalCore(e *types.RuleExpr) *types.PExpr {
	lf, lok := b.tbl.Model.Get(e.Feature)
	// RHS is either another symbol (Right.Feature) or a literal/const.
	if e.Right != nil && e.Right.Kind == types.RuleConst {
		if lok && lf.Type.Tristateish() {
			y := b.lit(b.tbl.AtomOfFeatureY(e.Feature))
			m := b.lit(b.tbl.AtomOfFeatureM(e.Feature))
			switch e.Right.Const {
			case types.Yes:
				return b.PAnd(y, b.PNot(m))
			case types.Mod:
				return b.PAnd(m, b.PNot(y))
			default: // No
				return b.PAnd(b.PNot(y), b.PNot(m))
			}
		}
		// non-boolean feature vs tristate constant: always false.
		return b.false_()
	}
	if e.Right != nil && e.Right.Kind == types.RuleSymbol {
		rf, rok := b.tbl.Model.Get(e.Right.Feature)
		if lok && rok && lf.Type.Tristateish() && rf.Type.Tristateish() {
			ly, lm := b.lit(b.tbl.AtomOfFeatureY(e.Feature)), b.lit(b.tbl.AtomOfFeatureM(e.Feature))
			ry, rm := b.lit(b.tbl.AtomOfFeatureY(e.Right.Feature)), b.lit(b.tbl.AtomOfFeatureM(e.Right.Feature))
			yIff := b.PAnd(b.PImplies(ly, ry), b.PImplies(ry, ly))
			mIff := b.PAnd(b.PImplies(lm, rm), b.PImplies(rm, lm))
			return b.PAnd(yIff, mIff)
		}
		if lok && rok && !lf.Type.Tristateish() && !rf.Type.Tristateish() {
			// two non-boolean features: conservatively false (§9 open question).
			return b.false_()
		}
		// mixed boolean/non-boolean: conservatively false (§9 open question).
		return b.false_()
	}
	if lok && !lf.Type.Tristateish() {
		return b.lit(b.tbl.AtomForValue(e.Feature, e.Literal))
	}
	return b.false_()
}

// Names of the only two comparisons the source ever hard-codes a
// meaning for (cf_expr.c's expr_calculate_pexpr_y_comp): a numeric
// compiler-version check against GCC_VERSION, and a "CRAMFS <= MTD"
// boolean-ordering check the source special-cases by symbol name
// rather than by type. Every other LT/LE/GT/GE conservatively
// evaluates to false, matching the source's own fallthrough.
const (
	gccVersionFeature = "GCC_VERSION"
	cramfsFeature     = "CRAMFS"
	mtdFeature        = "MTD"
)

// translateCompare implements the narrow LT/LE/GT/GE whitelist:
// exactly the two feature pairs the source hard-codes special-case
// evaluation for. Both resolve against the features' current values
// (not, like every other rule translation, against propositional
// atoms over their possible values) because that's what the source
// itself does: gcc_version_eval and expr_eval_unequal_bool read
// sym_get_string_value/sym_get_tristate_value at evaluation time and
// hand back a constant, never an atom. Everything else evaluates to
// false.
func (b *PExprBuilder) translateCompare(e *types.RuleExpr, v view) *types.PExpr {
	if result, ok := b.evalGCCVersionCompare(e); ok {
		return b.fold(result, v)
	}
	if result, ok := b.evalCramfsMtdCompare(e); ok {
		return b.fold(result, v)
	}
	return b.fold(b.false_(), v)
}

func compareResult(kind types.RuleKind, cmp int) bool {
	switch kind {
	case types.RuleLt:
		return cmp < 0
	case types.RuleLe:
		return cmp <= 0
	case types.RuleGt:
		return cmp > 0
	case types.RuleGe:
		return cmp >= 0
	default:
		return false
	}
}

func (b *PExprBuilder) evalGCCVersionCompare(e *types.RuleExpr) (*types.PExpr, bool) {
	if e.Feature != gccVersionFeature {
		return nil, false
	}
	f, ok := b.tbl.Model.Get(e.Feature)
	if !ok || !f.Type.Numeric() || e.Literal == "" {
		return b.false_(), true
	}
	base := 10
	if f.Type == types.FeatureHex {
		base = 16
	}
	if compareResult(e.Kind, compareLiterals(f.Value, e.Literal, base)) {
		return b.true_(), true
	}
	return b.false_(), true
}

// tristateOrdinal mirrors the source's sym_get_tristate_value ordering
// (no < mod < yes) used by expr_eval_unequal_bool.
func tristateOrdinal(value string) int {
	switch types.Tristate(value) {
	case types.Mod:
		return 1
	case types.Yes:
		return 2
	default:
		return 0
	}
}

func (b *PExprBuilder) evalCramfsMtdCompare(e *types.RuleExpr) (*types.PExpr, bool) {
	var otherFeature string
	switch {
	case e.Feature == cramfsFeature && e.Literal == mtdFeature:
		otherFeature = mtdFeature
	case e.Feature == mtdFeature && e.Literal == cramfsFeature:
		otherFeature = cramfsFeature
	default:
		return nil, false
	}
	lf, lok := b.tbl.Model.Get(e.Feature)
	rf, rok := b.tbl.Model.Get(otherFeature)
	if !lok || !rok || !lf.Type.Tristateish() || !rf.Type.Tristateish() {
		return b.false_(), true
	}
	if compareResult(e.Kind, tristateOrdinal(lf.Value)-tristateOrdinal(rf.Value)) {
		return b.true_(), true
	}
	return b.false_(), true
}

func (b *PExprBuilder) fold(result *types.PExpr, v view) *types.PExpr {
	if v == viewM {
		return b.false_()
	}
	return result
}
