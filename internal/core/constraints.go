package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"kconfresolve/internal/types"
)

// invisibleDefaultSkip names a feature the invisible-default encoding
// (step 5 below) must never apply its "off by default" branch to. The
// upstream source carries a one-off skip here (spec.md §9 open
// questions); no concrete feature name survived distillation into this
// retrieval, so the hook is wired but inert until one is confirmed.
var invisibleDefaultSkip = map[string]bool{}

// ConstraintGenerator is C4: walks every feature in declaration order and
// emits the constraint set spec.md §4.3 describes.
type ConstraintGenerator struct {
	tbl   *TableBuilder
	pb    *PExprBuilder
	model types.FeatureModel
}

func NewConstraintGenerator(tbl *TableBuilder, pb *PExprBuilder) *ConstraintGenerator {
	return &ConstraintGenerator{tbl: tbl, pb: pb, model: tbl.Model}
}

func (g *ConstraintGenerator) lit(v int) *types.PExpr { return types.AtomExpr(types.Pos(v)) }

func (g *ConstraintGenerator) both(feature string) *types.PExpr {
	return g.pb.POr(g.lit(g.tbl.AtomOfFeatureY(feature)), g.lit(g.tbl.AtomOfFeatureM(feature)))
}

func (g *ConstraintGenerator) emit(out *[]types.Constraint, source, name string, expr *types.PExpr) {
	*out = append(*out, types.Constraint{Name: name, Expr: expr, Source: source})
}

// Generate walks the model and returns the full constraint set. It never
// fails: a rule referencing an unknown feature (spec.md §7 kind 2)
// evaluates to false by construction (PExprBuilder translates a symbol
// that names no feature of the model to ⊥). Such a reference is not
// logged.
func (g *ConstraintGenerator) Generate(ctx context.Context) []types.Constraint {
	var out []types.Constraint
	selY := map[string]*types.PExpr{}
	selM := map[string]*types.PExpr{}

	for _, name := range g.model.Order {
		f := g.model.Features[name]
		if f == nil {
			log.Ctx(ctx).Warn().Str("feature", name).Msg("model inconsistency: declared but missing")
			continue
		}
		g.genTristateExclusion(&out, f)
		g.collectSelects(f, selY, selM)
	}
	for _, name := range g.model.Order {
		f := g.model.Features[name]
		if f == nil {
			continue
		}
		g.genSelectPropagation(&out, f, selY, selM)
		g.genDirectDependency(&out, f)
		if f.Type == types.FeatureChoice {
			g.genChoice(&out, f)
		}
		g.genInvisibleDefault(&out, f)
		if !f.Type.Tristateish() && f.Type != types.FeatureChoice {
			g.genNonBool(&out, f)
		}
	}
	return out
}

// genTristateExclusion is step 1.
func (g *ConstraintGenerator) genTristateExclusion(out *[]types.Constraint, f *types.Feature) {
	if f.Type != types.FeatureTri {
		return
	}
	y, m := g.lit(g.tbl.AtomOfFeatureY(f.Name)), g.lit(g.tbl.AtomOfFeatureM(f.Name))
	g.emit(out, f.Name, f.Name+".tristate_exclusion", g.pb.POr(g.pb.PNot(y), g.pb.PNot(m)))
	if g.model.ModulesFeature != "" && f.Name != g.model.ModulesFeature {
		modulesY := g.pb.ToPExprY(types.Symbol(g.model.ModulesFeature))
		g.emit(out, f.Name, f.Name+".module_requires_MODULES", g.pb.PImplies(m, modulesY))
	}
}

// collectSelects folds step 2's "list_sel_y/m" accumulators across every
// source feature's select list before any SELECTED_* implication is
// emitted, since a target can be selected by more than one source.
func (g *ConstraintGenerator) collectSelects(f *types.Feature, selY, selM map[string]*types.PExpr) {
	for _, sel := range f.Selects {
		target, ok := g.model.Get(sel.Target)
		if !ok {
			continue
		}
		cond := g.pb.ToPExprY(sel.Cond)
		if sel.Cond == nil {
			cond = types.AtomExpr(types.Pos(g.tbl.True))
		}
		termY := g.pb.PAnd(cond, g.pb.ToPExprY(types.Symbol(f.Name)))
		if existing, ok := selY[sel.Target]; ok {
			selY[sel.Target] = g.pb.POr(existing, termY)
		} else {
			selY[sel.Target] = termY
		}
		if f.Type == types.FeatureTri || target.Type == types.FeatureTri {
			condBoth := g.pb.ToPExprBoth(sel.Cond)
			if sel.Cond == nil {
				condBoth = types.AtomExpr(types.Pos(g.tbl.True))
			}
			termM := g.pb.PAnd(condBoth, g.pb.ToPExprBoth(types.Symbol(f.Name)))
			if existing, ok := selM[sel.Target]; ok {
				selM[sel.Target] = g.pb.POr(existing, termM)
			} else {
				selM[sel.Target] = termM
			}
		}
	}
}

// genSelectPropagation is step 2's implications, emitted once per target
// after every source's contribution has been folded.
func (g *ConstraintGenerator) genSelectPropagation(out *[]types.Constraint, f *types.Feature, selY, selM map[string]*types.PExpr) {
	listY, hasY := selY[f.Name]
	if hasY {
		selectedY := g.lit(g.tbl.AtomOfFeatureSelectedY(f.Name))
		g.emit(out, f.Name, f.Name+".selected_y_implies_list", g.pb.PImplies(selectedY, listY))
		g.emit(out, f.Name, f.Name+".list_implies_selected_y", g.pb.PImplies(listY, selectedY))
		g.emit(out, f.Name, f.Name+".selected_y_implies_y", g.pb.PImplies(selectedY, g.lit(g.tbl.AtomOfFeatureY(f.Name))))
	}
	listM, hasM := selM[f.Name]
	if hasM {
		selectedM := g.lit(g.tbl.AtomOfFeatureSelectedM(f.Name))
		g.emit(out, f.Name, f.Name+".selected_m_implies_list", g.pb.PImplies(selectedM, listM))
		g.emit(out, f.Name, f.Name+".list_implies_selected_m", g.pb.PImplies(listM, selectedM))
		g.emit(out, f.Name, f.Name+".selected_m_implies_both", g.pb.PImplies(selectedM, g.both(f.Name)))
	}
}

// genDirectDependency is step 3.
func (g *ConstraintGenerator) genDirectDependency(out *[]types.Constraint, f *types.Feature) {
	d, r := f.DirectDep, f.ReverseDep
	if d == nil {
		d = types.Const(types.Yes)
	}
	switch f.Type {
	case types.FeatureBool:
		y := g.lit(g.tbl.AtomOfFeatureY(f.Name))
		rhs := g.pb.POr(g.pb.ToPExprBoth(d), g.pb.ToPExprBoth(r))
		g.emit(out, f.Name, f.Name+".direct_dep", g.pb.PImplies(y, rhs))
	case types.FeatureTri:
		y := g.lit(g.tbl.AtomOfFeatureY(f.Name))
		m := g.lit(g.tbl.AtomOfFeatureM(f.Name))
		g.emit(out, f.Name, f.Name+".direct_dep_y", g.pb.PImplies(y, g.pb.POr(g.pb.ToPExprY(d), g.pb.ToPExprY(r))))
		selBoth := g.pb.POr(g.lit(g.tbl.AtomOfFeatureSelectedY(f.Name)), g.lit(g.tbl.AtomOfFeatureSelectedM(f.Name)))
		g.emit(out, f.Name, f.Name+".direct_dep_m", g.pb.PImplies(m, g.pb.POr(g.pb.ToPExprBoth(d), selBoth)))
	}
}

// genChoice is step 4.
func (g *ConstraintGenerator) genChoice(out *[]types.Constraint, f *types.Feature) {
	var p *types.PExpr
	if f.Prompt != nil {
		p = g.pb.ToPExprBoth(f.Prompt.Visible)
		if f.Prompt.Visible == nil {
			p = types.AtomExpr(types.Pos(g.tbl.True))
		}
	} else {
		p = types.AtomExpr(types.Pos(g.tbl.False))
	}
	if !f.Optional {
		g.emit(out, f.Name, f.Name+".choice_required", g.pb.PImplies(p, g.both(f.Name)))
	}
	g.emit(out, f.Name, f.Name+".choice_both_implies_prompt", g.pb.PImplies(g.both(f.Name), p))

	var promptedY []*types.PExpr
	for _, member := range f.Members {
		mf, ok := g.model.Get(member)
		if !ok {
			continue
		}
		g.emit(out, f.Name, f.Name+"."+member+".member_both_implies_group", g.pb.PImplies(g.both(member), g.both(f.Name)))
		if mf.Prompt != nil {
			promptedY = append(promptedY, g.lit(g.tbl.AtomOfFeatureY(member)))
		}
	}
	if len(promptedY) > 0 {
		disj := promptedY[0]
		for _, d := range promptedY[1:] {
			disj = g.pb.POr(disj, d)
		}
		g.emit(out, f.Name, f.Name+".choice_y_implies_member", g.pb.PImplies(g.lit(g.tbl.AtomOfFeatureY(f.Name)), disj))
	}
	for i := 0; i < len(f.Members); i++ {
		for j := i + 1; j < len(f.Members); j++ {
			yi := g.lit(g.tbl.AtomOfFeatureY(f.Members[i]))
			yj := g.lit(g.tbl.AtomOfFeatureY(f.Members[j]))
			g.emit(out, f.Name, f.Name+".members_y_exclusive", g.pb.POr(g.pb.PNot(yi), g.pb.PNot(yj)))
		}
	}
	for _, member := range f.Members {
		mf, ok := g.model.Get(member)
		if !ok || mf.Type != types.FeatureTri {
			continue
		}
		mLit := g.lit(g.tbl.AtomOfFeatureM(member))
		g.emit(out, f.Name, member+".tri_member_m_implies_group_m", g.pb.PImplies(mLit, g.lit(g.tbl.AtomOfFeatureM(f.Name))))
		for _, other := range f.Members {
			if other == member {
				continue
			}
			of, ok := g.model.Get(other)
			if !ok || of.Prompt == nil {
				continue
			}
			oY := g.lit(g.tbl.AtomOfFeatureY(other))
			g.emit(out, f.Name, other+".prompted_y_excludes_sibling_m", g.pb.PImplies(oY, g.pb.PNot(mLit)))
		}
	}
}

// genInvisibleDefault is step 5.
func (g *ConstraintGenerator) genInvisibleDefault(out *[]types.Constraint, f *types.Feature) {
	npc := g.lit(g.tbl.AtomNoPromptCond(f.Name))
	var p *types.PExpr
	if f.Prompt != nil {
		p = g.pb.ToPExprBoth(f.Prompt.Visible)
		if f.Prompt.Visible == nil {
			p = types.AtomExpr(types.Pos(g.tbl.True))
		}
	} else {
		p = types.AtomExpr(types.Pos(g.tbl.False))
	}
	g.emit(out, f.Name, f.Name+".npc_def", g.pb.PImplies(g.pb.PNot(p), npc))

	defaultY, defaultM, hasDefault := g.foldDefaults(f)
	if !hasDefault {
		if invisibleDefaultSkip[f.Name] {
			return
		}
		y, m := g.lit(g.tbl.AtomOfFeatureY(f.Name)), g.lit(g.tbl.AtomOfFeatureM(f.Name))
		selY, selM := g.lit(g.tbl.AtomOfFeatureSelectedY(f.Name)), g.lit(g.tbl.AtomOfFeatureSelectedM(f.Name))
		g.emit(out, f.Name, f.Name+".npc_offdefault_y", g.pb.PImplies(g.pb.PAnd(npc, y), selY))
		if f.Type == types.FeatureTri {
			g.emit(out, f.Name, f.Name+".npc_offdefault_m", g.pb.PImplies(g.pb.PAnd(npc, m), selM))
		}
		return
	}
	g.emit(out, f.Name, f.Name+".npc_default_y", g.pb.PImplies(g.pb.PAnd(npc, defaultY), g.lit(g.tbl.AtomOfFeatureY(f.Name))))
	g.emit(out, f.Name, f.Name+".npc_default_both", g.pb.PImplies(g.pb.PAnd(npc, defaultM), g.both(f.Name)))
}

// foldDefaults implements "first match wins": each successive default is
// guarded by the negation of every earlier default's condition.
func (g *ConstraintGenerator) foldDefaults(f *types.Feature) (y, m *types.PExpr, hasDefault bool) {
	trueE := types.AtomExpr(types.Pos(g.tbl.True))
	falseE := types.AtomExpr(types.Pos(g.tbl.False))
	y, m = falseE, falseE
	notEarlier := trueE
	for _, d := range f.Defaults {
		cond := trueE
		if d.Cond != nil {
			cond = g.pb.ToPExprBoth(d.Cond)
		}
		guarded := g.pb.PAnd(notEarlier, cond)
		switch types.Tristate(d.Value) {
		case types.Yes:
			y = g.pb.POr(y, guarded)
			hasDefault = true
		case types.Mod:
			m = g.pb.POr(m, guarded)
			hasDefault = true
		}
		notEarlier = g.pb.PAnd(notEarlier, g.pb.PNot(cond))
	}
	return y, m, hasDefault
}

// genNonBool emits steps 6-9 for int/hex/string features.
func (g *ConstraintGenerator) genNonBool(out *[]types.Constraint, f *types.Feature) {
	values := append([]string{""}, f.Values...)
	var atoms []*types.PExpr
	for _, v := range values {
		atoms = append(atoms, g.lit(g.tbl.AtomForValue(f.Name, v)))
	}
	// at-least-one
	atLeast := atoms[0]
	for _, a := range atoms[1:] {
		atLeast = g.pb.POr(atLeast, a)
	}
	g.emit(out, f.Name, f.Name+".domain_at_least_one", atLeast)
	// at-most-one
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			g.emit(out, f.Name, f.Name+".domain_at_most_one", g.pb.POr(g.pb.PNot(atoms[i]), g.pb.PNot(atoms[j])))
		}
	}
	// current literal value registered (step 7): ensured by atom table
	// population; nothing further to assert here, the current value's
	// polarity is installed as a SAT assumption, not a clause (§4.5).

	// range constraints (step 8)
	if f.Type.Numeric() {
		base := 10
		if f.Type == types.FeatureHex {
			base = 16
		}
		notEarlier := types.AtomExpr(types.Pos(g.tbl.True))
		for _, rc := range f.Ranges {
			cond := notEarlier
			if rc.Cond != nil {
				cond = g.pb.PAnd(notEarlier, g.pb.ToPExprBoth(rc.Cond))
			}
			for _, v := range f.Values {
				if literalInRange(v, rc.Lo, rc.Hi, base) {
					continue
				}
				atom := g.lit(g.tbl.AtomForValue(f.Name, v))
				g.emit(out, f.Name, f.Name+".range_excludes_"+v, g.pb.PImplies(cond, g.pb.PNot(atom)))
			}
			if rc.Cond != nil {
				notEarlier = g.pb.PAnd(notEarlier, g.pb.PNot(g.pb.ToPExprBoth(rc.Cond)))
			}
		}
	}
	// prompt-forces-value (step 9)
	if f.Prompt != nil {
		p := g.pb.ToPExprBoth(f.Prompt.Visible)
		if f.Prompt.Visible == nil {
			p = types.AtomExpr(types.Pos(g.tbl.True))
		}
		noValue := g.lit(g.tbl.AtomForValue(f.Name, ""))
		g.emit(out, f.Name, f.Name+".prompt_forces_value", g.pb.PImplies(p, g.pb.PNot(noValue)))
	}
}
