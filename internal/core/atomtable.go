package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"

	"kconfresolve/internal/types"
)

// atomNames is a reverse-lookup table from SAT variable to a
// human-readable trace name, used by the debug dumper and the constraint
// renderer.
type atomNames map[int]string

// TableBuilder wraps a types.AtomTable with the feature-model-aware
// accessors spec.md §4.1 names (atom_of_feature_y/m,
// atom_of_feature_selected_y/m, atom_for_value, fresh_tseitin,
// lookup_by_sat). Atoms are allocated lazily on first access so numbering
// only grows as the constraint generator actually touches a feature,
// matching "created lazily the first time f is observed as selectable".
type TableBuilder struct {
	Table   *types.AtomTable
	Model   types.FeatureModel
	Names   atomNames
	True    int
	False   int
}

func NewTableBuilder(model types.FeatureModel) *TableBuilder {
	b := &TableBuilder{
		Table: types.NewAtomTable(),
		Model: model,
		Names: atomNames{},
	}
	b.True = b.Table.Intern(types.AtomConstTrue, "", "")
	b.False = b.Table.Intern(types.AtomConstFalse, "", "")
	b.Names[b.True] = "TRUE"
	b.Names[b.False] = "FALSE"
	return b
}

func (b *TableBuilder) intern(kind types.AtomKind, feature, literal, name string) int {
	v := b.Table.Intern(kind, feature, literal)
	if _, ok := b.Names[v]; !ok {
		b.Names[v] = name
	}
	return v
}

// AtomOfFeatureY returns SYMBOL_Y(f).
func (b *TableBuilder) AtomOfFeatureY(f string) int {
	return b.intern(types.AtomSymbolY, f, "", f+".Y")
}

// AtomOfFeatureM returns SYMBOL_M(f), or CONST_FALSE if f is not TRI.
func (b *TableBuilder) AtomOfFeatureM(f string) int {
	feat, ok := b.Model.Get(f)
	if !ok || feat.Type != types.FeatureTri {
		return b.False
	}
	return b.intern(types.AtomSymbolM, f, "", f+".M")
}

// AtomOfFeatureSelectedY returns SELECTED_Y(f), allocated the first time
// f is observed as a select target.
func (b *TableBuilder) AtomOfFeatureSelectedY(f string) int {
	return b.intern(types.AtomSelectedY, f, "", f+".SELECTED_Y")
}

// AtomOfFeatureSelectedM returns SELECTED_M(f); only meaningful for TRI
// features, but callers may request it unconditionally since a BOOL
// feature simply never has it asserted true.
func (b *TableBuilder) AtomOfFeatureSelectedM(f string) int {
	return b.intern(types.AtomSelectedM, f, "", f+".SELECTED_M")
}

// AtomNoPromptCond returns the NPC atom for f (spec.md §4.3 item 5).
func (b *TableBuilder) AtomNoPromptCond(f string) int {
	return b.intern(types.AtomNoPromptCond, f, "", f+".NPC")
}

// AtomForValue is the get-or-create NONBOOL_EQ(f, literal) atom.
func (b *TableBuilder) AtomForValue(f, literal string) int {
	return b.intern(types.AtomNonBoolEq, f, literal, f+"=="+literal)
}

// AtomChoiceY/M allocate the choice-membership atoms a choice group's
// member owns in addition to its own SYMBOL_Y/M.
func (b *TableBuilder) AtomChoiceY(group, member string) int {
	return b.intern(types.AtomChoiceY, group, member, group+"{"+member+"}.Y")
}

func (b *TableBuilder) AtomChoiceM(group, member string) int {
	return b.intern(types.AtomChoiceM, group, member, group+"{"+member+"}.M")
}

// FreshTseitin allocates an un-interned auxiliary variable.
func (b *TableBuilder) FreshTseitin() int {
	v := b.Table.Intern(types.AtomTseitin, "", "")
	b.Names[v] = "t" // Tseitin temporaries are traced by variable number, not name
	return v
}

// LookupBySAT is the reverse map SAT-variable -> atom.
func (b *TableBuilder) LookupBySAT(v int) (types.Atom, bool) {
	return b.Table.Lookup(v)
}

// EnsureNonBoolDomain seeds the domain atoms of a non-boolean feature:
// the "no value" atom plus one atom per value the feature declares in
// Values. No other literal atoms are seeded by default.
func (b *TableBuilder) EnsureNonBoolDomain(f *types.Feature) {
	const noValue = ""
	b.AtomForValue(f.Name, noValue)
	for _, v := range f.Values {
		b.AtomForValue(f.Name, v)
	}
}

// Populate walks the model in declaration order and allocates every atom
// C4 will need, so variable numbering is stable across repeated builds
// of the same model (spec.md §4.1's ordering rationale).
func (b *TableBuilder) Populate() {
	for _, name := range b.Model.Order {
		f := b.Model.Features[name]
		if f == nil {
			continue
		}
		// A validated model never puts an empty-named feature in Order;
		// if one slips through, atom interning would silently collide
		// every such feature under the same key.
		assert.NotEmpty(context.Background(), f.Name, "feature name must not be empty when populating atom table")
		b.AtomOfFeatureY(f.Name)
		if f.Type == types.FeatureTri {
			b.AtomOfFeatureM(f.Name)
		}
		if f.ReverseDep != nil {
			b.AtomOfFeatureSelectedY(f.Name)
			if f.Type == types.FeatureTri {
				b.AtomOfFeatureSelectedM(f.Name)
			}
		}
		b.AtomNoPromptCond(f.Name)
		if f.Type == types.FeatureChoice {
			for _, member := range f.Members {
				b.AtomOfFeatureY(member)
				if mf, ok := b.Model.Get(member); ok && mf.Type == types.FeatureTri {
					b.AtomOfFeatureM(member)
				}
				b.AtomChoiceY(f.Name, member)
				b.AtomChoiceM(f.Name, member)
			}
		}
		if !f.Type.Tristateish() && f.Type != types.FeatureChoice {
			b.EnsureNonBoolDomain(f)
		}
	}
}
