package types

// RuleExpr is a node in the rule-expression tree attached to a feature's
// prompt condition, direct dependency, default, select, or range clause.
// Symbol/Const are leaves; And/Or/Not/Equal/Unequal/Lt/Le/Gt/Ge are
// interior nodes (And/Or use Left and Right, Not uses only Left; the
// comparison ops name their left-hand feature in Feature and carry the
// right-hand side as Literal or as a symbol reference in Right).
type RuleExpr struct {
	Kind    RuleKind
	Feature string   // RuleSymbol
	Const   Tristate // RuleConst
	Left    *RuleExpr
	Right   *RuleExpr
	Literal string // RHS literal for comparisons against a non-boolean feature
}

func Symbol(name string) *RuleExpr { return &RuleExpr{Kind: RuleSymbol, Feature: name} }
func Const(t Tristate) *RuleExpr   { return &RuleExpr{Kind: RuleConst, Const: t} }
func And(l, r *RuleExpr) *RuleExpr { return &RuleExpr{Kind: RuleAnd, Left: l, Right: r} }
func Or(l, r *RuleExpr) *RuleExpr  { return &RuleExpr{Kind: RuleOr, Left: l, Right: r} }
func Not(e *RuleExpr) *RuleExpr    { return &RuleExpr{Kind: RuleNot, Left: e} }

type Default struct {
	Value string
	Cond  *RuleExpr // nil means unconditional
}

type Select struct {
	Target string
	Cond   *RuleExpr
}

type RangeClause struct {
	Lo, Hi string
	Cond   *RuleExpr
	Base   int // 10 for int, 16 for hex
}

type Prompt struct {
	Text    string
	Visible *RuleExpr // nil means always visible
}

// Feature is one node of the feature model (spec.md §3 "Feature").
// Choice-group members carry GroupName pointing back at the owning
// FeatureChoice feature; a FeatureChoice feature lists its members in
// Members.
type Feature struct {
	Name       string
	Type       FeatureType
	Value      string // current tristate letter or literal value
	Prompt     *Prompt
	DirectDep  *RuleExpr
	ReverseDep *RuleExpr // accumulated OR of all "select FEATURE [if COND]" reverse deps
	Defaults   []Default
	Selects    []Select
	Ranges     []RangeClause
	Members    []string // FeatureChoice only
	GroupName  string   // choice member only, "" otherwise
	Optional   bool     // FeatureChoice only: y/n/m allowed vs. exactly one required
	Values     []string // known literal values for non-boolean features, used by the non-bool atom encoding
}

// FeatureModel is the snapshot C1 exposes to the rest of the pipeline.
// Order fixes iteration order for everything downstream so constraint
// and clause generation is deterministic across runs.
type FeatureModel struct {
	Features        map[string]*Feature
	Order           []string
	ModulesFeature  string // name of the global tristate-enabling feature, "" if the model has no module support
}

func NewFeatureModel() FeatureModel {
	return FeatureModel{Features: make(map[string]*Feature)}
}

func (m *FeatureModel) Add(f *Feature) {
	if _, exists := m.Features[f.Name]; !exists {
		m.Order = append(m.Order, f.Name)
	}
	m.Features[f.Name] = f
}

func (m FeatureModel) Get(name string) (*Feature, bool) {
	f, ok := m.Features[name]
	return f, ok
}

// ConfigFragment is a named overlay applied on top of a base FeatureModel
// by the fragment composer before a session is built.
type ConfigFragment struct {
	Name        string            `yaml:"name"`
	Assignments map[string]string `yaml:"assignments"`
}

// OverrideDirective forces or locks a feature before a session is built;
// the ignore action leaves it unchanged (see SPEC_FULL.md §8).
type OverrideDirective struct {
	Feature string         `yaml:"feature"`
	Action  OverrideAction `yaml:"action"`
	Value   string         `yaml:"value,omitempty"`
}
