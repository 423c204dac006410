package types

// Tristate mirrors the kernel Kconfig value space: no, mod, yes.
type Tristate string

const (
	No  Tristate = "n"
	Mod Tristate = "m"
	Yes Tristate = "y"
)

func (t Tristate) Valid() bool {
	switch t {
	case No, Mod, Yes:
		return true
	default:
		return false
	}
}

type FeatureType string

const (
	FeatureBool   FeatureType = "bool"
	FeatureTri    FeatureType = "tristate"
	FeatureInt    FeatureType = "int"
	FeatureHex    FeatureType = "hex"
	FeatureString FeatureType = "string"
	FeatureChoice FeatureType = "choice"
	FeatureUnknown FeatureType = "unknown"
)

func (t FeatureType) Numeric() bool {
	return t == FeatureInt || t == FeatureHex
}

func (t FeatureType) Tristateish() bool {
	return t == FeatureBool || t == FeatureTri
}

// RuleKind enumerates the node kinds a RuleExpr tree can take (spec.md
// §3 "Rule expression").
type RuleKind string

const (
	RuleSymbol  RuleKind = "symbol"
	RuleConst   RuleKind = "const"
	RuleAnd     RuleKind = "and"
	RuleOr      RuleKind = "or"
	RuleNot     RuleKind = "not"
	RuleEqual   RuleKind = "equal"
	RuleUnequal RuleKind = "unequal"
	RuleLt      RuleKind = "lt"
	RuleLe      RuleKind = "le"
	RuleGt      RuleKind = "gt"
	RuleGe      RuleKind = "ge"
)

// AtomKind enumerates the atom ("fexpr") kinds an atom table can allocate
// (spec.md §3 "Atom", §4.1).
type AtomKind string

const (
	AtomSymbolY     AtomKind = "symbol_y"     // feature evaluates to yes
	AtomSymbolM     AtomKind = "symbol_m"     // feature evaluates to mod (TRI only)
	AtomNonBoolEq   AtomKind = "nonbool_eq"   // feature == literal, one per known value
	AtomChoiceY     AtomKind = "choice_y"     // choice member selected at yes
	AtomChoiceM     AtomKind = "choice_m"     // choice member selected at mod (TRI members)
	AtomSelectedY   AtomKind = "selected_y"   // some selector forces this feature to yes
	AtomSelectedM   AtomKind = "selected_m"   // some selector forces this feature to mod
	AtomNoPromptCond AtomKind = "no_prompt_cond" // prompt visibility condition is false
	AtomTseitin     AtomKind = "tseitin_tmp"  // synthetic Tseitin auxiliary variable
	AtomConstTrue   AtomKind = "const_true"
	AtomConstFalse  AtomKind = "const_false"
)

// PExprKind enumerates the node kinds of the negation-normal-form
// propositional expression tree (spec.md §3 "Propositional expression").
type PExprKind string

const (
	PExprAtom PExprKind = "atom"
	PExprAnd  PExprKind = "and"
	PExprOr   PExprKind = "or"
)

// OverrideAction enumerates what an OverrideDirective does to a feature
// before a session is built.
type OverrideAction string

const (
	OverrideForce  OverrideAction = "force"
	OverrideLock   OverrideAction = "lock"
	OverrideIgnore OverrideAction = "ignore"
)
