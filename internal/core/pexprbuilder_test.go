package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kconfresolve/internal/types"
)

// gccVersionModel mirrors the source's only hard-coded numeric
// comparison: a GCC_VERSION int feature checked against a literal.
func gccVersionModel(currentVersion string) types.FeatureModel {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{
		Name: "GCC_VERSION", Type: types.FeatureInt, Value: currentVersion,
		Values: []string{"40800", "40900", "50100"},
	})
	return m
}

func buildCompare(t *testing.T, model types.FeatureModel, expr *types.RuleExpr) (*PExprBuilder, *TableBuilder, *types.PExpr) {
	t.Helper()
	tbl := NewTableBuilder(model)
	tbl.Populate()
	pb := NewPExprBuilder(tbl)
	return pb, tbl, pb.ToPExprY(expr)
}

func TestTranslateCompare_GCCVersionWhitelisted(t *testing.T) {
	model := gccVersionModel("40900")
	expr := &types.RuleExpr{Kind: types.RuleGe, Feature: "GCC_VERSION", Literal: "40800"}
	pb, tbl, got := buildCompare(t, model, expr)
	assert.True(t, isConstTrue(pb, tbl, got))
}

func TestTranslateCompare_GCCVersionWhitelistedFalse(t *testing.T) {
	model := gccVersionModel("40800")
	expr := &types.RuleExpr{Kind: types.RuleGe, Feature: "GCC_VERSION", Literal: "50100"}
	pb, tbl, got := buildCompare(t, model, expr)
	assert.True(t, isConstFalse(pb, tbl, got))
}

// cramfsMtdModel mirrors the source's only hard-coded boolean-ordering
// comparison: "CRAMFS <= MTD", each a plain bool feature.
func cramfsMtdModel(cramfs, mtd string) types.FeatureModel {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{Name: "CRAMFS", Type: types.FeatureBool, Value: cramfs})
	m.Add(&types.Feature{Name: "MTD", Type: types.FeatureBool, Value: mtd})
	return m
}

func TestTranslateCompare_CramfsMtdWhitelisted(t *testing.T) {
	model := cramfsMtdModel("n", "y")
	expr := &types.RuleExpr{Kind: types.RuleLe, Feature: "CRAMFS", Literal: "MTD"}
	pb, tbl, got := buildCompare(t, model, expr)
	assert.True(t, isConstTrue(pb, tbl, got), "CRAMFS(n)<=MTD(y) must hold")
}

func TestTranslateCompare_CramfsMtdWhitelistedReversed(t *testing.T) {
	// The source's "special hack" matches the pair regardless of which
	// side of the comparison each symbol appears on.
	model := cramfsMtdModel("y", "n")
	expr := &types.RuleExpr{Kind: types.RuleGe, Feature: "MTD", Literal: "CRAMFS"}
	pb, tbl, got := buildCompare(t, model, expr)
	assert.True(t, isConstFalse(pb, tbl, got), "MTD(n)>=CRAMFS(y) must not hold")
}

// TestTranslateCompare_EverythingElseConservativelyFalse pins spec.md's
// requirement that any comparison outside the two hard-coded pairs
// evaluates to false, matching the source's unconditional fallthrough.
func TestTranslateCompare_EverythingElseConservativelyFalse(t *testing.T) {
	model := types.NewFeatureModel()
	model.Add(&types.Feature{Name: "FOO", Type: types.FeatureInt, Value: "10", Values: []string{"5", "10", "15"}})

	tests := []struct {
		name string
		expr *types.RuleExpr
	}{
		{"unrelated numeric feature", &types.RuleExpr{Kind: types.RuleGt, Feature: "FOO", Literal: "5"}},
		{"GCC_VERSION on the literal side", &types.RuleExpr{Kind: types.RuleLt, Feature: "FOO", Literal: "GCC_VERSION"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb, tbl, got := buildCompare(t, model, tt.expr)
			assert.True(t, isConstFalse(pb, tbl, got))
		})
	}
}

func isConstTrue(pb *PExprBuilder, tbl *TableBuilder, p *types.PExpr) bool {
	c, v := pb.constValue(p)
	return c && v
}

func isConstFalse(pb *PExprBuilder, tbl *TableBuilder, p *types.PExpr) bool {
	c, v := pb.constValue(p)
	return c && !v
}
