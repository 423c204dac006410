package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kconfresolve/internal/types"
)

func TestRuleExprParser_ParseOptionalBlank(t *testing.T) {
	p := NewRuleExprParser()
	expr, err := p.ParseOptional("  ")
	require.NoError(t, err)
	assert.Nil(t, expr)
}

func TestRuleExprParser_Symbol(t *testing.T) {
	p := NewRuleExprParser()
	expr, err := p.Parse("USB")
	require.NoError(t, err)
	assert.Equal(t, types.Symbol("USB"), expr)
}

func TestRuleExprParser_TristateConst(t *testing.T) {
	p := NewRuleExprParser()
	expr, err := p.Parse("y")
	require.NoError(t, err)
	assert.Equal(t, types.Const(types.Yes), expr)
}

func TestRuleExprParser_AndOr(t *testing.T) {
	p := NewRuleExprParser()
	expr, err := p.Parse("NET && USB || WIFI")
	require.NoError(t, err)
	// && binds tighter than ||
	assert.Equal(t, types.RuleOr, expr.Kind)
	assert.Equal(t, types.RuleAnd, expr.Left.Kind)
}

func TestRuleExprParser_Not(t *testing.T) {
	p := NewRuleExprParser()
	expr, err := p.Parse("!USB")
	require.NoError(t, err)
	assert.Equal(t, types.RuleNot, expr.Kind)
	assert.Equal(t, types.Symbol("USB"), expr.Left)
}

func TestRuleExprParser_Parens(t *testing.T) {
	p := NewRuleExprParser()
	expr, err := p.Parse("(NET || USB) && WIFI")
	require.NoError(t, err)
	assert.Equal(t, types.RuleAnd, expr.Kind)
	assert.Equal(t, types.RuleOr, expr.Left.Kind)
}

func TestRuleExprParser_Comparisons(t *testing.T) {
	tests := []struct {
		expr string
		kind types.RuleKind
	}{
		{"FOO == 5", types.RuleEqual},
		{"FOO != 5", types.RuleUnequal},
		{"FOO < 5", types.RuleLt},
		{"FOO <= 5", types.RuleLe},
		{"FOO > 5", types.RuleGt},
		{"FOO >= 5", types.RuleGe},
	}
	p := NewRuleExprParser()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expr, err := p.Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, expr.Kind)
			assert.Equal(t, "FOO", expr.Feature)
		})
	}
}

func TestRuleExprParser_EqualsTristateConstOnRHS(t *testing.T) {
	p := NewRuleExprParser()
	expr, err := p.Parse("USB == y")
	require.NoError(t, err)
	require.Equal(t, types.RuleEqual, expr.Kind)
	assert.Equal(t, types.Const(types.Yes), expr.Right)
}

func TestRuleExprParser_EqualsSymbolOnRHS(t *testing.T) {
	p := NewRuleExprParser()
	expr, err := p.Parse("A == B")
	require.NoError(t, err)
	assert.Equal(t, types.Symbol("B"), expr.Right)
}

func TestRuleExprParser_Errors(t *testing.T) {
	p := NewRuleExprParser()
	_, err := p.Parse("(NET")
	assert.Error(t, err)
	_, err = p.Parse("NET &&")
	assert.Error(t, err)
	_, err = p.Parse("NET $ USB")
	assert.Error(t, err)
	_, err = p.Parse("\"unterminated")
	assert.Error(t, err)
}
