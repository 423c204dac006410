package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kconfresolve/internal/types"
)

func newTestTable() *TableBuilder {
	return NewTableBuilder(types.NewFeatureModel())
}

func TestCNFEncoder_FixedUnitClauses(t *testing.T) {
	tbl := newTestTable()
	enc := NewCNFEncoder(tbl)
	clauses := enc.Encode(nil)
	require.Len(t, clauses, 2)
	assert.Contains(t, clauses, types.Clause{tbl.True})
	assert.Contains(t, clauses, types.Clause{-tbl.False})
}

func TestCNFEncoder_LiteralDisjunctionEmittedDirectly(t *testing.T) {
	tbl := newTestTable()
	a := tbl.Table.Intern(types.AtomSymbolY, "A", "")
	b := tbl.Table.Intern(types.AtomSymbolY, "B", "")
	enc := NewCNFEncoder(tbl)

	expr := types.OrExpr(types.AtomExpr(types.Pos(a)), types.AtomExpr(types.Neg(b)))
	clauses := enc.Encode([]types.Constraint{{Name: "t", Expr: expr}})

	// two fixed unit clauses plus exactly one clause for the OR: no
	// Tseitin temporaries should have been introduced.
	require.Len(t, clauses, 3)
	assert.Contains(t, clauses, types.Clause{a, -b})
}

func TestCNFEncoder_AndOfDisjunctionsFlattensWithoutTemps(t *testing.T) {
	tbl := newTestTable()
	a := tbl.Table.Intern(types.AtomSymbolY, "A", "")
	b := tbl.Table.Intern(types.AtomSymbolY, "B", "")
	c := tbl.Table.Intern(types.AtomSymbolY, "C", "")
	enc := NewCNFEncoder(tbl)

	expr := types.AndExpr(
		types.AtomExpr(types.Pos(a)),
		types.OrExpr(types.AtomExpr(types.Pos(b)), types.AtomExpr(types.Pos(c))),
	)
	clauses := enc.Encode([]types.Constraint{{Name: "t", Expr: expr}})

	require.Len(t, clauses, 4) // 2 fixed + one per conjunct
	assert.Contains(t, clauses, types.Clause{a})
	assert.Contains(t, clauses, types.Clause{b, c})
}

func TestCNFEncoder_NestedAndInsideOrIntroducesTseitin(t *testing.T) {
	tbl := newTestTable()
	a := tbl.Table.Intern(types.AtomSymbolY, "A", "")
	b := tbl.Table.Intern(types.AtomSymbolY, "B", "")
	c := tbl.Table.Intern(types.AtomSymbolY, "C", "")
	enc := NewCNFEncoder(tbl)

	// a OR (b AND c): not a pure disjunction, so this must fall back to
	// Tseitin and allocate a fresh auxiliary variable beyond the three
	// named atoms already interned.
	expr := types.OrExpr(
		types.AtomExpr(types.Pos(a)),
		types.AndExpr(types.AtomExpr(types.Pos(b)), types.AtomExpr(types.Pos(c))),
	)
	clauses := enc.Encode([]types.Constraint{{Name: "t", Expr: expr}})

	assert.Greater(t, tbl.Table.NumVars(), c, "expected a fresh tseitin variable")
	assert.Greater(t, len(clauses), 3)
}
