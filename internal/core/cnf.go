package core

import "kconfresolve/internal/types"

// CNFEncoder is C5: Tseitin-transforms a constraint set into CNF clauses,
// emitting a constraint's pexpr directly as one clause whenever it is
// already a pure disjunction of literals and falling back to fresh
// temporaries only where a nested AND forces it (spec.md §4.5).
type CNFEncoder struct {
	tbl     *TableBuilder
	clauses []types.Clause
}

func NewCNFEncoder(tbl *TableBuilder) *CNFEncoder {
	return &CNFEncoder{tbl: tbl}
}

func (e *CNFEncoder) unit(l types.Literal) { e.clauses = append(e.clauses, types.Clause{l.DIMACS()}) }

func (e *CNFEncoder) addClause(lits []types.Literal) {
	c := make(types.Clause, len(lits))
	for i, l := range lits {
		c[i] = l.DIMACS()
	}
	e.clauses = append(e.clauses, c)
}

// Encode returns the full clause set: the two fixed unit clauses pinning
// CONST_TRUE/CONST_FALSE plus one or more clauses per constraint.
func (e *CNFEncoder) Encode(constraints []types.Constraint) []types.Clause {
	e.clauses = nil
	e.unit(types.Pos(e.tbl.True))
	e.unit(types.Neg(e.tbl.False))
	for _, c := range constraints {
		for _, conjunct := range flattenAnd(c.Expr) {
			if lits, ok := literalDisjunction(conjunct); ok {
				e.addClause(lits)
				continue
			}
			lit := e.tseitin(conjunct)
			e.unit(lit)
		}
	}
	return e.clauses
}

// flattenAnd recursively splits top-level AND nodes so each conjunct is
// encoded (and, where possible, emitted as a bare clause) independently.
func flattenAnd(p *types.PExpr) []*types.PExpr {
	if p.Kind != types.PExprAnd {
		return []*types.PExpr{p}
	}
	var out []*types.PExpr
	for _, child := range p.Children {
		out = append(out, flattenAnd(child)...)
	}
	return out
}

// literalDisjunction reports whether p is an OR-of-literals (or a bare
// literal), returning its flattened literal list.
func literalDisjunction(p *types.PExpr) ([]types.Literal, bool) {
	switch p.Kind {
	case types.PExprAtom:
		return []types.Literal{p.Lit}, true
	case types.PExprOr:
		var out []types.Literal
		for _, child := range p.Children {
			lits, ok := literalDisjunction(child)
			if !ok {
				return nil, false
			}
			out = append(out, lits...)
		}
		return out, true
	default:
		return nil, false
	}
}

// tseitin returns a literal equivalent to p, introducing fresh auxiliary
// variables and their defining clauses for every AND/OR node it touches.
func (e *CNFEncoder) tseitin(p *types.PExpr) types.Literal {
	switch p.Kind {
	case types.PExprAtom:
		return p.Lit
	case types.PExprAnd:
		lits := make([]types.Literal, len(p.Children))
		for i, c := range p.Children {
			lits[i] = e.tseitin(c)
		}
		return e.reduce(lits, e.tseitinAnd)
	case types.PExprOr:
		lits := make([]types.Literal, len(p.Children))
		for i, c := range p.Children {
			lits[i] = e.tseitin(c)
		}
		return e.reduce(lits, e.tseitinOr)
	default:
		return types.Neg(e.tbl.False)
	}
}

func (e *CNFEncoder) reduce(lits []types.Literal, combine func(a, b types.Literal) types.Literal) types.Literal {
	acc := lits[0]
	for _, l := range lits[1:] {
		acc = combine(acc, l)
	}
	return acc
}

// tseitinAnd encodes T <-> (a ∧ b): (¬a∨¬b∨T), (a∨¬T), (b∨¬T).
func (e *CNFEncoder) tseitinAnd(a, b types.Literal) types.Literal {
	t := types.Pos(e.tbl.FreshTseitin())
	e.addClause([]types.Literal{a.Negate(), b.Negate(), t})
	e.addClause([]types.Literal{a, t.Negate()})
	e.addClause([]types.Literal{b, t.Negate()})
	return t
}

// tseitinOr encodes T <-> (a ∨ b): (a∨b∨¬T), (¬a∨T), (¬b∨T).
func (e *CNFEncoder) tseitinOr(a, b types.Literal) types.Literal {
	t := types.Pos(e.tbl.FreshTseitin())
	e.addClause([]types.Literal{a, b, t.Negate()})
	e.addClause([]types.Literal{a.Negate(), t})
	e.addClause([]types.Literal{b.Negate(), t})
	return t
}
