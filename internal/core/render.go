package core

import (
	"fmt"
	"strings"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// renderPExpr prints a PExpr tree using names's trace names, for the
// constraint dump (spec.md §6). Variables without a trace name fall
// back to "tNN".
func renderPExpr(e *types.PExpr, names map[int]string) string {
	switch e.Kind {
	case types.PExprAtom:
		return renderLiteral(e.Lit, names)
	case types.PExprAnd:
		return renderJoin(e.Children, names, " && ")
	case types.PExprOr:
		return renderJoin(e.Children, names, " || ")
	default:
		return "?"
	}
}

func renderLiteral(l types.Literal, names map[int]string) string {
	name, ok := names[l.Var]
	if !ok {
		name = fmt.Sprintf("t%d", l.Var)
	}
	if l.Negated {
		return "!" + name
	}
	return name
}

func renderJoin(children []*types.PExpr, names map[int]string, sep string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = renderPExpr(c, names)
		if c.Kind != types.PExprAtom {
			parts[i] = "(" + parts[i] + ")"
		}
	}
	return strings.Join(parts, sep)
}

// RenderConstraints converts the session's constraint set into the
// adapter-facing dump form, resolving every literal to its trace name.
func (s *Session) RenderConstraints() []ports.ConstraintDump {
	out := make([]ports.ConstraintDump, len(s.constraints))
	for i, c := range s.constraints {
		out[i] = ports.ConstraintDump{
			Name:   c.Name,
			Source: c.Source,
			Text:   renderPExpr(c.Expr, s.tbl.Names),
		}
	}
	return out
}
