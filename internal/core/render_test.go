package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kconfresolve/internal/types"
)

func TestRenderPExpr(t *testing.T) {
	names := map[int]string{1: "USB", 2: "NET"}

	tests := []struct {
		name string
		expr *types.PExpr
		want string
	}{
		{"atom", types.AtomExpr(types.Pos(1)), "USB"},
		{"negated atom", types.AtomExpr(types.Neg(1)), "!USB"},
		{"and", types.AndExpr(types.AtomExpr(types.Pos(1)), types.AtomExpr(types.Pos(2))), "USB && NET"},
		{"or", types.OrExpr(types.AtomExpr(types.Pos(1)), types.AtomExpr(types.Pos(2))), "USB || NET"},
		{
			"nested parenthesises non-atoms",
			types.OrExpr(types.AndExpr(types.AtomExpr(types.Pos(1)), types.AtomExpr(types.Pos(2))), types.AtomExpr(types.Neg(1))),
			"(USB && NET) || !USB",
		},
		{"unnamed variable falls back to tNN", types.AtomExpr(types.Pos(99)), "t99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderPExpr(tt.expr, names))
		})
	}
}
