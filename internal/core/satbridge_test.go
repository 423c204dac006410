package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kconfresolve/internal/adapters"
	"kconfresolve/internal/types"
)

func TestSATBridge_SolveDelegatesToEngine(t *testing.T) {
	bridge, err := NewSATBridge(adapters.NewGopherSATEngine(), []types.Clause{{1, 2}}, 2)
	require.NoError(t, err)

	result, err := bridge.Solve([]types.Literal{types.Pos(1)})
	require.NoError(t, err)
	assert.True(t, result.Satisfiable)
}

func TestSATBridge_FailedCoreShrinksToMinimalConflict(t *testing.T) {
	// x1 OR x2 OR x3, plus x1 implies not x2 (clause: not x1 OR not x2).
	// Assuming x1, x2, x3 all false is unsatisfiable purely from the first
	// clause; the implication clause plays no part, so the minimal core
	// should be exactly {-x1, -x2, -x3}.
	clauses := []types.Clause{{1, 2, 3}, {-1, -2}}
	bridge, err := NewSATBridge(adapters.NewGopherSATEngine(), clauses, 3)
	require.NoError(t, err)

	assumptions := []types.Literal{types.Neg(1), types.Neg(2), types.Neg(3)}
	res, err := bridge.Solve(assumptions)
	require.NoError(t, err)
	require.False(t, res.Satisfiable)

	core, err := bridge.FailedCore(context.Background(), assumptions)
	require.NoError(t, err)
	assert.ElementsMatch(t, assumptions, core)
}

func TestSATBridge_FailedCoreDropsIrrelevantAssumption(t *testing.T) {
	// x1 OR x2 alone is unsatisfiable once both are assumed false;
	// an extra assumption unrelated to that clause (pos x3, which is
	// free) should be droppable from the returned core.
	clauses := []types.Clause{{1, 2}}
	bridge, err := NewSATBridge(adapters.NewGopherSATEngine(), clauses, 3)
	require.NoError(t, err)

	assumptions := []types.Literal{types.Neg(1), types.Neg(2), types.Pos(3)}
	res, err := bridge.Solve(assumptions)
	require.NoError(t, err)
	require.False(t, res.Satisfiable)

	core, err := bridge.FailedCore(context.Background(), assumptions)
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.Literal{types.Neg(1), types.Neg(2)}, core)
}

func TestSATBridge_FailedCoreRespectsCancelledContext(t *testing.T) {
	clauses := []types.Clause{{1, 2}}
	bridge, err := NewSATBridge(adapters.NewGopherSATEngine(), clauses, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assumptions := []types.Literal{types.Neg(1), types.Neg(2)}
	_, err = bridge.FailedCore(ctx, assumptions)
	assert.Error(t, err)
}
