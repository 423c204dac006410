package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"kconfresolve/internal/adapters"
	"kconfresolve/internal/policies"
	"kconfresolve/internal/types"
)

func simpleBoolModel() types.FeatureModel {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{Name: "USB", Type: types.FeatureBool, Value: "n", Prompt: &types.Prompt{Text: "USB"}})
	return m
}

func TestSession_DiagnoseUnknownFeature(t *testing.T) {
	m := simpleBoolModel()
	session, err := NewSession(context.Background(), m, adapters.NewGopherSATEngine(), policies.NewMutabilityPolicy(nil))
	require.NoError(t, err)

	_, err = session.Diagnose(context.Background(), "DOES_NOT_EXIST", "y", types.DefaultDiagnosisBudget())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestSession_DiagnoseInvalidTristateValue(t *testing.T) {
	m := simpleBoolModel()
	session, err := NewSession(context.Background(), m, adapters.NewGopherSATEngine(), policies.NewMutabilityPolicy(nil))
	require.NoError(t, err)

	_, err = session.Diagnose(context.Background(), "USB", "definitely-not-tristate", types.DefaultDiagnosisBudget())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestSession_DiagnoseSatisfiableHappyPath(t *testing.T) {
	m := simpleBoolModel()
	session, err := NewSession(context.Background(), m, adapters.NewGopherSATEngine(), policies.NewMutabilityPolicy(nil))
	require.NoError(t, err)

	result, err := session.Diagnose(context.Background(), "USB", "y", types.DefaultDiagnosisBudget())
	require.NoError(t, err)
	assert.True(t, result.Satisfiable)
	assert.Empty(t, result.Diagnoses)
}

func TestSession_ExposesConstraintsClausesAndAtomNames(t *testing.T) {
	m := simpleBoolModel()
	session, err := NewSession(context.Background(), m, adapters.NewGopherSATEngine(), policies.NewMutabilityPolicy(nil))
	require.NoError(t, err)

	assert.NotEmpty(t, session.Constraints())
	assert.NotEmpty(t, session.Clauses())
	assert.NotEmpty(t, session.AtomNames())
}
