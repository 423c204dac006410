package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kconfresolve/internal/types"
)

func validModel() types.FeatureModel {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{Name: "USB", Type: types.FeatureBool, Value: "n"})
	m.Add(&types.Feature{
		Name: "NET", Type: types.FeatureBool, Value: "y",
		DirectDep: types.Symbol("USB"),
	})
	return m
}

func TestModelValidator_Valid(t *testing.T) {
	err := NewModelValidator().Validate(context.Background(), validModel())
	require.NoError(t, err)
}

func TestModelValidator_EmptyModel(t *testing.T) {
	err := NewModelValidator().Validate(context.Background(), types.NewFeatureModel())
	assert.Error(t, err)
}

func TestModelValidator_NoDeclaredType(t *testing.T) {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{Name: "USB"})
	err := NewModelValidator().Validate(context.Background(), m)
	assert.Error(t, err)
}

func TestModelValidator_InvalidTristateValue(t *testing.T) {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{Name: "USB", Type: types.FeatureBool, Value: "maybe"})
	err := NewModelValidator().Validate(context.Background(), m)
	assert.Error(t, err)
}

func TestModelValidator_DanglingDependency(t *testing.T) {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{Name: "NET", Type: types.FeatureBool, Value: "y", DirectDep: types.Symbol("GHOST")})
	err := NewModelValidator().Validate(context.Background(), m)
	assert.Error(t, err)
}

func TestModelValidator_SelectUnknownTarget(t *testing.T) {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{
		Name: "NET", Type: types.FeatureBool, Value: "y",
		Selects: []types.Select{{Target: "GHOST"}},
	})
	err := NewModelValidator().Validate(context.Background(), m)
	assert.Error(t, err)
}

func TestModelValidator_ChoiceMemberBackpointerMismatch(t *testing.T) {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{Name: "A", Type: types.FeatureBool, Value: "n", GroupName: "WRONG"})
	m.Add(&types.Feature{
		Name: "CHOICE", Type: types.FeatureChoice, Value: "A",
		Members: []string{"A"},
	})
	err := NewModelValidator().Validate(context.Background(), m)
	assert.Error(t, err)
}

func TestModelValidator_ChoiceMemberValid(t *testing.T) {
	m := types.NewFeatureModel()
	m.Add(&types.Feature{Name: "A", Type: types.FeatureBool, Value: "n", GroupName: "CHOICE"})
	m.Add(&types.Feature{
		Name: "CHOICE", Type: types.FeatureChoice, Value: "A",
		Members: []string{"A"},
	})
	err := NewModelValidator().Validate(context.Background(), m)
	require.NoError(t, err)
}
