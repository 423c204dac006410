package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kconfresolve/internal/types"
)

func TestFragmentComposer_LastWins(t *testing.T) {
	base := types.NewFeatureModel()
	base.Add(&types.Feature{Name: "USB", Type: types.FeatureBool, Value: "n"})

	composed, err := NewFragmentComposer().Compose(context.Background(), base, []types.ConfigFragment{
		{Name: "first", Assignments: map[string]string{"USB": "y"}},
		{Name: "second", Assignments: map[string]string{"USB": "m"}},
	})
	require.NoError(t, err)
	f, ok := composed.Get("USB")
	require.True(t, ok)
	assert.Equal(t, "m", f.Value)
}

func TestFragmentComposer_DoesNotMutateBase(t *testing.T) {
	base := types.NewFeatureModel()
	base.Add(&types.Feature{Name: "USB", Type: types.FeatureBool, Value: "n"})

	_, err := NewFragmentComposer().Compose(context.Background(), base, []types.ConfigFragment{
		{Name: "only", Assignments: map[string]string{"USB": "y"}},
	})
	require.NoError(t, err)
	f, _ := base.Get("USB")
	assert.Equal(t, "n", f.Value, "composing must not mutate the base model")
}

func TestFragmentComposer_UnknownFeature(t *testing.T) {
	base := types.NewFeatureModel()
	base.Add(&types.Feature{Name: "USB", Type: types.FeatureBool, Value: "n"})

	_, err := NewFragmentComposer().Compose(context.Background(), base, []types.ConfigFragment{
		{Name: "bad", Assignments: map[string]string{"GHOST": "y"}},
	})
	assert.Error(t, err)
}
