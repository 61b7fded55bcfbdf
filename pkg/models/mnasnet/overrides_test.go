// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithOverrides(t *testing.T) {
	gp := DefaultGlobalParams()
	original := gp

	newGP, err := gp.WithOverrides(map[string]any{"dropout_rate": 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.5, newGP.DropoutRate)
	want := gp
	want.DropoutRate = 0.5
	assert.Equal(t, want, newGP)
	assert.Equal(t, original, gp, "receiver must not be modified")

	// Unknown field: nothing is merged.
	newGP, err = gp.WithOverrides(map[string]any{"dropout_rate": 0.5, "nonexistent_field": 1})
	require.ErrorIs(t, err, ErrInvalidOverrideField)
	assert.Contains(t, err.Error(), "nonexistent_field")
	assert.Equal(t, original, newGP)
	assert.Equal(t, original, gp)

	// Empty overrides.
	newGP, err = gp.WithOverrides(nil)
	require.NoError(t, err)
	assert.Equal(t, gp, newGP)
}

func TestWithOverridesConversions(t *testing.T) {
	gp := DefaultGlobalParams()
	newGP, err := gp.WithOverrides(map[string]any{
		"num_classes":         int64(10),
		"batch_norm_momentum": 1, // int for a float field.
		"batch_norm_epsilon":  float32(0.5),
		"data_format":         "channels_first",
		"depth_multiplier":    0.75,
		"min_depth":           16.0, // Integral float for an int field.
		"kernel":              "5",
		"expratio":            ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, newGP.NumClasses)
	assert.Equal(t, 1.0, newGP.BatchNormMomentum)
	assert.Equal(t, 0.5, newGP.BatchNormEpsilon)
	assert.Equal(t, ChannelsFirst, newGP.DataFormat)
	require.NotNil(t, newGP.DepthMultiplier)
	assert.Equal(t, 0.75, *newGP.DepthMultiplier)
	require.NotNil(t, newGP.MinDepth)
	assert.Equal(t, 16, *newGP.MinDepth)
	require.NotNil(t, newGP.Kernel)
	assert.Equal(t, 5, *newGP.Kernel)
	require.NotNil(t, newGP.ExpRatio)
	assert.Equal(t, 3, *newGP.ExpRatio)
	assert.Nil(t, gp.DepthMultiplier)

	// Unset optional fields.
	cleared, err := newGP.WithOverrides(map[string]any{"depth_multiplier": nil, "min_depth": "none"})
	require.NoError(t, err)
	assert.Nil(t, cleared.DepthMultiplier)
	assert.Nil(t, cleared.MinDepth)
	assert.NotNil(t, newGP.DepthMultiplier)

	// Invalid values.
	for _, overrides := range []map[string]any{
		{"num_classes": 10.5},
		{"num_classes": "ten"},
		{"num_classes": nil},
		{"dropout_rate": true},
		{"data_format": "nhwc"},
		{"data_format": 1},
		{"dropout_rate": math.NaN()},
		{"batch_norm_epsilon": math.Inf(1)},
		{"depth_multiplier": math.Inf(-1)},
		{"depth_multiplier": "NaN"},
		{"batch_norm_momentum": float32(math.Inf(1))},
	} {
		_, err = gp.WithOverrides(overrides)
		require.ErrorIsf(t, err, ErrInvalidOverrideField, "overrides=%v", overrides)
	}
}

func TestWithOverridesCopiesPointers(t *testing.T) {
	multiplier, minDepth := 0.5, 16
	gp, err := DefaultGlobalParams().WithOverrides(map[string]any{
		"depth_multiplier": &multiplier,
		"min_depth":        &minDepth,
	})
	require.NoError(t, err)
	require.NoError(t, gp.Validate())

	// Changing the caller's variables after the override must not change the overridden params.
	multiplier, minDepth = -1, 0
	require.NotNil(t, gp.DepthMultiplier)
	require.NotNil(t, gp.MinDepth)
	assert.Equal(t, 0.5, *gp.DepthMultiplier)
	assert.Equal(t, 16, *gp.MinDepth)
	assert.NotSame(t, &multiplier, gp.DepthMultiplier)
	assert.NotSame(t, &minDepth, gp.MinDepth)
	require.NoError(t, gp.Validate())
}

func TestParseOverrides(t *testing.T) {
	overrides, err := ParseOverrides("dropout_rate=0.3; num_classes=1_000;data_format=channels_first;min_depth=none;")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"dropout_rate": 0.3,
		"num_classes":  1000,
		"data_format":  ChannelsFirst,
		"min_depth":    nil,
	}, overrides)

	gp, err := DefaultGlobalParams().WithOverrides(overrides)
	require.NoError(t, err)
	assert.Equal(t, 0.3, gp.DropoutRate)
	assert.Equal(t, 1000, gp.NumClasses)
	assert.Equal(t, ChannelsFirst, gp.DataFormat)

	overrides, err = ParseOverrides("")
	require.NoError(t, err)
	assert.Empty(t, overrides)

	_, err = ParseOverrides("unknown=3")
	require.ErrorIs(t, err, ErrInvalidOverrideField)

	_, err = ParseOverrides("num_classes=3.5")
	require.ErrorIs(t, err, ErrInvalidOverrideField)

	_, err = ParseOverrides("num_classes")
	require.Error(t, err)

	for _, settings := range []string{"dropout_rate=NaN", "batch_norm_epsilon=Inf", "depth_multiplier=-inf"} {
		_, err = ParseOverrides(settings)
		require.ErrorIsf(t, err, ErrInvalidOverrideField, "settings=%q", settings)
	}
}
