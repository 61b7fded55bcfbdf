// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// describeModel is a ModelFn that "builds" a model of strings, describing the blocks it would create.
func describeModel(blocks []BlockArgs, params GlobalParams, inputs string, training bool) (string, map[string]string) {
	endpoints := make(map[string]string, len(blocks))
	x := inputs
	for ii, b := range blocks {
		x = fmt.Sprintf("block_%d(%s)", ii, x)
		endpoints[fmt.Sprintf("block_%d", ii)] = b.String()
	}
	return fmt.Sprintf("logits[%d,training=%t](%s)", params.NumClasses, training, x), endpoints
}

func TestBuildModel(t *testing.T) {
	buildParams := map[string]string{"kernel": "5", "expratio": "3"}
	logits, endpoints, err := BuildModel(describeModel, "images", BackboneName, true, buildParams,
		map[string]any{"num_classes": 10})
	require.NoError(t, err)
	assert.Contains(t, logits, "logits[10,training=true](block_6(")
	assert.Len(t, endpoints, 7)
	assert.Equal(t, "r4_k5_s22_e3_i16_o24", endpoints["block_1"])

	_, _, err = BuildModel(describeModel, "images", "unknown", false, buildParams, nil)
	require.ErrorIs(t, err, ErrUnsupportedPreset)

	// Panics in the model function are returned as errors.
	errBuild := errors.New("out of memory")
	failingFn := func([]BlockArgs, GlobalParams, string, bool) (string, map[string]string) {
		panic(errBuild)
	}
	_, _, err = BuildModel(failingFn, "images", BackboneName, false, buildParams, nil)
	require.ErrorIs(t, err, errBuild)
	assert.Contains(t, err.Error(), BackboneName)
}
