package main

import (
	"bytes"
	"testing"

	"github.com/gomlx/mnasnet/pkg/models/mnasnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintConfig(t *testing.T) {
	config := mnasnet.MustAssemble(mnasnet.BackboneName, map[string]string{"kernel": "5", "expratio": "3"},
		map[string]any{"num_classes": 10})
	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, config, false))
	out := buf.String()
	assert.Contains(t, out, `Model "mnasnet-backbone": 7 stages, 22 blocks`)
	for _, s := range config.BlockStrings() {
		assert.Contains(t, out, s)
	}
	assert.Contains(t, out, "num_classes: 10")
	assert.Contains(t, out, "min_depth: none")
	assert.Contains(t, out, "kernel: 5")
}

func TestBlocksTableScaled(t *testing.T) {
	config := mnasnet.MustAssemble(mnasnet.Mnasnet3x3Name, map[string]string{"depth_multiplier": "0.5"}, nil)
	table := blocksTable(config, true)
	assert.Contains(t, table, "r1_k3_s11_e1_i16_o8_noskip")
	assert.Contains(t, table, "Notation")

	table = blocksTable(config, false)
	assert.Contains(t, table, "r1_k3_s11_e1_i32_o16_noskip")
}

func TestBuildParams(t *testing.T) {
	params := buildParams()
	assert.Equal(t, "3", params[mnasnet.ParamKernel])
	assert.Equal(t, "6", params[mnasnet.ParamExpRatio])
	_, found := params[mnasnet.ParamDepthMultiplier]
	assert.False(t, found)
}
