// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Config is a complete model configuration: the ordered blocks and the global parameters.
//
// It is the only thing the model builder needs, see ModelFn.
type Config struct {
	// Name of the preset used to build the configuration.
	Name string

	// Blocks in the order they are stacked in the network.
	Blocks []BlockArgs

	Params GlobalParams
}

// Assemble builds the configuration for the preset modelName, using buildParams to build it (see
// BuildPreset), and then applies the overrides to its GlobalParams (see GlobalParams.WithOverrides).
//
// Currently registered presets are BackboneName, which requires the build parameters ParamKernel and
// ParamExpRatio, and Mnasnet3x3Name, which accepts ParamDepthMultiplier.
//
// The resulting blocks and parameters are validated. Errors wrap one of ErrUnsupportedPreset,
// ErrInvalidBuildParameter, ErrInvalidOverrideField, ErrMalformedDescriptor or ErrInvalidGlobalParams.
func Assemble(modelName string, buildParams map[string]string, overrides map[string]any) (*Config, error) {
	blocks, params, err := BuildPreset(modelName, buildParams)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		params, err = params.WithOverrides(overrides)
		if err != nil {
			return nil, errors.WithMessagef(err, "while overriding parameters of %q", modelName)
		}
	}
	for ii, b := range blocks {
		if err = b.Validate(); err != nil {
			return nil, errors.WithMessagef(err, "%q block #%d (%s)", modelName, ii, b)
		}
	}
	if err = params.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "%q", modelName)
	}
	klog.V(1).Infof("mnasnet: assembled %q: %s", modelName, params)
	return &Config{Name: modelName, Blocks: blocks, Params: params}, nil
}

// MustAssemble is like Assemble, but panics on error.
func MustAssemble(modelName string, buildParams map[string]string, overrides map[string]any) *Config {
	c, err := Assemble(modelName, buildParams, overrides)
	if err != nil {
		panic(err)
	}
	return c
}

// BlockStrings returns the blocks of the configuration in their string notation.
func (c *Config) BlockStrings() []string {
	return Encode(c.Blocks)
}

// ScaledBlocks returns a copy of the blocks with the input and output filters scaled and rounded
// according to the global parameters, see GlobalParams.RoundFilters.
func (c *Config) ScaledBlocks() []BlockArgs {
	scaled := make([]BlockArgs, len(c.Blocks))
	for ii, b := range c.Blocks {
		b.InputFilters = c.Params.RoundFilters(b.InputFilters)
		b.OutputFilters = c.Params.RoundFilters(b.OutputFilters)
		scaled[ii] = b
	}
	return scaled
}

// NumBlocks returns the total number of blocks in the network, counting the repetitions of each stage.
func (c *Config) NumBlocks() int {
	var n int
	for _, b := range c.Blocks {
		n += b.NumRepeat
	}
	return n
}
