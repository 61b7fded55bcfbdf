// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// BackboneName is the name of the parametric preset built by Backbone.
	BackboneName = "mnasnet-backbone"

	// Mnasnet3x3Name is the name of the fixed preset built by Mnasnet3x3.
	Mnasnet3x3Name = "mnasnet-3x3-1"

	// ParamKernel and ParamExpRatio are the build parameters of the BackboneName preset.
	ParamKernel   = "kernel"
	ParamExpRatio = "expratio"

	// ParamDepthMultiplier is the optional build parameter of the Mnasnet3x3Name preset.
	ParamDepthMultiplier = "depth_multiplier"
)

// PresetFn builds the blocks and global parameters of a preset, given its build parameters.
//
// Missing or invalid build parameters should return an error wrapping ErrInvalidBuildParameter.
type PresetFn func(buildParams map[string]string) ([]BlockArgs, GlobalParams, error)

var (
	presetsMu sync.RWMutex
	presets   = make(map[string]PresetFn)
)

// RegisterPreset makes a preset available under the given name, to be used by BuildPreset and Assemble.
//
// It panics if a preset with the same name was already registered.
func RegisterPreset(name string, fn PresetFn) {
	presetsMu.Lock()
	defer presetsMu.Unlock()
	if _, found := presets[name]; found {
		panic(errors.Errorf("mnasnet.RegisterPreset(%q): preset already registered", name))
	}
	presets[name] = fn
}

// Presets returns the sorted names of the registered presets.
func Presets() []string {
	presetsMu.RLock()
	defer presetsMu.RUnlock()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// BuildPreset builds the blocks and global parameters of the preset registered under name.
//
// It returns an error wrapping ErrUnsupportedPreset if there is no such preset.
func BuildPreset(name string, buildParams map[string]string) ([]BlockArgs, GlobalParams, error) {
	presetsMu.RLock()
	fn, found := presets[name]
	presetsMu.RUnlock()
	if !found {
		return nil, GlobalParams{}, errors.Wrapf(ErrUnsupportedPreset, "model name is not pre-defined: %q (known presets: %q)",
			name, Presets())
	}
	blocks, params, err := fn(buildParams)
	if err != nil {
		return nil, GlobalParams{}, errors.WithMessagef(err, "while building preset %q", name)
	}
	klog.V(1).Infof("mnasnet: built preset %q with %d blocks", name, len(blocks))
	return blocks, params, nil
}

func init() {
	RegisterPreset(BackboneName, func(buildParams map[string]string) ([]BlockArgs, GlobalParams, error) {
		kernel, err := intBuildParam(buildParams, ParamKernel)
		if err != nil {
			return nil, GlobalParams{}, err
		}
		expRatio, err := intBuildParam(buildParams, ParamExpRatio)
		if err != nil {
			return nil, GlobalParams{}, err
		}
		return Backbone(kernel, expRatio)
	})
	RegisterPreset(Mnasnet3x3Name, func(buildParams map[string]string) ([]BlockArgs, GlobalParams, error) {
		var depthMultiplier *float64
		if s, found := buildParams[ParamDepthMultiplier]; found && s != "" {
			m, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
				return nil, GlobalParams{}, errors.Wrapf(ErrInvalidBuildParameter,
					"%q must be a positive number, got %q", ParamDepthMultiplier, s)
			}
			depthMultiplier = &m
		}
		return Mnasnet3x3(depthMultiplier)
	})
}

// intBuildParam returns the required build parameter key converted to int.
func intBuildParam(buildParams map[string]string, key string) (int, error) {
	s, found := buildParams[key]
	if !found {
		return 0, errors.Wrapf(ErrInvalidBuildParameter, "missing required build parameter %q", key)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidBuildParameter, "build parameter %q must be an integer, got %q", key, s)
	}
	return v, nil
}

// Mnasnet3x3 returns the "mnasnet-3x3-1" model: all blocks use 3x3 kernels, and the
// filters can be scaled with depthMultiplier (nil for no scaling).
func Mnasnet3x3(depthMultiplier *float64) ([]BlockArgs, GlobalParams, error) {
	blocks, err := Decode([]string{
		"r1_k3_s11_e1_i32_o16_noskip",
		"r4_k3_s22_e1_i16_o24",
		"r4_k3_s22_e1_i24_o40",
		"r4_k3_s22_e1_i40_o80",
		"r4_k3_s11_e1_i80_o96",
		"r4_k3_s22_e1_i96_o192",
		"r1_k3_s11_e6_i192_o320_noskip",
	})
	if err != nil {
		return nil, GlobalParams{}, err
	}
	params := DefaultGlobalParams()
	params.DepthMultiplier = depthMultiplier
	return blocks, params, nil
}

// Backbone returns the "mnasnet-backbone" model: a MnasNet-like network where all the intermediary
// blocks use the same kernel size and expansion ratio. The first block (3x3, no skip) and the
// last one (3x3, expansion ratio 6, no skip) are fixed.
//
// The kernel and expRatio used are recorded in GlobalParams.Kernel and GlobalParams.ExpRatio.
func Backbone(kernel, expRatio int) ([]BlockArgs, GlobalParams, error) {
	if kernel <= 0 || kernel%2 == 0 {
		return nil, GlobalParams{}, errors.Wrapf(ErrInvalidBuildParameter, "%q must be a positive odd number, got %d",
			ParamKernel, kernel)
	}
	if expRatio <= 0 {
		return nil, GlobalParams{}, errors.Wrapf(ErrInvalidBuildParameter, "%q must be > 0, got %d", ParamExpRatio, expRatio)
	}
	middle := func(strides string, in, out int) string {
		return fmt.Sprintf("r4_k%d_s%s_e%d_i%d_o%d", kernel, strides, expRatio, in, out)
	}
	blocks, err := Decode([]string{
		"r1_k3_s11_e1_i32_o16_noskip",
		middle("22", 16, 24),
		middle("22", 24, 40),
		middle("22", 40, 80),
		middle("11", 80, 96),
		middle("22", 96, 192),
		"r1_k3_s11_e6_i192_o320_noskip",
	})
	if err != nil {
		return nil, GlobalParams{}, errors.Wrapf(ErrInvalidBuildParameter, "kernel=%d, expratio=%d: %v", kernel, expRatio, err)
	}
	params := DefaultGlobalParams()
	params.Kernel = &kernel
	params.ExpRatio = &expRatio
	return blocks, params, nil
}
