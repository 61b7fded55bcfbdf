// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package mnasnet holds the configuration of MnasNet-like convolutional networks: the stage (block)
// descriptors, their compact string notation and the named presets with their global hyperparameters.
//
// A stage is described by a string like "r4_k3_s22_e6_i16_o24_se0.25", where:
//
//   - r: number of times the block is repeated.
//   - k: kernel size.
//   - s: strides, exactly two digits: row and column.
//   - e: expansion ratio.
//   - i, o: input and output filters (channels).
//   - se: optional squeeze-excitation ratio.
//   - noskip: optional flag disabling the residual (identity skip) connection.
//
// Use Decode/Encode to convert between the notation and BlockArgs, and Assemble to build a full
// configuration from a registered preset, optionally with overrides of the GlobalParams.
//
// The model itself is not built here: see ModelFn and BuildModel.
package mnasnet

import (
	"fmt"

	"github.com/pkg/errors"
)

// BlockArgs describes one stage of the network: a (mobile inverted bottleneck) block repeated NumRepeat times.
//
// It is meant to be used as a value: the methods never change it.
type BlockArgs struct {
	NumRepeat     int
	KernelSize    int
	Strides       [2]int
	ExpandRatio   int
	InputFilters  int
	OutputFilters int

	// IDSkip indicates whether the block may add its input to its output (residual connection).
	IDSkip bool

	// SERatio is the squeeze-excitation ratio. If nil, squeeze-excitation is disabled.
	SERatio *float64
}

// String implements fmt.Stringer, and returns the block in its string notation.
func (b BlockArgs) String() string {
	return EncodeBlockString(b)
}

// Equal returns whether b and other describe the same block. SERatio is compared by value.
func (b BlockArgs) Equal(other BlockArgs) bool {
	if (b.SERatio == nil) != (other.SERatio == nil) {
		return false
	}
	if b.SERatio != nil && *b.SERatio != *other.SERatio {
		return false
	}
	b.SERatio, other.SERatio = nil, nil
	return b == other
}

// HasSE returns whether squeeze-excitation is enabled for the block.
func (b BlockArgs) HasSE() bool {
	return b.SERatio != nil && *b.SERatio > 0 && *b.SERatio <= 1
}

// WithSERatio returns a copy of b with the squeeze-excitation ratio set to ratio.
func (b BlockArgs) WithSERatio(ratio float64) BlockArgs {
	b.SERatio = &ratio
	return b
}

// Validate checks that the values of the block are within the ranges the notation can express.
func (b BlockArgs) Validate() error {
	positives := []struct {
		name  string
		value int
	}{
		{"num_repeat", b.NumRepeat},
		{"kernel_size", b.KernelSize},
		{"expand_ratio", b.ExpandRatio},
		{"input_filters", b.InputFilters},
		{"output_filters", b.OutputFilters},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return errors.Wrapf(ErrMalformedDescriptor, "%s must be > 0, got %d", p.name, p.value)
		}
	}
	if b.KernelSize%2 == 0 {
		return errors.Wrapf(ErrMalformedDescriptor, "kernel_size must be odd, got %d", b.KernelSize)
	}
	for axis, stride := range b.Strides {
		if stride < 1 || stride > 9 {
			return errors.Wrapf(ErrMalformedDescriptor, "strides[%d] must be a single digit in 1 to 9, got %d", axis, stride)
		}
	}
	if b.SERatio != nil && (*b.SERatio <= 0 || *b.SERatio > 1) {
		return errors.Wrapf(ErrMalformedDescriptor, "se_ratio must be in (0, 1], got %g", *b.SERatio)
	}
	return nil
}

// GoString implements fmt.GoStringer, used by "%#v".
func (b BlockArgs) GoString() string {
	se := "nil"
	if b.SERatio != nil {
		se = fmt.Sprintf("%g", *b.SERatio)
	}
	return fmt.Sprintf("mnasnet.BlockArgs{NumRepeat: %d, KernelSize: %d, Strides: %v, ExpandRatio: %d, "+
		"InputFilters: %d, OutputFilters: %d, IDSkip: %t, SERatio: %s}",
		b.NumRepeat, b.KernelSize, b.Strides, b.ExpandRatio, b.InputFilters, b.OutputFilters, b.IDSkip, se)
}
