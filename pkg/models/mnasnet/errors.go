// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

import "github.com/pkg/errors"

// Errors returned by the package. They are always wrapped with a message naming the offending
// token, preset or field, so use errors.Is to test for them.
var (
	// ErrMalformedDescriptor is returned when a block string doesn't follow the notation,
	// or a BlockArgs holds invalid values.
	ErrMalformedDescriptor = errors.New("malformed block descriptor")

	// ErrUnsupportedPreset is returned when a model name has no registered preset.
	ErrUnsupportedPreset = errors.New("unsupported preset")

	// ErrInvalidBuildParameter is returned when a preset's build parameter is missing or
	// can't be converted to its type.
	ErrInvalidBuildParameter = errors.New("invalid build parameter")

	// ErrInvalidOverrideField is returned when an override names a field unknown to GlobalParams,
	// or gives it a value of an incompatible type.
	ErrInvalidOverrideField = errors.New("invalid override field")

	// ErrInvalidGlobalParams is returned by GlobalParams.Validate.
	ErrInvalidGlobalParams = errors.New("invalid global parameters")
)
