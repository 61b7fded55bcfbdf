// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// ModelFn builds the model described by blocks and params on top of inputs, and returns the logits
// and the intermediary outputs ("endpoints") indexed by layer name.
//
// T is the handle type used by the framework building the model, e.g. *graph.Node.
// Implementations may panic on errors, as is common while building computation graphs.
type ModelFn[T any] func(blocks []BlockArgs, params GlobalParams, inputs T, training bool) (logits T, endpoints map[string]T)

// BuildModel assembles the configuration for modelName (see Assemble) and calls modelFn once with it.
//
// modelFn gets its own copy of the blocks. A panic raised by modelFn with an error is returned as an error.
func BuildModel[T any](modelFn ModelFn[T], inputs T, modelName string, training bool,
	buildParams map[string]string, overrides map[string]any) (logits T, endpoints map[string]T, err error) {
	config, err := Assemble(modelName, buildParams, overrides)
	if err != nil {
		return
	}
	err = exceptions.TryCatch[error](func() {
		logits, endpoints = modelFn(slices.Clone(config.Blocks), config.Params, inputs, training)
	})
	if err != nil {
		err = errors.WithMessagef(err, "while building model %q", modelName)
	}
	return
}
