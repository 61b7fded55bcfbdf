// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// GlobalParams holds the hyperparameters shared by all blocks of the model.
//
// The `param` tag gives the name used to override a field, see GlobalParams.WithOverrides.
// Optional fields are pointers, where nil means "not set".
//
// It is meant to be used as a value: the methods never change it, and overriding fields returns a new copy.
type GlobalParams struct {
	BatchNormMomentum float64    `param:"batch_norm_momentum"`
	BatchNormEpsilon  float64    `param:"batch_norm_epsilon"`
	DropoutRate       float64    `param:"dropout_rate"`
	DataFormat        DataFormat `param:"data_format"`
	NumClasses        int        `param:"num_classes"`

	// DepthMultiplier scales uniformly the number of filters of every block. Nil means no scaling.
	DepthMultiplier *float64 `param:"depth_multiplier"`

	// DepthDivisor: the number of filters after scaling is rounded to a multiple of it.
	DepthDivisor int `param:"depth_divisor"`

	// MinDepth is the minimum number of filters after scaling. If nil, DepthDivisor is used.
	MinDepth *int `param:"min_depth"`

	// Kernel and ExpRatio record the parameters used by the "mnasnet-backbone" preset.
	Kernel   *int `param:"kernel"`
	ExpRatio *int `param:"expratio"`
}

// DefaultGlobalParams returns the hyperparameters shared by all presets.
func DefaultGlobalParams() GlobalParams {
	return GlobalParams{
		BatchNormMomentum: 0.99,
		BatchNormEpsilon:  1e-3,
		DropoutRate:       0.2,
		DataFormat:        ChannelsLast,
		NumClasses:        1000,
		DepthDivisor:      8,
	}
}

// paramField is a field of GlobalParams that can be overridden.
type paramField struct {
	name  string
	index int
	typ   reflect.Type
}

// paramFields lists the overridable fields in declaration order, and paramFieldsByName indexes them.
var (
	paramFields       = listParamFields()
	paramFieldsByName = func() map[string]paramField {
		m := make(map[string]paramField, len(paramFields))
		for _, f := range paramFields {
			m[f.name] = f
		}
		return m
	}()
)

func listParamFields() []paramField {
	t := reflect.TypeOf(GlobalParams{})
	fields := make([]paramField, 0, t.NumField())
	for ii := range t.NumField() {
		sf := t.Field(ii)
		name := sf.Tag.Get("param")
		if name == "" {
			continue
		}
		fields = append(fields, paramField{name: name, index: ii, typ: sf.Type})
	}
	return fields
}

// ParamNames returns the names of the fields of GlobalParams that can be overridden, in declaration order.
func ParamNames() []string {
	names := make([]string, 0, len(paramFields))
	for _, f := range paramFields {
		names = append(names, f.name)
	}
	return names
}

// Get returns the value of the field with the given param name. Optional fields not set return nil,
// set ones return the dereferenced value.
func (p GlobalParams) Get(name string) (value any, found bool) {
	f, found := paramFieldsByName[name]
	if !found {
		return nil, false
	}
	v := reflect.ValueOf(p).Field(f.index)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, true
		}
		v = v.Elem()
	}
	return v.Interface(), true
}

// EnumerateParams calls fn for each field of GlobalParams, in declaration order, with the values returned by Get.
func (p GlobalParams) EnumerateParams(fn func(name string, value any)) {
	for _, f := range paramFields {
		value, _ := p.Get(f.name)
		fn(f.name, value)
	}
}

// String implements fmt.Stringer.
func (p GlobalParams) String() string {
	var parts []string
	p.EnumerateParams(func(name string, value any) {
		if value == nil {
			parts = append(parts, name+"=none")
			return
		}
		parts = append(parts, fmt.Sprintf("%s=%v", name, value))
	})
	return "GlobalParams{" + strings.Join(parts, ", ") + "}"
}

// Validate checks that the values are in their valid ranges.
func (p GlobalParams) Validate() error {
	floats := []struct {
		name  string
		value *float64
	}{
		{"batch_norm_momentum", &p.BatchNormMomentum},
		{"batch_norm_epsilon", &p.BatchNormEpsilon},
		{"dropout_rate", &p.DropoutRate},
		{"depth_multiplier", p.DepthMultiplier},
	}
	for _, f := range floats {
		if f.value != nil && (math.IsNaN(*f.value) || math.IsInf(*f.value, 0)) {
			return errors.Wrapf(ErrInvalidGlobalParams, "%s must be a finite number, got %g", f.name, *f.value)
		}
	}
	if p.DropoutRate < 0 || p.DropoutRate >= 1 {
		return errors.Wrapf(ErrInvalidGlobalParams, "dropout_rate must be in [0, 1), got %g", p.DropoutRate)
	}
	if p.BatchNormEpsilon < 0 {
		return errors.Wrapf(ErrInvalidGlobalParams, "batch_norm_epsilon must be >= 0, got %g", p.BatchNormEpsilon)
	}
	if !p.DataFormat.IsADataFormat() {
		return errors.Wrapf(ErrInvalidGlobalParams, "invalid data_format %s", p.DataFormat)
	}
	if p.NumClasses <= 0 {
		return errors.Wrapf(ErrInvalidGlobalParams, "num_classes must be > 0, got %d", p.NumClasses)
	}
	if p.DepthDivisor <= 0 {
		return errors.Wrapf(ErrInvalidGlobalParams, "depth_divisor must be > 0, got %d", p.DepthDivisor)
	}
	if p.DepthMultiplier != nil && *p.DepthMultiplier <= 0 {
		return errors.Wrapf(ErrInvalidGlobalParams, "depth_multiplier must be > 0 if set, got %g", *p.DepthMultiplier)
	}
	if p.MinDepth != nil && *p.MinDepth <= 0 {
		return errors.Wrapf(ErrInvalidGlobalParams, "min_depth must be > 0 if set, got %d", *p.MinDepth)
	}
	if p.Kernel != nil && (*p.Kernel <= 0 || *p.Kernel%2 == 0) {
		return errors.Wrapf(ErrInvalidGlobalParams, "kernel must be a positive odd number if set, got %d", *p.Kernel)
	}
	if p.ExpRatio != nil && *p.ExpRatio <= 0 {
		return errors.Wrapf(ErrInvalidGlobalParams, "expratio must be > 0 if set, got %d", *p.ExpRatio)
	}
	return nil
}

// RoundFilters returns the number of filters scaled by DepthMultiplier and rounded to a multiple of DepthDivisor.
//
// The result is never smaller than MinDepth (or DepthDivisor if MinDepth is not set), and the rounding
// never reduces the scaled value by more than 10%. Without DepthMultiplier, filters is returned unchanged.
func (p GlobalParams) RoundFilters(filters int) int {
	if p.DepthMultiplier == nil || *p.DepthMultiplier == 0 {
		return filters
	}
	divisor := p.DepthDivisor
	minDepth := divisor
	if p.MinDepth != nil && *p.MinDepth > 0 {
		minDepth = *p.MinDepth
	}
	scaled := float64(filters) * *p.DepthMultiplier
	newFilters := max(minDepth, int(scaled+float64(divisor)/2)/divisor*divisor)
	if float64(newFilters) < 0.9*scaled {
		newFilters += divisor
	}
	return newFilters
}
