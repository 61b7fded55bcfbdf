// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

import (
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

var dataFormatType = reflect.TypeOf(ChannelsLast)

// WithOverrides returns a copy of p with the fields named in overrides replaced by the given values.
// The keys are the `param` names of the fields, see ParamNames.
//
// Values are converted to the type of the field: any integer or float value can be used for numeric fields
// (as long as integer fields get integral values), and strings are parsed. Optional fields also accept nil
// (or the strings "" and "none") to unset them. DataFormat accepts its name, e.g. "channels_first".
//
// If any key is unknown, or a value can't be converted, it returns an error wrapping ErrInvalidOverrideField,
// and no field is changed. The receiver p is never modified.
func (p GlobalParams) WithOverrides(overrides map[string]any) (GlobalParams, error) {
	if len(overrides) == 0 {
		return p, nil
	}
	// Sorted keys, so errors are deterministic.
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	newParams := p
	target := reflect.ValueOf(&newParams).Elem()
	for _, key := range keys {
		f, found := paramFieldsByName[key]
		if !found {
			return p, errors.Wrapf(ErrInvalidOverrideField, "GlobalParams has no field %q, valid fields are %q",
				key, ParamNames())
		}
		v, err := convertParamValue(overrides[key], f.typ)
		if err != nil {
			return p, errors.Wrapf(ErrInvalidOverrideField, "field %q: %v", key, err)
		}
		target.Field(f.index).Set(v)
	}
	if klog.V(1).Enabled() {
		klog.Infof("mnasnet: overridden %q: %s", keys, newParams)
	}
	return newParams, nil
}

// ParseOverrides parses overrides from settings -- typically the contents of a flag set by the user.
// The settings are a list separated by ";": e.g.: "dropout_rate=0.3;num_classes=10".
//
// The values are parsed according to the type of the GlobalParams field they refer to, and the
// returned map can be given to GlobalParams.WithOverrides or Assemble.
// For integer fields, "_" is removed, so one can write 1_000 for 1000.
//
// It returns an error wrapping ErrInvalidOverrideField if a field is unknown or a value can't be parsed.
func ParseOverrides(settings string) (map[string]any, error) {
	overrides := make(map[string]any)
	for _, setting := range strings.Split(settings, ";") {
		setting = strings.TrimSpace(setting)
		if setting == "" {
			continue
		}
		parts := strings.Split(setting, "=")
		if len(parts) != 2 {
			return nil, errors.Errorf("can't parse settings %q: each setting requires the format \"<param>=<value>\", got %q",
				settings, setting)
		}
		key, valueStr := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		f, found := paramFieldsByName[key]
		if !found {
			return nil, errors.Wrapf(ErrInvalidOverrideField, "can't set %q: GlobalParams has no such field, valid fields are %q",
				key, ParamNames())
		}
		v, err := convertParamValue(valueStr, f.typ)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidOverrideField, "failed to parse value %q for %q: %v", valueStr, key, err)
		}
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				overrides[key] = nil
				continue
			}
			v = v.Elem()
		}
		overrides[key] = v.Interface()
	}
	return overrides, nil
}

// convertParamValue converts value to a reflect.Value of type t, one of the GlobalParams field types.
func convertParamValue(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		if t.Kind() == reflect.Pointer {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, errors.Errorf("nil is only accepted for optional fields, not for %s", t)
	}
	rv := reflect.ValueOf(value)
	// Pointers are always copied, so the caller can't change the overridden value later.
	// Floats go through the finite check below.
	if rv.Type() == t && t.Kind() != reflect.Pointer && t.Kind() != reflect.Float64 {
		return rv, nil
	}
	if t.Kind() == reflect.Pointer {
		if s, ok := value.(string); ok && (s == "" || strings.EqualFold(s, "none")) {
			return reflect.Zero(t), nil
		}
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Zero(t), nil
			}
			rv = rv.Elem()
		}
		elem, err := convertParamValue(rv.Interface(), t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	if t == dataFormatType {
		switch v := value.(type) {
		case string:
			f, err := DataFormatString(v)
			if err != nil {
				return reflect.Value{}, errors.Wrapf(err, "valid values are %q", DataFormatStrings())
			}
			return reflect.ValueOf(f), nil
		case DataFormat:
			return reflect.ValueOf(v), nil
		}
		return reflect.Value{}, errors.Errorf("data_format must be a DataFormat or its name, got %T", value)
	}

	switch t.Kind() {
	case reflect.Int:
		if s, ok := value.(string); ok {
			n, err := strconv.Atoi(strings.ReplaceAll(s, "_", ""))
			if err != nil {
				return reflect.Value{}, errors.Errorf("%q is not an integer", s)
			}
			return reflect.ValueOf(n).Convert(t), nil
		}
		n, ok := numberAs[int](rv)
		if !ok {
			return reflect.Value{}, errors.Errorf("value %v (%T) is not an integer", value, value)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Float64:
		var x float64
		if s, ok := value.(string); ok {
			var err error
			x, err = strconv.ParseFloat(s, 64)
			if err != nil {
				return reflect.Value{}, errors.Errorf("%q is not a number", s)
			}
		} else if x, ok = numberAs[float64](rv); !ok {
			return reflect.Value{}, errors.Errorf("value %v (%T) is not a number", value, value)
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return reflect.Value{}, errors.Errorf("value %v is not a finite number", value)
		}
		return reflect.ValueOf(x).Convert(t), nil
	}
	return reflect.Value{}, errors.Errorf("don't know how to convert %T to %s", value, t)
}

// numberAs converts any numeric reflect.Value to T. For integer T, float values are only accepted if
// they are integral.
func numberAs[T constraints.Integer | constraints.Float](rv reflect.Value) (T, bool) {
	var zero T
	isIntegerTarget := T(1)/T(2) == 0
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return T(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return T(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		x := rv.Float()
		if isIntegerTarget && (x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x)) {
			return zero, false
		}
		return T(x), true
	}
	return zero, false
}
