// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// TokenSeparator separates the options in a block string.
	TokenSeparator = "_"

	// NoSkipFlag disables the identity skip connection of a block.
	NoSkipFlag = "noskip"
)

// requiredKeys must be present in every block string, in the order they are checked.
var requiredKeys = []string{"s", "k", "r", "i", "o", "e"}

// splitToken splits a token at its first digit: "se0.25" -> ("se", "0.25").
// It returns ok=false if the token has no digit, e.g. "noskip".
func splitToken(token string) (key, value string, ok bool) {
	idx := strings.IndexAny(token, "0123456789")
	if idx < 0 {
		return "", "", false
	}
	return token[:idx], token[idx:], true
}

// DecodeBlockString parses a block in its string notation, e.g. "r1_k3_s11_e1_i32_o16_noskip".
//
// It returns an error wrapping ErrMalformedDescriptor if a required option (r, k, s, e, i, o) is missing,
// if the strides are not exactly 2 digits or if some value is not a number.
func DecodeBlockString(blockString string) (BlockArgs, error) {
	var b BlockArgs
	options := make(map[string]string)
	for _, token := range strings.Split(blockString, TokenSeparator) {
		if key, value, ok := splitToken(token); ok {
			options[key] = value
		}
	}

	for _, key := range requiredKeys {
		if _, found := options[key]; !found {
			return b, errors.Wrapf(ErrMalformedDescriptor, "block %q is missing required option %q", blockString, key)
		}
	}
	strides := options["s"]
	if len(strides) != 2 || !isDigit(strides[0]) || !isDigit(strides[1]) {
		return b, errors.Wrapf(ErrMalformedDescriptor,
			"block %q: strides must be a pair of integers, got %q", blockString, strides)
	}
	b.Strides = [2]int{int(strides[0] - '0'), int(strides[1] - '0')}

	intFields := []struct {
		key   string
		value *int
	}{
		{"k", &b.KernelSize},
		{"r", &b.NumRepeat},
		{"i", &b.InputFilters},
		{"o", &b.OutputFilters},
		{"e", &b.ExpandRatio},
	}
	for _, field := range intFields {
		v, err := strconv.Atoi(options[field.key])
		if err != nil {
			return b, errors.Wrapf(ErrMalformedDescriptor, "block %q: option %q value %q is not an integer",
				blockString, field.key, options[field.key])
		}
		*field.value = v
	}

	if seStr, found := options["se"]; found {
		// Only decimal notation, no hex floats.
		se, err := strconv.ParseFloat(seStr, 64)
		if err != nil || strings.ContainsAny(seStr, "xX") {
			return b, errors.Wrapf(ErrMalformedDescriptor, "block %q: option \"se\" value %q is not a number",
				blockString, seStr)
		}
		b.SERatio = &se
	}
	b.IDSkip = !strings.Contains(blockString, NoSkipFlag)
	return b, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// EncodeBlockString returns the string notation of the block b.
//
// Notice the squeeze-excitation ratio is only included if it is in the range (0, 1]: any other
// value is silently dropped, so decoding the result won't give back b in that case.
func EncodeBlockString(b BlockArgs) string {
	args := []string{
		"r" + strconv.Itoa(b.NumRepeat),
		"k" + strconv.Itoa(b.KernelSize),
		"s" + strconv.Itoa(b.Strides[0]) + strconv.Itoa(b.Strides[1]),
		"e" + strconv.Itoa(b.ExpandRatio),
		"i" + strconv.Itoa(b.InputFilters),
		"o" + strconv.Itoa(b.OutputFilters),
	}
	if b.HasSE() {
		args = append(args, "se"+strconv.FormatFloat(*b.SERatio, 'g', -1, 64))
	}
	if !b.IDSkip {
		args = append(args, NoSkipFlag)
	}
	return strings.Join(args, TokenSeparator)
}

// Decode a list of block strings. The order of the blocks is preserved, and it is the order
// in which they are stacked in the network.
//
// It fails on the first malformed block string, and no blocks are returned in that case.
func Decode(blockStrings []string) ([]BlockArgs, error) {
	blocks := make([]BlockArgs, 0, len(blockStrings))
	for ii, blockString := range blockStrings {
		b, err := DecodeBlockString(blockString)
		if err != nil {
			return nil, errors.WithMessagef(err, "while decoding block #%d", ii)
		}
		if klog.V(2).Enabled() {
			klog.Infof("mnasnet: decoded block #%d %q: %#v", ii, blockString, b)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// Encode a list of blocks into their string notation, preserving the order.
func Encode(blocks []BlockArgs) []string {
	blockStrings := make([]string, 0, len(blocks))
	for _, b := range blocks {
		blockStrings = append(blockStrings, EncodeBlockString(b))
	}
	return blockStrings
}

// MustDecode is like Decode, but panics on error.
func MustDecode(blockStrings []string) []BlockArgs {
	blocks, err := Decode(blockStrings)
	if err != nil {
		panic(err)
	}
	return blocks
}
