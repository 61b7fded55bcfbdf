// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package mnasnet

// DataFormat is the layout of the images fed to the model.
//
// Its names ("channels_last", "channels_first") are used in overrides, and for text and JSON encoding.
type DataFormat int

//go:generate go tool enumer -type=DataFormat -transform=snake -values -text -json -output=gen_dataformat_enumer.go dataformat.go

const (
	// ChannelsLast is the "NHWC" layout: batch, height, width, channels.
	ChannelsLast DataFormat = iota

	// ChannelsFirst is the "NCHW" layout: batch, channels, height, width.
	ChannelsFirst
)
