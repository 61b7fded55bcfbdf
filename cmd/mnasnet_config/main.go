// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// mnasnet_config assembles a MnasNet preset configuration and prints its blocks.
//
// Example:
//
//	$ mnasnet_config -model=mnasnet-backbone -kernel=5 -expratio=3 -set="dropout_rate=0.3;num_classes=10"
//	$ mnasnet_config -model=mnasnet-3x3-1 -depth_multiplier=0.5 -scaled
//	$ mnasnet_config -model=mnasnet-backbone -kernel=3 -expratio=6 -encode
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/mnasnet/pkg/models/mnasnet"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"k8s.io/klog/v2"
)

var (
	flagModel = flag.String("model", mnasnet.BackboneName,
		fmt.Sprintf("Preset to assemble, one of %q.", mnasnet.Presets()))
	flagKernel   = flag.Int("kernel", 3, "Kernel size of the intermediary blocks, for "+mnasnet.BackboneName+".")
	flagExpRatio = flag.Int("expratio", 6, "Expansion ratio of the intermediary blocks, for "+mnasnet.BackboneName+".")
	flagDepth    = flag.Float64("depth_multiplier", 0, "Filters depth multiplier, for "+mnasnet.Mnasnet3x3Name+". 0 means no scaling.")
	flagEncode   = flag.Bool("encode", false, "Print only the blocks in their string notation, one per line.")
	flagScaled   = flag.Bool("scaled", false, "Print the filters scaled by the depth_multiplier.")
	flagNoColor  = flag.Bool("no_color", false, "Disable colors in the output.")
	flagSettings = createSettingsFlag()
)

// createSettingsFlag creates the "-set" flag, with the list of parameters that can be overridden in its usage.
func createSettingsFlag() *string {
	parts := []string{
		`Override global parameters of the model. ` +
			`It should be a list of elements "param=value" separated by ";". ` +
			`Available parameters:`,
	}
	mnasnet.DefaultGlobalParams().EnumerateParams(func(name string, value any) {
		if value == nil {
			parts = append(parts, fmt.Sprintf("%q: not set by default", name))
			return
		}
		parts = append(parts, fmt.Sprintf("%q: default value is %v", name, value))
	})
	return flag.String("set", "", strings.Join(parts, "\n"))
}

// buildParams collects the build parameters for the selected preset from the flags.
func buildParams() map[string]string {
	params := map[string]string{
		mnasnet.ParamKernel:   strconv.Itoa(*flagKernel),
		mnasnet.ParamExpRatio: strconv.Itoa(*flagExpRatio),
	}
	if *flagDepth > 0 {
		params[mnasnet.ParamDepthMultiplier] = strconv.FormatFloat(*flagDepth, 'g', -1, 64)
	}
	return params
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	overrides, err := mnasnet.ParseOverrides(*flagSettings)
	if err != nil {
		klog.Fatalf("Failed to parse -set: %+v", err)
	}
	config, err := mnasnet.Assemble(*flagModel, buildParams(), overrides)
	if err != nil {
		klog.Fatalf("Failed to assemble %q: %+v", *flagModel, err)
	}

	if *flagEncode {
		blocks := config.Blocks
		if *flagScaled {
			blocks = config.ScaledBlocks()
		}
		for _, s := range mnasnet.Encode(blocks) {
			fmt.Println(s)
		}
		return
	}

	if *flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).Profile)
	}
	must.M(printConfig(os.Stdout, config, *flagScaled))
}

var (
	normalStyle       = lipgloss.NewStyle().Padding(0, 1)
	rightAlignedStyle = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
	headerStyle       = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableBorderColor  = "#705090"
)

// blocksTable renders the blocks of the configuration as a table.
func blocksTable(config *mnasnet.Config, scaled bool) string {
	blocks := config.Blocks
	if scaled {
		blocks = config.ScaledBlocks()
	}
	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			if col == 0 || col == len(tableHeaders)-1 {
				return normalStyle
			}
			return rightAlignedStyle
		}).
		Headers(tableHeaders...)
	for ii, b := range blocks {
		se := "-"
		if b.HasSE() {
			se = strconv.FormatFloat(*b.SERatio, 'g', -1, 64)
		}
		table.Row(
			strconv.Itoa(ii),
			strconv.Itoa(b.NumRepeat),
			fmt.Sprintf("%dx%d", b.KernelSize, b.KernelSize),
			fmt.Sprintf("%d,%d", b.Strides[0], b.Strides[1]),
			strconv.Itoa(b.ExpandRatio),
			strconv.Itoa(b.InputFilters),
			strconv.Itoa(b.OutputFilters),
			se,
			strconv.FormatBool(b.IDSkip),
			b.String(),
		)
	}
	return table.Render()
}

var tableHeaders = []string{"#", "Repeat", "Kernel", "Strides", "Expand", "In", "Out", "SE", "Skip", "Notation"}

// printConfig writes the blocks table and the global parameters of the configuration to w.
func printConfig(w io.Writer, config *mnasnet.Config, scaled bool) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Model %q: %s stages, %s blocks\n", config.Name,
		humanize.Comma(int64(len(config.Blocks))), humanize.Comma(int64(config.NumBlocks())))
	sb.WriteString(blocksTable(config, scaled))
	sb.WriteString("\nGlobal parameters:\n")
	config.Params.EnumerateParams(func(name string, value any) {
		if value == nil {
			value = "none"
		}
		fmt.Fprintf(&sb, "\t%s: %v\n", name, value)
	})
	_, err := io.WriteString(w, sb.String())
	return err
}
