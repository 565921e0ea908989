package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerrad567/lumen-core/internal/compile"
	"github.com/nerrad567/lumen-core/internal/curve"
	"github.com/nerrad567/lumen-core/internal/rig"
	"github.com/nerrad567/lumen-core/internal/template"
	"github.com/nerrad567/lumen-core/internal/timing"
)

// newCompileCmd builds the compile verb: template + rig + grid + window
// in, channel segments out.
func newCompileCmd() *cobra.Command {
	var (
		templatePath string
		rigPath      string
		bpm          float64
		beatsPerBar  int
		startMS      float64
		endMS        float64
		scaleDMX     bool
		outputPath   string
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a template document into channel segments",
		RunE: func(_ *cobra.Command, _ []string) error {
			tpl, err := template.Load(templatePath)
			if err != nil {
				return fmt.Errorf("loading template: %w", err)
			}

			rg, err := rig.Load(rigPath)
			if err != nil {
				return fmt.Errorf("loading rig: %w", err)
			}

			grid := timing.Grid{BPM: bpm, BeatsPerBar: beatsPerBar}
			if err := grid.Validate(); err != nil {
				return err
			}
			window := timing.Window{StartMS: startMS, EndMS: endMS}
			if err := window.Validate(); err != nil {
				return err
			}

			compiler := compile.New(curve.Builtin())
			segments, err := compiler.Compile(tpl, rg, grid, window)
			if err != nil {
				return fmt.Errorf("compiling %s: %w", tpl.ID, err)
			}
			if scaleDMX {
				segments = compile.ScaleSegments(segments)
			}

			out := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"template_id": tpl.ID,
				"segments":    segments,
				"count":       len(segments),
				"window_ms":   window.DurationMS(),
				"scaled_dmx":  scaleDMX,
			})
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Path to template YAML (required)")
	cmd.Flags().StringVarP(&rigPath, "rig", "r", "", "Path to rig YAML (required)")
	cmd.Flags().Float64Var(&bpm, "bpm", 120, "Tempo in beats per minute")
	cmd.Flags().IntVar(&beatsPerBar, "beats-per-bar", 4, "Meter numerator")
	cmd.Flags().Float64Var(&startMS, "start", 0, "Window start in milliseconds")
	cmd.Flags().Float64Var(&endMS, "end", 0, "Window end in milliseconds (required)")
	cmd.Flags().BoolVar(&scaleDMX, "scale-dmx", false, "Scale output through each segment's clamp to DMX range")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write JSON to file instead of stdout")

	markRequired(cmd, "template", "rig", "end")

	return cmd
}

// markRequired marks flags required, panicking on typos at build time.
func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
