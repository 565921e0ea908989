package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nerrad567/lumen-core/internal/curve"
)

// newCurvesCmd builds the curves verb: catalog listing and point
// preview for editor-less shape checks.
func newCurvesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curves",
		Short: "List the built-in curve catalog",
		RunE: func(c *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tSAMPLES\tDEFAULT PARAMS")
			for _, info := range curve.Builtin().List() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					info.ID, info.Kind, info.DefaultSamples, formatParams(info.DefaultParams))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(newCurvePreviewCmd())
	return cmd
}

// newCurvePreviewCmd resolves one curve to points.
func newCurvePreviewCmd() *cobra.Command {
	var (
		samples   int
		params    []string
		modifiers []string
	)

	cmd := &cobra.Command{
		Use:   "preview <curve-id>",
		Short: "Resolve a curve to sample points",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			parsed, err := parseParams(params)
			if err != nil {
				return err
			}

			res, err := curve.Builtin().ResolveDetailed(curve.Definition{
				CurveID:   args[0],
				Params:    parsed,
				Modifiers: modifiers,
			}, samples)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().IntVarP(&samples, "samples", "n", 0, "Sample count (0 uses the curve's default)")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Parameter override as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&modifiers, "modifier", "m", nil, "Modifier to apply: reverse or mirror (repeatable)")

	return cmd
}

// parseParams converts key=value flags into curve parameters.
func parseParams(pairs []string) (curve.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(curve.Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q, want key=value", pair)
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid param %q: %w", pair, err)
		}
		out[key] = f
	}
	return out, nil
}

// formatParams renders default params compactly for the catalog table.
func formatParams(p curve.Params) string {
	if len(p) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, p[k]))
	}
	return strings.Join(parts, " ")
}
