package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/lumen-core/internal/template"
)

// newLintCmd builds the lint verb: structural validation of template
// documents before they reach the catalog.
func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>...",
		Short: "Validate template YAML documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				tpl, err := template.Load(path)
				if err != nil {
					failed++
					fmt.Fprintf(c.OutOrStdout(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(c.OutOrStdout(), "%s: ok (%s, %d steps)\n", path, tpl.ID, len(tpl.Steps))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			return nil
		},
	}
}
