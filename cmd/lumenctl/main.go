// lumenctl is the operator's command line for Lumen Core.
//
// It works straight from show files without a running daemon:
//
//	lumenctl compile --template sweep.yaml --rig rig.yaml --end 16000
//	lumenctl curves
//	lumenctl curves preview sine --samples 32
//	lumenctl lint templates/*.yaml
//	lumenctl token --subject desk-1
//
// The compile verb runs the same pipeline as the daemon, so a template
// that compiles here compiles there.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Construction per call keeps
// tests independent of package-level flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lumenctl",
		Short:         "Operator tooling for the Lumen Core choreography engine",
		Version:       fmt.Sprintf("%s (commit %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCompileCmd())
	root.AddCommand(newCurvesCmd())
	root.AddCommand(newLintCmd())
	root.AddCommand(newTokenCmd())

	return root
}
