// Package cli wires the front end, sema passes, and lowering visitor behind
// a github.com/spf13/cobra command tree, the same flag-parsing library
// CWBudde-go-dws uses for its own scripting-language CLI — adopted here in
// place of the teacher's hand-rolled switch-based util.ParseArgs.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appVersion = "northc 0.1"

// NewRootCmd builds the northc command tree: build, dump-ast, emit-ir.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "northc",
		Short:   "Compiler front end and lowering pipeline for the north language",
		Version: appVersion,
		SilenceUsage: true,
	}

	root.AddCommand(newBuildCmd())
	root.AddCommand(newDumpASTCmd())
	root.AddCommand(newEmitIRCmd())
	return root
}

// Execute runs the CLI and returns the process exit code, per the front
// end's "0 on success, non-zero on usage error or diagnostic termination"
// rule.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
