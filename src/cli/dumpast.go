package cli

import (
	"github.com/spf13/cobra"
)

// newDumpASTCmd wires lex -> parse into the `dump-ast` subcommand, printing
// the parsed tree with ast.Node.Print — no type inference or lowering runs.
func newDumpASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-ast [file]",
		Short: "Parse a north source file and print its syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			pl, err := readAndParse(path)
			if err != nil {
				return err
			}
			pl.root.Print(0)
			return nil
		},
	}
}
