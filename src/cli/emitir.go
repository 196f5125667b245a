package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lzmru/north/src/irgen"
)

// newEmitIRCmd runs the full pipeline and always prints IR to stdout,
// independent of build's -o flag — useful for piping into llc/opt.
func newEmitIRCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "emit-ir [file]",
		Short: "Compile a north source file and print its LLVM IR to stdout",
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
			pl.checkTypes()

			lw := irgen.NewLowering(pl.mod, pl.bag, pl.mod.Context())
			lw.SetRoot(pl.root)
			lw.Run()

			fmt.Print(pl.mod.LLVMModule().String())
			return nil
		},
	}
}
