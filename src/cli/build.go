package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lzmru/north/src/irgen"
)

// newBuildCmd wires lex -> parse -> infer -> lower into the `build`
// subcommand and writes the verified module's LLVM IR text to the -o path, or
// to stdout. It does not emit an object file or invoke a native linker.
func newBuildCmd() *cobra.Command {
	var output string
	var release bool

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Compile a north source file to LLVM IR",
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

			ir := pl.mod.LLVMModule().String()
			if output != "" {
				return os.WriteFile(output, []byte(ir), 0644)
			}
			fmt.Print(ir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write LLVM IR to this path instead of stdout")
	cmd.Flags().BoolVar(&release, "release", false, "reserved for future optimisation-level wiring")
	return cmd
}
