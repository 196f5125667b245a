// Command northc is the entry point for the north compiler front end: lex,
// parse, infer, instantiate generics, and lower to LLVM IR, wired up through
// github.com/spf13/cobra subcommands in src/cli.
package main

import (
	"os"

	"github.com/lzmru/north/src/cli"
)

func main() {
	os.Exit(cli.Execute())
}
