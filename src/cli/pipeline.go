package cli

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/lzmru/north/src/ast"
	"github.com/lzmru/north/src/diag"
	"github.com/lzmru/north/src/frontend"
	"github.com/lzmru/north/src/sema"
	"github.com/lzmru/north/src/types"
	"github.com/lzmru/north/src/util"
)

// pipeline holds the state shared by every subcommand: the read source, the
// parsed tree, the module symbol table, and the diagnostics bag that the
// front end terminates the process through on the first semantic error.
type pipeline struct {
	src  string
	root *ast.Node
	mod  *types.Module
	bag  *diag.Bag
	inf  *sema.Inferrer
}

// readAndParse runs lex -> parse for path (or stdin, if path is empty).
func readAndParse(path string) (*pipeline, error) {
	src, err := util.ReadSource(path)
	if err != nil {
		return nil, fmt.Errorf("could not read source: %w", err)
	}

	file := path
	if file == "" {
		file = "<stdin>"
	}

	ctx := llvm.NewContext()
	mod := types.NewModule(file, ctx)
	bag := diag.NewBag(file, src)
	p := frontend.NewParser(src, mod, bag)
	root := p.Parse()

	return &pipeline{
		src:  src,
		root: root,
		mod:  mod,
		bag:  bag,
		inf:  sema.NewInferrer(mod, bag),
	}, nil
}

// checkTypes runs type inference/checking over every registered function,
// the stage between parsing and lowering.
func (p *pipeline) checkTypes() {
	for _, fn := range p.mod.Functions {
		p.inf.InferFunctionType(p.mod.Global, fn)
	}
}
