package irgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"tinygo.org/x/go-llvm"

	"github.com/lzmru/north/src/ast"
	"github.com/lzmru/north/src/diag"
	"github.com/lzmru/north/src/frontend"
	"github.com/lzmru/north/src/types"
)

func lowerSrc(t *testing.T, src string) (*Lowering, *ast.Node, *types.Module) {
	t.Helper()
	ctx := llvm.NewContext()
	mod := types.NewModule("test", ctx)
	bag := diag.NewBag("test.nl", src)
	p := frontend.NewParser(src, mod, bag)
	root := p.Parse()

	lw := NewLowering(mod, bag, ctx)
	lw.SetRoot(root)
	return lw, root, mod
}

func TestLowerSimpleFunctionHasEntryBlock(t *testing.T) {
	lw, _, mod := lowerSrc(t, "def answer() -> i32:\n  return 42\n")
	lw.Run()

	fn, ok := mod.GetFn([]string{"answer"})
	assert.True(t, ok)

	llvmFn, ok := lw.values.get(fn)
	assert.True(t, ok)
	assert.False(t, llvmFn.IsNil())
	assert.Equal(t, 1, llvmFn.BasicBlocksCount())
}

func TestLowerFunctionLinkageByUnderscorePrefix(t *testing.T) {
	assert.Equal(t, llvm.InternalLinkage, linkage("_helper"))
	assert.Equal(t, llvm.ExternalLinkage, linkage("helper"))
}

func TestLowerVarDeclAllocatesSlot(t *testing.T) {
	lw, root, _ := lowerSrc(t, "def f() -> i32:\n  let x: i32 = 1\n  return x\n")
	fn := root.Data.(*ast.BlockData).Stmts[0]
	lw.lowerFunction(fn)

	fd := fn.Data.(*ast.FunctionData)
	decl := fd.Body.Data.(*ast.BlockData).Stmts[0]
	slot, ok := lw.values.get(decl)
	assert.True(t, ok)
	assert.False(t, slot.IsNil())
}
