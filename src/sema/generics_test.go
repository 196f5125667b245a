package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lzmru/north/src/ast"
)

func TestInstantiateCachesByTypeTuple(t *testing.T) {
	src := "def first[T](xs: T) -> T:\n  return xs\n" +
		"def caller() -> i32:\n  return first(1)\n"
	root, mod, bag := parseForSema(t, src)
	inf := NewInferrer(mod, bag)
	ins := NewInstantiator(mod, inf)

	generic := root.Data.(*ast.BlockData).Stmts[0]
	caller := root.Data.(*ast.BlockData).Stmts[1]
	callExpr := caller.Data.(*ast.FunctionData).Body.Data.(*ast.BlockData).Stmts[0].Data.(*ast.ReturnData).Value

	first := ins.Instantiate(mod.Global, generic, callExpr)
	assert.NotNil(t, first)
	assert.Equal(t, ast.FunctionDecl, first.Kind)
	assert.Equal(t, "i32", first.Data.(*ast.FunctionData).Return.Name)

	second := ins.Instantiate(mod.Global, generic, callExpr)
	assert.Same(t, first, second, "same type tuple must hit the cache")

	assert.Len(t, generic.Data.(*ast.FunctionData).Instantiations, 1)
}
