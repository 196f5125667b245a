package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lzmru/north/src/ast"
	"github.com/lzmru/north/src/diag"
	"github.com/lzmru/north/src/types"
	"tinygo.org/x/go-llvm"
)

func newTestParser(src string) *Parser {
	ctx := llvm.NewContext()
	mod := types.NewModule("test", ctx)
	bag := diag.NewBag("test.nl", src)
	return NewParser(src, mod, bag)
}

func TestParseFunctionDecl(t *testing.T) {
	src := "def add(a: i32, b: i32) -> i32:\n  return a + b\n"
	p := newTestParser(src)
	root := p.Parse()

	assert.Len(t, root.Data.(*ast.BlockData).Stmts, 1)
	fn := root.Data.(*ast.BlockData).Stmts[0]
	assert.Equal(t, ast.FunctionDecl, fn.Kind)

	fd := fn.Data.(*ast.FunctionData)
	assert.Equal(t, "add", fd.Name)
	assert.Len(t, fd.Args, 2)
	assert.NotNil(t, fd.Body)

	body := fd.Body.Data.(*ast.BlockData)
	assert.Len(t, body.Stmts, 1)
	assert.Equal(t, ast.ReturnStmt, body.Stmts[0].Kind)
}

func TestParseGenericFunctionDecl(t *testing.T) {
	src := "def first[T](xs: T) -> T:\n  return xs\n"
	p := newTestParser(src)
	root := p.Parse()

	fn := root.Data.(*ast.BlockData).Stmts[0]
	assert.Equal(t, ast.GenericFunctionDecl, fn.Kind)
	fd := fn.Data.(*ast.FunctionData)
	assert.Len(t, fd.Generics, 1)
	assert.Equal(t, "T", fd.Generics[0].Name)
}

func TestParseIfElseStitch(t *testing.T) {
	src := "def f(a: i32) -> i32:\n  if a:\n    return a\n  else:\n    return 0\n"
	p := newTestParser(src)
	root := p.Parse()

	fn := root.Data.(*ast.BlockData).Stmts[0]
	body := fn.Data.(*ast.FunctionData).Body.Data.(*ast.BlockData)
	ifNode := body.Stmts[0]
	assert.Equal(t, ast.IfExpr, ifNode.Kind)
	assert.NotNil(t, ifNode.Data.(*ast.IfData).Else)
}

func TestParseStructDecl(t *testing.T) {
	src := "type Point = {x: i32, y: i32}\n"
	p := newTestParser(src)
	root := p.Parse()

	decl := root.Data.(*ast.BlockData).Stmts[0]
	assert.Equal(t, ast.StructDecl, decl.Kind)
	sd := decl.Data.(*ast.StructData)
	assert.Equal(t, "Point", sd.Name)
	assert.Len(t, sd.Fields, 2)
}

func TestParseBinaryPrecedence(t *testing.T) {
	src := "def f() -> i32:\n  return 1 + 2 * 3\n"
	p := newTestParser(src)
	root := p.Parse()

	fn := root.Data.(*ast.BlockData).Stmts[0]
	body := fn.Data.(*ast.FunctionData).Body.Data.(*ast.BlockData)
	ret := body.Stmts[0].Data.(*ast.ReturnData).Value
	assert.Equal(t, ast.BinaryExpr, ret.Kind)
	bd := ret.Data.(*ast.BinaryData)
	assert.Equal(t, "+", bd.Op)
	assert.Equal(t, ast.BinaryExpr, bd.Right.Kind)
	assert.Equal(t, "*", bd.Right.Data.(*ast.BinaryData).Op)
}

func TestParseArrayLiteralMultiline(t *testing.T) {
	src := "def f() -> i32:\n  let xs = [\n    1,\n    2,\n    3,\n  ]\n  return xs[0]\n"
	p := newTestParser(src)
	root := p.Parse()

	fn := root.Data.(*ast.BlockData).Stmts[0]
	body := fn.Data.(*ast.FunctionData).Body.Data.(*ast.BlockData)
	assert.Len(t, body.Stmts, 2)
	vd := body.Stmts[0].Data.(*ast.VarData)
	assert.Equal(t, ast.ArrayExpr, vd.Init.Kind)
	assert.Len(t, vd.Init.Data.(*ast.ArrayData).Elems, 3)
}
