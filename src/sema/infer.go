// Package sema implements the type inference and generic-instantiation
// passes that run between parsing and lowering. Both passes walk the same
// ast.Node tree the parser built; neither rewrites it in place except to
// bind concrete types.
package sema

import (
	"github.com/lzmru/north/src/ast"
	"github.com/lzmru/north/src/diag"
	"github.com/lzmru/north/src/types"
)

// Inferrer assigns a types.Type to each expression node it visits.
type Inferrer struct {
	mod *types.Module
	bag *diag.Bag
}

// NewInferrer creates an Inferrer reporting diagnostics to bag against mod's
// symbol table.
func NewInferrer(mod *types.Module, bag *diag.Bag) *Inferrer {
	return &Inferrer{mod: mod, bag: bag}
}

// InferExpr produces the Type of expression n, as seen from scope.
//
// literal INT -> i32; CHAR -> i8; STRING -> pointer-to-i8. identifier ->
// scope lookup, then module type table. binary expression -> type of its
// right operand (a deliberate simplification carried from the source).
// CallExpr -> the resolved callee's return type. ArrayExpr -> array of the
// inferred element type. StructInitExpr -> the type named by its
// identifier. ArrayIndexExpr -> the element type of the indexed identifier's
// array type.
func (inf *Inferrer) InferExpr(scope *types.Scope, n *ast.Node) *types.Type {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.LiteralExpr:
		return inf.inferLiteral(n.Data.(*ast.LiteralData))
	case ast.QualifiedIdentifierExpr:
		return inf.inferIdent(scope, n)
	case ast.BinaryExpr:
		return inf.InferExpr(scope, n.Data.(*ast.BinaryData).Right)
	case ast.UnaryExpr:
		return inf.InferExpr(scope, n.Data.(*ast.UnaryData).Operand)
	case ast.AssignExpr:
		return inf.InferExpr(scope, n.Data.(*ast.AssignData).Value)
	case ast.CallExpr:
		return inf.inferCall(scope, n)
	case ast.ArrayExpr:
		return inf.inferArray(scope, n)
	case ast.ArrayIndexExpr:
		return inf.inferArrayIndex(scope, n)
	case ast.StructInitExpr:
		sd := n.Data.(*ast.StructInitData)
		t, ok := inf.mod.Types[sd.TypeName]
		if !ok {
			inf.bag.Error(n.Pos, "undefined type %q", sd.TypeName)
		}
		return t
	default:
		inf.bag.Error(n.Pos, "cannot infer a type for %s", n.Kind)
		return nil
	}
}

func (inf *Inferrer) inferLiteral(ld *ast.LiteralData) *types.Type {
	switch ld.Kind {
	case ast.IntLiteral:
		return inf.mod.Types["i32"]
	case ast.CharLiteral:
		return inf.mod.Types["i8"]
	case ast.StringLiteral:
		return inf.mod.Types["i8"] // Caller wraps in pointer-to at lowering time.
	default:
		return nil
	}
}

func (inf *Inferrer) inferIdent(scope *types.Scope, n *ast.Node) *types.Type {
	qd := n.Data.(*ast.QualifiedIdentifierData)
	name := qd.Parts[0]

	if decl, ok := scope.Lookup(name); ok {
		return inf.typeOfVarDecl(scope, decl)
	}
	if t, ok := inf.mod.Types[name]; ok {
		return t
	}
	inf.bag.Error(n.Pos, "undefined identifier %q", name)
	return nil
}

func (inf *Inferrer) typeOfVarDecl(scope *types.Scope, decl *ast.Node) *types.Type {
	vd := decl.Data.(*ast.VarData)
	if vd.TypeName != "" {
		if t, ok := inf.mod.Types[vd.TypeName]; ok {
			return t
		}
	}
	if vd.Init != nil {
		return inf.InferExpr(scope, vd.Init)
	}
	return nil
}

func (inf *Inferrer) inferCall(scope *types.Scope, n *ast.Node) *types.Type {
	cd := n.Data.(*ast.CallData)
	qd := cd.Callee.Data.(*ast.QualifiedIdentifierData)
	fn, ok := inf.mod.GetFn(qd.Parts)
	if !ok {
		inf.bag.Error(n.Pos, "call to undefined function %q", qd.Parts[0])
		return nil
	}
	cd.Resolved = fn
	fd := fn.Data.(*ast.FunctionData)
	if fd.Return == nil {
		return inf.mod.Types["void"]
	}
	return inf.mod.Types[fd.Return.Name]
}

func (inf *Inferrer) inferArray(scope *types.Scope, n *ast.Node) *types.Type {
	ad := n.Data.(*ast.ArrayData)
	if len(ad.Elems) == 0 {
		return nil
	}
	return inf.InferExpr(scope, ad.Elems[0])
}

func (inf *Inferrer) inferArrayIndex(scope *types.Scope, n *ast.Node) *types.Type {
	aid := n.Data.(*ast.ArrayIndexData)
	return inf.InferExpr(scope, aid.Array)
}

// CheckVarDecl verifies that a declared type and an inferred initializer
// type agree, per the data model's "when a variable has both an explicit
// type and an initializer, the two inferred types must be equal" rule.
func (inf *Inferrer) CheckVarDecl(scope *types.Scope, decl *ast.Node) {
	vd := decl.Data.(*ast.VarData)
	if vd.TypeName == "" || vd.Init == nil {
		return
	}
	declared, ok := inf.mod.Types[vd.TypeName]
	if !ok {
		inf.bag.Error(decl.Pos, "undefined type %q", vd.TypeName)
		return
	}
	inferred := inf.InferExpr(scope, vd.Init)
	if inferred != nil && !declared.Equal(inferred) {
		inf.bag.Error(decl.Pos, "variable %q declared as %q but initializer has type %q", vd.Name, declared.Name, inferred.Name)
	}
}

// InferFunctionType cross-checks fn's declared return type (if any) against
// every ReturnStmt reachable from the function's entry block, not merely the
// textually last one: the source only ever checked the last return found on
// a linear pass, which is a documented bug implementers are asked to fix.
func (inf *Inferrer) InferFunctionType(scope *types.Scope, fn *ast.Node) {
	fd := fn.Data.(*ast.FunctionData)
	if fd.Body == nil {
		return
	}
	var declared *types.Type
	if fd.Return != nil {
		declared = inf.mod.Types[fd.Return.Name]
	}

	returns := collectReturns(fd.Body)
	for _, ret := range returns {
		rd := ret.Data.(*ast.ReturnData)
		var got *types.Type
		if rd.Value != nil {
			got = inf.InferExpr(scope, rd.Value)
		} else {
			got = inf.mod.Types["void"]
		}
		if declared == nil {
			continue
		}
		if got == nil || !declared.Equal(got) {
			inf.bag.Error(ret.Pos, "function %q declared to return %q but this return yields a different type", fd.Name, declared.Name)
		}
	}
}

// collectReturns walks every statement and expression reachable from block,
// including nested if/for/while bodies, gathering every ReturnStmt node.
func collectReturns(n *ast.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	var out []*ast.Node
	switch n.Kind {
	case ast.ReturnStmt:
		out = append(out, n)
	case ast.BlockStmt:
		for _, stmt := range n.Data.(*ast.BlockData).Stmts {
			out = append(out, collectReturns(stmt)...)
		}
	case ast.IfExpr:
		data := n.Data.(*ast.IfData)
		out = append(out, collectReturns(data.Then)...)
		out = append(out, collectReturns(data.Else)...)
	case ast.ForExpr:
		out = append(out, collectReturns(n.Data.(*ast.ForData).Body)...)
	case ast.WhileExpr:
		out = append(out, collectReturns(n.Data.(*ast.WhileData).Body)...)
	}
	return out
}
