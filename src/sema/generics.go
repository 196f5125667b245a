package sema

import (
	"github.com/lzmru/north/src/ast"
	"github.com/lzmru/north/src/types"
)

// Instantiator produces concrete, fully-typed functions from
// GenericFunctionDecl nodes on demand, memoizing one result per unique
// concrete-type tuple (§4.5).
type Instantiator struct {
	mod *types.Module
	inf *Inferrer
}

// NewInstantiator creates an Instantiator sharing inf's module and
// diagnostics.
func NewInstantiator(mod *types.Module, inf *Inferrer) *Instantiator {
	return &Instantiator{mod: mod, inf: inf}
}

// Instantiate returns a concrete FunctionDecl for a call to generic (a
// GenericFunctionDecl node) at callSite, inferring each generic parameter's
// concrete type from the corresponding argument, caching by type tuple, and
// cloning+substituting on a cache miss.
//
// Generic parameters are resolved in the order they were declared; the
// argument-list scan is strictly left-to-right; the cache lookup is linear
// — all per §4.5's determinism requirements.
func (ins *Instantiator) Instantiate(scope *types.Scope, generic *ast.Node, callSite *ast.Node) *ast.Node {
	fd := generic.Data.(*ast.FunctionData)
	cd := callSite.Data.(*ast.CallData)

	bindings := ins.inferBindings(scope, fd, cd)
	for _, g := range fd.Generics {
		if _, ok := bindings[g.Name]; !ok {
			return nil // Caller reports the unresolved-generic diagnostic spanning the call site.
		}
	}

	if cached := ins.lookup(fd, bindings); cached != nil {
		return cached
	}
	return ins.clone(fd, bindings)
}

// inferBindings scans call-site arguments left to right; whenever an
// argument's declared parameter type name names a generic parameter, the
// type of the corresponding call-site expression is recorded as that
// parameter's binding.
func (ins *Instantiator) inferBindings(scope *types.Scope, fd *ast.FunctionData, cd *ast.CallData) map[string]*types.Type {
	bindings := make(map[string]*types.Type)
	isGeneric := make(map[string]bool, len(fd.Generics))
	for _, g := range fd.Generics {
		isGeneric[g.Name] = true
	}

	for i, param := range fd.Args {
		if i >= len(cd.Args) {
			break
		}
		vd := param.Data.(*ast.VarData)
		if !isGeneric[vd.TypeName] {
			continue
		}
		if _, bound := bindings[vd.TypeName]; bound {
			continue
		}
		argType := ins.inf.InferExpr(scope, cd.Args[i].Expr)
		if argType != nil {
			bindings[vd.TypeName] = argType
		}
	}
	return bindings
}

// lookup performs a linear scan of fd's instantiation cache, comparing
// tuples element-wise by Type equality (§4.4).
func (ins *Instantiator) lookup(fd *ast.FunctionData, bindings map[string]*types.Type) *ast.Node {
	for _, inst := range fd.Instantiations {
		if sameBindings(inst.Bindings, bindings) {
			return inst.Concrete
		}
	}
	return nil
}

func sameBindings(cached map[string]ast.IRType, want map[string]*types.Type) bool {
	if len(cached) != len(want) {
		return false
	}
	for name, wantType := range want {
		got, ok := cached[name]
		if !ok {
			return false
		}
		gotType, ok := got.(*types.Type)
		if !ok || !gotType.Equal(wantType) {
			return false
		}
	}
	return true
}

// clone produces a concrete FunctionDecl: a shallow copy sharing the body
// BlockStmt (acceptable because the body is re-walked with a fresh scope at
// lowering time), with each generic argument/return type substituted by its
// concrete binding, and appends the result to fd's instantiation cache.
func (ins *Instantiator) clone(fd *ast.FunctionData, bindings map[string]*types.Type) *ast.Node {
	concreteArgs := make([]*ast.Node, len(fd.Args))
	for i, arg := range fd.Args {
		vd := *arg.Data.(*ast.VarData)
		if t, ok := bindings[vd.TypeName]; ok {
			vd.TypeName = t.Name
		}
		concreteArgs[i] = &ast.Node{Kind: ast.VarDecl, Pos: arg.Pos, Data: &vd}
	}

	concreteFD := &ast.FunctionData{
		Name:     fd.Name,
		Args:     concreteArgs,
		Return:   fd.Return,
		Body:     fd.Body,
		Variadic: fd.Variadic,
	}
	if fd.Return != nil {
		if t, ok := bindings[fd.Return.Name]; ok {
			concreteFD.Return = &ast.GenericParam{Name: t.Name}
		}
	}

	concrete := &ast.Node{Kind: ast.FunctionDecl, Data: concreteFD}

	irBindings := make(map[string]ast.IRType, len(bindings))
	for k, v := range bindings {
		irBindings[k] = v
	}
	fd.Instantiations = append(fd.Instantiations, &ast.Instantiation{Concrete: concrete, Bindings: irBindings})
	return concrete
}
