package types

import (
	"fmt"

	"github.com/lzmru/north/src/ast"
	"tinygo.org/x/go-llvm"
)

// Module is the top-level symbol table: every type, interface, and function
// declared (or imported) in one compilation, plus the global Scope and the
// parsed AST root. Module owns every Type, InterfaceDecl, and FunctionDecl
// for the lifetime of the compilation, per the data model's lifecycle rule.
type Module struct {
	Types      map[string]*Type
	Interfaces map[string]*ast.Node // InterfaceDecl nodes.
	Functions  map[string]*ast.Node // FunctionDecl / GenericFunctionDecl nodes.
	Imports    []string             // Ordered set: append-if-absent.
	importSet  map[string]bool

	Global *Scope
	Root   *ast.Node

	ctx llvm.Context
	mod llvm.Module
}

// NewModule creates a Module with the eight primitive types seeded, mirroring
// Type::Void = PRIMITIVE(Void) and its siblings in
// original_source/libnorth/src/Type/Type.cpp.
func NewModule(name string, ctx llvm.Context) *Module {
	m := &Module{
		Types:      make(map[string]*Type),
		Interfaces: make(map[string]*ast.Node),
		Functions:  make(map[string]*ast.Node),
		importSet:  make(map[string]bool),
		ctx:        ctx,
		mod:        ctx.NewModule(name),
	}
	m.Global = NewScope(nil)
	m.seedPrimitives()
	return m
}

// LLVMModule returns the llvm.Module this symbol table lowers into.
func (m *Module) LLVMModule() llvm.Module { return m.mod }

// Context returns the llvm.Context this module's types and module were
// created from.
func (m *Module) Context() llvm.Context { return m.ctx }

func (m *Module) seedPrimitives() {
	prims := []struct {
		name string
		ir   llvm.Type
	}{
		{"void", m.ctx.VoidType()},
		{"i8", m.ctx.Int8Type()},
		{"i16", m.ctx.Int16Type()},
		{"i32", m.ctx.Int32Type()},
		{"i64", m.ctx.Int64Type()},
		{"float", m.ctx.FloatType()},
		{"double", m.ctx.DoubleType()},
		{"char", m.ctx.Int8Type()},
	}
	for _, p := range prims {
		m.Types[p.name] = &Type{Kind: Primitive, Name: p.name, IR: p.ir}
	}
}

// AddType registers a user-defined type. Duplicate registration is fatal per
// the data model's invariant 3 (type names unique within a module).
func (m *Module) AddType(name string, t *Type) error {
	if _, exists := m.Types[name]; exists {
		return fmt.Errorf("type %q already declared in this module", name)
	}
	m.Types[name] = t
	return nil
}

// AddFunction registers a function. Duplicate registration is fatal per
// invariant 4 (overloading is unimplemented).
func (m *Module) AddFunction(name string, fn *ast.Node) error {
	if _, exists := m.Functions[name]; exists {
		return fmt.Errorf("function %q already declared in this module", name)
	}
	m.Functions[name] = fn
	return nil
}

// AddImport appends name to the ordered import set if not already present.
func (m *Module) AddImport(name string) {
	if m.importSet[name] {
		return
	}
	m.importSet[name] = true
	m.Imports = append(m.Imports, name)
}

// getFn resolves a CallExpr's callee to exactly one FunctionDecl by name.
//
// The later draft of Module in original_source carries a second, commented-
// out code path that would rewrite a qualified call `recv.method(...)` by
// injecting recv as the first argument and stripping the leading name part
// before falling back to this single-part lookup. That hook is kept below
// as resolveMethodCall but is never called by the parser or this function,
// mirroring the teacher's own disabled branch — see DESIGN.md.
func (m *Module) getFn(parts []string) (*ast.Node, bool) {
	if len(parts) != 1 {
		return nil, false
	}
	fn, ok := m.Functions[parts[0]]
	return fn, ok
}

// GetFn is the exported form of getFn, used by sema and irgen.
func (m *Module) GetFn(parts []string) (*ast.Node, bool) {
	return m.getFn(parts)
}

// resolveMethodCall is the unused method-dispatch hook described above.
// Kept present, never invoked.
func (m *Module) resolveMethodCall(parts []string, receiver *ast.Node, args []ast.CallArg) (*ast.Node, []ast.CallArg, bool) {
	if len(parts) < 2 {
		return nil, args, false
	}
	rewritten := append([]ast.CallArg{{Expr: receiver}}, args...)
	fn, ok := m.Functions[parts[len(parts)-1]]
	return fn, rewritten, ok
}
