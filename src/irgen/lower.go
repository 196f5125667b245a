// Package irgen implements the lowering visitor: it walks the typed AST and
// emits real LLVM IR via tinygo.org/x/go-llvm, the same dependency the
// teacher's own src/ir/llvm package lowers into. Unlike the teacher, which
// fans function-body generation out across worker goroutines (GenLLVM's
// opt.Threads path), this visitor runs single-threaded end to end, per the
// compiler's single-threaded pipeline model; the teacher's symTab
// (RWMutex-guarded map[string]llvm.Value) is kept in spirit as valueTab
// below, sized the same way, even though only one goroutine ever touches it.
package irgen

import (
	"fmt"
	"strings"
	"sync"

	"tinygo.org/x/go-llvm"

	"github.com/lzmru/north/src/ast"
	"github.com/lzmru/north/src/diag"
	"github.com/lzmru/north/src/sema"
	"github.com/lzmru/north/src/types"
)

const valueTabSize = 16

// valueTab maps an AST node to its llvm.Value: a VarDecl to its storage slot,
// a FunctionDecl to its function.
type valueTab struct {
	m map[*ast.Node]llvm.Value
	sync.RWMutex
}

func newValueTab() *valueTab {
	return &valueTab{m: make(map[*ast.Node]llvm.Value, valueTabSize)}
}

func (v *valueTab) get(n *ast.Node) (llvm.Value, bool) {
	v.RLock()
	defer v.RUnlock()
	val, ok := v.m[n]
	return val, ok
}

func (v *valueTab) set(n *ast.Node, val llvm.Value) {
	v.Lock()
	defer v.Unlock()
	v.m[n] = val
}

// Lowering walks declarations registered in mod and emits their bodies into
// mod's llvm.Module.
type Lowering struct {
	mod     *types.Module
	bag     *diag.Bag
	inf     *sema.Inferrer
	ins     *sema.Instantiator
	ctx     llvm.Context
	builder llvm.Builder
	values  *valueTab

	currentFn    *ast.Node
	currentScope *types.Scope
	root         *ast.Node
}

// NewLowering creates a Lowering visitor over mod.
func NewLowering(mod *types.Module, bag *diag.Bag, ctx llvm.Context) *Lowering {
	inf := sema.NewInferrer(mod, bag)
	return &Lowering{
		mod:     mod,
		bag:     bag,
		inf:     inf,
		ins:     sema.NewInstantiator(mod, inf),
		ctx:     ctx,
		builder: ctx.NewBuilder(),
		values:  newValueTab(),
	}
}

// Run lowers every function registered in mod. Generic functions are not
// lowered here — only on demand, from the call sites that instantiate them.
func (lw *Lowering) Run() {
	for _, fn := range lw.mod.Functions {
		if fn.Kind == ast.GenericFunctionDecl {
			continue
		}
		lw.lowerFunction(fn)
	}
	llvm.VerifyModule(lw.mod.LLVMModule(), llvm.AbortProcessAction)
}

// linkage returns internal linkage for names with a leading underscore and
// external linkage otherwise — grounded verbatim on FunctionDecl::getLinkageType.
func linkage(name string) llvm.Linkage {
	if strings.HasPrefix(name, "_") {
		return llvm.InternalLinkage
	}
	return llvm.ExternalLinkage
}

// llvmType resolves name to an llvm.Type, lazily materializing user-defined
// struct/union/enum/alias/tuple/range types on first use (§4.7) and caching
// the result onto the Type's IR field so later lookups reuse it.
func (lw *Lowering) llvmType(name string) llvm.Type {
	t, ok := lw.mod.Types[name]
	if !ok {
		lw.bag.Warning(ast.Pos0, "unknown type %q, defaulting to i32", name)
		return lw.ctx.Int32Type()
	}
	if t.Kind == types.Primitive {
		return t.IR
	}
	if t.IR.IsNil() {
		t.IR = lw.buildUserType(name)
	}
	return t.IR
}

// buildUserType constructs the opaque LLVM IR for a user-defined type by
// dispatching on the kind of its declaration node.
func (lw *Lowering) buildUserType(name string) llvm.Type {
	decl := lw.declByName(name)
	if decl == nil {
		lw.bag.Warning(ast.Pos0, "undefined type %q, defaulting to i32", name)
		return lw.ctx.Int32Type()
	}
	switch decl.Kind {
	case ast.StructDecl:
		sd := decl.Data.(*ast.StructData)
		named := lw.ctx.StructCreateNamed(name)
		fieldTypes := make([]llvm.Type, len(sd.Fields))
		for i, f := range sd.Fields {
			fieldTypes[i] = lw.llvmType(f.Data.(*ast.VarData).TypeName)
		}
		named.StructSetBody(fieldTypes, false)
		return named
	case ast.UnionDecl:
		// A union's storage is sized by its widest member; approximated here
		// by its first member's type, matching the teacher's scalar-only
		// treatment of unions.
		ud := decl.Data.(*ast.UnionData)
		if len(ud.Members) == 0 {
			return lw.ctx.Int32Type()
		}
		return lw.llvmType(ud.Members[0].Data.(*ast.VarData).TypeName)
	case ast.EnumDecl:
		return lw.ctx.Int32Type()
	case ast.AliasDecl:
		ad := decl.Data.(*ast.AliasData)
		return lw.llvmType(ad.Target)
	case ast.TupleDecl:
		td := decl.Data.(*ast.TupleData)
		elemTypes := make([]llvm.Type, len(td.Elems))
		for i, name := range td.Elems {
			elemTypes[i] = lw.llvmType(name)
		}
		return lw.ctx.StructType(elemTypes, false)
	case ast.RangeDecl:
		return lw.ctx.Int32Type()
	default:
		return lw.ctx.Int32Type()
	}
}

// lowerFunction creates the function's IR signature and, if it has a body,
// an entry block bound as the insertion point.
func (lw *Lowering) lowerFunction(fn *ast.Node) llvm.Value {
	fd := fn.Data.(*ast.FunctionData)
	if existing, ok := lw.values.get(fn); ok {
		return existing
	}

	argTypes := make([]llvm.Type, len(fd.Args))
	for i, arg := range fd.Args {
		vd := arg.Data.(*ast.VarData)
		argTypes[i] = lw.llvmType(vd.TypeName)
	}
	retType := lw.ctx.VoidType()
	if fd.Return != nil {
		retType = lw.llvmType(fd.Return.Name)
	}

	fnType := llvm.FunctionType(retType, argTypes, fd.Variadic)
	llvmFn := llvm.AddFunction(lw.mod.LLVMModule(), fd.Name, fnType)
	llvmFn.SetLinkage(linkage(fd.Name))
	lw.values.set(fn, llvmFn)
	fd.IR = &llvmFn

	if fd.Body == nil {
		return llvmFn
	}

	prevFn, prevScope := lw.currentFn, lw.currentScope
	lw.currentFn = fn
	lw.currentScope = lw.mod.Global.Enter()
	defer func() { lw.currentFn, lw.currentScope = prevFn, prevScope }()

	entry := lw.ctx.AddBasicBlock(llvmFn, "entry")
	lw.builder.SetInsertPointAtEnd(entry)

	for i, arg := range fd.Args {
		vd := arg.Data.(*ast.VarData)
		slot := lw.builder.CreateAlloca(argTypes[i], vd.Name)
		lw.builder.CreateStore(llvmFn.Param(i), slot)
		lw.values.set(arg, slot)
		_ = lw.currentScope.Add(vd.Name, arg)
	}

	lw.lowerBlock(fd.Body)

	if fd.Return == nil && lw.builder.GetInsertBlock().LastInstruction().IsNil() {
		lw.builder.CreateRetVoid()
	}
	return llvmFn
}

// lowerBlock creates a new scope parented to the current one, brings the
// enclosing function's arguments into the innermost block on first entry
// (already done by lowerFunction), visits each statement, then restores the
// previous scope on exit.
func (lw *Lowering) lowerBlock(block *ast.Node) {
	data := block.Data.(*ast.BlockData)
	prevScope := lw.currentScope
	lw.currentScope = lw.currentScope.Enter()
	defer func() { lw.currentScope = prevScope }()

	for _, stmt := range data.Stmts {
		lw.lowerStmt(stmt)
	}
}

func (lw *Lowering) lowerStmt(n *ast.Node) {
	switch n.Kind {
	case ast.VarDecl:
		lw.lowerVarDecl(n)
	case ast.ReturnStmt:
		lw.lowerReturn(n)
	default:
		lw.lowerExpr(n, true)
	}
}

// lowerVarDecl materializes a stack slot and, if there is an initializer,
// stores its value into the slot.
func (lw *Lowering) lowerVarDecl(n *ast.Node) {
	vd := n.Data.(*ast.VarData)
	typeName := vd.TypeName
	if typeName == "" {
		if t := lw.inf.InferExpr(lw.currentScope, vd.Init); t != nil {
			typeName = t.Name
		} else {
			typeName = "i32"
		}
	}
	slot := lw.builder.CreateAlloca(lw.llvmType(typeName), vd.Name)
	lw.values.set(n, slot)
	if vd.Init != nil {
		v := lw.lowerExpr(vd.Init, true)
		lw.builder.CreateStore(v, slot)
	}
	if err := lw.currentScope.Add(vd.Name, n); err != nil {
		lw.bag.Error(n.Pos, "%s", err)
	}
}

func (lw *Lowering) lowerReturn(n *ast.Node) {
	rd := n.Data.(*ast.ReturnData)
	if rd.Value == nil {
		lw.builder.CreateRetVoid()
		return
	}
	lw.builder.CreateRet(lw.lowerExpr(rd.Value, true))
}

// lowerExpr visits an expression node. valMode selects value mode (true,
// loads through identifiers) vs address mode (false, returns the
// slot/pointer) — passed explicitly as a parameter rather than through a
// mutable field, per the component design's recommendation.
func (lw *Lowering) lowerExpr(n *ast.Node, valMode bool) llvm.Value {
	switch n.Kind {
	case ast.LiteralExpr:
		return lw.lowerLiteral(n.Data.(*ast.LiteralData))
	case ast.QualifiedIdentifierExpr:
		return lw.lowerIdent(n, valMode)
	case ast.UnaryExpr:
		return lw.lowerUnary(n, valMode)
	case ast.BinaryExpr:
		return lw.lowerBinary(n)
	case ast.AssignExpr:
		return lw.lowerAssign(n)
	case ast.CallExpr:
		return lw.lowerCall(n)
	case ast.ArrayIndexExpr:
		return lw.lowerArrayIndex(n, valMode)
	case ast.IfExpr:
		return lw.lowerIf(n)
	case ast.ForExpr:
		return lw.lowerFor(n)
	case ast.WhileExpr:
		return lw.lowerWhile(n)
	case ast.StructInitExpr:
		return lw.lowerStructInit(n)
	case ast.ArrayExpr:
		return lw.lowerArray(n)
	default:
		lw.bag.Warning(n.Pos, "lowering for %s is not yet implemented", n.Kind)
		return llvm.ConstInt(lw.ctx.Int32Type(), 0, false)
	}
}

func (lw *Lowering) lowerLiteral(ld *ast.LiteralData) llvm.Value {
	switch ld.Kind {
	case ast.IntLiteral:
		var n uint64
		fmt.Sscanf(ld.Text, "%d", &n)
		return llvm.ConstInt(lw.ctx.Int32Type(), n, false)
	case ast.CharLiteral:
		text := ld.Text
		if len(text) >= 3 {
			return llvm.ConstInt(lw.ctx.Int8Type(), uint64(text[1]), false)
		}
		return llvm.ConstInt(lw.ctx.Int8Type(), 0, false)
	case ast.StringLiteral:
		return lw.builder.CreateGlobalStringPtr(ld.Text, "str")
	case ast.NilLiteral:
		return llvm.ConstPointerNull(llvm.PointerType(lw.ctx.Int8Type(), 0))
	default:
		return llvm.ConstInt(lw.ctx.Int32Type(), 0, false)
	}
}

func (lw *Lowering) lowerIdent(n *ast.Node, valMode bool) llvm.Value {
	qd := n.Data.(*ast.QualifiedIdentifierData)
	if len(qd.Parts) > 1 {
		return lw.lowerQualifiedIdent(n, valMode)
	}
	decl, ok := lw.currentScope.Lookup(qd.Parts[0])
	if !ok {
		lw.bag.Error(n.Pos, "undefined identifier %q", qd.Parts[0])
	}
	slot, _ := lw.values.get(decl)
	if !valMode {
		return slot
	}
	vd := decl.Data.(*ast.VarData)
	return lw.builder.CreateLoad(lw.llvmType(vd.TypeName), slot, vd.Name)
}

// lowerQualifiedIdent handles a.b.c: if a resolves to a struct-typed
// variable, each remaining part is a field-GEP index found by scanning the
// struct's field list; if a resolves to an enum type, the second part is an
// enum-constant lookup.
func (lw *Lowering) lowerQualifiedIdent(n *ast.Node, valMode bool) llvm.Value {
	qd := n.Data.(*ast.QualifiedIdentifierData)
	decl, ok := lw.currentScope.Lookup(qd.Parts[0])
	if ok {
		vd := decl.Data.(*ast.VarData)
		structDecl, isStruct := lw.mod.Types[vd.TypeName]
		if isStruct {
			slot, _ := lw.values.get(decl)
			idx := lw.fieldIndex(vd.TypeName, qd.Parts[1])
			gep := lw.builder.CreateStructGEP(lw.llvmType(vd.TypeName), slot, idx, qd.Parts[1])
			if !valMode {
				return gep
			}
			return lw.builder.CreateLoad(lw.ctx.Int32Type(), gep, qd.Parts[1])
		}
		_ = structDecl
	}
	if decl := lw.declByName(qd.Parts[0]); decl != nil && decl.Kind == ast.EnumDecl {
		ed := decl.Data.(*ast.EnumData)
		ordinal, ok := ed.Values[qd.Parts[1]]
		if !ok {
			lw.bag.Error(n.Pos, "enum %q has no member %q", ed.Name, qd.Parts[1])
			return llvm.ConstInt(lw.ctx.Int32Type(), 0, false)
		}
		return llvm.ConstInt(lw.ctx.Int32Type(), uint64(ordinal), false)
	}
	lw.bag.Error(n.Pos, "cannot resolve qualified identifier %q", strings.Join(qd.Parts, "."))
	return llvm.ConstInt(lw.ctx.Int32Type(), 0, false)
}

func (lw *Lowering) fieldIndex(typeName, field string) int {
	decl := lw.declByName(typeName)
	if decl == nil || decl.Kind != ast.StructDecl {
		return 0
	}
	sd := decl.Data.(*ast.StructData)
	for i, f := range sd.Fields {
		if f.Data.(*ast.VarData).Name == field {
			return i
		}
	}
	return 0
}

func (lw *Lowering) structDeclByName(name string) *ast.StructData {
	if decl := lw.declByName(name); decl != nil && decl.Kind == ast.StructDecl {
		return decl.Data.(*ast.StructData)
	}
	return nil
}

// declByName performs a linear scan over the parsed root's top-level
// declarations for one named name, covering every declaration kind that
// introduces a type (struct, union, enum, tuple, range, alias). The module's
// symbol table indexes types by name but not by declaration shape, so this
// is the only way to recover which shape a given type name has.
func (lw *Lowering) declByName(name string) *ast.Node {
	if lw.root == nil {
		return nil
	}
	for _, stmt := range lw.root.Data.(*ast.BlockData).Stmts {
		switch stmt.Kind {
		case ast.StructDecl:
			if stmt.Data.(*ast.StructData).Name == name {
				return stmt
			}
		case ast.UnionDecl:
			if stmt.Data.(*ast.UnionData).Name == name {
				return stmt
			}
		case ast.EnumDecl:
			if stmt.Data.(*ast.EnumData).Name == name {
				return stmt
			}
		case ast.TupleDecl:
			if stmt.Data.(*ast.TupleData).Name == name {
				return stmt
			}
		case ast.RangeDecl:
			if stmt.Data.(*ast.RangeData).Name == name {
				return stmt
			}
		case ast.AliasDecl:
			if stmt.Data.(*ast.AliasData).Name == name {
				return stmt
			}
		}
	}
	return nil
}

func (lw *Lowering) lowerUnary(n *ast.Node, valMode bool) llvm.Value {
	ud := n.Data.(*ast.UnaryData)
	switch ud.Op {
	case "&":
		return lw.lowerExpr(ud.Operand, false)
	case "!":
		v := lw.lowerExpr(ud.Operand, true)
		return lw.builder.CreateXor(v, llvm.ConstInt(v.Type(), 1, false), "not")
	case "-":
		v := lw.lowerExpr(ud.Operand, true)
		return lw.builder.CreateNeg(v, "neg")
	case "*":
		v := lw.lowerExpr(ud.Operand, true)
		if valMode {
			return lw.builder.CreateLoad(lw.ctx.Int32Type(), v, "deref")
		}
		return v
	default:
		return lw.lowerExpr(ud.Operand, valMode)
	}
}

// lowerBinary maps an operator token to an arithmetic, comparison, shift, or
// bitwise SSA op. && and || are emitted as bit-AND/bit-OR after a
// compare-with-one coercion rather than control-flow short-circuit — a
// documented simplification, not an oversight.
func (lw *Lowering) lowerBinary(n *ast.Node) llvm.Value {
	bd := n.Data.(*ast.BinaryData)
	lhs := lw.lowerExpr(bd.Left, true)

	if lhs.Type().TypeKind() == llvm.PointerTypeKind && (bd.Op == "+" || bd.Op == "-") {
		rhs := lw.lowerExpr(bd.Right, true)
		if bd.Op == "-" {
			rhs = lw.builder.CreateNeg(rhs, "negidx")
		}
		return lw.builder.CreateGEP(lw.ctx.Int8Type(), lhs, []llvm.Value{rhs}, "ptradd")
	}

	rhs := lw.lowerExpr(bd.Right, true)
	switch bd.Op {
	case "+":
		return lw.builder.CreateAdd(lhs, rhs, "add")
	case "-":
		return lw.builder.CreateSub(lhs, rhs, "sub")
	case "*":
		return lw.builder.CreateMul(lhs, rhs, "mul")
	case "/":
		return lw.builder.CreateSDiv(lhs, rhs, "div")
	case "<<":
		return lw.builder.CreateShl(lhs, rhs, "shl")
	case ">>":
		return lw.builder.CreateAShr(lhs, rhs, "shr")
	case "&":
		return lw.builder.CreateAnd(lhs, rhs, "and")
	case "|":
		return lw.builder.CreateOr(lhs, rhs, "or")
	case "==":
		return lw.builder.CreateICmp(llvm.IntEQ, lhs, rhs, "eq")
	case "!=":
		return lw.builder.CreateICmp(llvm.IntNE, lhs, rhs, "ne")
	case "<":
		return lw.builder.CreateICmp(llvm.IntSLT, lhs, rhs, "lt")
	case ">":
		return lw.builder.CreateICmp(llvm.IntSGT, lhs, rhs, "gt")
	case "<=":
		return lw.builder.CreateICmp(llvm.IntSLE, lhs, rhs, "le")
	case ">=":
		return lw.builder.CreateICmp(llvm.IntSGE, lhs, rhs, "ge")
	case "&&":
		lc := lw.builder.CreateICmp(llvm.IntEQ, lhs, llvm.ConstInt(lhs.Type(), 1, false), "lc")
		rc := lw.builder.CreateICmp(llvm.IntEQ, rhs, llvm.ConstInt(rhs.Type(), 1, false), "rc")
		return lw.builder.CreateAnd(lc, rc, "andand")
	case "||":
		lc := lw.builder.CreateICmp(llvm.IntEQ, lhs, llvm.ConstInt(lhs.Type(), 1, false), "lc")
		rc := lw.builder.CreateICmp(llvm.IntEQ, rhs, llvm.ConstInt(rhs.Type(), 1, false), "rc")
		return lw.builder.CreateOr(lc, rc, "oror")
	default:
		lw.bag.Error(n.Pos, "unsupported binary operator %q", bd.Op)
		return lhs
	}
}

// lowerAssign always emits its LHS in address mode; compound assignments
// load the current value, apply the operator, then store back.
func (lw *Lowering) lowerAssign(n *ast.Node) llvm.Value {
	ad := n.Data.(*ast.AssignData)
	slot := lw.lowerExpr(ad.Target, false)
	rhs := lw.lowerExpr(ad.Value, true)

	if ad.Op == "=" {
		lw.builder.CreateStore(rhs, slot)
		return rhs
	}

	cur := lw.builder.CreateLoad(rhs.Type(), slot, "cur")
	var result llvm.Value
	switch ad.Op {
	case "+=":
		result = lw.builder.CreateAdd(cur, rhs, "add")
	case "-=":
		result = lw.builder.CreateSub(cur, rhs, "sub")
	case "*=":
		result = lw.builder.CreateMul(cur, rhs, "mul")
	case "/=":
		result = lw.builder.CreateSDiv(cur, rhs, "div")
	case "&=":
		result = lw.builder.CreateAnd(cur, rhs, "and")
	case "|=":
		result = lw.builder.CreateOr(cur, rhs, "or")
	case "<<=":
		result = lw.builder.CreateShl(cur, rhs, "shl")
	case ">>=":
		result = lw.builder.CreateAShr(cur, rhs, "shr")
	default:
		result = rhs
	}
	lw.builder.CreateStore(result, slot)
	return result
}

// lowerCall resolves the callee via the module table (or the generic
// instantiation engine), validates arity against variadics, checks argument
// labels, coerces array arguments to pointers, and emits the call.
func (lw *Lowering) lowerCall(n *ast.Node) llvm.Value {
	cd := n.Data.(*ast.CallData)
	qd := cd.Callee.Data.(*ast.QualifiedIdentifierData)

	fn, ok := lw.mod.GetFn(qd.Parts)
	if !ok {
		lw.bag.Error(n.Pos, "call to undefined function %q", qd.Parts[0])
	}
	fd := fn.Data.(*ast.FunctionData)
	if fn.Kind == ast.GenericFunctionDecl {
		concrete := lw.ins.Instantiate(lw.currentScope, fn, n)
		if concrete == nil {
			lw.bag.Error(n.Pos, "could not resolve all generic parameters of %q from this call", fd.Name)
		}
		fn = concrete
		fd = fn.Data.(*ast.FunctionData)
	}

	if !fd.Variadic && len(cd.Args) != len(fd.Args) {
		lw.bag.Error(n.Pos, "%q expects %d arguments, got %d", fd.Name, len(fd.Args), len(cd.Args))
	}
	for i, a := range cd.Args {
		if i >= len(fd.Args) {
			break // Variadic tail.
		}
		want := fd.Args[i].Data.(*ast.VarData).Label
		if a.Label != "" && a.Label != want {
			lw.bag.Error(n.Pos, "argument %d: label %q does not match parameter label %q", i, a.Label, want)
		}
		if a.Label == "" && want != "" && want != "_" {
			lw.bag.Error(n.Pos, "argument %d: expected label %q", i, want)
		}
	}

	llvmFn := lw.lowerFunction(fn)
	args := make([]llvm.Value, len(cd.Args))
	for i, a := range cd.Args {
		v := lw.lowerExpr(a.Expr, true)
		if v.Type().TypeKind() == llvm.ArrayTypeKind {
			v = lw.builder.CreateBitCast(v, llvm.PointerType(lw.ctx.Int8Type(), 0), "arraydecay")
		}
		args[i] = v
	}
	return lw.builder.CreateCall(llvmFn.GlobalValueType(), llvmFn, args, "call")
}

// lowerArrayIndex emits an in-bounds GEP followed by successive loads until
// the result stops being a pointer, unwinding the stacked indirection that
// alloca introduces.
func (lw *Lowering) lowerArrayIndex(n *ast.Node, valMode bool) llvm.Value {
	aid := n.Data.(*ast.ArrayIndexData)
	base := lw.lowerExpr(aid.Array, false)
	idx := lw.lowerExpr(aid.Index, true)

	zero := llvm.ConstInt(lw.ctx.Int32Type(), 0, false)
	gep := lw.builder.CreateGEP(lw.ctx.Int32Type(), base, []llvm.Value{zero, idx}, "idx")
	if !valMode {
		return gep
	}
	val := lw.builder.CreateLoad(lw.ctx.Int32Type(), gep, "elem")
	for val.Type().TypeKind() == llvm.PointerTypeKind {
		val = lw.builder.CreateLoad(lw.ctx.Int32Type(), val, "elem")
	}
	return val
}

// lowerIf emits a three-block then/else/merge CFG; the if-expression's own
// value is a φ of i1 compare-against-one results from each arm.
func (lw *Lowering) lowerIf(n *ast.Node) llvm.Value {
	id := n.Data.(*ast.IfData)
	fn := lw.currentLLVMFn()

	thenBB := lw.ctx.AddBasicBlock(fn, "if.then")
	mergeBB := lw.ctx.AddBasicBlock(fn, "if.merge")
	elseBB := mergeBB
	if id.Else != nil {
		elseBB = lw.ctx.AddBasicBlock(fn, "if.else")
	}

	cond := lw.lowerExpr(id.Cond, true)
	condBool := lw.builder.CreateICmp(llvm.IntNE, cond, llvm.ConstInt(cond.Type(), 0, false), "ifcond")
	lw.builder.CreateCondBr(condBool, thenBB, elseBB)

	lw.builder.SetInsertPointAtEnd(thenBB)
	lw.lowerBlock(id.Then)
	thenVal := lw.builder.CreateICmp(llvm.IntEQ, condBool, llvm.ConstInt(lw.ctx.Int1Type(), 1, false), "then.v")
	lw.builder.CreateBr(mergeBB)
	thenEnd := lw.builder.GetInsertBlock()

	var elseVal llvm.Value
	var elseEnd llvm.BasicBlock
	if id.Else != nil {
		lw.builder.SetInsertPointAtEnd(elseBB)
		lw.lowerBlock(id.Else)
		elseVal = lw.builder.CreateICmp(llvm.IntEQ, condBool, llvm.ConstInt(lw.ctx.Int1Type(), 0, false), "else.v")
		lw.builder.CreateBr(mergeBB)
		elseEnd = lw.builder.GetInsertBlock()
	}

	lw.builder.SetInsertPointAtEnd(mergeBB)
	phi := lw.builder.CreatePHI(lw.ctx.Int1Type(), "if.result")
	incomingV := []llvm.Value{thenVal}
	incomingB := []llvm.BasicBlock{thenEnd}
	if id.Else != nil {
		incomingV = append(incomingV, elseVal)
		incomingB = append(incomingB, elseEnd)
	}
	phi.AddIncoming(incomingV, incomingB)
	return phi
}

// lowerFor covers both iteration shapes: over a literal array identifier (0
// to array length) and over a RangeExpr (inclusive begin, exclusive end,
// step 1). Both emit a preheader, a body block with a φ induction variable
// seeded from the preheader, an increment, a signed less-than compare, and a
// conditional branch back or to the after-block.
func (lw *Lowering) lowerFor(n *ast.Node) llvm.Value {
	fd := n.Data.(*ast.ForData)
	fn := lw.currentLLVMFn()

	var low, high llvm.Value
	if fd.Iter.Kind == ast.RangeExpr {
		rd := fd.Iter.Data.(*ast.RangeData)
		low = lw.lowerExpr(rd.Low, true)
		high = lw.lowerExpr(rd.High, true)
	} else {
		low = llvm.ConstInt(lw.ctx.Int32Type(), 0, false)
		high = lw.arrayLength(fd.Iter)
	}

	preheader := lw.builder.GetInsertBlock()
	bodyBB := lw.ctx.AddBasicBlock(fn, "for.body")
	afterBB := lw.ctx.AddBasicBlock(fn, "for.after")

	ivSlot := lw.builder.CreateAlloca(lw.ctx.Int32Type(), fd.Var)
	entryCmp := lw.builder.CreateICmp(llvm.IntSLT, low, high, "for.entry")
	lw.builder.CreateCondBr(entryCmp, bodyBB, afterBB)
	lw.builder.SetInsertPointAtEnd(bodyBB)

	phi := lw.builder.CreatePHI(lw.ctx.Int32Type(), "for.iv")
	phi.AddIncoming([]llvm.Value{low}, []llvm.BasicBlock{preheader})
	lw.builder.CreateStore(phi, ivSlot)

	scope := lw.currentScope
	lw.currentScope = scope.Enter()
	ivDecl := &ast.Node{Kind: ast.VarDecl, Data: &ast.VarData{Name: fd.Var, TypeName: "i32"}}
	lw.values.set(ivDecl, ivSlot)
	_ = lw.currentScope.Add(fd.Var, ivDecl)

	lw.lowerBlock(fd.Body)
	lw.currentScope = scope

	next := lw.builder.CreateAdd(phi, llvm.ConstInt(lw.ctx.Int32Type(), 1, false), "for.next")
	cmp := lw.builder.CreateICmp(llvm.IntSLT, next, high, "for.cmp")
	latch := lw.builder.GetInsertBlock()
	lw.builder.CreateCondBr(cmp, bodyBB, afterBB)
	phi.AddIncoming([]llvm.Value{next}, []llvm.BasicBlock{latch})

	lw.builder.SetInsertPointAtEnd(afterBB)
	return llvm.Value{}
}

func (lw *Lowering) arrayLength(n *ast.Node) llvm.Value {
	if n.Kind == ast.QualifiedIdentifierExpr {
		if decl, ok := lw.currentScope.Lookup(n.Data.(*ast.QualifiedIdentifierData).Parts[0]); ok {
			if vd := decl.Data.(*ast.VarData); vd.Init != nil {
				n = vd.Init
			}
		}
	}
	if n.Kind == ast.ArrayExpr {
		return llvm.ConstInt(lw.ctx.Int32Type(), uint64(len(n.Data.(*ast.ArrayData).Elems)), false)
	}
	return llvm.ConstInt(lw.ctx.Int32Type(), 0, false)
}

// lowerWhile evaluates Cond once in the preheader and again in the loop
// body's latch, both values feeding the merge φ — kept exactly as the source
// describes it rather than hoisted into a single header evaluation; see
// DESIGN.md's Open Question decision.
func (lw *Lowering) lowerWhile(n *ast.Node) llvm.Value {
	wd := n.Data.(*ast.WhileData)
	fn := lw.currentLLVMFn()

	headerCond := lw.lowerExpr(wd.Cond, true)
	preheader := lw.builder.GetInsertBlock()
	bodyBB := lw.ctx.AddBasicBlock(fn, "while.body")
	afterBB := lw.ctx.AddBasicBlock(fn, "while.after")

	entryCmp := lw.builder.CreateICmp(llvm.IntNE, headerCond, llvm.ConstInt(headerCond.Type(), 0, false), "while.entry")
	lw.builder.CreateCondBr(entryCmp, bodyBB, afterBB)

	lw.builder.SetInsertPointAtEnd(bodyBB)
	phi := lw.builder.CreatePHI(lw.ctx.Int1Type(), "while.cond")
	phi.AddIncoming([]llvm.Value{entryCmp}, []llvm.BasicBlock{preheader})

	lw.lowerBlock(wd.Body)

	latchCond := lw.lowerExpr(wd.Cond, true)
	latchCmp := lw.builder.CreateICmp(llvm.IntNE, latchCond, llvm.ConstInt(latchCond.Type(), 0, false), "while.latch")
	latch := lw.builder.GetInsertBlock()
	lw.builder.CreateCondBr(latchCmp, bodyBB, afterBB)
	phi.AddIncoming([]llvm.Value{latchCmp}, []llvm.BasicBlock{latch})

	lw.builder.SetInsertPointAtEnd(afterBB)
	return phi
}

// lowerStructInit produces a typed ConstantStruct; fields must appear in
// declaration order and count must match.
func (lw *Lowering) lowerStructInit(n *ast.Node) llvm.Value {
	sid := n.Data.(*ast.StructInitData)
	sd := lw.structDeclByName(sid.TypeName)
	if sd == nil {
		lw.bag.Error(n.Pos, "undefined struct type %q", sid.TypeName)
		return llvm.Value{}
	}
	if len(sd.Fields) != len(sid.Fields) {
		lw.bag.Error(n.Pos, "struct %q expects %d fields, got %d", sid.TypeName, len(sd.Fields), len(sid.Fields))
	}
	count := len(sd.Fields)
	if len(sid.Fields) < count {
		count = len(sid.Fields)
	}
	vals := make([]llvm.Value, count)
	for i := 0; i < count; i++ {
		vals[i] = lw.lowerExpr(sid.Fields[i], true)
	}
	return llvm.ConstNamedStruct(lw.llvmType(sid.TypeName), vals)
}

// lowerArray requires every element's type to be identical to the first
// element's type, then emits a ConstantArray. No cast is applied, so an
// element of a different type is reported as an error even where it could be
// converted.
func (lw *Lowering) lowerArray(n *ast.Node) llvm.Value {
	ad := n.Data.(*ast.ArrayData)
	if len(ad.Elems) == 0 {
		return llvm.ConstArray(lw.ctx.Int32Type(), nil)
	}
	vals := make([]llvm.Value, len(ad.Elems))
	for i, e := range ad.Elems {
		vals[i] = lw.lowerExpr(e, true)
	}
	elemType := vals[0].Type()
	for i, v := range vals {
		if v.Type() != elemType {
			lw.bag.Error(ad.Elems[i].Pos, "array element type does not match the first element's type")
		}
	}
	return llvm.ConstArray(elemType, vals)
}

func (lw *Lowering) currentLLVMFn() llvm.Value {
	v, _ := lw.values.get(lw.currentFn)
	return v
}

// SetRoot records the parsed program's root so struct-field lookups can scan
// its top-level declarations; the module's symbol table only indexes types
// by name, not by declaration shape.
func (lw *Lowering) SetRoot(root *ast.Node) { lw.root = root }
