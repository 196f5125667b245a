package ast

import "github.com/lzmru/north/src/source"

// FunctionData is the Data payload of a FunctionDecl (or, once a non-empty
// Generics list is present, the same struct doubles as a GenericFunctionDecl
// per the data model's "declaration becomes GenericFunctionDecl" rule).
type FunctionData struct {
	Name      string
	Args      []*Node // VarDecl children, in declared order.
	Return    *GenericParam
	Body      *Node // BlockStmt.
	Variadic  bool
	Generics  []*GenericParam
	Modifiers Modifier
	IR        interface{} // *llvm.Value, populated during lowering.

	// Instantiations caches per-call-site generic specializations, keyed by
	// the concrete-type tuple substituted for Generics. Only meaningful
	// when len(Generics) > 0.
	Instantiations []*Instantiation
}

// Instantiation is one memoized specialization of a GenericFunctionDecl.
type Instantiation struct {
	Concrete *Node // FunctionDecl, a clone of the generic body with Generics resolved.
	Bindings map[string]IRType
}

// VarData is the Data payload of a VarDecl.
type VarData struct {
	Name      string  // Private parameter name.
	Label     string  // Public named-argument label; equals Name if undeclared separately.
	TypeName  string  // Declared type, empty if inferred.
	Init      *Node   // Optional initializer expression.
	Modifiers Modifier
}

// StructData is the Data payload of a StructDecl.
type StructData struct {
	Name   string
	Fields []*Node // VarDecl children, in declared order.
	IR     interface{}
}

// UnionData is the Data payload of a UnionDecl.
type UnionData struct {
	Name    string
	Members []*Node // VarDecl children.
}

// EnumData is the Data payload of an EnumDecl.
type EnumData struct {
	Name    string
	Members []string        // Ordered member names.
	Values  map[string]int  // 1-based sequential values, filled in by the parser.
}

// TupleData is the Data payload of a TupleDecl.
type TupleData struct {
	Name  string
	Elems []string // Element type names, in order.
}

// RangeData is the Data payload of a RangeDecl: an iterable integer span.
type RangeData struct {
	Name string
	Low  *Node
	High *Node
}

// AliasData is the Data payload of an AliasDecl.
type AliasData struct {
	Name   string
	Target string
}

// TypeDefData is the Data payload of a TypeDef declaration header.
type TypeDefData struct {
	Name     string
	Generics []*GenericParam
}

// InterfaceData is the Data payload of an InterfaceDecl.
type InterfaceData struct {
	Name      string
	Extends   string // Optional parent interface name.
	Signature []*Node // FunctionDecl children carrying only signatures.
	Generics  []*GenericParam
}

// LiteralData is the Data payload of a LiteralExpr.
type LiteralData struct {
	Text string
	Kind LiteralKind
}

// LiteralKind distinguishes the lexical shape of a literal.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	CharLiteral
	StringLiteral
	NilLiteral
)

// UnaryData is the Data payload of a UnaryExpr.
type UnaryData struct {
	Op      string
	Operand *Node
}

// BinaryData is the Data payload of a BinaryExpr.
type BinaryData struct {
	Op    string
	Left  *Node
	Right *Node
}

// CallArg is one argument of a CallExpr, carrying its optional label.
type CallArg struct {
	Expr  *Node
	Label string // Empty when the argument is positional.
}

// CallData is the Data payload of a CallExpr.
type CallData struct {
	Callee   *Node // QualifiedIdentifierExpr.
	Args     []CallArg
	Resolved *Node // FunctionDecl, set after name resolution.
}

// ArrayIndexData is the Data payload of an ArrayIndexExpr.
type ArrayIndexData struct {
	Array *Node
	Index *Node
}

// QualifiedIdentifierData is the Data payload of a QualifiedIdentifierExpr.
type QualifiedIdentifierData struct {
	Parts []string
}

// IfData is the Data payload of an IfExpr.
type IfData struct {
	Cond *Node
	Then *Node
	Else *Node // Optional; attached by parseIfExpr when 'else' directly follows the then-block.
}

// ForData is the Data payload of a ForExpr.
type ForData struct {
	Var    string
	Iter   *Node // RangeExpr, or an array (an ArrayExpr or an identifier).
	Body   *Node
}

// WhileData is the Data payload of a WhileExpr. The lowering visitor
// deliberately evaluates Cond twice (preheader and loop latch) rather than
// hoisting it into a single block — see DESIGN.md's Open Question decision.
type WhileData struct {
	Cond *Node
	Body *Node
}

// AssignData is the Data payload of an AssignExpr.
type AssignData struct {
	Op     string // "=", "+=", "-=", ...
	Target *Node
	Value  *Node
}

// StructInitData is the Data payload of a StructInitExpr: a positional
// expression list matched against the struct's fields in declaration order
// ('Point{0, 0}'), not a named-field map.
type StructInitData struct {
	TypeName string
	Fields   []*Node
}

// ArrayData is the Data payload of an ArrayExpr.
type ArrayData struct {
	Elems []*Node
}

// OpenData is the Data payload of an OpenStmt (module import).
type OpenData struct {
	Module string
}

// BlockData is the Data payload of a BlockStmt. Owner and Parent are
// non-owning back-pointers: a BlockStmt never owns its function or parent
// block. The parser sets Owner on a function's body block only; it does not
// set Parent, which stays nil on every block.
type BlockData struct {
	Stmts  []*Node
	Owner  *Node // FunctionDecl; nil for if/else/for/while blocks.
	Parent *Node // Enclosing BlockStmt; not set by the parser.
}

// ReturnData is the Data payload of a ReturnStmt.
type ReturnData struct {
	Value *Node // Optional.
}

// Pos0 is a convenience zero Position for synthesized nodes that have no
// direct source location of their own (e.g. generic instantiation clones).
var Pos0 = source.Position{}
