// Package ast defines the syntax tree produced by the parser. Following the
// teacher's own intermediate representation (src/ir/nodetype.go), every
// syntax-tree construct is a single Node struct tagged by a Kind enum rather
// than a hierarchy of interface-implementing types: one print routine, one
// children slice, one type switch over Data for the kind-specific payload.
package ast

import (
	"fmt"

	"github.com/lzmru/north/src/source"
)

// Kind differentiates the variants of Node.
type Kind int

const (
	// Declarations.
	TypeDef Kind = iota
	AliasDecl
	StructDecl
	UnionDecl
	EnumDecl
	TupleDecl
	RangeDecl
	InterfaceDecl
	FunctionDecl
	GenericFunctionDecl
	VarDecl

	// Expressions.
	UnaryExpr
	BinaryExpr
	LiteralExpr
	RangeExpr
	CallExpr
	ArrayIndexExpr
	QualifiedIdentifierExpr
	IfExpr
	ForExpr
	WhileExpr
	AssignExpr
	StructInitExpr
	ArrayExpr

	// Statements.
	OpenStmt
	BlockStmt
	ReturnStmt
)

var kindNames = [...]string{
	TypeDef: "TypeDef", AliasDecl: "AliasDecl", StructDecl: "StructDecl",
	UnionDecl: "UnionDecl", EnumDecl: "EnumDecl", TupleDecl: "TupleDecl",
	RangeDecl: "RangeDecl", InterfaceDecl: "InterfaceDecl", FunctionDecl: "FunctionDecl",
	GenericFunctionDecl: "GenericFunctionDecl", VarDecl: "VarDecl",
	UnaryExpr: "UnaryExpr", BinaryExpr: "BinaryExpr", LiteralExpr: "LiteralExpr",
	RangeExpr: "RangeExpr", CallExpr: "CallExpr", ArrayIndexExpr: "ArrayIndexExpr",
	QualifiedIdentifierExpr: "QualifiedIdentifierExpr", IfExpr: "IfExpr",
	ForExpr: "ForExpr", WhileExpr: "WhileExpr", AssignExpr: "AssignExpr",
	StructInitExpr: "StructInitExpr", ArrayExpr: "ArrayExpr",
	OpenStmt: "OpenStmt", BlockStmt: "BlockStmt", ReturnStmt: "ReturnStmt",
}

// String returns the print-friendly name of k.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// Modifier is a bit flag set carried by declarations that may be generic.
type Modifier uint8

const (
	Ptr Modifier = 1 << iota
	Ref
	Out
	In
)

// GenericParam is one entry of a declaration's generic-parameter list.
type GenericParam struct {
	Name     string
	Pos      source.Position
	Resolved IRType // nil until the instantiation engine binds a concrete type.
}

// IRType is the minimal surface the ast package needs from the types
// package's Type without importing it — types.Type implements this.
// Keeping the dependency direction types -> ast (not the reverse) lets the
// type checker attach resolved types to nodes it doesn't otherwise own.
type IRType interface {
	TypeName() string
}

// Node is a single syntax-tree node: a Kind discriminant, the node's source
// Position, its Children, and a Data payload whose concrete type depends on
// Kind (see node_data.go). Entry is a non-owning back-pointer slot — same
// pattern as the teacher's ir.Node.Entry *Symbol field; no pass in this
// module sets it.
type Node struct {
	Kind     Kind
	Pos      source.Position
	Children []*Node
	Data     interface{}
	Entry    interface{} // Untyped to avoid an import cycle; not set by any pass.
}

// String returns a print-friendly single-line representation of n.
func (n *Node) String() string {
	if n == nil {
		return "---> [NIL POINTER]"
	}
	if n.Data == nil {
		return n.Kind.String()
	}
	return fmt.Sprintf("%s [%v]", n.Kind, n.Data)
}

// Print recursively prints n and its Children, indenting one level per
// Children recursion, mirroring the teacher's ir.Node.Print.
func (n *Node) Print(depth int) {
	if depth < 0 {
		depth = 0
	}
	if n == nil {
		fmt.Printf("%*c%s\n", depth<<1, ' ', "---> NIL")
		return
	}
	fmt.Printf("%*c%s\n", depth<<1, ' ', n.String())
	for _, c := range n.Children {
		c.Print(depth + 1)
	}
}
