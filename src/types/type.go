// Package types implements the language's type representation, the module
// symbol table, and lexical scoping. Scope follows the teacher's
// mutex-guarded util.Stack (src/util/stack.go) in spirit: a parent-chained
// lookup structure pushed on block entry and popped on block exit.
package types

import "tinygo.org/x/go-llvm"

// Kind distinguishes a primitive type from a user-defined one.
type Kind int

const (
	Primitive Kind = iota
	UserDefined
)

// Type is either one of the eight seeded primitives or a user-defined
// struct/union/enum/tuple/range/alias type. Equality for primitives is
// IR-handle equality; for user-defined types it is declaration-identifier
// equality — grounded on original_source's later Type::operator==, which
// compares the owning declaration pointer rather than structural shape.
type Type struct {
	Kind    Kind
	Name    string
	IR      llvm.Type
	declID  string // Unique id of the owning declaration, for UserDefined equality.
}

// TypeName implements ast.IRType.
func (t *Type) TypeName() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Equal reports whether t and other denote the same type.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == Primitive {
		return t.IR == other.IR
	}
	return t.declID == other.declID
}

// NewUserDefined creates a user-defined Type bound to declID, the unique
// identity of the declaration that introduced it (e.g. a struct's name
// within its module — module-level names are already unique per the data
// model's invariant 3).
func NewUserDefined(name, declID string, ir llvm.Type) *Type {
	return &Type{Kind: UserDefined, Name: name, IR: ir, declID: declID}
}
