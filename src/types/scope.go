package types

import (
	"fmt"
	"sync"

	"github.com/lzmru/north/src/ast"
)

// Scope is a lexically nested symbol table for VarDecl nodes. Scopes are
// stack-scoped during lowering: created on block entry, destroyed on block
// exit (the data model's lifecycle rule); each scope holds back-references
// to VarDecl nodes, never ownership. The mutex mirrors the teacher's
// util.Stack, which guards its linked-list stack the same way even though
// this compiler drives it from a single goroutine.
type Scope struct {
	parent   *Scope
	elements map[string]*ast.Node // VarDecl nodes, keyed by name.
	mx       sync.Mutex
}

// NewScope creates a Scope nested inside parent. parent may be nil for the
// module's global scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, elements: make(map[string]*ast.Node)}
}

// Enter pushes a new child scope.
func (s *Scope) Enter() *Scope {
	return NewScope(s)
}

// Exit returns the parent scope, or s itself if s is the global scope.
// The lowering visitor does not call it: lowerBlock restores the scope it
// saved on entry instead.
func (s *Scope) Exit() *Scope {
	if s.parent == nil {
		return s
	}
	return s.parent
}

// addElement registers name in this scope. Duplicate registration within
// the same scope is fatal per the data model's invariant 5.
func (s *Scope) addElement(name string, n *ast.Node) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if _, exists := s.elements[name]; exists {
		return fmt.Errorf("variable %q already declared in this scope", name)
	}
	s.elements[name] = n
	return nil
}

// Add is the exported form of addElement.
func (s *Scope) Add(name string, n *ast.Node) error {
	return s.addElement(name, n)
}

// Lookup searches this scope, then each enclosing scope in turn, returning
// the VarDecl bound to name, if any.
func (s *Scope) Lookup(name string) (*ast.Node, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		sc.mx.Lock()
		n, ok := sc.elements[name]
		sc.mx.Unlock()
		if ok {
			return n, true
		}
	}
	return nil, false
}
