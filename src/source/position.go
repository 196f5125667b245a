// Package source holds the handful of foundational types shared by every
// later compilation stage, so that frontend and ast can both depend on it
// without depending on each other.
package source

import "fmt"

// Position records where a token or AST node begins in the source buffer.
// It is immutable once produced by the lexer.
type Position struct {
	Line   int // Line in source stream. Not zero-indexed.
	Column int // Column on the line. Not zero-indexed.
	Offset int // Byte offset into the source buffer.
	Length int // Length in bytes of the lexeme this Position describes.
}

// String returns a print friendly "line:column" representation of p.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// End returns the byte offset one past the end of the lexeme described by p.
func (p Position) End() int {
	return p.Offset + p.Length
}
