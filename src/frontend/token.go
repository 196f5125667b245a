package frontend

import (
	"fmt"

	"github.com/lzmru/north/src/source"
)

// Kind differentiates the kinds of tokens produced by the lexer.
// Nothing depends on the numeric order of the constants: names below is
// keyed by Kind, parser.go's infixPrec switches on kinds, and lang.go's
// keyword table is bucketed by word length.
type Kind int

const (
	// Structural.
	EOF Kind = iota
	COMMENT
	INDENT
	DEDENT

	// Literals.
	IDENT
	INT
	CHAR
	STRING

	// Keywords.
	DEF
	NIL
	OPEN
	INTERFACE
	TYPE
	VAR
	LET
	IF
	IN
	ELSE
	FOR
	WHILE
	SWITCH
	RETURN

	// Delimiters.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACK
	RBRACK
	DOT
	DOTDOT
	ELLIPSIS
	COLON
	COMMA
	SEMI

	// Operators.
	ASSIGN
	SLASHASSIGN
	STARASSIGN
	PLUSASSIGN
	MINUSASSIGN
	ANDASSIGN
	ORASSIGN
	RSHIFTASSIGN
	LSHIFTASSIGN
	EQ
	NEQ
	GTE
	LTE
	SLASH
	STAR
	PLUS
	MINUS
	INCR
	DECR
	NOT
	AMP
	PIPE
	GT
	LT
	WILDCARD
	ANDAND
	OROR
	RSHIFT
	LSHIFT
	ARROW
)

// names holds the print-friendly names of every Kind, in declaration order.
var names = [...]string{
	EOF: "EOF", COMMENT: "COMMENT", INDENT: "INDENT", DEDENT: "DEDENT",
	IDENT: "IDENT", INT: "INT", CHAR: "CHAR", STRING: "STRING",
	DEF: "def", NIL: "nil", OPEN: "open", INTERFACE: "interface", TYPE: "type",
	VAR: "var", LET: "let", IF: "if", IN: "in", ELSE: "else", FOR: "for",
	WHILE: "while", SWITCH: "switch", RETURN: "return",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACK: "[", RBRACK: "]",
	DOT: ".", DOTDOT: "..", ELLIPSIS: "...", COLON: ":", COMMA: ",", SEMI: ";",
	ASSIGN: "=", SLASHASSIGN: "/=", STARASSIGN: "*=", PLUSASSIGN: "+=",
	MINUSASSIGN: "-=", ANDASSIGN: "&=", ORASSIGN: "|=", RSHIFTASSIGN: ">>=",
	LSHIFTASSIGN: "<<=", EQ: "==", NEQ: "!=", GTE: ">=", LTE: "<=",
	SLASH: "/", STAR: "*", PLUS: "+", MINUS: "-", INCR: "++", DECR: "--",
	NOT: "!", AMP: "&", PIPE: "|", GT: ">", LT: "<", WILDCARD: "_",
	ANDAND: "&&", OROR: "||", RSHIFT: ">>", LSHIFT: "<<", ARROW: "->",
}

// String returns the print-friendly name of k.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(names) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return names[k]
}

// Token is a single lexeme scanned from the source buffer together with its
// Position and Kind. The textual lexeme is source[Pos.Offset:Pos.End()].
type Token struct {
	Kind Kind
	Pos  source.Position
	text string // Cached lexeme text; string literals have their quotes stripped.
}

// String returns the raw lexeme text of t, as it appeared in the source.
// For STRING tokens it returns the content between the quotes.
func (t Token) String() string {
	return t.text
}
