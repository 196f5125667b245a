// Tests the lexer by verifying that a small north snippet is tokenized as expected.
//
// Because the lexer's indentation bookkeeping is driven by the parser (IncrementIndentLevel /
// DecrementIndentLevel), the test plays the parser's part: it bumps the level once, at the first COLON
// of the snippet, and drops it right after consuming a DEDENT.

package frontend

import "testing"

type wantTok struct {
	kind Kind
	text string
}

func TestLexerIndentation(t *testing.T) {
	src := "def add(a: i32, b: i32) -> i32:\n  let c = a + b\n  return c\n"

	want := []wantTok{
		{DEF, "def"},
		{IDENT, "add"},
		{LPAREN, "("},
		{IDENT, "a"},
		{COLON, ":"},
		{IDENT, "i32"},
		{COMMA, ","},
		{IDENT, "b"},
		{COLON, ":"},
		{IDENT, "i32"},
		{RPAREN, ")"},
		{ARROW, "->"},
		{IDENT, "i32"},
		{COLON, ":"},
		{INDENT, ""},
		{LET, "let"},
		{IDENT, "c"},
		{ASSIGN, "="},
		{IDENT, "a"},
		{PLUS, "+"},
		{IDENT, "b"},
		{RETURN, "return"},
		{IDENT, "c"},
		{DEDENT, ""},
		{EOF, ""},
	}

	l := newLexer(src, lexGlobal)
	l.SetFlag(IndentationSensitive, true)
	go l.run()

	opened := false
	for i, w := range want {
		tok := l.Next()
		if tok.Kind != w.kind {
			t.Fatalf("token %d: expected kind %s, got %s (%q)", i, w.kind, tok.Kind, tok.text)
		}
		if w.kind != INDENT && w.kind != DEDENT && w.kind != EOF && tok.String() != w.text {
			t.Errorf("token %d: expected text %q, got %q", i, w.text, tok.String())
		}

		// The level is bumped at the first COLON (the one after parameter a), well before the
		// newline that opens the function body, so the body line is measured against depth 1.
		if tok.Kind == COLON && !opened {
			l.IncrementIndentLevel()
			opened = true
		}
		if tok.Kind == DEDENT {
			l.DecrementIndentLevel()
		}
	}
}

func TestLexerOperatorsLongestMatch(t *testing.T) {
	src := ">> >>= << <<= = == / /= * *= + ++ += - -- -= & && &= | || |= > >= < <= ! != -> . .. ..."

	want := []Kind{
		RSHIFT, RSHIFTASSIGN, LSHIFT, LSHIFTASSIGN,
		ASSIGN, EQ, SLASH, SLASHASSIGN, STAR, STARASSIGN,
		PLUS, INCR, PLUSASSIGN, MINUS, DECR, MINUSASSIGN,
		AMP, ANDAND, ANDASSIGN, PIPE, OROR, ORASSIGN,
		GT, GTE, LT, LTE, NOT, NEQ, ARROW,
		DOT, DOTDOT, ELLIPSIS,
		EOF,
	}

	l := newLexer(src, lexGlobal)
	go l.run()

	for i, k := range want {
		tok := l.Next()
		if tok.Kind != k {
			t.Fatalf("token %d: expected %s, got %s (%q)", i, k, tok.Kind, tok.text)
		}
	}
}

func TestLexerWildcardVsIdentifier(t *testing.T) {
	src := "_ _x __ a_b"
	want := []Kind{WILDCARD, IDENT, IDENT, IDENT, EOF}

	l := newLexer(src, lexGlobal)
	go l.run()

	for i, k := range want {
		tok := l.Next()
		if tok.Kind != k {
			t.Fatalf("token %d: expected %s, got %s (%q)", i, k, tok.Kind, tok.text)
		}
	}
}

func TestLexerStringAndChar(t *testing.T) {
	src := `"hello" 'x'`
	l := newLexer(src, lexGlobal)
	go l.run()

	str := l.Next()
	if str.Kind != STRING || str.String() != "hello" {
		t.Fatalf("expected STRING %q, got %s %q", "hello", str.Kind, str.String())
	}
	ch := l.Next()
	if ch.Kind != CHAR || ch.String() != "'x'" {
		t.Fatalf("expected CHAR 'x', got %s %q", ch.Kind, ch.String())
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := newLexer(`"oops`, lexGlobal)
	go l.run()

	tok := l.Next()
	if tok.Kind != EOF {
		t.Fatalf("expected EOF error token, got %s", tok.Kind)
	}
}

func TestLexerComments(t *testing.T) {
	src := "a # trailing comment\nb"

	l := newLexer(src, lexGlobal)
	l.SetFlag(YieldComments, true)
	go l.run()

	a := l.Next()
	if a.Kind != IDENT || a.String() != "a" {
		t.Fatalf("expected IDENT a, got %s %q", a.Kind, a.String())
	}
	c := l.Next()
	if c.Kind != COMMENT {
		t.Fatalf("expected COMMENT, got %s %q", c.Kind, c.String())
	}
	b := l.Next()
	if b.Kind != IDENT || b.String() != "b" {
		t.Fatalf("expected IDENT b, got %s %q", b.Kind, b.String())
	}
}
