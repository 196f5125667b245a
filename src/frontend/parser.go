// parser.go implements the declaration parser and the Pratt-style expression
// parser. Unlike the teacher, which hands lexemes to a goyacc-generated
// parser (parser.y), this parser is hand-written: it drives the lexer
// directly with a single token of lookahead, exactly the shape a Pratt
// parser needs. The lexer still runs on its own goroutine (tree.go's
// "scanner runs concurrently to the parser" idiom is kept), but the unbuffered
// channel means the two are in lockstep rather than racing ahead.
package frontend

import (
	"strconv"

	"tinygo.org/x/go-llvm"

	"github.com/lzmru/north/src/ast"
	"github.com/lzmru/north/src/diag"
	"github.com/lzmru/north/src/source"
	"github.com/lzmru/north/src/types"
)

// Precedence tiers for the Pratt expression parser, low to high. The token
// set (§3) has no '%' or '^' operator, even though the originating grammar's
// Binary/Op tiers name them; they are omitted here rather than invented —
// see DESIGN.md.
const (
	precAssign = iota + 1 // = += -= *= /= &= |= <<= >>=
	precOrOr               // ||
	precAndAnd              // &&
	precEq                  // == !=
	precCompare             // < > <= >=
	precOp                  // + - |
	precBinary              // * << >> &
	precUnary               // ! * - & ++ --  (prefix; not used in the infix table)
	precCall                // . () []        (postfix; not used in the infix table)
)

// Parser turns a token stream into declarations registered directly into mod
// as they are recognized, matching the control-flow description in §2:
// "parser consumes tokens, registering declarations into the module as they
// are recognized".
type Parser struct {
	l   *lexer
	bag *diag.Bag
	mod *types.Module
	cur Token

	lastIf *ast.Node // Most recently parsed IfExpr; recorded only, parseIfExpr attaches 'else' itself.
}

// NewParser creates a Parser over src, reporting diagnostics to bag and
// registering declarations into mod.
func NewParser(src string, mod *types.Module, bag *diag.Bag) *Parser {
	l := newLexer(src, lexGlobal)
	l.SetFlag(IndentationSensitive, true)
	go l.run()
	return &Parser{l: l, bag: bag, mod: mod}
}

// Parse consumes the whole token stream and returns the program's root
// BlockStmt, whose children are the top-level declarations in source order.
func (p *Parser) Parse() *ast.Node {
	root := &ast.Node{Kind: ast.BlockStmt, Data: &ast.BlockData{}}
	p.advance()
	for p.cur.Kind != EOF {
		decl := p.parseTopLevel()
		if decl == nil {
			break
		}
		data := root.Data.(*ast.BlockData)
		data.Stmts = append(data.Stmts, decl)
		p.registerDecl(decl)
	}
	p.mod.Root = root
	return root
}

func (p *Parser) parseTopLevel() *ast.Node {
	switch p.cur.Kind {
	case OPEN:
		return p.parseOpen()
	case TYPE:
		return p.parseTypeDef()
	case DEF:
		return p.parseFnDecl()
	case INTERFACE:
		return p.parseIfaceDecl()
	case VAR, LET:
		return p.parseVarDecl()
	default:
		p.bag.Error(p.cur.Pos, "unexpected token %s at top level", p.cur.Kind)
		return nil
	}
}

// registerDecl files decl into the module's symbol table by kind.
func (p *Parser) registerDecl(decl *ast.Node) {
	switch decl.Kind {
	case ast.FunctionDecl, ast.GenericFunctionDecl:
		fd := decl.Data.(*ast.FunctionData)
		if err := p.mod.AddFunction(fd.Name, decl); err != nil {
			p.bag.Error(decl.Pos, "%s", err)
		}
	case ast.StructDecl:
		sd := decl.Data.(*ast.StructData)
		p.addUserType(sd.Name, decl)
	case ast.UnionDecl:
		ud := decl.Data.(*ast.UnionData)
		p.addUserType(ud.Name, decl)
	case ast.EnumDecl:
		ed := decl.Data.(*ast.EnumData)
		p.addUserType(ed.Name, decl)
	case ast.TupleDecl:
		td := decl.Data.(*ast.TupleData)
		p.addUserType(td.Name, decl)
	case ast.RangeDecl:
		rd := decl.Data.(*ast.RangeData)
		p.addUserType(rd.Name, decl)
	case ast.AliasDecl:
		ad := decl.Data.(*ast.AliasData)
		p.addUserType(ad.Name, decl)
	case ast.InterfaceDecl:
		id := decl.Data.(*ast.InterfaceData)
		p.mod.Interfaces[id.Name] = decl
	case ast.OpenStmt:
		p.mod.AddImport(decl.Data.(*ast.OpenData).Module)
	case ast.VarDecl:
		vd := decl.Data.(*ast.VarData)
		if err := p.mod.Global.Add(vd.Name, decl); err != nil {
			p.bag.Error(decl.Pos, "%s", err)
		}
	}
}

func (p *Parser) addUserType(name string, decl *ast.Node) {
	t := types.NewUserDefined(name, name, llvm.Type{}) // IR lowered lazily (§4.7).
	if err := p.mod.AddType(name, t); err != nil {
		p.bag.Error(decl.Pos, "%s", err)
	}
}

// ---------------------------
// ----- Token machinery -----
// ---------------------------

// advance consumes the lookahead token and fetches the next one. A DEDENT
// is "consumed" the instant it is returned, so the lexer's indent bookkeeping
// stays decremented in lockstep — see the lexer's checkIndent.
func (p *Parser) advance() Token {
	prev := p.cur
	p.cur = p.l.Next()
	if p.cur.Kind == DEDENT {
		p.l.DecrementIndentLevel()
	}
	return prev
}

func (p *Parser) expect(k Kind) Token {
	if p.cur.Kind != k {
		p.bag.Error(p.cur.Pos, "expected %s, got %s", k, p.cur.Kind)
	}
	return p.advance()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.bag.Error(p.cur.Pos, format, args...)
}

// ------------------------------
// ----- Declaration parsing -----
// ------------------------------

func (p *Parser) parseOpen() *ast.Node {
	pos := p.cur.Pos
	p.advance() // 'open'
	name := p.expect(IDENT)
	return &ast.Node{Kind: ast.OpenStmt, Pos: pos, Data: &ast.OpenData{Module: name.String()}}
}

// parseGenerics parses an optional '[' T, U, ... ']' generic type list.
func (p *Parser) parseGenerics() []*ast.GenericParam {
	if p.cur.Kind != LBRACK {
		return nil
	}
	p.advance()
	var gens []*ast.GenericParam
	for p.cur.Kind != RBRACK {
		tok := p.expect(IDENT)
		gens = append(gens, &ast.GenericParam{Name: tok.String(), Pos: tok.Pos})
		if p.cur.Kind == COMMA {
			p.advance()
		}
	}
	p.advance() // ']'
	return gens
}

// parseVarDecl parses '[_|IDENT] IDENT [":" type] ["=" expr]'. A leading
// '_' makes the parameter unlabeled; otherwise, if two identifiers appear in
// a row, the first is the public label and the second is the internal name;
// with only one identifier, it serves as both.
func (p *Parser) parseVarDecl() *ast.Node {
	pos := p.cur.Pos
	if p.cur.Kind == VAR || p.cur.Kind == LET {
		p.advance()
	}

	if p.cur.Kind == WILDCARD {
		p.advance()
		name := p.expect(IDENT).String()
		return p.finishVarDecl(pos, "", name)
	}

	label := ""
	name := p.expect(IDENT).String()
	if p.cur.Kind == IDENT {
		// Two identifiers in a row: the first was the label.
		label = name
		name = p.advance().String()
	}
	if label == "" {
		label = name
	}
	return p.finishVarDecl(pos, label, name)
}

// finishVarDecl parses the optional ': type' and '= expr' tail shared by
// both the labeled and unlabeled ('_') forms.
func (p *Parser) finishVarDecl(pos source.Position, label, name string) *ast.Node {
	vd := &ast.VarData{Name: name, Label: label}
	if p.cur.Kind == COLON {
		p.advance()
		vd.TypeName = p.parseTypeName()
	}
	if p.cur.Kind == ASSIGN {
		p.advance()
		vd.Init = p.parseExpr(precAssign)
	}
	return &ast.Node{Kind: ast.VarDecl, Pos: pos, Data: vd}
}

// parseTypeName parses a (possibly pointer/ref-modified) type identifier.
func (p *Parser) parseTypeName() string {
	switch p.cur.Kind {
	case STAR, AMP:
		p.advance()
		return p.parseTypeName()
	}
	name := p.expect(IDENT).String()
	if p.cur.Kind == LBRACK {
		// Instantiated generic type, e.g. List[i32].
		p.advance()
		for p.cur.Kind != RBRACK {
			name += "[" + p.parseTypeName() + "]"
			if p.cur.Kind == COMMA {
				p.advance()
			}
		}
		p.advance()
	}
	return name
}

// parseArgList parses '(' ((label? var_decl) (',' label? var_decl)* '...'?)? ')'.
func (p *Parser) parseArgList() (args []*ast.Node, variadic bool) {
	p.expect(LPAREN)
	for p.cur.Kind != RPAREN {
		if p.cur.Kind == ELLIPSIS {
			p.advance()
			variadic = true
			break
		}
		args = append(args, p.parseVarDecl())
		if p.cur.Kind == COMMA {
			p.advance()
		}
	}
	p.expect(RPAREN)
	return args, variadic
}

// parseFnDecl parses 'def' IDENT generics? arg_list ('->' type)? (':' block)?.
// A non-empty generics list makes this a GenericFunctionDecl (§3).
func (p *Parser) parseFnDecl() *ast.Node {
	pos := p.cur.Pos
	p.advance() // 'def'
	name := p.expect(IDENT).String()
	gens := p.parseGenerics()
	args, variadic := p.parseArgList()

	fd := &ast.FunctionData{Name: name, Args: args, Variadic: variadic, Generics: gens}
	if p.cur.Kind == ARROW {
		p.advance()
		fd.Return = &ast.GenericParam{Name: p.parseTypeName()}
	}

	kind := ast.FunctionDecl
	if len(gens) > 0 {
		kind = ast.GenericFunctionDecl
	}
	node := &ast.Node{Kind: kind, Pos: pos, Data: fd}

	if p.cur.Kind == COLON {
		p.advance()
		fd.Body = p.parseBlock(node)
	}
	return node
}

// parseIfaceDecl parses 'interface' IDENT generics? (':' IDENT generics?)? '=' INDENT fn_sig+ DEDENT.
func (p *Parser) parseIfaceDecl() *ast.Node {
	pos := p.cur.Pos
	p.advance() // 'interface'
	name := p.expect(IDENT).String()
	gens := p.parseGenerics()

	id := &ast.InterfaceData{Name: name, Generics: gens}
	if p.cur.Kind == COLON {
		p.advance()
		id.Extends = p.expect(IDENT).String()
		p.parseGenerics()
	}
	p.expect(ASSIGN)

	p.l.IncrementIndentLevel()
	p.expect(INDENT)
	for p.cur.Kind != DEDENT && p.cur.Kind != EOF {
		if p.cur.Kind == DEF {
			p.expect(DEF)
			fname := p.expect(IDENT).String()
			fgens := p.parseGenerics()
			fargs, variadic := p.parseArgList()
			sig := &ast.FunctionData{Name: fname, Args: fargs, Variadic: variadic, Generics: fgens}
			if p.cur.Kind == ARROW {
				p.advance()
				sig.Return = &ast.GenericParam{Name: p.parseTypeName()}
			}
			id.Signature = append(id.Signature, &ast.Node{Kind: ast.FunctionDecl, Data: sig})
		} else {
			p.errorf("expected function signature in interface body, got %s", p.cur.Kind)
			break
		}
	}
	p.expect(DEDENT)
	return &ast.Node{Kind: ast.InterfaceDecl, Pos: pos, Data: id}
}

// parseTypeDef parses 'type' IDENT generics? '=' (alias|struct|union|enum|tuple|range).
func (p *Parser) parseTypeDef() *ast.Node {
	pos := p.cur.Pos
	p.advance() // 'type'
	name := p.expect(IDENT).String()
	gens := p.parseGenerics()
	p.expect(ASSIGN)
	_ = gens // Generic type definitions share the same body grammar as plain ones.

	switch p.cur.Kind {
	case IDENT:
		// An identifier followed by ',' is a comma-separated enum member
		// list ('type Color = Red, Green, Blue'); otherwise it's a
		// 'type Meters = float' shaped alias.
		first := p.advance().String()
		if p.cur.Kind == COMMA {
			return p.parseEnum(pos, name, first)
		}
		target := first
		if p.cur.Kind == LBRACK {
			// Instantiated generic alias target, e.g. List[i32].
			p.advance()
			for p.cur.Kind != RBRACK {
				target += "[" + p.parseTypeName() + "]"
				if p.cur.Kind == COMMA {
					p.advance()
				}
			}
			p.advance()
		}
		return &ast.Node{Kind: ast.AliasDecl, Pos: pos, Data: &ast.AliasData{Name: name, Target: target}}
	case LBRACE:
		return p.parseStructOrUnion(pos, name)
	case LPAREN:
		return p.parseTuple(pos, name)
	default:
		low := p.parseExpr(precAssign)
		p.expect(DOTDOT)
		high := p.parseExpr(precAssign)
		return &ast.Node{Kind: ast.RangeDecl, Pos: pos, Data: &ast.RangeData{Name: name, Low: low, High: high}}
	}
}

func (p *Parser) parseStructOrUnion(pos source.Position, name string) *ast.Node {
	p.advance() // '{'
	var fields []*ast.Node
	for p.cur.Kind != RBRACE {
		fields = append(fields, p.parseVarDecl())
		if p.cur.Kind == COMMA {
			p.advance()
		}
	}
	p.advance() // '}'
	return &ast.Node{Kind: ast.StructDecl, Pos: pos, Data: &ast.StructData{Name: name, Fields: fields}}
}

// parseEnum parses the comma-separated identifier-list enum production
// 'type' IDENT '=' IDENT (',' IDENT)* ; first is the member already consumed
// by parseTypeDef's lookahead. Ordinals are 1-based and sequential in
// declaration order.
func (p *Parser) parseEnum(pos source.Position, name, first string) *ast.Node {
	ed := &ast.EnumData{Name: name, Values: make(map[string]int)}
	ordinal := 1
	ed.Members = append(ed.Members, first)
	ed.Values[first] = ordinal
	ordinal++
	for p.cur.Kind == COMMA {
		p.advance()
		member := p.expect(IDENT).String()
		ed.Members = append(ed.Members, member)
		ed.Values[member] = ordinal
		ordinal++
	}
	return &ast.Node{Kind: ast.EnumDecl, Pos: pos, Data: ed}
}

func (p *Parser) parseTuple(pos source.Position, name string) *ast.Node {
	p.advance() // '('
	var elems []string
	for p.cur.Kind != RPAREN {
		elems = append(elems, p.parseTypeName())
		if p.cur.Kind == COMMA {
			p.advance()
		}
	}
	p.advance() // ')'
	return &ast.Node{Kind: ast.TupleDecl, Pos: pos, Data: &ast.TupleData{Name: name, Elems: elems}}
}

// ------------------------------
// ----- Statement parsing -------
// ------------------------------

// parseBlock parses 'INDENT stmt (NEWLINE INDENT stmt)* DEDENT', bumping the
// lexer's indent level first per the lexer's parser-driven indentation
// contract.
func (p *Parser) parseBlock(owner *ast.Node) *ast.Node {
	pos := p.cur.Pos
	p.l.IncrementIndentLevel()
	p.expect(INDENT)

	data := &ast.BlockData{Owner: owner}
	block := &ast.Node{Kind: ast.BlockStmt, Pos: pos, Data: data}
	for p.cur.Kind != DEDENT && p.cur.Kind != EOF {
		stmt := p.parseStmt(block)
		if stmt != nil {
			data.Stmts = append(data.Stmts, stmt)
		}
	}
	p.expect(DEDENT)
	return block
}

func (p *Parser) parseStmt(block *ast.Node) *ast.Node {
	switch p.cur.Kind {
	case RETURN:
		return p.parseReturnStmt()
	case VAR, LET:
		return p.parseVarDecl()
	case OPEN:
		return p.parseOpen()
	default:
		return p.parseExpr(precAssign)
	}
}

func (p *Parser) parseReturnStmt() *ast.Node {
	pos := p.cur.Pos
	p.advance() // 'return'
	rd := &ast.ReturnData{}
	if p.cur.Kind != DEDENT && p.cur.Kind != EOF {
		rd.Value = p.parseExpr(precAssign)
	}
	return &ast.Node{Kind: ast.ReturnStmt, Pos: pos, Data: rd}
}

// -------------------------------
// ----- Pratt expression parser -----
// -------------------------------

// infixPrec returns the binding precedence of k as an infix/assign operator,
// or 0 if k never appears in that position.
func infixPrec(k Kind) int {
	switch k {
	case ASSIGN, PLUSASSIGN, MINUSASSIGN, STARASSIGN, SLASHASSIGN,
		ANDASSIGN, ORASSIGN, LSHIFTASSIGN, RSHIFTASSIGN:
		return precAssign
	case OROR:
		return precOrOr
	case ANDAND:
		return precAndAnd
	case EQ, NEQ:
		return precEq
	case LT, GT, LTE, GTE:
		return precCompare
	case PLUS, MINUS, PIPE:
		return precOp
	case STAR, LSHIFT, RSHIFT, AMP:
		return precBinary
	default:
		return 0
	}
}

func isAssignOp(k Kind) bool {
	switch k {
	case ASSIGN, PLUSASSIGN, MINUSASSIGN, STARASSIGN, SLASHASSIGN,
		ANDASSIGN, ORASSIGN, LSHIFTASSIGN, RSHIFTASSIGN:
		return true
	}
	return false
}

// parseExpr implements precedence-climbing: parse a prefix/primary term,
// then repeatedly fold in infix operators whose precedence is >= minPrec.
// All binary and assign operators are left-associative (§4.2 tie-break).
func (p *Parser) parseExpr(minPrec int) *ast.Node {
	left := p.parseUnary()
	for {
		prec := infixPrec(p.cur.Kind)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.advance()
		right := p.parseExpr(prec + 1)
		if isAssignOp(op.Kind) {
			left = &ast.Node{Kind: ast.AssignExpr, Pos: op.Pos, Data: &ast.AssignData{Op: op.String(), Target: left, Value: right}}
		} else {
			left = &ast.Node{Kind: ast.BinaryExpr, Pos: op.Pos, Data: &ast.BinaryData{Op: op.String(), Left: left, Right: right}}
		}
	}
}

// parseUnary parses the prefix operators (! * - & ++ --) before falling
// through to postfix/primary parsing.
func (p *Parser) parseUnary() *ast.Node {
	switch p.cur.Kind {
	case NOT, STAR, MINUS, AMP, INCR, DECR:
		op := p.advance()
		operand := p.parseUnary()
		return &ast.Node{Kind: ast.UnaryExpr, Pos: op.Pos, Data: &ast.UnaryData{Op: op.String(), Operand: operand}}
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

// parsePostfix folds in the Call tier: '.', '(', '[' applied to a primary.
func (p *Parser) parsePostfix(n *ast.Node) *ast.Node {
	for {
		switch p.cur.Kind {
		case DOT:
			parts := []string{}
			if q, ok := n.Data.(*ast.QualifiedIdentifierData); ok && n.Kind == ast.QualifiedIdentifierExpr {
				parts = q.Parts
			}
			for p.cur.Kind == DOT {
				p.advance()
				parts = append(parts, p.expect(IDENT).String())
			}
			n = &ast.Node{Kind: ast.QualifiedIdentifierExpr, Pos: n.Pos, Data: &ast.QualifiedIdentifierData{Parts: parts}}
		case LPAREN:
			n = p.parseCallExpr(n)
		case LBRACK:
			p.advance()
			idx := p.parseExpr(precAssign)
			p.expect(RBRACK)
			n = &ast.Node{Kind: ast.ArrayIndexExpr, Pos: n.Pos, Data: &ast.ArrayIndexData{Array: n, Index: idx}}
		default:
			return n
		}
	}
}

// parseCallExpr parses the argument list of a call, recognizing 'label: expr'
// arguments by a two-token lookahead (IDENT then ':').
func (p *Parser) parseCallExpr(callee *ast.Node) *ast.Node {
	pos := p.advance().Pos // '('
	var args []ast.CallArg
	for p.cur.Kind != RPAREN {
		label := ""
		if p.cur.Kind == IDENT {
			save := p.cur
			p.advance()
			if p.cur.Kind == COLON {
				p.advance()
				label = save.String()
			} else {
				// Not a label: treat save as the start of the argument expression.
				arg := p.parsePostfix(p.identNode(save))
				arg = p.continueBinary(arg)
				args = append(args, ast.CallArg{Expr: arg})
				if p.cur.Kind == COMMA {
					p.advance()
				}
				continue
			}
		}
		args = append(args, ast.CallArg{Expr: p.parseExpr(precAssign), Label: label})
		if p.cur.Kind == COMMA {
			p.advance()
		}
	}
	p.expect(RPAREN)
	return &ast.Node{Kind: ast.CallExpr, Pos: pos, Data: &ast.CallData{Callee: callee, Args: args}}
}

// identNode wraps an already-consumed IDENT token as a QualifiedIdentifierExpr
// of one part, used when parseCallExpr has to un-lookahead a non-label
// argument that starts with an identifier.
func (p *Parser) identNode(tok Token) *ast.Node {
	return &ast.Node{Kind: ast.QualifiedIdentifierExpr, Pos: tok.Pos, Data: &ast.QualifiedIdentifierData{Parts: []string{tok.String()}}}
}

// continueBinary folds in any trailing infix operators after a manually
// constructed left operand, picking up exactly where parseExpr's loop would.
func (p *Parser) continueBinary(left *ast.Node) *ast.Node {
	for {
		prec := infixPrec(p.cur.Kind)
		if prec == 0 {
			return left
		}
		op := p.advance()
		right := p.parseExpr(prec + 1)
		if isAssignOp(op.Kind) {
			left = &ast.Node{Kind: ast.AssignExpr, Pos: op.Pos, Data: &ast.AssignData{Op: op.String(), Target: left, Value: right}}
		} else {
			left = &ast.Node{Kind: ast.BinaryExpr, Pos: op.Pos, Data: &ast.BinaryData{Op: op.String(), Left: left, Right: right}}
		}
	}
}

// parsePrimary parses literals, identifiers, parenthesized groups, array
// literals, struct-init expressions, and the if/for/while keyword forms.
func (p *Parser) parsePrimary() *ast.Node {
	tok := p.cur
	switch tok.Kind {
	case INT:
		p.advance()
		return &ast.Node{Kind: ast.LiteralExpr, Pos: tok.Pos, Data: &ast.LiteralData{Text: tok.String(), Kind: ast.IntLiteral}}
	case CHAR:
		p.advance()
		return &ast.Node{Kind: ast.LiteralExpr, Pos: tok.Pos, Data: &ast.LiteralData{Text: tok.String(), Kind: ast.CharLiteral}}
	case STRING:
		p.advance()
		return &ast.Node{Kind: ast.LiteralExpr, Pos: tok.Pos, Data: &ast.LiteralData{Text: tok.String(), Kind: ast.StringLiteral}}
	case NIL:
		p.advance()
		return &ast.Node{Kind: ast.LiteralExpr, Pos: tok.Pos, Data: &ast.LiteralData{Kind: ast.NilLiteral}}
	case IDENT:
		return p.parseIdentOrStructInit()
	case LPAREN:
		p.advance()
		n := p.parseExpr(precAssign)
		p.expect(RPAREN)
		return n
	case LBRACK:
		return p.parseArrayExpr()
	case IF:
		return p.parseIfExpr()
	case FOR:
		return p.parseForExpr()
	case WHILE:
		return p.parseWhileExpr()
	case ELSE:
		p.errorf("'else' without a preceding 'if'")
		p.advance()
		return nil
	default:
		p.errorf("unexpected token %s in expression", tok.Kind)
		p.advance()
		return nil
	}
}

// parseIdentOrStructInit parses a bare identifier, or, if followed by '{',
// a struct-init expression: 'IDENT' '{' expr (',' expr)* '}' — a positional
// list matched against the struct's fields in declaration order.
func (p *Parser) parseIdentOrStructInit() *ast.Node {
	tok := p.advance()
	n := p.identNode(tok)
	if p.cur.Kind == LBRACE {
		p.advance()
		var fields []*ast.Node
		for p.cur.Kind != RBRACE {
			fields = append(fields, p.parseExpr(precAssign))
			if p.cur.Kind == COMMA {
				p.advance()
			}
		}
		p.advance() // '}'
		return &ast.Node{Kind: ast.StructInitExpr, Pos: tok.Pos, Data: &ast.StructInitData{TypeName: tok.String(), Fields: fields}}
	}
	return n
}

// parseArrayExpr parses '[' expr (',' expr)* ']'. Indentation-sensitivity is
// suspended inside the brackets so multi-line arrays are legal (§4.2).
func (p *Parser) parseArrayExpr() *ast.Node {
	pos := p.cur.Pos
	wasSensitive := p.l.indentSensitive
	p.l.SetFlag(IndentationSensitive, false)
	defer p.l.SetFlag(IndentationSensitive, wasSensitive)

	p.advance() // '['
	ad := &ast.ArrayData{}
	for p.cur.Kind != RBRACK {
		ad.Elems = append(ad.Elems, p.parseExpr(precAssign))
		if p.cur.Kind == COMMA {
			p.advance()
		}
	}
	p.advance() // ']'
	return &ast.Node{Kind: ast.ArrayExpr, Pos: pos, Data: ad}
}

// parseIfExpr parses 'if' expr ':' block and, when 'else' directly follows the
// then-block, the 'else' block or 'else if' chain, attaching it to the IfExpr it
// builds. It also records that IfExpr as lastIf.
func (p *Parser) parseIfExpr() *ast.Node {
	pos := p.cur.Pos
	p.advance() // 'if'
	cond := p.parseExpr(precAssign)
	p.expect(COLON)
	then := p.parseBlock(nil)

	n := &ast.Node{Kind: ast.IfExpr, Pos: pos, Data: &ast.IfData{Cond: cond, Then: then}}
	p.lastIf = n

	if p.cur.Kind == ELSE {
		p.advance()
		data := n.Data.(*ast.IfData)
		if p.cur.Kind == IF {
			data.Else = p.parseIfExpr()
		} else {
			p.expect(COLON)
			data.Else = p.parseBlock(nil)
		}
	}
	return n
}

// parseForExpr parses 'for' IDENT 'in' (array-ident | range) ':' block.
func (p *Parser) parseForExpr() *ast.Node {
	pos := p.cur.Pos
	p.advance() // 'for'
	v := p.expect(IDENT).String()
	p.expect(IN)
	iter := p.parseExpr(precOp) // Stop below '..' so RangeExpr can claim it.
	if p.cur.Kind == DOTDOT {
		p.advance()
		high := p.parseExpr(precOp)
		iter = &ast.Node{Kind: ast.RangeExpr, Pos: iter.Pos, Data: &ast.RangeData{Low: iter, High: high}}
	}
	p.expect(COLON)
	body := p.parseBlock(nil)
	return &ast.Node{Kind: ast.ForExpr, Pos: pos, Data: &ast.ForData{Var: v, Iter: iter, Body: body}}
}

// parseWhileExpr parses 'while' expr ':' block.
func (p *Parser) parseWhileExpr() *ast.Node {
	pos := p.cur.Pos
	p.advance() // 'while'
	cond := p.parseExpr(precAssign)
	p.expect(COLON)
	body := p.parseBlock(nil)
	return &ast.Node{Kind: ast.WhileExpr, Pos: pos, Data: &ast.WhileData{Cond: cond, Body: body}}
}

// parseIntLiteral parses the decimal text of an INT token. Nothing in the
// module calls it: the parser only records the text, and irgen converts it
// with fmt.Sscanf.
func parseIntLiteral(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}
