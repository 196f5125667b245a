package frontend

// reservedItem binds a reserved word's text to the Kind the lexer should
// emit when it is scanned as an identifier.
type reservedItem struct {
	val string
	typ Kind
}

// rw contains the set of all reserved north keywords, indexed by word
// length: rw[n-1] holds every keyword of length n. Checking length first
// before scanning the short per-length list is faster than hashing for a
// table this small.
var rw = [...][]reservedItem{
	// One-gram.
	{},
	// Two-grams.
	{
		{val: "if", typ: IF},
		{val: "in", typ: IN},
	},
	// Three-grams.
	{
		{val: "def", typ: DEF},
		{val: "nil", typ: NIL},
		{val: "let", typ: LET},
		{val: "for", typ: FOR},
		{val: "var", typ: VAR},
	},
	// Four-grams.
	{
		{val: "open", typ: OPEN},
		{val: "type", typ: TYPE},
		{val: "else", typ: ELSE},
	},
	// Five-grams.
	{
		{val: "while", typ: WHILE},
	},
	// Six-grams.
	{
		{val: "switch", typ: SWITCH},
		{val: "return", typ: RETURN},
	},
	// Seven-grams.
	{},
	// Eight-grams.
	{},
	// Nine-grams.
	{
		{val: "interface", typ: INTERFACE},
	},
}

// isKeyword returns true if s is a reserved north keyword. On true the
// associated Kind is also returned; on false IDENT is returned.
func isKeyword(s string) (bool, Kind) {
	if len(s) == 0 || len(s) > len(rw) {
		return false, IDENT
	}
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, IDENT
}
