package lexer

import "github.com/aurum-edmund/boltc/internal/position"

// Token is (kind, span, text): the raw lexeme is carried verbatim so that
// the parser's type-capture text recomposition can round-trip spelling.
type Token struct {
	Kind Kind
	Span position.Span
	Text string
}

// Kind is the closed set of token categories the lexer produces.
type Kind int

const (
	EOF Kind = iota
	Identifier
	IntegerLiteral
	StringLiteral

	// Keywords.
	KeywordPackage
	KeywordModule
	KeywordImport
	KeywordBlueprint
	KeywordFunction
	KeywordPublic
	KeywordLink
	KeywordExternal

	// Punctuation: single-character.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	LAngle
	RAngle
	Comma
	Semicolon
	Colon
	Dot
	DoubleColon
	Equals
	Plus
	Minus
	Star
	Slash
	Ampersand
	Bang

	// Punctuation: two-character.
	Arrow    // ->
	EqEq     // ==
	NotEq    // !=
	LtEq     // <=
	GtEq     // >=
	PlusPlus // ++
	MinusMinus
	PlusEq  // +=
	MinusEq // -=
	AndAnd  // &&
)

var kindNames = map[Kind]string{
	EOF:            "EOF",
	Identifier:     "identifier",
	IntegerLiteral: "integer-literal",
	StringLiteral:  "string-literal",

	KeywordPackage:   "package",
	KeywordModule:    "module",
	KeywordImport:    "import",
	KeywordBlueprint: "blueprint",
	KeywordFunction:  "function",
	KeywordPublic:    "public",
	KeywordLink:      "link",
	KeywordExternal:  "external",

	LParen: "(", RParen: ")",
	LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]",
	LAngle: "<", RAngle: ">",
	Comma: ",", Semicolon: ";", Colon: ":", Dot: ".", DoubleColon: "::",
	Equals: "=", Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Ampersand: "&", Bang: "!",

	Arrow: "->", EqEq: "==", NotEq: "!=", LtEq: "<=", GtEq: ">=",
	PlusPlus: "++", MinusMinus: "--", PlusEq: "+=", MinusEq: "-=", AndAnd: "&&",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// keywords maps the exact surface spelling to its keyword Kind. Lookup is
// by exact match on this closed list; anything else lexes as Identifier.
var keywords = map[string]Kind{
	"package":   KeywordPackage,
	"module":    KeywordModule,
	"import":    KeywordImport,
	"blueprint": KeywordBlueprint,
	"function":  KeywordFunction,
	"public":    KeywordPublic,
	"link":      KeywordLink,
	"external":  KeywordExternal,
}

// IsModifierKeyword reports whether kind is one of the modifier keywords
// (public, link, external) legal before a declaration.
func IsModifierKeyword(kind Kind) bool {
	return kind == KeywordPublic || kind == KeywordLink || kind == KeywordExternal
}
