// Package parser turns a token stream into a compilation-unit AST. It
// always returns a structurally valid tree: a missing subterm is
// substituted with an empty or invalid placeholder and the problem is
// recorded as a diagnostic rather than aborting the parse.
package parser

import (
	"strings"

	"github.com/aurum-edmund/boltc/internal/ast"
	"github.com/aurum-edmund/boltc/internal/diagnostic"
	"github.com/aurum-edmund/boltc/internal/lexer"
	"github.com/aurum-edmund/boltc/internal/position"
)

// Parser consumes a fixed token slice (always EOF-terminated) and produces
// an ast.Module plus accumulated diagnostics.
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Bag
}

// New constructs a Parser over a token stream produced by lexer.Lex.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens, diags: diagnostic.NewBag()}
}

// Parse lexes src under filename and parses the resulting token stream.
func Parse(filename, src string) (*ast.Module, []diagnostic.Diagnostic) {
	tokens, lexDiags := lexer.Lex(filename, src)

	p := New(tokens)
	mod := p.ParseModule()

	diags := append(append([]diagnostic.Diagnostic{}, lexDiags...), p.diags.Diagnostics()...)

	return mod, diags
}

func (p *Parser) current() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) lookAhead(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[idx]
}

func (p *Parser) isAtEnd() bool {
	return p.current().Kind == lexer.EOF
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if !p.isAtEnd() {
		p.pos++
	}

	return tok
}

func (p *Parser) check(kind lexer.Kind) bool {
	return p.current().Kind == kind
}

func (p *Parser) match(kind lexer.Kind) (lexer.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}

	return lexer.Token{}, false
}

// expect consumes a token of kind, or emits code/message at the current
// position and returns the current (unconsumed) token as a placeholder.
func (p *Parser) expect(kind lexer.Kind, code, message string) lexer.Token {
	if tok, ok := p.match(kind); ok {
		return tok
	}

	p.diags.Errorf(code, p.current().Span, "%s", message)

	return p.current()
}

func mergeSpans(a, b position.Span) position.Span {
	return a.Union(b)
}

// ParseModule parses an entire compilation unit: the module header, then
// the top-level declaration loop.
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{}

	begin := p.current().Span

	p.parseModuleHeader(mod)

	for !p.isAtEnd() {
		p.parseTopLevel(mod)
	}

	mod.Span = mergeSpans(begin, p.tokens[len(p.tokens)-1].Span)

	return mod
}

func (p *Parser) parseModuleHeader(mod *ast.Module) {
	if _, ok := p.match(lexer.KeywordPackage); ok {
		mod.PackageName = p.parseQualifiedName()
		mod.HasPackage = true
		p.expect(lexer.Semicolon, "BOLT-E2102", "expected ';' after package declaration")
	} else {
		p.diags.Errorf("BOLT-E2100", p.current().Span, "expected 'package' declaration")
	}

	if _, ok := p.match(lexer.KeywordModule); ok {
		mod.ModuleName = p.parseQualifiedName()
		mod.HasModuleName = true
		p.expect(lexer.Semicolon, "BOLT-E2105", "expected ';' after module declaration")
	} else {
		p.diags.Errorf("BOLT-E2103", p.current().Span, "expected 'module' declaration")
	}
}

// parseQualifiedName parses identifier (. identifier)*, carrying the dots
// into Text so the original spelling round-trips.
func (p *Parser) parseQualifiedName() ast.QualifiedName {
	begin := p.current().Span

	if !p.check(lexer.Identifier) {
		p.diags.Errorf("BOLT-E2106", p.current().Span, "expected identifier")

		return ast.QualifiedName{Span: begin}
	}

	var components []string

	var text strings.Builder

	first := p.advance()
	components = append(components, first.Text)
	text.WriteString(first.Text)

	end := first.Span

	for p.check(lexer.Dot) {
		p.advance()
		text.WriteByte('.')

		if !p.check(lexer.Identifier) {
			p.diags.Errorf("BOLT-E2106", p.current().Span, "expected identifier after '.'")

			break
		}

		part := p.advance()
		components = append(components, part.Text)
		text.WriteString(part.Text)
		end = part.Span
	}

	return ast.QualifiedName{Components: components, Text: text.String(), Span: mergeSpans(begin, end)}
}

// parseTopLevel collects optional attributes, optional modifiers, then
// dispatches on the next keyword, per the top-level declaration loop.
func (p *Parser) parseTopLevel(mod *ast.Module) {
	begin := p.current().Span

	attrs := p.parseAttributes()
	mods := p.parseModifiers()

	switch {
	case p.check(lexer.KeywordImport):
		mod.Imports = append(mod.Imports, p.parseImport(attrs, mods, begin))
	case p.check(lexer.KeywordBlueprint):
		mod.Blueprints = append(mod.Blueprints, p.parseBlueprint(attrs, mods, begin))
	case p.isAtEnd():
		// trailing attributes/modifiers with nothing to attach to; nothing
		// further to parse.
	default:
		mod.Functions = append(mod.Functions, p.parseFunction(attrs, mods, begin))
	}
}

func (p *Parser) parseImport(attrs []ast.Attribute, mods []string, begin position.Span) ast.Import {
	if len(attrs) > 0 {
		p.diags.Errorf("BOLT-E2108", begin, "attributes are not allowed on import declarations")
	}

	if len(mods) > 0 {
		p.diags.Errorf("BOLT-E2109", begin, "modifiers are not allowed on import declarations")
	}

	p.advance() // 'import'

	path := p.parseQualifiedName()
	if path.Text == "" {
		p.diags.Errorf("BOLT-E2110", p.current().Span, "expected qualified module path after 'import'")
	}

	p.match(lexer.Semicolon)

	return ast.Import{Attributes: attrs, Modifiers: mods, Path: path, Span: mergeSpans(begin, path.Span)}
}

// parseAttributes collects zero or more repeatable `[ name ( args )? ]`
// decorations.
func (p *Parser) parseAttributes() []ast.Attribute {
	var attrs []ast.Attribute

	for p.check(lexer.LBracket) {
		attrs = append(attrs, p.parseAttribute())
	}

	return attrs
}

func (p *Parser) parseAttribute() ast.Attribute {
	begin := p.advance().Span // '['

	if !p.check(lexer.Identifier) {
		p.diags.Errorf("BOLT-E2122", p.current().Span, "expected attribute name")

		end := p.expect(lexer.RBracket, "BOLT-E2107", "expected ']' to close attribute").Span

		return ast.Attribute{Span: mergeSpans(begin, end)}
	}

	name := p.advance()

	var args []ast.AttributeArgument

	if p.check(lexer.LParen) {
		p.advance()

		for !p.check(lexer.RParen) && !p.isAtEnd() {
			args = append(args, p.parseAttributeArgument())

			if !p.check(lexer.RParen) {
				p.match(lexer.Comma)
			}
		}

		p.expect(lexer.RParen, "BOLT-E2123", "expected ')' to close attribute arguments")
	}

	end := p.expect(lexer.RBracket, "BOLT-E2107", "expected ']' to close attribute")

	return ast.Attribute{Name: name.Text, Arguments: args, Span: mergeSpans(begin, end.Span)}
}

// parseAttributeArgument parses `name=value` or a bare positional value.
func (p *Parser) parseAttributeArgument() ast.AttributeArgument {
	begin := p.current().Span

	if p.check(lexer.Identifier) && p.lookAhead(1).Kind == lexer.Equals {
		name := p.advance()
		p.advance() // '='
		value := p.advance()

		return ast.AttributeArgument{Name: name.Text, Value: value.Text, Span: mergeSpans(begin, value.Span)}
	}

	value := p.advance()

	return ast.AttributeArgument{Value: value.Text, Span: mergeSpans(begin, value.Span)}
}

// parseModifiers collects zero or more of the modifier keywords in source
// order.
func (p *Parser) parseModifiers() []string {
	var mods []string

	for lexer.IsModifierKeyword(p.current().Kind) {
		mods = append(mods, p.advance().Text)
	}

	return mods
}

// isPunctuationKind reports whether the punctuation-recomposition
// algorithm should treat the previous token as "punctuation" (no space is
// inserted before a punctuation token, nor after one).
func isPunctuationKind(k lexer.Kind) bool {
	switch k {
	case lexer.Identifier, lexer.IntegerLiteral, lexer.StringLiteral,
		lexer.KeywordPackage, lexer.KeywordModule, lexer.KeywordImport,
		lexer.KeywordBlueprint, lexer.KeywordFunction, lexer.KeywordPublic,
		lexer.KeywordLink, lexer.KeywordExternal:
		return false
	default:
		return true
	}
}

// recomposeType renders consumed type tokens back into text: a space is
// inserted between two adjacent non-punctuation tokens, never between
// punctuation-adjacent tokens.
func recomposeType(tokens []lexer.Token) string {
	var b strings.Builder

	for i, tok := range tokens {
		if i > 0 {
			prevPunct := isPunctuationKind(tokens[i-1].Kind)
			curPunct := isPunctuationKind(tok.Kind)

			if !prevPunct && !curPunct {
				b.WriteByte(' ')
			}
		}

		b.WriteString(tok.Text)
	}

	return b.String()
}

// parseTypeUntil consumes tokens composing a type up to (not including) a
// token in terminators, tracking angle-bracket depth so generic-argument
// commas and terminators inside `< >` are not mistaken for top-level ones.
func (p *Parser) parseTypeUntil(terminators map[lexer.Kind]bool) ast.TypeCapture {
	begin := p.current().Span

	var consumed []lexer.Token

	depth := 0

	for !p.isAtEnd() {
		k := p.current().Kind

		if depth == 0 && terminators[k] {
			break
		}

		if k == lexer.LAngle {
			depth++
		} else if k == lexer.RAngle && depth > 0 {
			depth--
		}

		consumed = append(consumed, p.advance())
	}

	if len(consumed) == 0 {
		return ast.TypeCapture{Span: begin, Valid: false}
	}

	return ast.TypeCapture{
		Text:  recomposeType(consumed),
		Span:  mergeSpans(begin, consumed[len(consumed)-1].Span),
		Valid: true,
	}
}

// parseTypeBeforeName consumes a type capture up to (not including) the
// next identifier that is itself followed by one of `, ) ; } = [` at
// angle-depth zero — the heuristic boundary between a type and the
// parameter/field name that follows it.
func (p *Parser) parseTypeBeforeName() ast.TypeCapture {
	begin := p.current().Span

	var consumed []lexer.Token

	depth := 0

	nameBoundary := map[lexer.Kind]bool{
		lexer.Comma: true, lexer.RParen: true, lexer.Semicolon: true,
		lexer.RBrace: true, lexer.Equals: true, lexer.LBracket: true,
	}

	for !p.isAtEnd() {
		k := p.current().Kind

		if depth == 0 && k == lexer.Identifier && nameBoundary[p.lookAhead(1).Kind] {
			break
		}

		if k == lexer.LAngle {
			depth++
		} else if k == lexer.RAngle && depth > 0 {
			depth--
		}

		consumed = append(consumed, p.advance())
	}

	if len(consumed) == 0 {
		return ast.TypeCapture{Span: begin, Valid: false}
	}

	return ast.TypeCapture{
		Text:  recomposeType(consumed),
		Span:  mergeSpans(begin, consumed[len(consumed)-1].Span),
		Valid: true,
	}
}
