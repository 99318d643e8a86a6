package parser

import (
	"github.com/aurum-edmund/boltc/internal/ast"
	"github.com/aurum-edmund/boltc/internal/lexer"
	"github.com/aurum-edmund/boltc/internal/position"
)

// functionTerminators is the terminator set for a top-level type-first
// declaration's leading type capture: it runs up to the 'function' keyword.
var functionTerminators = map[lexer.Kind]bool{lexer.KeywordFunction: true}

// parseFunction parses a type-first function declaration: a leading return
// type capture, 'function', the name, a parameter list, an optional legacy
// `-> returnType` arrow form, and a brace-skipped body.
func (p *Parser) parseFunction(attrs []ast.Attribute, mods []string, begin position.Span) ast.Function {
	returnType := p.parseTypeUntil(functionTerminators)

	p.expect(lexer.KeywordFunction, "BOLT-E2114", "expected 'function' keyword")

	var name string

	if p.check(lexer.Identifier) {
		name = p.advance().Text
	} else {
		p.diags.Errorf("BOLT-E2115", p.current().Span, "expected function name")
	}

	p.expect(lexer.LParen, "BOLT-E2116", "expected '(' to begin parameter list")

	var params []ast.Parameter

	for !p.check(lexer.RParen) && !p.isAtEnd() {
		params = append(params, p.parseParameter())

		if !p.check(lexer.RParen) {
			p.match(lexer.Comma)
		}
	}

	p.expect(lexer.RParen, "BOLT-E2117", "expected ')' to close parameter list")

	fn := ast.Function{
		Attributes: attrs,
		Modifiers:  mods,
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
	}

	if _, ok := p.match(lexer.Arrow); ok {
		legacy := p.parseTypeUntil(map[lexer.Kind]bool{lexer.LBrace: true, lexer.Semicolon: true})
		p.diags.Errorf("BOLT-E2118", legacy.Span, "legacy '-> returnType' syntax is diagnosed but accepted")
		fn.LegacyReturn = &legacy
		fn.HasLegacyArrow = true
	}

	end := p.skipBody()

	fn.Span = mergeSpans(begin, end)

	return fn
}

// skipBody consumes a brace-delimited body by brace counting; its content
// is not parsed at this stage. Returns the span of the closing brace (or
// the current position if the body is missing or unterminated).
func (p *Parser) skipBody() position.Span {
	if !p.check(lexer.LBrace) {
		p.diags.Errorf("BOLT-E2119", p.current().Span, "expected '{' to begin function body")

		return p.current().Span
	}

	open := p.advance()
	depth := 1

	for depth > 0 {
		if p.isAtEnd() {
			p.diags.Errorf("BOLT-E2120", open.Span, "unterminated function body")

			return p.current().Span
		}

		switch p.current().Kind {
		case lexer.LBrace:
			depth++
		case lexer.RBrace:
			depth--
		}

		tok := p.advance()

		if depth == 0 {
			return tok.Span
		}
	}

	return open.Span
}

// parseParameter parses one parameter in either type-first or legacy
// `name : type` order.
func (p *Parser) parseParameter() ast.Parameter {
	begin := p.current().Span

	if p.check(lexer.Identifier) && p.lookAhead(1).Kind == lexer.Colon {
		name := p.advance()
		p.advance() // ':'
		typ := p.parseTypeUntil(map[lexer.Kind]bool{lexer.Comma: true, lexer.RParen: true})

		p.diags.Errorf("BOLT-E2121", begin, "legacy 'name : type' syntax is diagnosed but accepted")

		return ast.Parameter{Name: name.Text, Type: typ, LegacyForm: true, Span: mergeSpans(begin, typ.Span)}
	}

	typ := p.parseTypeBeforeName()

	var name string

	if p.check(lexer.Identifier) {
		name = p.advance().Text
	} else {
		p.diags.Errorf("BOLT-E2106", p.current().Span, "expected parameter name")
	}

	return ast.Parameter{Name: name, Type: typ, Span: mergeSpans(begin, typ.Span)}
}

// parseBlueprint parses `blueprint <name> { field* }`.
func (p *Parser) parseBlueprint(attrs []ast.Attribute, mods []string, begin position.Span) ast.Blueprint {
	p.advance() // 'blueprint'

	var name string

	if p.check(lexer.Identifier) {
		name = p.advance().Text
	} else {
		p.diags.Errorf("BOLT-E2111", p.current().Span, "expected blueprint name")
	}

	p.expect(lexer.LBrace, "BOLT-E2112", "expected '{' to begin blueprint body")

	var fields []ast.Field

	for !p.check(lexer.RBrace) && !p.isAtEnd() {
		fields = append(fields, p.parseField())
	}

	end := p.expect(lexer.RBrace, "BOLT-E2113", "expected '}' to close blueprint body")

	return ast.Blueprint{
		Attributes: attrs,
		Modifiers:  mods,
		Name:       name,
		Fields:     fields,
		Span:       mergeSpans(begin, end.Span),
	}
}

// parseField parses one blueprint field: optional attributes, a type-first
// (or legacy `name : type`) declaration, terminated by an optional ';'.
func (p *Parser) parseField() ast.Field {
	begin := p.current().Span

	attrs := p.parseAttributes()

	if p.check(lexer.Identifier) && p.lookAhead(1).Kind == lexer.Colon {
		name := p.advance()
		p.advance() // ':'
		typ := p.parseTypeUntil(map[lexer.Kind]bool{lexer.Semicolon: true, lexer.RBrace: true})

		p.diags.Errorf("BOLT-E2121", begin, "legacy 'name : type' syntax is diagnosed but accepted")
		p.match(lexer.Semicolon)

		return ast.Field{Attributes: attrs, Name: name.Text, Type: typ, Span: mergeSpans(begin, typ.Span)}
	}

	typ := p.parseTypeBeforeName()

	var name string

	if p.check(lexer.Identifier) {
		name = p.advance().Text
	} else {
		p.diags.Errorf("BOLT-E2106", p.current().Span, "expected field name")
	}

	end := typ.Span
	if tok, ok := p.match(lexer.Semicolon); ok {
		end = tok.Span
	}

	return ast.Field{Attributes: attrs, Name: name, Type: typ, Span: mergeSpans(begin, end)}
}
