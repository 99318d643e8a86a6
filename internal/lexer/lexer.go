// Package lexer turns a UTF-8 source buffer into a token stream plus a
// diagnostic list. Scanning is linear, single pass, and never backtracks.
package lexer

import (
	"strings"

	"github.com/aurum-edmund/boltc/internal/diagnostic"
	"github.com/aurum-edmund/boltc/internal/position"
)

// Lexer scans one source file. The module name is carried only for
// diagnostic labelling; it has no effect on tokenisation.
type Lexer struct {
	filename string
	src      string
	pos      int
	line     int
	column   int

	tokens []Token
	diags  *diagnostic.Bag
}

// New constructs a Lexer over src, labelling positions with filename.
func New(filename, src string) *Lexer {
	return &Lexer{
		filename: filename,
		src:      src,
		pos:      0,
		line:     1,
		column:   1,
		diags:    diagnostic.NewBag(),
	}
}

// Lex runs the full scan and returns the token stream (always terminated by
// a single EOF token) together with the accumulated diagnostics.
func Lex(filename, src string) ([]Token, []diagnostic.Diagnostic) {
	l := New(filename, src)
	l.run()

	return l.tokens, l.diags.Diagnostics()
}

func (l *Lexer) here() position.Position {
	return position.Position{Filename: l.filename, Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}

	return l.src[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}

	return l.src[l.pos+1]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++

	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	return c
}

func (l *Lexer) match(c byte) bool {
	if l.isAtEnd() || l.src[l.pos] != c {
		return false
	}

	l.advance()

	return true
}

func (l *Lexer) emit(kind Kind, begin position.Position, text string) {
	l.tokens = append(l.tokens, Token{Kind: kind, Span: position.Span{Start: begin, End: l.here()}, Text: text})
}

func (l *Lexer) run() {
	for !l.isAtEnd() {
		l.skipWhitespaceAndComments()

		if l.isAtEnd() {
			break
		}

		begin := l.here()
		c := l.peek()

		switch {
		case isAlpha(c), c == '~' && isAlpha(l.peekNext()):
			l.lexIdentifierOrKeyword(begin)
		case isDigit(c):
			l.lexNumber(begin)
		case c == '"':
			l.lexString(begin)
		default:
			l.lexPunctuation(begin)
		}
	}

	l.tokens = append(l.tokens, Token{Kind: EOF, Span: position.Span{Start: l.here(), End: l.here()}})
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		c := l.peek()

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekNext() == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekNext() == '*':
			begin := l.here()
			l.advance()
			l.advance()

			closed := false

			for !l.isAtEnd() {
				if l.peek() == '*' && l.peekNext() == '/' {
					l.advance()
					l.advance()

					closed = true

					break
				}

				l.advance()
			}

			if !closed {
				l.diags.Errorf("BOLT-E2003", position.Span{Start: begin, End: l.here()}, "unterminated block comment")
			}
		default:
			return
		}
	}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

// lexIdentifierOrKeyword consumes identifier-start followed by
// identifier-part characters. A '~' directly before a letter is taken as
// the first character, so a destructor name such as `~Point` lexes as one
// identifier token. `_` and `-` are included in the consumed
// part so the original spelling round-trips into the token text; their
// presence is reported as BOLT-E2001 without rejecting the token.
func (l *Lexer) lexIdentifierOrKeyword(begin position.Position) {
	start := l.pos

	l.advance()

	for !l.isAtEnd() {
		c := l.peek()
		if isAlnum(c) || c == '_' || c == '-' {
			l.advance()

			continue
		}

		break
	}

	text := l.src[start:l.pos]

	if strings.ContainsAny(text, "_-") {
		l.diags.Errorf("BOLT-E2001", position.Span{Start: begin, End: l.here()}, "identifier %q must not contain '_' or '-'", text)
	}

	if kind, ok := keywords[text]; ok {
		l.emit(kind, begin, text)

		return
	}

	l.emit(Identifier, begin, text)
}

// lexNumber accepts decimal, 0x hex, and 0b binary integer literals.
func (l *Lexer) lexNumber(begin position.Position) {
	start := l.pos

	if l.peek() == '0' && (l.peekNext() == 'x' || l.peekNext() == 'X') {
		l.advance()
		l.advance()

		for !l.isAtEnd() && isHexDigit(l.peek()) {
			l.advance()
		}
	} else if l.peek() == '0' && (l.peekNext() == 'b' || l.peekNext() == 'B') {
		l.advance()
		l.advance()

		for !l.isAtEnd() && (l.peek() == '0' || l.peek() == '1') {
			l.advance()
		}
	} else {
		for !l.isAtEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}

	l.emit(IntegerLiteral, begin, l.src[start:l.pos])
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// lexString consumes a "..."-delimited string. A backslash escapes the next
// character without interpreting it. Reaching EOF before the closing quote
// is BOLT-E2002.
func (l *Lexer) lexString(begin position.Position) {
	l.advance() // opening quote

	start := l.pos

	for {
		if l.isAtEnd() {
			l.diags.Errorf("BOLT-E2002", position.Span{Start: begin, End: l.here()}, "unterminated string literal")
			l.emit(StringLiteral, begin, l.src[start:l.pos])

			return
		}

		c := l.peek()

		if c == '"' {
			text := l.src[start:l.pos]
			l.advance()
			l.emit(StringLiteral, begin, text)

			return
		}

		if c == '\\' {
			l.advance()

			if !l.isAtEnd() {
				l.advance()
			}

			continue
		}

		l.advance()
	}
}

// twoCharPunctuation maps a lead byte plus follow byte to a two-character
// token kind.
var twoCharPunctuation = map[[2]byte]Kind{
	{'-', '>'}: Arrow,
	{'=', '='}: EqEq,
	{'!', '='}: NotEq,
	{'<', '='}: LtEq,
	{'>', '='}: GtEq,
	{'+', '+'}: PlusPlus,
	{'-', '-'}: MinusMinus,
	{'+', '='}: PlusEq,
	{'-', '='}: MinusEq,
	{'&', '&'}: AndAnd,
}

var singleCharPunctuation = map[byte]Kind{
	'(': LParen, ')': RParen,
	'{': LBrace, '}': RBrace,
	'[': LBracket, ']': RBracket,
	'<': LAngle, '>': RAngle,
	',': Comma, ';': Semicolon, '.': Dot,
	'=': Equals, '+': Plus, '-': Minus, '*': Star, '/': Slash,
	'&': Ampersand, '!': Bang,
}

func (l *Lexer) lexPunctuation(begin position.Position) {
	c := l.peek()
	n := l.peekNext()

	if kind, ok := twoCharPunctuation[[2]byte{c, n}]; ok {
		l.advance()
		l.advance()
		l.emit(kind, begin, string([]byte{c, n}))

		return
	}

	if c == ':' {
		l.advance()

		if l.peek() == ':' {
			l.advance()
			l.emit(DoubleColon, begin, "::")

			return
		}

		l.emit(Colon, begin, ":")

		return
	}

	if kind, ok := singleCharPunctuation[c]; ok {
		l.advance()
		l.emit(kind, begin, string(c))

		return
	}

	l.advance()
	l.diags.Errorf("BOLT-E2000", position.Span{Start: begin, End: l.here()}, "unexpected character %q", string(c))
}
