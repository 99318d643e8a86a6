package hir

import (
	"strconv"
	"strings"

	"github.com/aurum-edmund/boltc/internal/diagnostic"
	"github.com/aurum-edmund/boltc/internal/lexer"
	"github.com/aurum-edmund/boltc/internal/position"
)

// qualifierTokens is the recognised qualifier-keyword set peelable from the
// front of a type capture (step 1 of §4.D.3).
var qualifierTokens = map[string]bool{"constant": true}

// parseTypeReference converts a raw type capture's text into a structured,
// normalised TypeReference, following the eight-step algorithm of §4.D.3.
// isLive reports whether a `LiveValue` prefix was detected and stripped.
func parseTypeReference(rawText string, span position.Span, diags *diagnostic.Bag) (ref *TypeReference, isLive bool) {
	if strings.TrimSpace(rawText) == "" {
		return &TypeReference{Kind: Invalid, Text: rawText, OriginalText: rawText, Span: span}, false
	}

	tokens, _ := lexer.Lex("<type>", rawText)
	if len(tokens) > 0 && tokens[len(tokens)-1].Kind == lexer.EOF {
		tokens = tokens[:len(tokens)-1]
	}

	p := &typeParser{tokens: tokens, diags: diags, span: span}

	// Step 1: peel leading qualifiers.
	seen := map[string]bool{}

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.Kind != lexer.Identifier {
			break
		}

		if tok.Text == "const" {
			diags.Errorf("BOLT-E2302", span, "legacy qualifier spelling 'const'; use 'constant'")
			p.qualifiers = append(p.qualifiers, "constant")
			p.pos++

			continue
		}

		if !qualifierTokens[tok.Text] {
			break
		}

		if seen[tok.Text] {
			diags.Errorf("BOLT-E2301", span, "duplicate qualifier %q", tok.Text)
		}

		seen[tok.Text] = true
		p.qualifiers = append(p.qualifiers, tok.Text)
		p.pos++
	}

	// Step 7 (applied here, on the qualifier-stripped remainder): detect a
	// LiveValue prefix.
	if p.pos < len(p.tokens) && p.tokens[p.pos].Kind == lexer.Identifier &&
		p.tokens[p.pos].Text == "LiveValue" && p.pos+1 < len(p.tokens) {
		isLive = true
		p.pos++
	}

	head := p.parseSuffixed(span)
	head.Qualifiers = p.qualifiers
	head.OriginalText = rawText
	head.Text = rawText
	head.NormalizedText = normalizedText(head)

	return head, isLive
}

type typeParser struct {
	tokens     []lexer.Token
	pos        int
	qualifiers []string
	diags      *diagnostic.Bag
	span       position.Span
}

// suffixKind distinguishes the two trailing-sugar shapes peeled right to
// left before the head is parsed.
type suffixKind int

const (
	suffixArray suffixKind = iota
	suffixPointer
	suffixReference
)

type suffixEntry struct {
	kind   suffixKind
	length *int
}

// parseSuffixed peels trailing array brackets and pointer/reference sugar
// from the right (steps 2–3), then parses the head (steps 4–6), then
// rewraps the peeled suffixes from innermost to outermost.
func (p *typeParser) parseSuffixed(span position.Span) *TypeReference {
	var stack []suffixEntry

	for {
		if n := len(p.tokens); n-p.pos >= 2 &&
			p.tokens[n-1].Kind == lexer.RBracket {
			// trailing "[]" or "[n]"
			if p.tokens[n-2].Kind == lexer.LBracket {
				p.tokens = p.tokens[:n-2]
				stack = append(stack, suffixEntry{kind: suffixArray})

				continue
			}

			if n-p.pos >= 3 && p.tokens[n-2].Kind == lexer.IntegerLiteral && p.tokens[n-3].Kind == lexer.LBracket {
				v, err := strconv.Atoi(p.tokens[n-2].Text)
				if err == nil {
					p.tokens = p.tokens[:n-3]
					length := v
					stack = append(stack, suffixEntry{kind: suffixArray, length: &length})

					continue
				}
			}
		}

		if n := len(p.tokens); n > p.pos {
			last := p.tokens[n-1].Kind
			if last == lexer.Star {
				p.tokens = p.tokens[:n-1]
				stack = append(stack, suffixEntry{kind: suffixPointer})

				continue
			}

			if last == lexer.Ampersand {
				p.tokens = p.tokens[:n-1]
				stack = append(stack, suffixEntry{kind: suffixReference})

				continue
			}
		}

		break
	}

	head := p.parseHead(span)

	for i := len(stack) - 1; i >= 0; i-- {
		entry := stack[i]

		switch entry.kind {
		case suffixArray:
			head = &TypeReference{Kind: Array, GenericArguments: []*TypeReference{head}, ArrayLength: entry.length, Span: span}
		case suffixPointer:
			head = &TypeReference{Kind: Pointer, GenericArguments: []*TypeReference{head}, Span: span}
		case suffixReference:
			head = &TypeReference{Kind: Reference, GenericArguments: []*TypeReference{head}, Span: span}
		}
	}

	return head
}

// parseHead handles steps 4–6: the canonical pointer<T>/reference<T>
// forms, generic-argument parsing, and unwrapping the remaining head into
// a QualifiedName.
func (p *typeParser) parseHead(span position.Span) *TypeReference {
	if p.pos >= len(p.tokens) {
		return &TypeReference{Kind: Invalid, Span: span}
	}

	nameTok := p.tokens[p.pos]

	if nameTok.Kind == lexer.Identifier && (nameTok.Text == "pointer" || nameTok.Text == "reference") &&
		p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == lexer.LAngle {
		p.pos++

		args := p.parseGenericArguments(span)

		kind := Pointer
		if nameTok.Text == "reference" {
			kind = Reference
		}

		var arg *TypeReference
		if len(args) > 0 {
			arg = args[0]
		} else {
			arg = &TypeReference{Kind: Invalid, Span: span}
		}

		return &TypeReference{Kind: kind, GenericArguments: []*TypeReference{arg}, Span: span}
	}

	var components []string

	components = append(components, nameTok.Text)
	p.pos++

	for p.pos+1 < len(p.tokens) && p.tokens[p.pos].Kind == lexer.Dot && p.tokens[p.pos+1].Kind == lexer.Identifier {
		components = append(components, p.tokens[p.pos+1].Text)
		p.pos += 2
	}

	name := QualifiedName{Components: components}

	var generics []*TypeReference

	if p.pos < len(p.tokens) && p.tokens[p.pos].Kind == lexer.LAngle {
		generics = p.parseGenericArguments(span)
	}

	return &TypeReference{
		Kind:             Named,
		Name:             name,
		GenericArguments: generics,
		IsBuiltin:        len(components) == 1 && builtinNames[components[0]],
		Span:             span,
	}
}

// parseGenericArguments parses `< arg (, arg)* >` at the top level,
// tracking `<…>` depth so nested generics recurse correctly.
func (p *typeParser) parseGenericArguments(span position.Span) []*TypeReference {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].Kind != lexer.LAngle {
		return nil
	}

	p.pos++ // consume '<'

	var args []*TypeReference

	for p.pos < len(p.tokens) && p.tokens[p.pos].Kind != lexer.RAngle {
		argTokens, consumed := p.sliceGenericArgument()
		if consumed == 0 {
			break
		}

		sub := &typeParser{tokens: argTokens, diags: p.diags, span: span}
		args = append(args, sub.parseSuffixed(span))

		if p.pos < len(p.tokens) && p.tokens[p.pos].Kind == lexer.Comma {
			p.pos++
		}
	}

	if p.pos < len(p.tokens) && p.tokens[p.pos].Kind == lexer.RAngle {
		p.pos++
	}

	return args
}

// sliceGenericArgument extracts the token run for one generic argument, up
// to the next top-level comma or the closing angle bracket.
func (p *typeParser) sliceGenericArgument() ([]lexer.Token, int) {
	start := p.pos
	depth := 0

	for p.pos < len(p.tokens) {
		k := p.tokens[p.pos].Kind

		if depth == 0 && (k == lexer.Comma || k == lexer.RAngle) {
			break
		}

		if k == lexer.LAngle {
			depth++
		} else if k == lexer.RAngle {
			depth--
		}

		p.pos++
	}

	return p.tokens[start:p.pos], p.pos - start
}

// normalizedText computes step 8: qualifiers joined with single spaces,
// then the dotted qualified name with `<a, b, …>` generic arguments
// (Pointer and Reference render as `pointer<…>` / `reference<…>`, Invalid
// as its raw text), with Array's `[n?]` suffix appended after its
// normalised element.
func normalizedText(ref *TypeReference) string {
	var body string

	switch ref.Kind {
	case Pointer:
		body = "pointer<" + normalizedText(ref.GenericArguments[0]) + ">"
	case Reference:
		body = "reference<" + normalizedText(ref.GenericArguments[0]) + ">"
	case Array:
		length := ""
		if ref.ArrayLength != nil {
			length = strconv.Itoa(*ref.ArrayLength)
		}

		body = normalizedText(ref.GenericArguments[0]) + "[" + length + "]"
	case Named:
		body = ref.Name.Text()

		if len(ref.GenericArguments) > 0 {
			parts := make([]string, len(ref.GenericArguments))
			for i, g := range ref.GenericArguments {
				parts[i] = normalizedText(g)
			}

			body += "<" + strings.Join(parts, ", ") + ">"
		}
	default:
		body = ref.Text
	}

	if len(ref.Qualifiers) == 0 {
		return body
	}

	return strings.Join(ref.Qualifiers, " ") + " " + body
}
