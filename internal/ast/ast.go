// Package ast defines the compilation-unit syntax tree the parser builds:
// a module header, an ordered import list, and ordered function and
// blueprint declarations, each carrying its own attributes, modifiers, and
// raw type captures.
package ast

import "github.com/aurum-edmund/boltc/internal/position"

// QualifiedName is a dotted identifier sequence as written in source; Text
// carries the original spelling (including the dots) so it round-trips.
type QualifiedName struct {
	Components []string
	Text       string
	Span       position.Span
}

// TypeCapture is the raw text, span, and validity flag produced by the
// type sub-grammar (parseTypeUntil / parseTypeBeforeName). Valid is false
// only when the capture consumed zero tokens.
type TypeCapture struct {
	Text  string
	Span  position.Span
	Valid bool
}

// AttributeArgument is one argument of a bracketed attribute, either named
// (`name=value`) or positional (bare `value`).
type AttributeArgument struct {
	Name  string // empty for a positional argument
	Value string
	Span  position.Span
}

// Attribute is a bracketed decorator: `[name]` or `[name(arg, arg, ...)]`.
type Attribute struct {
	Name      string
	Arguments []AttributeArgument
	Span      position.Span
}

// Parameter is a function parameter's syntax: a type capture and a name,
// accepted in either type-first or legacy `name : type` order.
type Parameter struct {
	Name       string
	Type       TypeCapture
	LegacyForm bool // true when written as `name : type`
	Span       position.Span
}

// Field is a blueprint field's syntax.
type Field struct {
	Attributes []Attribute
	Name       string
	Type       TypeCapture
	Span       position.Span
}

// Function is a top-level function declaration's syntax. The body is not
// parsed at this stage: it is skipped via brace counting.
type Function struct {
	Attributes []Attribute
	Modifiers  []string
	Name       string
	Parameters []Parameter
	ReturnType TypeCapture
	// LegacyReturn is set when the signature used `type -> returnType`
	// instead of a leading return-type capture; it carries the diagnosed
	// BOLT-E2118 return type capture.
	LegacyReturn   *TypeCapture
	HasLegacyArrow bool
	Span           position.Span
}

// Blueprint is a `blueprint <name> { field* }` declaration's syntax.
type Blueprint struct {
	Attributes []Attribute
	Modifiers  []string
	Name       string
	Fields     []Field
	Span       position.Span
}

// Import is a single `import <qualified-path> ;` declaration's syntax.
// Attributes and modifiers are illegal on imports (BOLT-E2108/E2109) but
// are still recorded here so the binder can report them.
type Import struct {
	Attributes []Attribute
	Modifiers  []string
	Path       QualifiedName
	Span       position.Span
}

// Module is the parsed compilation unit for one source file.
type Module struct {
	PackageName   QualifiedName
	ModuleName    QualifiedName
	HasPackage    bool
	HasModuleName bool
	Imports       []Import
	Functions     []Function
	Blueprints    []Blueprint
	Span          position.Span
}
