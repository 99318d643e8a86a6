// Package hir implements the binder: lifting a parsed compilation unit
// into a High-Level IR that has validated attributes and qualifiers,
// checked symbol uniqueness, and normalised every type reference.
package hir

import (
	"github.com/aurum-edmund/boltc/internal/ast"
	"github.com/aurum-edmund/boltc/internal/position"
)

// QualifiedName is the bound form of ast.QualifiedName: an ordered
// sequence of identifier components.
type QualifiedName struct {
	Components []string
}

// Text renders the qualified name with '.' separators.
func (q QualifiedName) Text() string {
	s := ""

	for i, c := range q.Components {
		if i > 0 {
			s += "."
		}

		s += c
	}

	return s
}

// TypeReferenceKind closes the set of shapes a type reference can take.
type TypeReferenceKind int

const (
	Invalid TypeReferenceKind = iota
	Named
	Pointer
	Reference
	Array
)

func (k TypeReferenceKind) String() string {
	switch k {
	case Named:
		return "Named"
	case Pointer:
		return "Pointer"
	case Reference:
		return "Reference"
	case Array:
		return "Array"
	default:
		return "Invalid"
	}
}

// TypeReference is the binder's structured, normalised view of a raw type
// capture. Pointer/Reference/Array each hold exactly one generic argument
// (the pointee/referent/element); Named may hold any number.
type TypeReference struct {
	Kind             TypeReferenceKind
	Name             QualifiedName
	GenericArguments []*TypeReference
	Qualifiers       []string
	ArrayLength      *int
	IsBuiltin        bool
	Text             string
	OriginalText     string
	NormalizedText   string
	Span             position.Span
}

// builtinNames is the closed set of type names treated as built in; it
// sets IsBuiltin. The constructor default-value synthesis of §4.D.5 does
// not consult it: typeCategory matches type names on its own.
var builtinNames = map[string]bool{
	"integer": true, "integer8": true, "integer16": true, "integer32": true, "integer64": true,
	"byte": true, "boolean": true, "float": true, "double": true, "void": true,
}

// Parameter is the bound form of a function or constructor parameter.
type Parameter struct {
	Name                  string
	Type                  *TypeReference
	Span                  position.Span
	IsLiveValue           bool
	DefaultValue          *string
	RequiresExplicitValue bool
}

// Function is the bound form of a function declaration.
type Function struct {
	Name                   string
	Modifiers              []string
	Attributes             []ast.Attribute
	Parameters             []Parameter
	ReturnType             *TypeReference
	HasReturnType          bool
	ReturnIsLiveValue      bool
	IsInterruptHandler     bool
	IsBareFunction         bool
	IsPageAligned          bool
	AlignmentBytes         *int
	SectionName            *string
	SystemRequestID        *int
	IntrinsicName          *string
	KernelMarkers          []string
	IsBlueprintConstructor bool
	IsBlueprintDestructor  bool
	BlueprintName          *string
	Span                   position.Span
}

// BlueprintField is the bound form of a blueprint field.
type BlueprintField struct {
	Name           string
	Type           *TypeReference
	Attributes     []ast.Attribute
	BitWidth       *int
	AlignmentBytes *int
	IsLiveValue    bool
	Span           position.Span
}

// Blueprint is the bound form of a blueprint declaration.
type Blueprint struct {
	Name           string
	Modifiers      []string
	Attributes     []ast.Attribute
	Fields         []BlueprintField
	IsPacked       bool
	AlignmentBytes *int
	Span           position.Span
}

// Import is the bound form of an import declaration.
type Import struct {
	ModulePath string
	Span       position.Span
}

// Module is the High-Level IR for one compilation unit.
type Module struct {
	PackageName string
	ModuleName  string
	Imports     []Import
	Functions   []Function
	Blueprints  []Blueprint
	Span        position.Span
}
