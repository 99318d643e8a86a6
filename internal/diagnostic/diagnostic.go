// Package diagnostic implements the closed (code, message, span, severity,
// optional fix-it) diagnostic model every pipeline stage reports through.
// Diagnostics are accumulated in a Bag and never raised as panics or errors
// across a stage boundary.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/aurum-edmund/boltc/internal/position"
)

// Severity distinguishes diagnostics that must halt the pipeline for the
// affected unit (Error) from those that do not (Warning).
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}

	return "error"
}

// FixIt is an optional suggested correction attached to a diagnostic.
type FixIt struct {
	Message     string
	Replacement string
}

// Diagnostic is a single stable-coded report: code is of the form
// "BOLT-E####" or "BOLT-W####" (see the code taxonomy in SPEC_FULL.md §1).
type Diagnostic struct {
	Code     string
	Message  string
	Span     position.Span
	Severity Severity
	FixIt    *FixIt
}

// New builds a Diagnostic with the given severity, code, message and span.
func New(severity Severity, code, message string, span position.Span) Diagnostic {
	return Diagnostic{Code: code, Message: message, Span: span, Severity: severity}
}

// Errorf builds an error-severity diagnostic with a printf-style message.
func Errorf(code string, span position.Span, format string, args ...any) Diagnostic {
	return New(Error, code, fmt.Sprintf(format, args...), span)
}

// Warningf builds a warning-severity diagnostic with a printf-style message.
func Warningf(code string, span position.Span, format string, args ...any) Diagnostic {
	return New(Warning, code, fmt.Sprintf(format, args...), span)
}

// WithFixIt attaches a fix-it hint and returns the updated diagnostic.
func (d Diagnostic) WithFixIt(message, replacement string) Diagnostic {
	d.FixIt = &FixIt{Message: message, Replacement: replacement}

	return d
}

// String renders "<code> L<line>:C<column> -> <message>" with an optional
// trailing "fix-it: ..." line, per SPEC_FULL.md's external interface.
func (d Diagnostic) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s L%d:C%d -> %s", d.Code, d.Span.Start.Line, d.Span.Start.Column, d.Message)

	if d.FixIt != nil {
		fmt.Fprintf(&b, "\n  fix-it: %s", d.FixIt.Message)
	}

	return b.String()
}

// Bag accumulates an ordered diagnostic list for a single pipeline stage.
// Ordering follows source order within a stage, as required of the
// pipeline's error-handling design.
type Bag struct {
	entries []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends d to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.entries = append(b.entries, d)
}

// Errorf appends a newly built error diagnostic.
func (b *Bag) Errorf(code string, span position.Span, format string, args ...any) {
	b.Add(Errorf(code, span, format, args...))
}

// Warningf appends a newly built warning diagnostic.
func (b *Bag) Warningf(code string, span position.Span, format string, args ...any) {
	b.Add(Warningf(code, span, format, args...))
}

// Diagnostics returns the accumulated diagnostics in insertion order.
func (b *Bag) Diagnostics() []Diagnostic {
	return b.entries
}

// HasErrors reports whether any accumulated diagnostic is error-severity.
func (b *Bag) HasErrors() bool {
	for _, d := range b.entries {
		if d.Severity == Error {
			return true
		}
	}

	return false
}

// Len returns the number of accumulated diagnostics.
func (b *Bag) Len() int {
	return len(b.entries)
}
