package position

import "testing"

func TestNewFilePositionAt(t *testing.T) {
	f := NewFile("a.bolt", "package demo;\nmodule demo;\n")

	p := f.PositionAt(0)
	if p.Line != 1 || p.Column != 1 {
		t.Fatalf("expected 1:1, got %d:%d", p.Line, p.Column)
	}

	secondLineStart := len("package demo;\n")

	p = f.PositionAt(secondLineStart)
	if p.Line != 2 || p.Column != 1 {
		t.Fatalf("expected 2:1, got %d:%d", p.Line, p.Column)
	}
}

func TestFileLineStripsTrailingNewline(t *testing.T) {
	f := NewFile("a.bolt", "first\nsecond\nthird")

	if got := f.Line(2); got != "second" {
		t.Errorf("expected %q, got %q", "second", got)
	}

	if got := f.Line(3); got != "third" {
		t.Errorf("expected %q, got %q", "third", got)
	}

	if got := f.Line(99); got != "" {
		t.Errorf("expected empty string for out-of-range line, got %q", got)
	}
}

func TestFileText(t *testing.T) {
	f := NewFile("a.bolt", "hello world")

	span := Span{
		Start: f.PositionAt(6),
		End:   f.PositionAt(11),
	}

	if got := f.Text(span); got != "world" {
		t.Errorf("expected %q, got %q", "world", got)
	}
}

func TestSpanUnion(t *testing.T) {
	f := NewFile("a.bolt", "abcdefghij")

	a := Span{Start: f.PositionAt(0), End: f.PositionAt(3)}
	b := Span{Start: f.PositionAt(5), End: f.PositionAt(10)}

	u := a.Union(b)
	if u.Start.Offset != 0 || u.End.Offset != 10 {
		t.Fatalf("expected union [0,10), got [%d,%d)", u.Start.Offset, u.End.Offset)
	}
}

func TestSpanLength(t *testing.T) {
	f := NewFile("a.bolt", "0123456789")

	s := Span{Start: f.PositionAt(2), End: f.PositionAt(5)}
	if s.Length() != 3 {
		t.Errorf("expected length 3, got %d", s.Length())
	}
}

func TestFileSetTextConsultsRegisteredFile(t *testing.T) {
	fs := NewFileSet()
	f := fs.AddFile("a.bolt", "hello world")

	span := Span{Start: f.PositionAt(0), End: f.PositionAt(5)}

	if got := fs.Text(span); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}

	if got := fs.Text(Span{Start: Position{Filename: "missing.bolt"}, End: Position{Filename: "missing.bolt"}}); got != "" {
		t.Errorf("expected empty string for an unregistered file, got %q", got)
	}
}
