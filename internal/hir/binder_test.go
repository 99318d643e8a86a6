package hir

import (
	"testing"

	"github.com/aurum-edmund/boltc/internal/parser"
)

func bindSource(t *testing.T, src string) (*Module, []string) {
	t.Helper()

	astMod, parseDiags := parser.Parse("t.bolt", src)
	if len(parseDiags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", parseDiags)
	}

	mod, diags := Bind(astMod)

	codes := make([]string, len(diags))
	for i, d := range diags {
		codes[i] = d.Code
	}

	return mod, codes
}

func TestBindDuplicateImportKeepsFirstAndMiddle(t *testing.T) {
	src := "package demo; module demo;\nimport a.b;\nimport c.d;\nimport a.b;\n"

	mod, codes := bindSource(t, src)

	if len(codes) != 1 || codes[0] != "BOLT-E2218" {
		t.Fatalf("expected exactly one BOLT-E2218, got %v", codes)
	}

	if len(mod.Imports) != 2 || mod.Imports[0].ModulePath != "a.b" || mod.Imports[1].ModulePath != "c.d" {
		t.Fatalf("expected imports [a.b, c.d], got %+v", mod.Imports)
	}
}

func TestBindBitsOutsidePackedStillRecordsWidth(t *testing.T) {
	src := "package demo; module demo;\nblueprint Flags {\n[bits(width=8)] integer32 mode;\n}\n"

	mod, codes := bindSource(t, src)

	var found bool

	for _, c := range codes {
		if c == "BOLT-E2216" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected BOLT-E2216, got %v", codes)
	}

	field := mod.Blueprints[0].Fields[0]
	if field.BitWidth == nil || *field.BitWidth != 8 {
		t.Fatalf("expected bitWidth=8 to still be recorded, got %+v", field.BitWidth)
	}
}

func TestBindTypeReferenceNormalization(t *testing.T) {
	src := "package demo; module demo;\nconstant byte* function f(pointer<byte> p) { }\n"

	mod, _ := bindSource(t, src)

	fn := mod.Functions[0]
	if fn.ReturnType.NormalizedText != "constant pointer<byte>" {
		t.Errorf("expected 'constant pointer<byte>', got %q", fn.ReturnType.NormalizedText)
	}

	if fn.Parameters[0].Type.NormalizedText != "pointer<byte>" {
		t.Errorf("expected 'pointer<byte>', got %q", fn.Parameters[0].Type.NormalizedText)
	}
}

func TestBindBlueprintConstructorSynthesizesDefaults(t *testing.T) {
	src := "package demo; module demo;\nblueprint Point {\ninteger32 x;\n}\nfunction Point(integer32 x) { }\n"

	mod, _ := bindSource(t, src)

	fn := mod.Functions[0]
	if !fn.IsBlueprintConstructor || fn.BlueprintName == nil || *fn.BlueprintName != "Point" {
		t.Fatalf("expected a Point constructor, got %+v", fn)
	}

	if fn.Parameters[0].DefaultValue == nil || *fn.Parameters[0].DefaultValue != "0" {
		t.Fatalf("expected synthesized default '0', got %+v", fn.Parameters[0].DefaultValue)
	}
}

func TestBindReferenceConstructorParameterRequiresExplicitValue(t *testing.T) {
	src := "package demo; module demo;\nblueprint Point {\ninteger32 x;\n}\nfunction Point(integer32& x) { }\n"

	mod, codes := bindSource(t, src)

	var found bool

	for _, c := range codes {
		if c == "BOLT-W2210" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected BOLT-W2210, got %v", codes)
	}

	if !mod.Functions[0].Parameters[0].RequiresExplicitValue {
		t.Fatalf("expected RequiresExplicitValue on reference constructor parameter")
	}
}

func TestBindDestructorRejectsParameters(t *testing.T) {
	src := "package demo; module demo;\nblueprint Point {\ninteger32 x;\n}\nfunction ~Point(integer32 x) { }\n"

	_, codes := bindSource(t, src)

	var found bool

	for _, c := range codes {
		if c == "BOLT-E2230" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected BOLT-E2230, got %v", codes)
	}
}
