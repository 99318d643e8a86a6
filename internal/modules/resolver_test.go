package modules

import (
	"testing"

	"github.com/aurum-edmund/boltc/internal/hir"
)

func TestResolveImportsSelfImport(t *testing.T) {
	mod := &hir.Module{
		PackageName: "demo",
		ModuleName:  "main",
		Imports:     []hir.Import{{ModulePath: "demo::main"}, {ModulePath: "main"}},
	}

	results, diags := ResolveImports(mod, nil)

	if len(diags) != 2 {
		t.Fatalf("expected two self-import diagnostics, got %v", diags)
	}

	for _, r := range results {
		if r.Status != SelfImport {
			t.Errorf("expected SelfImport, got %v", r.Status)
		}
	}
}

func TestResolveImportsPendingWithoutLocator(t *testing.T) {
	mod := &hir.Module{ModuleName: "main", Imports: []hir.Import{{ModulePath: "other::thing"}}}

	results, diags := ResolveImports(mod, nil)

	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}

	if len(results) != 1 || results[0].Status != Pending {
		t.Fatalf("expected Pending, got %+v", results)
	}
}

func TestResolveImportsNotFound(t *testing.T) {
	loc := NewLocator()

	mod := &hir.Module{ModuleName: "main", Imports: []hir.Import{{ModulePath: "other::thing"}}}

	results, diags := ResolveImports(mod, loc)

	if len(diags) != 1 || diags[0].Code != "BOLT-E2220" {
		t.Fatalf("expected one BOLT-E2220, got %v", diags)
	}

	if results[0].Status != NotFound {
		t.Errorf("expected NotFound, got %v", results[0].Status)
	}
}
