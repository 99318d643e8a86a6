package modules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestModulePathToRelativePath(t *testing.T) {
	got := modulePathToRelativePath("std::core::Result")
	want := filepath.Join("std", "core", "Result") + ".bolt"

	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRelativePathToCanonicalPathRejectsDottedSegments(t *testing.T) {
	if _, ok := relativePathToCanonicalPath(filepath.Join("std", "..", "core.bolt")); ok {
		t.Error("expected rejection of a '..' segment")
	}

	got, ok := relativePathToCanonicalPath(filepath.Join("std", "core", "Result.bolt"))
	if !ok || got != "std::core::Result" {
		t.Errorf("expected 'std::core::Result', got %q (ok=%v)", got, ok)
	}
}

func TestCanonicalToDottedAlias(t *testing.T) {
	alias, ok := canonicalToDotted("std::core::Result")
	if !ok || alias != "std.core.Result" {
		t.Errorf("expected dotted alias 'std.core.Result', got %q (ok=%v)", alias, ok)
	}

	if _, ok := canonicalToDotted("std::core.weird"); ok {
		t.Error("expected no alias for a component already containing '.'")
	}
}

func TestDiscoverRegistersFilesAndReportsDuplicates(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()

	mustWriteFile(t, filepath.Join(rootA, "std", "core", "Result.bolt"), "")
	mustWriteFile(t, filepath.Join(rootB, "std", "core", "Result.bolt"), "")
	mustWriteFile(t, filepath.Join(rootA, "app", "Main.bolt"), "")

	loc := NewLocator()
	loc.SetSearchRoots([]string{rootA, rootB})

	issues, dups, err := loc.Discover(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}

	if len(dups) != 1 || dups[0].CanonicalPath != "std::core::Result" {
		t.Fatalf("expected one duplicate for std::core::Result, got %v", dups)
	}

	if _, _, ok := loc.Locate("app::Main"); !ok {
		t.Error("expected app::Main to be located")
	}

	if _, _, ok := loc.Locate("std.core.Result"); !ok {
		t.Error("expected dotted alias std.core.Result to resolve")
	}
}

func TestDiscoverReportsMissingRoot(t *testing.T) {
	loc := NewLocator()
	loc.SetSearchRoots([]string{filepath.Join(t.TempDir(), "does-not-exist")})

	issues, _, err := loc.Discover(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(issues) != 1 || issues[0].Message != "import root does not exist" {
		t.Fatalf("expected one missing-root issue, got %v", issues)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
