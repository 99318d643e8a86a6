package modules

import (
	"path/filepath"

	"github.com/aurum-edmund/boltc/internal/diagnostic"
	"github.com/aurum-edmund/boltc/internal/hir"
)

// Status is the import resolution status machine of §4.F.
type Status int

const (
	Pending Status = iota
	Resolved
	SelfImport
	NotFound
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "Resolved"
	case SelfImport:
		return "SelfImport"
	case NotFound:
		return "NotFound"
	default:
		return "Pending"
	}
}

// Resolution is one import's resolution outcome.
type Resolution struct {
	ModulePath    string
	Status        Status
	CanonicalPath string
	FilePath      string
}

// ResolveImports resolves every import declaration in mod, in order. If
// locator is nil, every non-self import resolves to Pending (no
// diagnostic — downstream stages may supply the locator later).
func ResolveImports(mod *hir.Module, locator *Locator) ([]Resolution, []diagnostic.Diagnostic) {
	diags := diagnostic.NewBag()

	ownNames := selfNames(mod)

	results := make([]Resolution, 0, len(mod.Imports))

	for _, imp := range mod.Imports {
		if ownNames[imp.ModulePath] {
			results = append(results, Resolution{ModulePath: imp.ModulePath, Status: SelfImport})
			diags.Errorf("BOLT-E2219", imp.Span, "module %q imports itself", imp.ModulePath)

			continue
		}

		if locator == nil {
			results = append(results, Resolution{ModulePath: imp.ModulePath, Status: Pending})

			continue
		}

		canonical, file, ok := locator.Locate(imp.ModulePath)
		if !ok {
			results = append(results, Resolution{ModulePath: imp.ModulePath, Status: NotFound})
			diags.Errorf("BOLT-E2220", imp.Span, "import %q could not be resolved", imp.ModulePath)

			continue
		}

		results = append(results, Resolution{
			ModulePath:    imp.ModulePath,
			Status:        Resolved,
			CanonicalPath: canonical,
			FilePath:      filepath.Clean(file),
		})
	}

	return results, diags.Diagnostics()
}

// selfNames returns the set of path spellings an import could use to name
// this module itself: its bare module name, its bare package name, and
// the "<package>::<module>" canonical form.
func selfNames(mod *hir.Module) map[string]bool {
	names := map[string]bool{}

	if mod.ModuleName != "" {
		names[mod.ModuleName] = true
	}

	if mod.PackageName != "" {
		names[mod.PackageName] = true
	}

	if mod.PackageName != "" && mod.ModuleName != "" {
		names[mod.PackageName+"::"+mod.ModuleName] = true
	}

	return names
}
