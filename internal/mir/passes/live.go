package passes

import (
	"github.com/aurum-edmund/boltc/internal/diagnostic"
	"github.com/aurum-edmund/boltc/internal/mir"
	"github.com/aurum-edmund/boltc/internal/position"
)

// EnforceLive checks every function with at least one Live-qualified
// parameter or return against the Live structural rules. It never
// mutates the function; it returns overall success paired with an
// ordered diagnostic list.
func EnforceLive(mod *mir.Module) (bool, []diagnostic.Diagnostic) {
	var diags []diagnostic.Diagnostic

	for _, fn := range mod.Functions {
		if !functionHasLiveQualifier(fn) {
			continue
		}

		if fn.ReturnIsLive && !fn.HasReturnType {
			diags = append(diags, diagnostic.Errorf("BOLT-E4101", position.Span{}, "function %q returns Live without a concrete return type", fn.Name))
		}

		if len(fn.Blocks) == 0 {
			diags = append(diags, diagnostic.Errorf("BOLT-E4102", position.Span{}, "Live-qualified function %q has no blocks", fn.Name))
			continue
		}

		if !hasReturnInstruction(fn) {
			diags = append(diags, diagnostic.Errorf("BOLT-E4103", position.Span{}, "Live-qualified function %q has no return instruction", fn.Name))
		}
	}

	for _, d := range diags {
		if d.Severity == diagnostic.Error {
			return false, diags
		}
	}

	return true, diags
}

func functionHasLiveQualifier(fn *mir.Function) bool {
	if fn.ReturnIsLive {
		return true
	}

	for _, p := range fn.Parameters {
		if p.IsLiveValue {
			return true
		}
	}

	return false
}

func hasReturnInstruction(fn *mir.Function) bool {
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Kind == mir.Return {
				return true
			}
		}
	}

	return false
}
