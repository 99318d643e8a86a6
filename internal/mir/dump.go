package mir

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable rendering of mod to w: brace-delimited
// blocks, instruction kind ordinals annotated with their detail comment
// and successor edges. Functions and blocks keep declaration order
// (unlike CanonicalPrint, Dump is never consulted by canonicalHash or by
// any invariant — it exists only to help a person read a module).
func Dump(mod *Module, w io.Writer) {
	fmt.Fprintf(w, "module %s\n", mod.ModuleName)

	if mod.PackageName != "" {
		fmt.Fprintf(w, "package %s\n", mod.PackageName)
	}

	if mod.CanonicalModulePath != "" {
		fmt.Fprintf(w, "canonical %s\n", mod.CanonicalModulePath)
	}

	if len(mod.Imports) > 0 {
		fmt.Fprintf(w, "  imports (%d)\n", len(mod.Imports))

		for _, imp := range mod.Imports {
			fmt.Fprintf(w, "    %s\n", imp)
		}
	}

	if len(mod.ResolvedImports) > 0 {
		fmt.Fprintf(w, "  resolvedImports (%d)\n", len(mod.ResolvedImports))

		for _, entry := range mod.ResolvedImports {
			fmt.Fprintf(w, "    %s\n", entry)
		}
	}

	for _, fn := range mod.Functions {
		fmt.Fprintf(w, "  function %s {\n", fn.Name)

		for _, block := range fn.Blocks {
			fmt.Fprintf(w, "    %s (#%d) {\n", block.Name, block.ID)

			for _, inst := range block.Instructions {
				dumpInstruction(w, inst)
			}

			fmt.Fprintf(w, "    }\n")
		}

		fmt.Fprintf(w, "  }\n")
	}
}

func dumpInstruction(w io.Writer, inst Instruction) {
	var b strings.Builder

	fmt.Fprintf(&b, "      %d", int(inst.Kind))

	if inst.Detail != "" {
		fmt.Fprintf(&b, " // %s", inst.Detail)
	}

	if len(inst.Successors) > 0 {
		b.WriteString(" ->")

		for i, s := range inst.Successors {
			if i == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte(',')
			}

			fmt.Fprintf(&b, "%d", s)
		}
	}

	fmt.Fprintln(w, b.String())
}

// DumpString is a convenience wrapper returning Dump's output as a string.
func DumpString(mod *Module) string {
	var b strings.Builder
	Dump(mod, &b)

	return b.String()
}
