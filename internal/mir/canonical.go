package mir

import (
	"fmt"
	"sort"
	"strings"
)

const (
	fnvOffset64 uint64 = 0xCBF29CE484222325
	fnvPrime64  uint64 = 0x100000001B3
)

// CanonicalPrint produces the deterministic textual form:
//
//	module <name>
//	[package <name>]
//	[canonical <path>]
//	(function <name>
//	  (block <id> <name>
//	    (inst <index> <kind> <detail>)+)+)*
//
// Functions are emitted in ascending name order; blocks in ascending id
// (ties broken by name); instructions in source order.
func CanonicalPrint(mod *Module) string {
	var b strings.Builder

	fmt.Fprintf(&b, "module %s\n", mod.ModuleName)

	if mod.PackageName != "" {
		fmt.Fprintf(&b, "package %s\n", mod.PackageName)
	}

	if mod.CanonicalModulePath != "" {
		fmt.Fprintf(&b, "canonical %s\n", mod.CanonicalModulePath)
	}

	functions := make([]*Function, len(mod.Functions))
	copy(functions, mod.Functions)
	sort.Slice(functions, func(i, j int) bool { return functions[i].Name < functions[j].Name })

	for _, fn := range functions {
		fmt.Fprintf(&b, "function %s\n", fn.Name)

		blocks := make([]*BasicBlock, len(fn.Blocks))
		copy(blocks, fn.Blocks)
		sort.Slice(blocks, func(i, j int) bool {
			if blocks[i].ID != blocks[j].ID {
				return blocks[i].ID < blocks[j].ID
			}

			return blocks[i].Name < blocks[j].Name
		})

		for _, block := range blocks {
			fmt.Fprintf(&b, "  block %d %s\n", block.ID, block.Name)

			for i, inst := range block.Instructions {
				fmt.Fprintf(&b, "    inst %d %d %s\n", i, int(inst.Kind), inst.Detail)
			}
		}
	}

	return b.String()
}

// CanonicalHash is the 64-bit FNV-1a hash of CanonicalPrint's UTF-8 bytes.
// Equal canonical strings always yield equal hashes.
func CanonicalHash(mod *Module) uint64 {
	return fnv1a(CanonicalPrint(mod))
}

func fnv1a(s string) uint64 {
	h := fnvOffset64

	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}

	return h
}
