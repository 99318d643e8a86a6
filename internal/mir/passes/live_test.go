package passes

import (
	"testing"

	"github.com/aurum-edmund/boltc/internal/mir"
)

func TestEnforceLiveReturnWithoutType(t *testing.T) {
	fn := &mir.Function{Name: "f", ReturnIsLive: true}
	fn.Blocks = append(fn.Blocks, &mir.BasicBlock{Name: "entry", Instructions: []mir.Instruction{{Kind: mir.Return}}})

	ok, diags := EnforceLive(&mir.Module{Functions: []*mir.Function{fn}})
	if ok {
		t.Fatal("expected failure")
	}

	if len(diags) != 1 || diags[0].Code != "BOLT-E4101" {
		t.Fatalf("expected BOLT-E4101, got %v", diags)
	}
}

func TestEnforceLiveNoBlocks(t *testing.T) {
	fn := &mir.Function{Name: "f", Parameters: []mir.Parameter{{Name: "p", IsLiveValue: true}}}

	ok, diags := EnforceLive(&mir.Module{Functions: []*mir.Function{fn}})
	if ok {
		t.Fatal("expected failure")
	}

	if len(diags) != 1 || diags[0].Code != "BOLT-E4102" {
		t.Fatalf("expected BOLT-E4102, got %v", diags)
	}
}

func TestEnforceLiveNoReturnInstruction(t *testing.T) {
	fn := &mir.Function{Name: "f", Parameters: []mir.Parameter{{Name: "p", IsLiveValue: true}}}
	fn.Blocks = append(fn.Blocks, &mir.BasicBlock{Name: "entry", Instructions: []mir.Instruction{{Kind: mir.Nop}}})

	ok, diags := EnforceLive(&mir.Module{Functions: []*mir.Function{fn}})
	if ok {
		t.Fatal("expected failure")
	}

	if len(diags) != 1 || diags[0].Code != "BOLT-E4103" {
		t.Fatalf("expected BOLT-E4103, got %v", diags)
	}
}

func TestEnforceLiveSkipsNonLiveFunctions(t *testing.T) {
	fn := &mir.Function{Name: "f"}

	ok, diags := EnforceLive(&mir.Module{Functions: []*mir.Function{fn}})
	if !ok || len(diags) != 0 {
		t.Fatalf("expected success with no diagnostics, got ok=%v diags=%v", ok, diags)
	}
}
