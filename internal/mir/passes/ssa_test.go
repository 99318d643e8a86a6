package passes

import (
	"testing"

	"github.com/aurum-edmund/boltc/internal/mir"
)

// buildDiamond constructs: entry assigns x; cond-branch to then/else, each
// assigns x and branches to merge; merge returns x. Scenario 2.
func buildDiamond() *mir.Function {
	b := mir.NewBuilder("diamond")
	fn := b.Function()

	entry := b.AppendBlock("entry")
	thenBlock := b.AppendBlock("then")
	elseBlock := b.AppendBlock("else")
	merge := b.AppendBlock("merge")

	// All three assignments share one pre-SSA variable identity ("x"); the
	// divergent paths joining at merge are exactly what forces a phi.
	x0 := b.MakeTemporary("x")
	assignEntry := b.AppendInstruction(entry, mir.Unary)
	assignEntry.Result = &x0
	entryTerm := b.AppendInstruction(entry, mir.CondBranch)
	entryTerm.Successors = []int{thenBlock.ID, elseBlock.ID}

	xThen := mir.Value{Kind: mir.Temporary, ID: x0.ID, Name: "x"}
	assignThen := b.AppendInstruction(thenBlock, mir.Unary)
	assignThen.Result = &xThen
	thenTerm := b.AppendInstruction(thenBlock, mir.Branch)
	thenTerm.Successors = []int{merge.ID}

	xElse := mir.Value{Kind: mir.Temporary, ID: x0.ID, Name: "x"}
	assignElse := b.AppendInstruction(elseBlock, mir.Unary)
	assignElse.Result = &xElse
	elseTerm := b.AppendInstruction(elseBlock, mir.Branch)
	elseTerm.Successors = []int{merge.ID}

	ret := b.AppendInstruction(merge, mir.Return)
	ret.Operands = []mir.Operand{{Value: mir.Value{Kind: mir.Temporary, ID: x0.ID, Name: "x"}}}

	return fn
}

func TestConvertToSSADiamond(t *testing.T) {
	fn := buildDiamond()

	result := ConvertToSSA(fn)
	if len(result.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", result.Diagnostics)
	}

	merge := fn.Blocks[3]

	var phis []mir.Instruction

	for _, inst := range merge.Instructions {
		if inst.Kind == mir.Phi {
			phis = append(phis, inst)
		}
	}

	if len(phis) != 1 {
		t.Fatalf("expected exactly one phi at merge, got %d", len(phis))
	}

	phi := phis[0]
	if len(phi.Operands) != 2 {
		t.Fatalf("expected two phi operands, got %d", len(phi.Operands))
	}

	preds := map[int]bool{}
	for _, op := range phi.Operands {
		if op.PredecessorBlockID == nil {
			t.Fatal("expected phi operand to carry a predecessor block id")
		}

		preds[*op.PredecessorBlockID] = true
	}

	if !preds[fn.Blocks[1].ID] || !preds[fn.Blocks[2].ID] {
		t.Errorf("expected predecessors {then, else}, got %v", preds)
	}

	resultIDs := map[int]bool{}

	for _, b := range []*mir.BasicBlock{fn.Blocks[0], fn.Blocks[1], fn.Blocks[2]} {
		for _, inst := range b.Instructions {
			if inst.Result != nil {
				resultIDs[inst.Result.ID] = true
			}
		}
	}

	if len(resultIDs) != 3 {
		t.Errorf("expected three distinct result ids across entry/then/else, got %d", len(resultIDs))
	}

	ret := merge.Instructions[len(merge.Instructions)-1]
	if ret.Operands[0].Value.ID != phi.Result.ID {
		t.Errorf("expected return operand to equal the phi's result, got %+v vs %+v", ret.Operands[0].Value, phi.Result)
	}
}

// buildLoop constructs: entry -> header; header cond-branches to exit/body;
// body -> header; exit returns. Scenario 3.
func buildLoop() (*mir.Function, *CFG) {
	b := mir.NewBuilder("loop")
	fn := b.Function()

	entry := b.AppendBlock("entry")
	header := b.AppendBlock("header")
	body := b.AppendBlock("body")
	exit := b.AppendBlock("exit")

	x0 := b.MakeTemporary("x")
	assignEntry := b.AppendInstruction(entry, mir.Unary)
	assignEntry.Result = &x0
	entryTerm := b.AppendInstruction(entry, mir.Branch)
	entryTerm.Successors = []int{header.ID}

	headerTerm := b.AppendInstruction(header, mir.CondBranch)
	headerTerm.Successors = []int{exit.ID, body.ID}

	xBody := mir.Value{Kind: mir.Temporary, ID: x0.ID, Name: "x"}
	assignBody := b.AppendInstruction(body, mir.Unary)
	assignBody.Result = &xBody
	bodyTerm := b.AppendInstruction(body, mir.Branch)
	bodyTerm.Successors = []int{header.ID}

	b.AppendInstruction(exit, mir.Return)

	g := BuildCFG(fn)

	return fn, g
}

func TestPhiPlacementLoopHeader(t *testing.T) {
	fn, g := buildLoop()

	t_ := BuildDomTree(g)
	frontier := BuildDominanceFrontier(g, t_)

	PlacePhis(fn, g, frontier)

	header := fn.Blocks[1]

	var phiBlocks []int

	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Kind == mir.Phi {
				phiBlocks = append(phiBlocks, b.ID)
				break
			}
		}
	}

	if len(phiBlocks) != 1 || phiBlocks[0] != header.ID {
		t.Fatalf("expected phi placement to return exactly the header block, got %v", phiBlocks)
	}
}

func TestBuildDomTreeEntryOnly(t *testing.T) {
	b := mir.NewBuilder("trivial")
	fn := b.Function()
	entry := b.AppendBlock("entry")
	b.AppendInstruction(entry, mir.Return)

	g := BuildCFG(fn)
	tree := BuildDomTree(g)

	set := tree.Set(entry.ID)
	if len(set) != 1 || set[0] != entry.ID {
		t.Fatalf("expected dom(entry)={entry}, got %v", set)
	}

	if tree.ImmediateDominator(entry.ID) != nil {
		t.Error("expected entry to have no immediate dominator")
	}
}

func TestRenameEmitsUseBeforeDefinition(t *testing.T) {
	b := mir.NewBuilder("bad")
	fn := b.Function()
	entry := b.AppendBlock("entry")

	use := b.AppendInstruction(entry, mir.Unary)
	use.Operands = []mir.Operand{{Value: mir.Value{Kind: mir.Temporary, ID: 99, Name: "missing"}}}
	b.AppendInstruction(entry, mir.Return)

	result := ConvertToSSA(fn)

	found := false

	for _, d := range result.Diagnostics {
		if d.Code == "BOLT-E4301" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected BOLT-E4301, got %v", result.Diagnostics)
	}
}
