package passes

import (
	"sort"
	"strconv"

	"github.com/aurum-edmund/boltc/internal/diagnostic"
	"github.com/aurum-edmund/boltc/internal/mir"
	"github.com/aurum-edmund/boltc/internal/position"
)

// PlacePhis inserts phi instructions at the dominance-frontier closure of
// each original temporary's defining blocks, one phi per variable sorted
// by variable id, at the start of each resulting block.
func PlacePhis(fn *mir.Function, g *CFG, frontier DominanceFrontier) {
	blockByID := make(map[int]*mir.BasicBlock, len(fn.Blocks))
	for _, b := range fn.Blocks {
		blockByID[b.ID] = b
	}

	defSites := make(map[int]map[int]bool)
	varName := make(map[int]string)

	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Result != nil && inst.Result.Kind == mir.Temporary {
				v := inst.Result.ID

				if defSites[v] == nil {
					defSites[v] = make(map[int]bool)
				}

				defSites[v][b.ID] = true

				if _, ok := varName[v]; !ok {
					varName[v] = inst.Result.Name
				}
			}
		}
	}

	var varIDs []int
	for v := range defSites {
		varIDs = append(varIDs, v)
	}

	sort.Ints(varIDs)

	hasPhi := make(map[int]map[int]bool)

	for _, v := range varIDs {
		hasPhi[v] = make(map[int]bool)

		inSet := make(map[int]bool)
		var worklist []int

		for b := range defSites[v] {
			inSet[b] = true
			worklist = append(worklist, b)
		}

		for len(worklist) > 0 {
			b := worklist[0]
			worklist = worklist[1:]

			for _, f := range frontier[b] {
				if hasPhi[v][f] {
					continue
				}

				hasPhi[v][f] = true

				if !inSet[f] {
					inSet[f] = true
					worklist = append(worklist, f)
				}
			}
		}
	}

	for _, b := range g.Order() {
		var vars []int

		for _, v := range varIDs {
			if hasPhi[v][b] {
				vars = append(vars, v)
			}
		}

		if len(vars) == 0 {
			continue
		}

		block := blockByID[b]

		phis := make([]mir.Instruction, len(vars))
		for i, v := range vars {
			original := v
			phis[i] = mir.Instruction{Kind: mir.Phi, OriginalTemporaryID: &original}
		}

		block.Instructions = append(phis, block.Instructions...)
	}
}

// RenameResult reports the diagnostics produced by Rename.
type RenameResult struct {
	Diagnostics []diagnostic.Diagnostic
}

// ConvertToSSA runs the full CFG → DomTree → DominanceFrontier → phi
// placement → rename pipeline over fn, mutating it in place.
func ConvertToSSA(fn *mir.Function) RenameResult {
	names := make(map[int]string)

	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Result != nil && inst.Result.Kind == mir.Temporary {
				if _, ok := names[inst.Result.ID]; !ok {
					names[inst.Result.ID] = inst.Result.Name
				}
			}
		}
	}

	g := BuildCFG(fn)
	t := BuildDomTree(g)
	frontier := BuildDominanceFrontier(g, t)

	PlacePhis(fn, g, frontier)

	return Rename(fn, g, t, names)
}

// Rename performs the dominator-tree depth-first SSA renaming pass,
// mutating fn in place. It must run after PlacePhis.
func Rename(fn *mir.Function, g *CFG, t *DomTree, names map[int]string) RenameResult {
	r := &renamer{
		fn:     fn,
		g:      g,
		t:      t,
		names:  names,
		stacks: make(map[int][]mir.Value),
	}

	blockByID := make(map[int]*mir.BasicBlock, len(fn.Blocks))
	for _, b := range fn.Blocks {
		blockByID[b.ID] = b
	}

	r.blocks = blockByID

	if len(fn.Blocks) > 0 {
		r.visit(g.EntryID)
	}

	return RenameResult{Diagnostics: r.diags}
}

type renamer struct {
	fn     *mir.Function
	g      *CFG
	t      *DomTree
	names  map[int]string
	blocks map[int]*mir.BasicBlock
	stacks map[int][]mir.Value
	diags  []diagnostic.Diagnostic
}

func (r *renamer) baseName(v int) string {
	if n, ok := r.names[v]; ok {
		return n
	}

	return "t" + strconv.Itoa(v)
}

func (r *renamer) newVersion(v int) mir.Value {
	id := r.fn.NextValueID
	r.fn.NextValueID++

	k := len(r.stacks[v])
	name := r.baseName(v)

	if k > 0 {
		name += "." + strconv.Itoa(k)
	}

	return mir.Value{Kind: mir.Temporary, ID: id, Name: name}
}

func (r *renamer) visit(blockID int) {
	block := r.blocks[blockID]
	pushed := make([]int, 0)

	for i := range block.Instructions {
		inst := &block.Instructions[i]
		if inst.Kind != mir.Phi {
			continue
		}

		v := *inst.OriginalTemporaryID
		version := r.newVersion(v)
		inst.Result = &version
		r.stacks[v] = append(r.stacks[v], version)
		pushed = append(pushed, v)
	}

	for i := range block.Instructions {
		inst := &block.Instructions[i]
		if inst.Kind == mir.Phi {
			continue
		}

		for j := range inst.Operands {
			op := &inst.Operands[j]
			if op.Value.Kind != mir.Temporary {
				continue
			}

			v := op.Value.ID
			stack := r.stacks[v]

			if len(stack) == 0 {
				r.diags = append(r.diags, diagnostic.Errorf("BOLT-E4301", position.Span{}, "use of temporary %q before definition", r.baseName(v)))
				continue
			}

			op.Value = stack[len(stack)-1]
		}

		if inst.Result != nil && inst.Result.Kind == mir.Temporary {
			v := inst.Result.ID
			original := v
			inst.OriginalTemporaryID = &original

			version := r.newVersion(v)
			inst.Result = &version
			r.stacks[v] = append(r.stacks[v], version)
			pushed = append(pushed, v)
		}
	}

	for _, succID := range r.g.Successors[blockID] {
		succ := r.blocks[succID]

		for i := range succ.Instructions {
			inst := &succ.Instructions[i]
			if inst.Kind != mir.Phi {
				continue
			}

			v := *inst.OriginalTemporaryID
			stack := r.stacks[v]

			if len(stack) == 0 {
				r.diags = append(r.diags, diagnostic.Errorf("BOLT-E4302", position.Span{}, "missing phi input for %q along predecessor block %d", r.baseName(v), blockID))
				continue
			}

			duplicate := false

			for _, existing := range inst.Operands {
				if existing.PredecessorBlockID != nil && *existing.PredecessorBlockID == blockID {
					duplicate = true
					break
				}
			}

			if duplicate {
				continue
			}

			pred := blockID
			inst.Operands = append(inst.Operands, mir.Operand{Value: stack[len(stack)-1], PredecessorBlockID: &pred})
		}
	}

	for _, child := range r.t.Children(blockID) {
		r.visit(child)
	}

	for i := len(pushed) - 1; i >= 0; i-- {
		v := pushed[i]
		r.stacks[v] = r.stacks[v][:len(r.stacks[v])-1]
	}
}
