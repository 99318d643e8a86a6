// Package passes analyses a lowered mir.Function: control-flow graph
// construction, dominance, phi placement, SSA renaming, and Live
// enforcement.
package passes

import (
	"sort"

	"github.com/aurum-edmund/boltc/internal/mir"
)

// CFG is the control-flow graph of one function, derived purely from each
// block's terminator Successors list.
type CFG struct {
	EntryID     int
	Successors  map[int][]int
	Predecessors map[int][]int
	blockByID   map[int]*mir.BasicBlock
	order       []int
}

// Order returns the function's blocks in their original declaration order.
func (g *CFG) Order() []int {
	return g.order
}

// Block looks up a block by id.
func (g *CFG) Block(id int) (*mir.BasicBlock, bool) {
	b, ok := g.blockByID[id]
	return b, ok
}

// BuildCFG derives the control-flow graph of fn from its blocks'
// terminators. Successor and predecessor lists are deduplicated and
// sorted by block id, so traversal order never depends on map iteration.
func BuildCFG(fn *mir.Function) *CFG {
	g := &CFG{
		Successors:   make(map[int][]int),
		Predecessors: make(map[int][]int),
		blockByID:    make(map[int]*mir.BasicBlock),
	}

	if len(fn.Blocks) > 0 {
		g.EntryID = fn.Blocks[0].ID
	}

	for _, b := range fn.Blocks {
		g.blockByID[b.ID] = b
		g.order = append(g.order, b.ID)

		if _, ok := g.Successors[b.ID]; !ok {
			g.Successors[b.ID] = nil
		}
	}

	for _, b := range fn.Blocks {
		if len(b.Instructions) == 0 {
			continue
		}

		term := b.Instructions[len(b.Instructions)-1]
		if !term.IsTerminator() {
			continue
		}

		seen := make(map[int]bool)

		for _, s := range term.Successors {
			if seen[s] {
				continue
			}

			seen[s] = true
			g.Successors[b.ID] = append(g.Successors[b.ID], s)
			g.Predecessors[s] = append(g.Predecessors[s], b.ID)
		}
	}

	for id := range g.Successors {
		sort.Ints(g.Successors[id])
	}

	for id := range g.Predecessors {
		sort.Ints(g.Predecessors[id])
	}

	return g
}
