package passes

import "sort"

// DominanceFrontier maps each block id to its dominance-frontier set,
// deduplicated and sorted.
type DominanceFrontier map[int][]int

// BuildDominanceFrontier computes, for every block b with at least two
// predecessors, the frontier contribution along each predecessor's walk
// up the dominator tree to idom(b).
func BuildDominanceFrontier(g *CFG, t *DomTree) DominanceFrontier {
	frontier := make(DominanceFrontier)

	for _, id := range g.Order() {
		frontier[id] = nil
	}

	for _, b := range g.Order() {
		preds := g.Predecessors[b]
		if len(preds) < 2 {
			continue
		}

		idom := t.ImmediateDominator(b)

		for _, p := range preds {
			runner := p

			for idom == nil || runner != *idom {
				frontier[runner] = appendUnique(frontier[runner], b)

				next := t.ImmediateDominator(runner)
				if next == nil {
					break
				}

				runner = *next
			}
		}
	}

	for id := range frontier {
		sort.Ints(frontier[id])
	}

	return frontier
}

func appendUnique(s []int, v int) []int {
	for _, existing := range s {
		if existing == v {
			return s
		}
	}

	return append(s, v)
}
