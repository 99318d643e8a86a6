package passes

import "sort"

// DomTree is the dominator tree of one function's CFG.
type DomTree struct {
	dom      map[int]map[int]bool
	idom     map[int]*int
	children map[int][]int
	entry    int
}

// Dominates reports whether a dominates b (reflexively: a dominates a).
func (t *DomTree) Dominates(a, b int) bool {
	return t.dom[b][a]
}

// ImmediateDominator returns b's immediate dominator, or nil if b is entry
// or unreachable.
func (t *DomTree) ImmediateDominator(b int) *int {
	return t.idom[b]
}

// Children returns b's children in the dominator tree, sorted by id.
func (t *DomTree) Children(b int) []int {
	return t.children[b]
}

// Set returns the full dominator set of b, sorted by id.
func (t *DomTree) Set(b int) []int {
	var out []int

	for id, present := range t.dom[b] {
		if present {
			out = append(out, id)
		}
	}

	sort.Ints(out)

	return out
}

// BuildDomTree computes dominance by iterating the data-flow equations
// dom(entry) = {entry}; dom(b) = {b} ∪ ⋂ dom(preds(b)) to a fixed point.
// Blocks with no predecessors (other than entry) are unreachable and
// dominate only themselves.
func BuildDomTree(g *CFG) *DomTree {
	t := &DomTree{
		dom:      make(map[int]map[int]bool),
		idom:     make(map[int]*int),
		children: make(map[int][]int),
		entry:    g.EntryID,
	}

	all := make(map[int]bool)
	for _, id := range g.Order() {
		all[id] = true
	}

	for _, id := range g.Order() {
		if id == g.EntryID {
			t.dom[id] = map[int]bool{id: true}
			continue
		}

		full := make(map[int]bool, len(all))
		for id2 := range all {
			full[id2] = true
		}

		t.dom[id] = full
	}

	changed := true
	for changed {
		changed = false

		for _, id := range g.Order() {
			if id == g.EntryID {
				continue
			}

			preds := g.Predecessors[id]

			var next map[int]bool

			if len(preds) == 0 {
				next = map[int]bool{id: true}
			} else {
				for i, p := range preds {
					if i == 0 {
						next = copySet(t.dom[p])
					} else {
						next = intersect(next, t.dom[p])
					}
				}

				next[id] = true
			}

			if !setsEqual(next, t.dom[id]) {
				t.dom[id] = next
				changed = true
			}
		}
	}

	for _, id := range g.Order() {
		if id == g.EntryID {
			continue
		}

		if len(t.dom[id]) == 1 && t.dom[id][id] {
			continue
		}

		t.idom[id] = findImmediateDominator(t, id)
	}

	for _, id := range g.Order() {
		if p := t.idom[id]; p != nil {
			t.children[*p] = append(t.children[*p], id)
		}
	}

	for id := range t.children {
		sort.Ints(t.children[id])
	}

	return t
}

// findImmediateDominator finds the unique element of dom(b)\{b} dominated
// by every other element of that set.
func findImmediateDominator(t *DomTree, b int) *int {
	var candidates []int

	for id, present := range t.dom[b] {
		if present && id != b {
			candidates = append(candidates, id)
		}
	}

	for _, c := range candidates {
		dominatedByAllOthers := true

		for _, other := range candidates {
			if other == c {
				continue
			}

			if !t.dom[c][other] {
				dominatedByAllOthers = false
				break
			}
		}

		if dominatedByAllOthers {
			id := c
			return &id
		}
	}

	return nil
}

func copySet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k, v := range s {
		out[k] = v
	}

	return out
}

func intersect(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool)

	for k := range a {
		if b[k] {
			out[k] = true
		}
	}

	return out
}

func setsEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}

	for k := range a {
		if !b[k] {
			return false
		}
	}

	return true
}
