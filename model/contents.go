package model

// ContentsIterator walks a containment tree lazily in depth-first
// pre-order. Children are visited in their parent's reference-declaration
// order, each child subtree fully before the next sibling.
//
// Only containment references are followed; plain links may form cycles
// and are excluded on purpose. Already-visited objects are skipped as
// well, so the iteration terminates even over a graph whose containment
// edges were wired into a cycle by hand.
type ContentsIterator struct {
	stack []*Object
	seen  map[*Object]bool
}

// AllContents iterates over root and everything it transitively contains.
// Each call returns a fresh iterator; no cursor state is shared.
func AllContents(root *Object) *ContentsIterator {
	return newContentsIterator([]*Object{root})
}

// AllContents iterates over every object in the resource, starting from
// the roots in order.
func (r *Resource) AllContents() *ContentsIterator {
	return newContentsIterator(r.Roots())
}

func newContentsIterator(roots []*Object) *ContentsIterator {
	it := &ContentsIterator{
		seen: make(map[*Object]bool),
	}
	// Reversed so the stack pops roots in declaration order.
	for i := len(roots) - 1; i >= 0; i-- {
		it.stack = append(it.stack, roots[i])
	}
	return it
}

// Next returns the next object in pre-order, or false when the iteration
// is exhausted.
func (it *ContentsIterator) Next() (*Object, bool) {
	for len(it.stack) > 0 {
		o := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		if it.seen[o] {
			continue
		}
		it.seen[o] = true
		it.pushChildren(o)
		return o, true
	}
	return nil, false
}

func (it *ContentsIterator) pushChildren(o *Object) {
	refs := o.class.AllReferences()
	// Reversed twice over (references, then targets within each) so that
	// popping yields declaration order.
	for i := len(refs) - 1; i >= 0; i-- {
		if !refs[i].Containment {
			continue
		}
		targets := o.refs[refs[i].Name]
		for j := len(targets) - 1; j >= 0; j-- {
			it.stack = append(it.stack, targets[j])
		}
	}
}

// Collect drains the iterator into a slice. Mostly a test convenience.
func (it *ContentsIterator) Collect() []*Object {
	var out []*Object
	for o, ok := it.Next(); ok; o, ok = it.Next() {
		out = append(out, o)
	}
	return out
}
