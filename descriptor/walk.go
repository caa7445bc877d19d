package descriptor

import "github.com/golang-collections/collections/stack"

type walkItem struct {
	d     Descriptor
	depth int
}

// Walk visits the tree pre-order, members in declaration order regardless of the
// group strategy. Returning false from fn skips the members of that node.
func Walk(d Descriptor, fn func(d Descriptor, depth int) bool) {
	pending := stack.New()
	pending.Push(walkItem{d: d})
	for pending.Len() > 0 {
		item := pending.Pop().(walkItem) //nolint:forcetypeassert
		if !fn(item.d, item.depth) {
			continue
		}
		g, ok := item.d.(*GroupDescriptor)
		if !ok {
			continue
		}
		for i := len(g.members) - 1; i >= 0; i-- {
			pending.Push(walkItem{d: g.members[i].Descriptor, depth: item.depth + 1})
		}
	}
}

// Targets lists the leaves of d in declaration order
func Targets(d Descriptor) []*TargetDescriptor {
	targets := make([]*TargetDescriptor, 0, d.TargetCount())
	Walk(d, func(node Descriptor, _ int) bool {
		if t, ok := node.(*TargetDescriptor); ok {
			targets = append(targets, t)
		}
		return true
	})
	return targets
}
