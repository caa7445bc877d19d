package descriptor

import (
	"fmt"
	"iter"
	"strings"
)

// DefaultWeight is used for members declared without a weight
const DefaultWeight = 1

// Member is one child of a group together with its weight. The weight only
// matters for the Weighted strategy.
type Member struct {
	Descriptor Descriptor
	Weight     int
}

// Members wraps ds as members with the default weight
func Members(ds ...Descriptor) []Member {
	members := make([]Member, len(ds))
	for i, d := range ds {
		members[i] = Member{Descriptor: d, Weight: DefaultWeight}
	}
	return members
}

// GroupDescriptor is a composite of descriptors tried according to a strategy.
type GroupDescriptor struct {
	strategy    SelectionStrategy
	members     []Member
	weights     []int
	targetCount int
}

// NewGroupDescriptor builds a group. A zero weight is replaced by DefaultWeight.
func NewGroupDescriptor(strategy SelectionStrategy, members []Member) (*GroupDescriptor, error) {
	if !strategy.IsValid() {
		return nil, fmt.Errorf("invalid selection strategy %q", strategy)
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}
	g := &GroupDescriptor{
		strategy: strategy,
		members:  make([]Member, len(members)),
		weights:  make([]int, len(members)),
	}
	for i, m := range members {
		if m.Descriptor == nil {
			return nil, fmt.Errorf("member %d: %w", i, ErrNilMember)
		}
		if m.Weight < 0 {
			return nil, fmt.Errorf("member %d: negative weight %d", i, m.Weight)
		}
		if m.Weight == 0 {
			m.Weight = DefaultWeight
		}
		g.members[i] = m
		g.weights[i] = m.Weight
		g.targetCount += m.Descriptor.TargetCount()
	}
	return g, nil
}

// Strategy returns the selection strategy of the group
func (g *GroupDescriptor) Strategy() SelectionStrategy {
	return g.strategy
}

// Members returns a copy of the members in declaration order
func (g *GroupDescriptor) Members() []Member {
	members := make([]Member, len(g.members))
	copy(members, g.members)
	return members
}

func (g *GroupDescriptor) IsGroup() bool {
	return true
}

// IterateTargets flattens the group depth first. The member order is drawn each
// time the sequence is traversed.
func (g *GroupDescriptor) IterateTargets() iter.Seq[*TargetDescriptor] {
	return func(yield func(*TargetDescriptor) bool) {
		for _, i := range g.strategy.order(g.weights) {
			for t := range g.members[i].Descriptor.IterateTargets() {
				if !yield(t) {
					return
				}
			}
		}
	}
}

func (g *GroupDescriptor) TargetCount() int {
	return g.targetCount
}

func (g *GroupDescriptor) TargetByFingerprint(crc uint32) *TargetDescriptor {
	for _, m := range g.members {
		if t := m.Descriptor.TargetByFingerprint(crc); t != nil {
			return t
		}
	}
	return nil
}

func (g *GroupDescriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "GroupDescriptor{strategy: %s, members: [", g.strategy)
	for i, m := range g.members {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.Descriptor.String())
		if g.strategy == Weighted {
			fmt.Fprintf(&b, " weight=%d", m.Weight)
		}
	}
	b.WriteString("]}")
	return b.String()
}
