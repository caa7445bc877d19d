// Package descriptor models the topology a service is reachable through: single
// targets and groups of descriptors that decide in which order their members are
// tried.
package descriptor

import "iter"

// Descriptor is a node of a target topology, either a *TargetDescriptor leaf or a
// *GroupDescriptor. Descriptors are immutable once built and safe for concurrent use.
type Descriptor interface {
	// IsGroup reports whether the node is a group.
	IsGroup() bool
	// IterateTargets returns the leaf targets in the order they should be tried.
	// The sequence is finite, yields exactly TargetCount() targets and can be
	// traversed more than once. Randomized groups draw a new order on every traversal.
	IterateTargets() iter.Seq[*TargetDescriptor]
	// TargetCount is the number of leaf targets below (and including) this node.
	TargetCount() int
	// TargetByFingerprint returns the first leaf, in declaration order, whose
	// fingerprint equals crc, or nil.
	TargetByFingerprint(crc uint32) *TargetDescriptor
	String() string
}

var (
	_ Descriptor = (*TargetDescriptor)(nil)
	_ Descriptor = (*GroupDescriptor)(nil)
)
