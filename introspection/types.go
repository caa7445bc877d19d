package introspection

import (
	"fmt"

	"github.com/xinsproject/servicecall/descriptor"
)

const (
	kindTarget = "target"
	kindGroup  = "group"
)

// DescriptorSummary is an entry of the descriptors list
type DescriptorSummary struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	TargetCount int    `json:"target_count"`
}

// DescriptorNode is the JSON form of a descriptor tree
type DescriptorNode struct {
	Kind        string            `json:"kind"`
	URL         string            `json:"url,omitempty"`
	TimeoutMs   int64             `json:"timeout_ms,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Strategy    string            `json:"strategy,omitempty"`
	Weight      int               `json:"weight,omitempty"`
	TargetCount int               `json:"target_count"`
	Members     []*DescriptorNode `json:"members,omitempty"`
}

// TargetView is a leaf target
type TargetView struct {
	URL         string `json:"url"`
	TimeoutMs   int64  `json:"timeout_ms"`
	Fingerprint string `json:"fingerprint"`
}

// OrderResult is one drawn iteration order of a descriptor
type OrderResult struct {
	Descriptor string        `json:"descriptor"`
	Targets    []*TargetView `json:"targets"`
}

func fingerprintHex(crc uint32) string {
	return fmt.Sprintf("%08x", crc)
}

func newTargetView(t *descriptor.TargetDescriptor) *TargetView {
	return &TargetView{
		URL:         t.URL(),
		TimeoutMs:   t.Timeout().Milliseconds(),
		Fingerprint: fingerprintHex(t.Fingerprint()),
	}
}

func kindOf(d descriptor.Descriptor) string {
	if d.IsGroup() {
		return kindGroup
	}
	return kindTarget
}

// NewDescriptorNode converts a descriptor tree. weight is the weight of d inside
// its parent group, 0 for a root.
func NewDescriptorNode(d descriptor.Descriptor, weight int) *DescriptorNode {
	node := &DescriptorNode{
		Kind:        kindOf(d),
		Weight:      weight,
		TargetCount: d.TargetCount(),
	}
	switch v := d.(type) {
	case *descriptor.TargetDescriptor:
		node.URL = v.URL()
		node.TimeoutMs = v.Timeout().Milliseconds()
		node.Fingerprint = fingerprintHex(v.Fingerprint())
	case *descriptor.GroupDescriptor:
		node.Strategy = v.Strategy().String()
		for _, m := range v.Members() {
			node.Members = append(node.Members, NewDescriptorNode(m.Descriptor, m.Weight))
		}
	}
	return node
}
