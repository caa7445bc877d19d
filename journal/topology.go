package journal

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/xinsproject/servicecall/db/compatibility"
	"github.com/xinsproject/servicecall/descriptor"
)

// Topology lists, per descriptor, the targets in declaration order. The journal
// stores it so rows written under another configuration are detected.
type Topology struct {
	Descriptors map[string][]string `json:"descriptors"`
}

var _ compatibility.CompatibilityComparer[Topology] = Topology{}

func NewTopology(descriptors map[string]descriptor.Descriptor) Topology {
	t := Topology{Descriptors: make(map[string][]string, len(descriptors))}
	for name, d := range descriptors {
		targets := descriptor.Targets(d)
		entries := make([]string, len(targets))
		for i, target := range targets {
			entries[i] = fmt.Sprintf("%s#%08x", target.URL(), target.Fingerprint())
		}
		t.Descriptors[name] = entries
	}
	return t
}

// IsCompatible fails when a descriptor known to both topologies has different targets
func (t Topology) IsCompatible(storage Topology) error {
	for name, targets := range t.Descriptors {
		stored, ok := storage.Descriptors[name]
		if !ok {
			continue
		}
		if !slices.Equal(targets, stored) {
			return fmt.Errorf("targets of descriptor %s changed: %w", name, compatibility.ErrIncompatibleData)
		}
	}
	return nil
}

func (t Topology) String() string {
	names := slices.Sorted(maps.Keys(t.Descriptors))
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=[%s]", name, strings.Join(t.Descriptors[name], " "))
	}
	return strings.Join(parts, ", ")
}
