package descriptor

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
)

// SelectionStrategy decides in which order the members of a group are tried.
type SelectionStrategy string

const (
	// Ordered tries the members in declaration order
	Ordered SelectionStrategy = "ordered"
	// Random tries the members in a uniformly random order
	Random SelectionStrategy = "random"
	// Weighted tries the members in a random order biased by their weight
	Weighted SelectionStrategy = "weighted"
)

// random sources, replaced in tests
var (
	randPerm    = rand.Perm
	randFloat64 = rand.Float64
)

// ParseSelectionStrategy parses a strategy name. "random-weighted" and
// "load-balanced" are accepted for Weighted.
func ParseSelectionStrategy(s string) (SelectionStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Ordered):
		return Ordered, nil
	case string(Random):
		return Random, nil
	case string(Weighted), "random-weighted", "load-balanced":
		return Weighted, nil
	default:
		return "", fmt.Errorf("unknown selection strategy %q", s)
	}
}

// IsValid reports whether s is one of the known strategies
func (s SelectionStrategy) IsValid() bool {
	switch s {
	case Ordered, Random, Weighted:
		return true
	}
	return false
}

func (s SelectionStrategy) String() string {
	return string(s)
}

// UnmarshalText allows using a SelectionStrategy in configuration files
func (s *SelectionStrategy) UnmarshalText(data []byte) error {
	parsed, err := ParseSelectionStrategy(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (SelectionStrategy) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Title:       "SelectionStrategy",
		Description: "Order in which the members of a group are tried",
		Enum:        []interface{}{string(Ordered), string(Random), string(Weighted)},
	}
}

// order returns the indexes of members in the order they must be tried
func (s SelectionStrategy) order(weights []int) []int {
	switch s {
	case Random:
		return randPerm(len(weights))
	case Weighted:
		return weightedOrder(weights)
	default:
		idx := make([]int, len(weights))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
}

// weightedOrder draws a permutation with probability proportional to weight,
// without replacement. Every member gets the key u^(1/w) and the members are
// sorted by descending key.
func weightedOrder(weights []int) []int {
	type keyed struct {
		idx int
		key float64
	}
	keys := make([]keyed, len(weights))
	for i, w := range weights {
		keys[i] = keyed{idx: i, key: math.Pow(randFloat64(), 1/float64(w))}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		switch {
		case a.key > b.key:
			return -1
		case a.key < b.key:
			return 1
		}
		return 0
	})
	idx := make([]int, len(keys))
	for i, k := range keys {
		idx[i] = k.idx
	}
	return idx
}
