package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	src := MapSource{
		"root":    "group, random, a, inner",
		"root.a":  "service, http://a/, 1",
		"inner":   "group, ordered, b, c",
		"inner.b": "service, http://b/, 1",
		"inner.c": "service, http://c/, 1",
	}
	d, err := Build(src, "root")
	require.NoError(t, err)

	var depths []int
	Walk(d, func(_ Descriptor, depth int) bool {
		depths = append(depths, depth)
		return true
	})
	require.Equal(t, []int{0, 1, 1, 2, 2}, depths)
	require.Equal(t, []string{"http://a/", "http://b/", "http://c/"}, urls(Targets(d)))

	visited := 0
	Walk(d, func(node Descriptor, depth int) bool {
		visited++
		return depth == 0
	})
	// root, a and inner but not the members of inner
	require.Equal(t, 3, visited)
}
