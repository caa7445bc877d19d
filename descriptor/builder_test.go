package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildService(t *testing.T) {
	d, err := Build(MapSource{"x": "service, http://a.example/p, 500"}, "x")
	require.NoError(t, err)

	target, ok := d.(*TargetDescriptor)
	require.True(t, ok)
	require.Equal(t, "http://a.example/p", target.URL())
	require.Equal(t, 500*time.Millisecond, target.Timeout())
}

func TestBuildGroup(t *testing.T) {
	src := MapSource{
		"g":    "group, ordered, t1, t2",
		"g.t1": "service, http://a/, 100",
		"g.t2": "service, http://b/, 100",
	}
	d, err := Build(src, "g")
	require.NoError(t, err)

	g, ok := d.(*GroupDescriptor)
	require.True(t, ok)
	require.Equal(t, Ordered, g.Strategy())
	members := g.Members()
	require.Len(t, members, 2)
	require.Equal(t, "http://a/", members[0].Descriptor.(*TargetDescriptor).URL())
	require.Equal(t, "http://b/", members[1].Descriptor.(*TargetDescriptor).URL())
}

func TestBuildWeightedReferences(t *testing.T) {
	src := MapSource{
		"lb":        "group, load-balanced, primary:3, backup",
		"primary":   "service, http://primary/, 100",
		"lb.backup": "service, http://backup/, 0",
	}
	d, err := Build(src, "lb")
	require.NoError(t, err)

	g := d.(*GroupDescriptor) //nolint:forcetypeassert
	require.Equal(t, Weighted, g.Strategy())
	members := g.Members()
	require.Equal(t, 3, members[0].Weight)
	require.Equal(t, DefaultWeight, members[1].Weight)
	require.False(t, members[1].Descriptor.(*TargetDescriptor).HasTimeout())
}

func TestBuildSharedReferenceIsNotACycle(t *testing.T) {
	src := MapSource{
		"root":   "group, ordered, left, right",
		"left":   "group, ordered, shared",
		"right":  "group, random, shared",
		"shared": "service, http://shared/, 100",
	}
	d, err := Build(src, "root")
	require.NoError(t, err)
	require.Equal(t, 2, d.TargetCount())
}

func TestBuildSharedReferencesAreBuiltOnce(t *testing.T) {
	const depth = 40
	src := MapSource{fmt.Sprintf("l%d", depth): "service, http://leaf/, 10"}
	for i := range depth {
		src[fmt.Sprintf("l%d", i)] = fmt.Sprintf("group, ordered, a%d, b%d", i, i)
		src[fmt.Sprintf("a%d", i)] = fmt.Sprintf("group, ordered, l%d", i+1)
		src[fmt.Sprintf("b%d", i)] = fmt.Sprintf("group, random, l%d", i+1)
	}

	d, err := Build(src, "l0")
	require.NoError(t, err)
	require.Equal(t, 1<<depth, d.TargetCount())

	members := d.(*GroupDescriptor).Members()
	left := members[0].Descriptor.(*GroupDescriptor).Members()[0].Descriptor
	right := members[1].Descriptor.(*GroupDescriptor).Members()[0].Descriptor
	require.Same(t, left, right)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    MapSource
		key    string
		assert func(t *testing.T, err error)
	}{
		{
			name: "missing key",
			src:  MapSource{},
			key:  "x",
			assert: func(t *testing.T, err error) {
				var notFound *PropertyNotFoundError
				require.ErrorAs(t, err, &notFound)
				require.Equal(t, "x", notFound.Key)
			},
		},
		{
			name: "missing reference",
			src:  MapSource{"g": "group, ordered, nope"},
			key:  "g",
			assert: func(t *testing.T, err error) {
				var notFound *PropertyNotFoundError
				require.ErrorAs(t, err, &notFound)
				require.Equal(t, "g.nope", notFound.Key)
				require.Equal(t, "nope", notFound.Fallback)
				require.ErrorContains(t, err, `"g.nope" not found (nor "nope")`)
			},
		},
		{
			name:   "unknown type",
			src:    MapSource{"x": "endpoint, http://a/, 1"},
			key:    "x",
			assert: requireFormatError("unrecognized descriptor type"),
		},
		{
			name:   "service with too many tokens",
			src:    MapSource{"x": "service, http://a/, 1, 2"},
			key:    "x",
			assert: requireFormatError("expected 3 tokens"),
		},
		{
			name:   "non numeric timeout",
			src:    MapSource{"x": "service, http://a/, soon"},
			key:    "x",
			assert: requireFormatError("timeout is not an integer"),
		},
		{
			name: "malformed url",
			src:  MapSource{"x": "service, not a url, 10"},
			key:  "x",
			assert: func(t *testing.T, err error) {
				requireFormatError("malformed url")(t, err)
				var addrErr *InvalidAddressError
				require.ErrorAs(t, err, &addrErr)
			},
		},
		{
			name:   "unknown strategy",
			src:    MapSource{"g": "group, fastest, a", "a": "service, http://a/, 1"},
			key:    "g",
			assert: requireFormatError("unknown selection strategy"),
		},
		{
			name:   "group without references",
			src:    MapSource{"g": "group, ordered"},
			key:    "g",
			assert: requireFormatError("group without references"),
		},
		{
			name:   "invalid weight",
			src:    MapSource{"g": "group, weighted, a:0", "a": "service, http://a/, 1"},
			key:    "g",
			assert: requireFormatError("invalid reference"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Build(tt.src, tt.key)
			require.Nil(t, d)
			tt.assert(t, err)
		})
	}
}

func requireFormatError(reason string) func(t *testing.T, err error) {
	return func(t *testing.T, err error) {
		t.Helper()
		var formatErr *PropertyFormatError
		require.ErrorAs(t, err, &formatErr)
		require.Contains(t, formatErr.Reason, reason)
	}
}

func TestBuildCycles(t *testing.T) {
	tests := []struct {
		name string
		src  MapSource
		path []string
	}{
		{
			name: "self reference",
			src:  MapSource{"g": "group, ordered, g"},
			path: []string{"g", "g"},
		},
		{
			name: "child references parent",
			src: MapSource{
				"g":    "group, ordered, t1",
				"g.t1": "group, random, g",
			},
			path: []string{"g", "g.t1", "g"},
		},
		{
			name: "transitive",
			src: MapSource{
				"a":  "group, ordered, b",
				"b":  "group, ordered, ok, c",
				"c":  "group, weighted, a",
				"ok": "service, http://ok/, 1",
			},
			path: []string{"a", "b", "c", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.src, tt.path[0])
			var cycleErr *CyclicReferenceError
			require.ErrorAs(t, err, &cycleErr)
			require.Equal(t, tt.path[0], cycleErr.Key)
			require.Equal(t, tt.path, cycleErr.Path)
		})
	}
}

func TestBuildAll(t *testing.T) {
	src := MapSource{
		"a": "service, http://a/, 1",
		"b": "group, ordered, a",
	}
	all, err := BuildAll(src, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = BuildAll(src, []string{"a", "missing"})
	require.ErrorContains(t, err, "building descriptor missing")
}

func TestTargetCountMatchesIteration(t *testing.T) {
	src := MapSource{
		"root":       "group, random, a, nested, b",
		"root.a":     "service, http://a/, 1",
		"root.b":     "service, http://b/, 1",
		"nested":     "group, weighted, c:2, d, e:5",
		"nested.c":   "service, http://c/, 1",
		"nested.d":   "service, http://d/, 1",
		"nested.e":   "group, ordered, root.a, f",
		"nested.e.f": "service, http://f/, 1",
	}
	d, err := Build(src, "root")
	require.NoError(t, err)
	for range 20 {
		require.Equal(t, d.TargetCount(), len(slices.Collect(d.IterateTargets())))
	}
	require.Equal(t, 6, d.TargetCount())
}

func TestLoadProperties(t *testing.T) {
	text := `
# calculator service
g = group, ordered, t1, t2
g.t1 = service, http://a/, 100
g.t2 = service, http://b/, 100
`
	p, err := LoadPropertiesString(text)
	require.NoError(t, err)
	d, err := Build(p, "g")
	require.NoError(t, err)
	require.Equal(t, []string{"http://a/", "http://b/"}, urls(Targets(d)))

	path := filepath.Join(t.TempDir(), "descriptors.properties")
	require.NoError(t, os.WriteFile(path, []byte(text), 0600))
	p, err = LoadPropertiesFile(path)
	require.NoError(t, err)
	_, err = Build(p, "g")
	require.NoError(t, err)

	_, err = LoadPropertiesFile(filepath.Join(t.TempDir(), "missing.properties"))
	require.Error(t, err)
}
