package scl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionFind_FindAutoAdds(t *testing.T) {
	uf := NewUnionFind[string]()
	require.Equal(t, "a", uf.Find("a"))
	assert.True(t, uf.Has("a"))
	assert.Equal(t, 1, uf.Len())
}

func TestUnionFind_FindIdempotentAfterCompression(t *testing.T) {
	uf := NewUnionFind[string]()
	// Build a chain a-b-c-d and make sure repeated finds agree.
	uf.Union("a", "b")
	uf.Union("b", "c")
	uf.Union("c", "d")
	rep := uf.Find("a")
	for _, v := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, rep, uf.Find(v))
		assert.Equal(t, rep, uf.Find(v))
	}
}

func TestUnionFind_UnionByRankJoinsClasses(t *testing.T) {
	uf := NewUnionFind[string]()
	uf.Union("a", "b")
	uf.Union("c", "d")
	assert.False(t, uf.Same("a", "c"))
	uf.Union("b", "c")
	assert.True(t, uf.Same("a", "d"))
}

func TestUnionFind_Classes(t *testing.T) {
	uf := NewUnionFind[string]()
	uf.Union("a", "b")
	uf.Add("z")
	classes := uf.Classes()
	require.Len(t, classes, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, classes[uf.Find("a")])
	assert.Equal(t, []string{"z"}, classes[uf.Find("z")])
}

func TestUnionFind_MergePreservesBothRelations(t *testing.T) {
	left := NewUnionFind[string]()
	left.Union("a", "b")
	left.Add("x")

	right := NewUnionFind[string]()
	right.Union("c", "d")
	right.Add("x")

	merged := left.Merge(right)
	assert.True(t, merged.Same("a", "b"))
	assert.True(t, merged.Same("c", "d"))
	assert.False(t, merged.Same("a", "c"))
	assert.True(t, merged.Has("x"))
}

func TestUnionFind_MergeTransitiveClosureAcrossInputs(t *testing.T) {
	// a~b in the left structure, b~c in the right one. The merged relation
	// must connect a and c through the shared element b.
	left := NewUnionFind[string]()
	left.Union("a", "b")

	right := NewUnionFind[string]()
	right.Union("b", "c")

	merged := left.Merge(right)
	assert.True(t, merged.Same("a", "c"))
}

func TestUnionFind_MergeCommutative(t *testing.T) {
	left := NewUnionFind[string]()
	left.Union("a", "b")
	left.Union("p", "q")

	right := NewUnionFind[string]()
	right.Union("b", "c")
	right.Union("q", "r")

	lr := left.Merge(right)
	rl := right.Merge(left)

	nodes := lr.Nodes()
	require.Equal(t, nodes, rl.Nodes())
	for _, v := range nodes {
		for _, w := range nodes {
			assert.Equal(t, lr.Same(v, w), rl.Same(v, w), "%s ~ %s", v, w)
		}
	}
}

func TestUnionFind_MergeDoesNotTouchInputs(t *testing.T) {
	left := NewUnionFind[string]()
	left.Add("a")
	right := NewUnionFind[string]()
	right.Add("b")

	merged := left.Merge(right)
	merged.Union("a", "b")

	assert.False(t, left.Has("b"))
	assert.False(t, right.Has("a"))
}
