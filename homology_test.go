package scl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkeletonMap_BucketsByDimension(t *testing.T) {
	c := mkComplex(t, []VertexName{"a", "b", "c"})
	sk := SkeletonMap(c)
	assert.Len(t, sk[0], 3)
	assert.Len(t, sk[1], 3)
	assert.Len(t, sk[2], 1)
}

func TestBoundaryMatrix_TriangleEdges(t *testing.T) {
	c := mkComplex(t, []VertexName{"a", "b", "c"})
	m := BoundaryMatrix(c, 1)
	require.Len(t, m, 3)    // rows: vertices
	require.Len(t, m[0], 3) // cols: edges
	// Every edge has exactly two endpoint entries.
	for j := 0; j < 3; j++ {
		sum := 0
		for i := 0; i < 3; i++ {
			sum += int(m[i][j])
		}
		assert.Equal(t, 2, sum)
	}
}

func TestRankMod2(t *testing.T) {
	assert.Equal(t, 0, rankMod2(nil))
	assert.Equal(t, 0, rankMod2([][]uint8{{0, 0}, {0, 0}}))
	assert.Equal(t, 1, rankMod2([][]uint8{{1, 1}, {1, 1}}))
	assert.Equal(t, 2, rankMod2([][]uint8{{1, 0}, {1, 1}}))
	// Rows that are GF(2) sums of others do not raise the rank.
	assert.Equal(t, 2, rankMod2([][]uint8{{1, 1, 0}, {0, 1, 1}, {1, 0, 1}}))
}

func TestBetti_FilledTriangle(t *testing.T) {
	c := mkComplex(t, []VertexName{"a", "b", "c"})
	assert.Equal(t, 1, BettiNumber(c, 0))
	assert.Equal(t, 0, BettiNumber(c, 1))
	assert.Equal(t, 0, BettiNumber(c, 2))
}

func TestBetti_HollowTriangle(t *testing.T) {
	c := mkComplex(t,
		[]VertexName{"a", "b"},
		[]VertexName{"b", "c"},
		[]VertexName{"a", "c"},
	)
	assert.Equal(t, 1, BettiNumber(c, 0))
	assert.Equal(t, 1, BettiNumber(c, 1))
}

func TestBetti_TwoComponents(t *testing.T) {
	c := mkComplex(t, []VertexName{"a", "b"}, []VertexName{"x", "y"})
	assert.Equal(t, 2, BettiNumber(c, 0))
	assert.Equal(t, 0, BettiNumber(c, 1))
}

func TestBetti_SphereFromTetrahedronBoundary(t *testing.T) {
	// The four 2-faces of a tetrahedron form a 2-sphere.
	c := mkComplex(t,
		[]VertexName{"a", "b", "c"},
		[]VertexName{"a", "b", "d"},
		[]VertexName{"a", "c", "d"},
		[]VertexName{"b", "c", "d"},
	)
	assert.Equal(t, 1, BettiNumber(c, 0))
	assert.Equal(t, 0, BettiNumber(c, 1))
	assert.Equal(t, 1, BettiNumber(c, 2))
}

func TestBetti_OutOfRangeDegreesAreZero(t *testing.T) {
	c := mkComplex(t, []VertexName{"a", "b", "c"})
	assert.Equal(t, 0, BettiNumber(c, -1))
	assert.Equal(t, 0, BettiNumber(c, 5))
	assert.Equal(t, 0, BettiNumber(EmptyComplex(), 0))
}

func TestHomology_AllDegrees(t *testing.T) {
	c := mkComplex(t,
		[]VertexName{"a", "b"},
		[]VertexName{"b", "c"},
		[]VertexName{"a", "c"},
	)
	assert.Equal(t, map[int]int{0: 1, 1: 1}, Homology(c))
}
