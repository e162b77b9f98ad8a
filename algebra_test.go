package scl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simplexKeys(simplices []Simplex) []string {
	out := make([]string, len(simplices))
	for i, s := range simplices {
		out[i] = s.Key()
	}
	return out
}

func TestUnion_DisjointComplexes(t *testing.T) {
	k := mkComplex(t, []VertexName{"a", "b", "c"})
	l := mkComplex(t, []VertexName{"c", "d"})

	u, err := Union(k, l)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Dimension())
	assert.Equal(t, []VertexName{"a", "b", "c", "d"}, u.Vertices())
	assert.ElementsMatch(t,
		simplexKeys([]Simplex{NewSimplex("a", "b", "c"), NewSimplex("c", "d")}),
		simplexKeys(u.MaximalSimplices()))
}

func TestUnion_CommutativeOnDisjointInputs(t *testing.T) {
	a := mkComplex(t, []VertexName{"a", "b"})
	b := mkComplex(t, []VertexName{"x", "y", "z"})

	ab, err := Union(a, b)
	require.NoError(t, err)
	ba, err := Union(b, a)
	require.NoError(t, err)
	assert.ElementsMatch(t, simplexKeys(ab.MaximalSimplices()), simplexKeys(ba.MaximalSimplices()))
}

func TestUnion_RejectsIncompatibleIdentifications(t *testing.T) {
	// Both complexes contain a and b, but only the first identifies them
	// via a third vertex glued over.
	uf1 := NewUnionFind[VertexName]()
	uf1.Union("a", "b")
	k1 := NewComplex([]Simplex{NewSimplex("a"), NewSimplex("b")}, uf1)

	k2 := mkComplex(t, []VertexName{"a", "b"})

	_, err := Union(k1, k2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompatibleIdentification)
}

func TestUnion_RejectsDegenerateSimplex(t *testing.T) {
	// The identification a~b lives in one operand; the other operand's
	// edge {a,b} collapses under the merged structure.
	uf1 := NewUnionFind[VertexName]()
	uf1.Union("a", "b")
	k1 := NewComplex([]Simplex{NewSimplex("a")}, uf1)

	// The second operand carries the doomed simplex but no opinion on a~b;
	// its only vertex in common with k1 is a, so the precheck passes.
	k2 := NewComplex([]Simplex{NewSimplex("a", "b")}, NewUnionFind[VertexName]())

	_, err := Union(k1, k2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateSimplex)
}

func TestGlue_IdentifiesAcrossComplexes(t *testing.T) {
	k := mkComplex(t, []VertexName{"a", "b", "c"})
	l := mkComplex(t, []VertexName{"d", "e"})

	g, err := Glue(k, l, []MappingPair{{From: "c", To: "d"}})
	require.NoError(t, err)

	// Four classes: {a} {b} {c,d} {e}.
	assert.Len(t, g.Classes(), 4)
	assert.True(t, g.SameClass("c", "d"))
	assert.False(t, g.SameClass("c", "e"))
	assert.Equal(t, 2, g.Dimension())

	// The edge {d,e} canonicalizes through the merged class of c/d.
	rep := g.Canonical("c")
	found := false
	for _, s := range g.MaximalSimplices() {
		if len(s) == 2 && s.Has(rep) && s.Has("e") {
			found = true
		}
	}
	assert.True(t, found, "expected the glued edge to survive canonically, got %v", g.MaximalSimplices())
}

func TestGlue_EmptyMappingEquivalentToUnion(t *testing.T) {
	k := mkComplex(t, []VertexName{"a", "b", "c"})
	l := mkComplex(t, []VertexName{"c", "d"})

	g, err := Glue(k, l, nil)
	require.NoError(t, err)
	u, err := Union(k, l)
	require.NoError(t, err)

	assert.ElementsMatch(t, simplexKeys(u.MaximalSimplices()), simplexKeys(g.MaximalSimplices()))
	assert.Equal(t, u.Vertices(), g.Vertices())
}

func TestGlue_RejectsOneSourceTwoTargets(t *testing.T) {
	k := mkComplex(t, []VertexName{"a", "b", "c"})
	l := mkComplex(t, []VertexName{"x", "y"})

	_, err := Glue(k, l, []MappingPair{{From: "a", To: "x"}, {From: "a", To: "y"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictingMapping)
}

func TestGlue_RejectsNonInjectiveMapping(t *testing.T) {
	k := mkComplex(t, []VertexName{"a", "b", "c"})
	l := mkComplex(t, []VertexName{"d", "e"})

	_, err := Glue(k, l, []MappingPair{{From: "a", To: "d"}, {From: "b", To: "d"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictingMapping)
}

func TestGlue_RejectsAbsentVertices(t *testing.T) {
	k := mkComplex(t, []VertexName{"a", "b"})
	l := mkComplex(t, []VertexName{"x"})

	_, err := Glue(k, l, []MappingPair{{From: "zz", To: "x"}})
	assert.ErrorIs(t, err, ErrVertexNotFound)

	_, err = Glue(k, l, []MappingPair{{From: "a", To: "zz"}})
	assert.ErrorIs(t, err, ErrVertexNotFound)
}

func TestGlue_TargetsInOneClassAreAMappingConflict(t *testing.T) {
	// x and y are already identified in the second complex, so the two
	// entries send distinct source classes to one target class: the
	// injectivity check fires, not the pairwise consistency check.
	uf2 := NewUnionFind[VertexName]()
	uf2.Union("x", "y")
	l := NewComplex([]Simplex{NewSimplex("x"), NewSimplex("y")}, uf2)
	k := mkComplex(t, []VertexName{"a", "b"})

	_, err := Glue(k, l, []MappingPair{{From: "a", To: "x"}, {From: "b", To: "y"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictingMapping)
}

func TestGlue_DuplicateEntriesForOneClassPairAreAccepted(t *testing.T) {
	// a~b in the first complex, so both entries name the same class pair.
	uf1 := NewUnionFind[VertexName]()
	uf1.Union("a", "b")
	k := NewComplex([]Simplex{NewSimplex(uf1.Find("a"))}, uf1)
	l := mkComplex(t, []VertexName{"x"})

	g, err := Glue(k, l, []MappingPair{{From: "a", To: "x"}, {From: "b", To: "x"}})
	require.NoError(t, err)
	assert.True(t, g.SameClass("a", "x"))
	assert.True(t, g.SameClass("b", "x"))
}

func TestJoin_PointWithEdgeIsTriangle(t *testing.T) {
	p := mkComplex(t, []VertexName{"p"})
	e := mkComplex(t, []VertexName{"a", "b"})

	j, err := Join(p, e)
	require.NoError(t, err)
	assert.Equal(t, 2, j.Dimension())
	require.Len(t, j.MaximalSimplices(), 1)
	assert.Equal(t, NewSimplex("a", "b", "p"), j.MaximalSimplices()[0])
}

func TestJoin_AssociativeOnDisjointInputs(t *testing.T) {
	a := mkComplex(t, []VertexName{"a"})
	b := mkComplex(t, []VertexName{"b"})
	c := mkComplex(t, []VertexName{"c", "d"})

	ab, err := Join(a, b)
	require.NoError(t, err)
	left, err := Join(ab, c)
	require.NoError(t, err)

	bc, err := Join(b, c)
	require.NoError(t, err)
	right, err := Join(a, bc)
	require.NoError(t, err)

	assert.Equal(t, left.Vertices(), right.Vertices())
	assert.ElementsMatch(t, simplexKeys(left.MaximalSimplices()), simplexKeys(right.MaximalSimplices()))
}

func TestPickVertex_MostRecentlyDeclaredWins(t *testing.T) {
	c := mkComplex(t, []VertexName{"a", "b", "c"})
	order := map[VertexName]int{"a": 0, "b": 1, "c": 2}

	p, err := PickVertex(c, order)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Dimension())
	require.Len(t, p.MaximalSimplices(), 1)
	assert.Equal(t, NewSimplex("c"), p.MaximalSimplices()[0])
}

func TestPickVertex_UnregisteredNeverBeatsRegistered(t *testing.T) {
	c := mkComplex(t, []VertexName{"a", "zz"})
	order := map[VertexName]int{"a": 0} // zz was never declared

	p, err := PickVertex(c, order)
	require.NoError(t, err)
	assert.Equal(t, NewSimplex("a"), p.MaximalSimplices()[0])
}

func TestPickVertex_KeepsWholeClass(t *testing.T) {
	uf := NewUnionFind[VertexName]()
	uf.Union("a", "b")
	c := NewComplex([]Simplex{NewSimplex(uf.Find("a"))}, uf)

	p, err := PickVertex(c, map[VertexName]int{"a": 0, "b": 1})
	require.NoError(t, err)
	assert.True(t, p.SameClass("a", "b"))
	require.Len(t, p.MaximalSimplices(), 1)
	assert.Len(t, p.MaximalSimplices()[0], 1)
}

func TestPickVertex_EmptyComplexFails(t *testing.T) {
	_, err := PickVertex(EmptyComplex(), nil)
	assert.ErrorIs(t, err, ErrEmptyComplex)
}
