// complex.go — the Complex value: maximal simplices plus vertex identifications.
//
// A Complex is immutable once constructed. Everything beyond the maximal
// simplex set and the union-find is derived on demand: dimension, the vertex
// set, the full face lattice and a stable vertex ordering (used only for
// deterministic row/column indexing in homology, never for semantics).
package scl

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// VertexName is an opaque, totally ordered vertex identifier: either a
// token from the source program or a synthesized fresh name (__v<n>).
type VertexName string

// Simplex is a finite non-empty set of vertices representing one face.
// The slice is kept sorted and duplicate-free; use NewSimplex to build one.
type Simplex []VertexName

// NewSimplex builds a simplex from the given vertices, sorting and
// deduplicating them.
func NewSimplex(verts ...VertexName) Simplex {
	s := make(Simplex, len(verts))
	copy(s, verts)
	slices.Sort(s)
	return slices.Compact(s)
}

// Dim is the simplex dimension: |s| - 1.
func (s Simplex) Dim() int { return len(s) - 1 }

// Has reports membership of v.
func (s Simplex) Has(v VertexName) bool {
	_, ok := slices.BinarySearch(s, v)
	return ok
}

// Key is a canonical identity string for set-of-simplices bookkeeping.
func (s Simplex) Key() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = string(v)
	}
	return strings.Join(parts, "\x1f")
}

func (s Simplex) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = string(v)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Complex is a simplicial complex: a set of maximal simplices together with
// one union-find scoping exactly the vertices appearing in those simplices.
// Values are immutable; every algebra operation returns a new Complex.
type Complex struct {
	simplices map[string]Simplex
	uf        *UnionFind[VertexName]
}

// NewComplex builds a complex from the given simplices and identification
// structure. A nil uf gets replaced by an empty one. Vertices appearing in
// the simplices are registered in the union-find if missing.
func NewComplex(simplices []Simplex, uf *UnionFind[VertexName]) *Complex {
	if uf == nil {
		uf = NewUnionFind[VertexName]()
	}
	set := make(map[string]Simplex, len(simplices))
	for _, s := range simplices {
		set[s.Key()] = s
		for _, v := range s {
			uf.Add(v)
		}
	}
	return &Complex{simplices: set, uf: uf}
}

// EmptyComplex is the complex with no simplices (dimension -1).
func EmptyComplex() *Complex { return NewComplex(nil, nil) }

// Dimension is max(|σ|) - 1 over the maximal simplices, or -1 when empty.
func (c *Complex) Dimension() int {
	dim := -1
	for _, s := range c.simplices {
		if d := s.Dim(); d > dim {
			dim = d
		}
	}
	return dim
}

// Vertices is the sorted union of all maximal simplices.
func (c *Complex) Vertices() []VertexName {
	seen := make(map[VertexName]struct{})
	for _, s := range c.simplices {
		for _, v := range s {
			seen[v] = struct{}{}
		}
	}
	out := make([]VertexName, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// NumVertices is len(Vertices) without building the slice twice.
func (c *Complex) NumVertices() int {
	seen := make(map[VertexName]struct{})
	for _, s := range c.simplices {
		for _, v := range s {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// MaximalSimplices returns the stored simplices in a deterministic order.
func (c *Complex) MaximalSimplices() []Simplex {
	keys := make([]string, 0, len(c.simplices))
	for k := range c.simplices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Simplex, len(keys))
	for i, k := range keys {
		out[i] = c.simplices[k]
	}
	return out
}

// AllFaces enumerates every face of the complex: each non-empty subset of
// each maximal simplex, deduplicated. Order is deterministic (by key).
func (c *Complex) AllFaces() []Simplex {
	faces := make(map[string]Simplex)
	for _, s := range c.simplices {
		n := len(s)
		for mask := 1; mask < 1<<n; mask++ {
			var f Simplex
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					f = append(f, s[i])
				}
			}
			faces[f.Key()] = f
		}
	}
	keys := make([]string, 0, len(faces))
	for k := range faces {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Simplex, len(keys))
	for i, k := range keys {
		out[i] = faces[k]
	}
	return out
}

// NumFaces counts all faces, not just the maximal ones.
func (c *Complex) NumFaces() int { return len(c.AllFaces()) }

// VertexOrder maps each vertex to its index in the stable enumeration order
// (sorted vertex names). Homology uses it so that "drop vertex i from the
// ordered tuple" is deterministic.
func (c *Complex) VertexOrder() map[VertexName]int {
	out := make(map[VertexName]int)
	for i, v := range c.Vertices() {
		out[v] = i
	}
	return out
}

// Canonical returns the representative of v's identification class. A
// vertex the complex has never seen is its own representative; it is not
// registered by the lookup.
func (c *Complex) Canonical(v VertexName) VertexName {
	if !c.uf.Has(v) {
		return v
	}
	return c.uf.Find(v)
}

// SameClass reports whether the complex identifies v and w.
func (c *Complex) SameClass(v, w VertexName) bool {
	if !c.uf.Has(v) || !c.uf.Has(w) {
		return v == w
	}
	return c.uf.Same(v, w)
}

// Classes returns the identification classes: representative → sorted members.
func (c *Complex) Classes() map[VertexName][]VertexName { return c.uf.Classes() }

func (c *Complex) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Complex(dim=%d, simplices=[", c.Dimension())
	for i, s := range c.MaximalSimplices() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(s.String())
	}
	b.WriteString("])")
	return b.String()
}
