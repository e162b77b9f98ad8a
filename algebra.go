// algebra.go — the four operations that combine Complex values.
//
// All four are pure: they read their operands, build a fresh union-find via
// Merge, and return a brand-new Complex or a typed failure. The shared
// edge-case policy: canonicalization happens exactly once per maximal
// simplex per operation, and the degeneracy check is a strict cardinality
// comparison. An identification that collapses two distinct vertices of the
// same simplex is a hard error, never absorbed.
package scl

import (
	"errors"
	"fmt"
)

// Failure conditions of the complex algebra. Callers match with errors.Is.
var (
	// ErrIncompatibleIdentification: two complexes disagree on whether a
	// pair of shared vertices denotes the same point.
	ErrIncompatibleIdentification = errors.New("incompatible vertex identifications")

	// ErrDegenerateSimplex: canonicalization collapsed two distinct
	// vertices of a single simplex together.
	ErrDegenerateSimplex = errors.New("degenerate simplex")

	// ErrVertexNotFound: a glue mapping references a vertex absent from
	// the corresponding operand.
	ErrVertexNotFound = errors.New("vertex not found")

	// ErrConflictingMapping: a glue mapping sends one class to two
	// targets, or two distinct classes to the same target.
	ErrConflictingMapping = errors.New("conflicting mapping")

	// ErrEmptyComplex: pick_vert on a complex with no vertices.
	ErrEmptyComplex = errors.New("empty complex")
)

// MappingPair is one a -> b entry of a glue mapping. Entries keep their
// source order so validation errors are deterministic.
type MappingPair struct {
	From VertexName
	To   VertexName
}

// canonicalize maps every vertex of s through uf.Find and fails if the
// image has fewer distinct vertices than s.
func canonicalize(s Simplex, uf *UnionFind[VertexName]) (Simplex, error) {
	mapped := make([]VertexName, len(s))
	for i, v := range s {
		mapped[i] = uf.Find(v)
	}
	canon := NewSimplex(mapped...)
	if len(canon) != len(s) {
		return nil, fmt.Errorf("%w: %s collapsed to %s under vertex identifications",
			ErrDegenerateSimplex, s, canon)
	}
	return canon, nil
}

func vertexSet(c *Complex) map[VertexName]struct{} {
	set := make(map[VertexName]struct{})
	for _, v := range c.Vertices() {
		set[v] = struct{}{}
	}
	return set
}

// Union merges two complexes that agree on their shared vertices.
//
// For every pair of vertices common to both operands, the operands must
// agree on whether the pair is identified; a mismatch is rejected because
// two complexes disagreeing on whether two points are the same cannot be
// merged. Surviving simplices are the canonicalized maximal simplices of
// both operands (not re-minimized to maximal form).
func Union(k1, k2 *Complex) (*Complex, error) {
	common := make([]VertexName, 0)
	right := vertexSet(k2)
	for _, v := range k1.Vertices() {
		if _, ok := right[v]; ok {
			common = append(common, v)
		}
	}

	for i, v := range common {
		for _, w := range common[i+1:] {
			if k1.SameClass(v, w) != k2.SameClass(v, w) {
				return nil, fmt.Errorf("union: %s and %s are identified in one complex but not the other: %w",
					v, w, ErrIncompatibleIdentification)
			}
		}
	}

	merged := k1.uf.Merge(k2.uf)
	var out []Simplex
	for _, side := range []*Complex{k1, k2} {
		for _, s := range side.MaximalSimplices() {
			canon, err := canonicalize(s, merged)
			if err != nil {
				return nil, fmt.Errorf("union: %w", err)
			}
			out = append(out, canon)
		}
	}
	return NewComplex(out, merged), nil
}

// Glue merges two complexes and identifies vertices across them according
// to mapping. Any member of a class may appear as key or value; semantics
// operate on canonical classes. Validation order:
//
//  1. every key must resolve into k1 and every value into k2,
//  2. the mapping must be injective on classes in both directions,
//  3. the mapping must be consistent with identifications already present
//     in the operands.
func Glue(k1, k2 *Complex, mapping []MappingPair) (*Complex, error) {
	v1 := vertexSet(k1)
	v2 := vertexSet(k2)

	type repPair struct{ from, to VertexName }
	reps := make([]repPair, 0, len(mapping))
	fwd := make(map[VertexName]VertexName) // k1 class → k2 class
	rev := make(map[VertexName]VertexName) // k2 class → k1 class

	for _, m := range mapping {
		ra := k1.Canonical(m.From)
		rb := k2.Canonical(m.To)
		if _, ok := v1[ra]; !ok {
			return nil, fmt.Errorf("glue: vertex %s (class %s) is not in the first complex: %w",
				m.From, ra, ErrVertexNotFound)
		}
		if _, ok := v2[rb]; !ok {
			return nil, fmt.Errorf("glue: vertex %s (class %s) is not in the second complex: %w",
				m.To, rb, ErrVertexNotFound)
		}
		// fwd and rev are always written together, so a class pair is
		// either fully recorded or not at all: a previously seen side
		// must either match exactly (a duplicate entry) or conflict.
		prevTo, seenFrom := fwd[ra]
		prevFrom, seenTo := rev[rb]
		if seenFrom || seenTo {
			if seenFrom && prevTo != rb {
				return nil, fmt.Errorf("glue: class %s is mapped to both %s and %s: %w",
					ra, prevTo, rb, ErrConflictingMapping)
			}
			if seenTo && prevFrom != ra {
				return nil, fmt.Errorf("glue: classes %s and %s are both mapped to %s: %w",
					prevFrom, ra, rb, ErrConflictingMapping)
			}
			continue
		}
		fwd[ra] = rb
		rev[rb] = ra
		reps = append(reps, repPair{from: ra, to: rb})
	}

	// Consistency with identifications already present in the operands:
	// a1~a2 in k1 must hold exactly when b1~b2 holds in k2.
	for i, p := range reps {
		for _, q := range reps[i+1:] {
			eq1 := k1.SameClass(p.from, q.from)
			eq2 := k2.SameClass(p.to, q.to)
			if eq1 != eq2 {
				return nil, fmt.Errorf("glue: %s~%s in the first complex does not match %s~%s in the second: %w",
					p.from, q.from, p.to, q.to, ErrIncompatibleIdentification)
			}
		}
	}

	merged := k1.uf.Merge(k2.uf)
	for _, p := range reps {
		merged.Union(p.from, p.to)
	}

	var out []Simplex
	for _, side := range []*Complex{k1, k2} {
		for _, s := range side.MaximalSimplices() {
			canon, err := canonicalize(s, merged)
			if err != nil {
				return nil, fmt.Errorf("glue: %w", err)
			}
			out = append(out, canon)
		}
	}
	return NewComplex(out, merged), nil
}

// Join forms σ∪τ for every pair of maximal simplices across the operands.
// No identification is added, so no vertex-compatibility precheck is
// needed, but each pairwise union still must not collapse.
func Join(k1, k2 *Complex) (*Complex, error) {
	merged := k1.uf.Merge(k2.uf)
	var out []Simplex
	for _, s := range k1.MaximalSimplices() {
		for _, t := range k2.MaximalSimplices() {
			both := make([]VertexName, 0, len(s)+len(t))
			both = append(both, s...)
			both = append(both, t...)
			st := NewSimplex(both...)
			canon, err := canonicalize(st, merged)
			if err != nil {
				return nil, fmt.Errorf("join: %w", err)
			}
			out = append(out, canon)
		}
	}
	return NewComplex(out, merged), nil
}

// PickVertex selects the vertex of c with the largest index in the global
// insertion order — the most recently declared one — and wraps it into a
// single-vertex complex that remembers the chosen vertex's whole
// identification class. Vertices never registered in the order are treated
// as having infinite order and are never chosen over registered ones; if
// no vertex is registered at all, the first in sorted order is picked.
func PickVertex(c *Complex, order map[VertexName]int) (*Complex, error) {
	verts := c.Vertices()
	if len(verts) == 0 {
		return nil, fmt.Errorf("pick_vert: %w", ErrEmptyComplex)
	}

	var chosen VertexName
	best := -1
	for _, v := range verts {
		if idx, ok := order[v]; ok && idx > best {
			best = idx
			chosen = v
		}
	}
	if best < 0 {
		chosen = verts[0]
	}

	uf := NewUnionFind[VertexName]()
	uf.Add(chosen)
	for _, w := range c.uf.Class(chosen) {
		uf.Union(chosen, w)
	}
	rep := uf.Find(chosen)
	return NewComplex([]Simplex{NewSimplex(rep)}, uf), nil
}
