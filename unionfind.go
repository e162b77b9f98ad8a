// unionfind.go — disjoint-set structure over vertex names.
//
// Every algebra operation on complexes is a statement about which vertices
// denote the same point, so the union-find is the substrate the whole value
// model sits on. Two properties matter beyond the textbook structure:
//
//   - Find never fails: an unseen element is added on first reference.
//   - Merge of two independently built structures reconstructs the full
//     transitive closure of both equivalence relations over the union of
//     their node sets. Two elements are equivalent in the merged structure
//     iff they were equivalent in either input, or become so through a
//     chain of shared elements across both.
package scl

import (
	"cmp"
	"slices"
)

// UnionFind is a partition of a set of comparable elements into disjoint
// classes, each with a canonical representative chosen by union-by-rank.
// The zero value is not usable; construct with NewUnionFind.
type UnionFind[T cmp.Ordered] struct {
	parent map[T]T
	rank   map[T]int
}

// NewUnionFind returns an empty partition.
func NewUnionFind[T cmp.Ordered]() *UnionFind[T] {
	return &UnionFind[T]{
		parent: make(map[T]T),
		rank:   make(map[T]int),
	}
}

// Len reports how many elements the partition tracks.
func (u *UnionFind[T]) Len() int { return len(u.parent) }

// Has reports whether x has ever been added.
func (u *UnionFind[T]) Has(x T) bool {
	_, ok := u.parent[x]
	return ok
}

// Add inserts x as a singleton class. Adding an existing element is a no-op.
func (u *UnionFind[T]) Add(x T) {
	if _, ok := u.parent[x]; ok {
		return
	}
	u.parent[x] = x
	u.rank[x] = 0
}

// Find returns the canonical representative of x's class, adding x as a
// singleton if it was never seen. The walk to the root is iterative and
// compresses the path behind it, so recursion depth is never an issue on
// long chains.
func (u *UnionFind[T]) Find(x T) T {
	if _, ok := u.parent[x]; !ok {
		u.Add(x)
		return x
	}
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		x, u.parent[x] = u.parent[x], root
	}
	return root
}

// Same reports whether x and y belong to the same class.
func (u *UnionFind[T]) Same(x, y T) bool { return u.Find(x) == u.Find(y) }

// Union joins the classes of x and y by rank and returns the representative
// of the combined class.
func (u *UnionFind[T]) Union(x, y T) T {
	rx, ry := u.Find(x), u.Find(y)
	if rx == ry {
		return rx
	}
	switch {
	case u.rank[rx] < u.rank[ry]:
		u.parent[rx] = ry
		return ry
	case u.rank[rx] > u.rank[ry]:
		u.parent[ry] = rx
		return rx
	default:
		u.parent[ry] = rx
		u.rank[rx]++
		return rx
	}
}

// Nodes returns every tracked element in sorted order.
func (u *UnionFind[T]) Nodes() []T {
	out := make([]T, 0, len(u.parent))
	for x := range u.parent {
		out = append(out, x)
	}
	slices.Sort(out)
	return out
}

// Classes returns the partition as representative → sorted members.
func (u *UnionFind[T]) Classes() map[T][]T {
	out := make(map[T][]T)
	for x := range u.parent {
		rep := u.Find(x)
		out[rep] = append(out[rep], x)
	}
	for _, members := range out {
		slices.Sort(members)
	}
	return out
}

// Class returns the sorted members of x's class (just x itself if unseen).
func (u *UnionFind[T]) Class(x T) []T {
	rep := u.Find(x)
	var out []T
	for y := range u.parent {
		if u.Find(y) == rep {
			out = append(out, y)
		}
	}
	slices.Sort(out)
	return out
}

// Merge builds a fresh partition over the union of both node sets whose
// equivalence relation is exactly the transitive closure of the union of
// the two input relations. Replaying each element against its own root is
// enough: every same-input equivalence is restored, and classes that share
// an element across inputs collapse into one.
func (u *UnionFind[T]) Merge(other *UnionFind[T]) *UnionFind[T] {
	merged := NewUnionFind[T]()
	for _, src := range []*UnionFind[T]{u, other} {
		for x := range src.parent {
			merged.Add(x)
		}
	}
	for _, src := range []*UnionFind[T]{u, other} {
		for x := range src.parent {
			merged.Union(x, src.Find(x))
		}
	}
	return merged
}
