// layout.go — deterministic 3D spring embedding of a complex.
//
// Identified vertices collapse to their canonical representative before
// embedding, so a glued edge renders as one segment. The embedding
// minimizes a spring energy: unit rest length on every canonical edge plus
// a short-range repulsion that keeps distinct vertices from overlapping.
// Plain gradient descent from a seeded start keeps the result reproducible
// for a given complex.
package scl

import (
	"math"
	"math/rand"
	"sort"
)

// Point3 is a position in the embedding space.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LayoutView is the wire form of an embedded complex: canonical vertex
// positions, canonical edges and the faces (canonical simplices with at
// least three distinct vertices).
type LayoutView struct {
	Vertices map[VertexName]Point3 `json:"vertices"`
	Edges    [][2]VertexName       `json:"edges"`
	Faces    [][]VertexName        `json:"faces"`
}

const (
	layoutSeed       = 17
	layoutIterations = 400
	layoutStep       = 0.05
	layoutMinDist    = 0.5
	layoutRepulsion  = 100.0
)

// canonicalVertices returns the sorted class representatives.
func canonicalVertices(c *Complex) []VertexName {
	classes := c.Classes()
	reps := make([]VertexName, 0, len(classes))
	for rep := range classes {
		reps = append(reps, rep)
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i] < reps[j] })
	return reps
}

// canonicalEdges collects the distinct canonical 1-faces of the maximal
// simplices, each pair sorted, the list sorted.
func canonicalEdges(c *Complex) [][2]VertexName {
	seen := make(map[[2]VertexName]bool)
	for _, s := range c.MaximalSimplices() {
		canon := make([]VertexName, len(s))
		for i, v := range s {
			canon[i] = c.Canonical(v)
		}
		for i := 0; i < len(canon); i++ {
			for j := i + 1; j < len(canon); j++ {
				a, b := canon[i], canon[j]
				if a == b {
					continue
				}
				if b < a {
					a, b = b, a
				}
				seen[[2]VertexName{a, b}] = true
			}
		}
	}
	edges := make([][2]VertexName, 0, len(seen))
	for e := range seen {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}

// canonicalFaces returns the canonical images of maximal simplices that
// still span at least three distinct vertices.
func canonicalFaces(c *Complex) [][]VertexName {
	var faces [][]VertexName
	for _, s := range c.MaximalSimplices() {
		distinct := make(map[VertexName]bool)
		for _, v := range s {
			distinct[c.Canonical(v)] = true
		}
		if len(distinct) < 3 {
			continue
		}
		face := make([]VertexName, 0, len(distinct))
		for v := range distinct {
			face = append(face, v)
		}
		sort.Slice(face, func(i, j int) bool { return face[i] < face[j] })
		faces = append(faces, face)
	}
	sort.Slice(faces, func(i, j int) bool {
		a, b := faces[i], faces[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return faces
}

// LayoutComplex embeds c in three dimensions.
func LayoutComplex(c *Complex) LayoutView {
	verts := canonicalVertices(c)
	edges := canonicalEdges(c)

	index := make(map[VertexName]int, len(verts))
	for i, v := range verts {
		index[v] = i
	}

	rng := rand.New(rand.NewSource(layoutSeed))
	pos := make([][3]float64, len(verts))
	for i := range pos {
		pos[i] = [3]float64{rng.Float64(), rng.Float64(), rng.Float64()}
	}

	grad := make([][3]float64, len(verts))
	for iter := 0; iter < layoutIterations; iter++ {
		for i := range grad {
			grad[i] = [3]float64{}
		}

		// Springs pull every canonical edge toward unit length.
		for _, e := range edges {
			i, j := index[e[0]], index[e[1]]
			d, dir := distance(pos[i], pos[j])
			f := 2 * (d - 1)
			for k := 0; k < 3; k++ {
				grad[i][k] += f * dir[k]
				grad[j][k] -= f * dir[k]
			}
		}

		// Short-range repulsion keeps non-adjacent vertices apart.
		for i := 0; i < len(pos); i++ {
			for j := i + 1; j < len(pos); j++ {
				d, dir := distance(pos[i], pos[j])
				if d >= layoutMinDist {
					continue
				}
				f := -2 * layoutRepulsion * (layoutMinDist - d)
				for k := 0; k < 3; k++ {
					grad[i][k] += f * dir[k]
					grad[j][k] -= f * dir[k]
				}
			}
		}

		for i := range pos {
			for k := 0; k < 3; k++ {
				pos[i][k] -= layoutStep * grad[i][k]
			}
		}
	}

	out := LayoutView{
		Vertices: make(map[VertexName]Point3, len(verts)),
		Edges:    edges,
		Faces:    canonicalFaces(c),
	}
	for i, v := range verts {
		out.Vertices[v] = Point3{X: pos[i][0], Y: pos[i][1], Z: pos[i][2]}
	}
	return out
}

// distance returns |a-b| and the unit vector from b toward a. Coincident
// points get a fixed tiny separation so gradients stay finite.
func distance(a, b [3]float64) (float64, [3]float64) {
	diff := [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
	d := math.Sqrt(diff[0]*diff[0] + diff[1]*diff[1] + diff[2]*diff[2])
	if d < 1e-9 {
		return 1e-9, [3]float64{1, 0, 0}
	}
	return d, [3]float64{diff[0] / d, diff[1] / d, diff[2] / d}
}
