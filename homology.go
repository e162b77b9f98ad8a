// homology.go — Betti numbers over GF(2).
//
// The engine consumes a finished Complex, independent of the evaluator:
// bucket all faces by dimension, build boundary matrices over the
// two-element field using the complex's stable vertex order, and compute
// ranks by plain dense Gaussian elimination. No optimization is attempted
// for large complexes; this is the reference algorithm.
package scl

// SkeletonMap buckets every face of c by dimension (|face| - 1). Buckets
// keep the deterministic AllFaces order.
func SkeletonMap(c *Complex) map[int][]Simplex {
	skeleton := make(map[int][]Simplex)
	for _, f := range c.AllFaces() {
		skeleton[f.Dim()] = append(skeleton[f.Dim()], f)
	}
	return skeleton
}

// KSimplices returns the k-dimensional faces of c.
func KSimplices(c *Complex, k int) []Simplex {
	return SkeletonMap(c)[k]
}

// orderedTuple sorts the vertices of s by the complex-wide vertex order so
// that "remove vertex i" picks a well-defined codimension-1 face.
func orderedTuple(s Simplex, order map[VertexName]int) []VertexName {
	out := make([]VertexName, len(s))
	copy(out, s)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && order[out[j]] < order[out[j-1]]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// BoundaryMatrix builds ∂_k : C_k → C_{k-1} over GF(2). Rows are indexed by
// (k-1)-faces and columns by k-faces. Entries accumulate with XOR so that a
// face appearing twice as a codimension-1 face cancels out.
func BoundaryMatrix(c *Complex, k int) [][]uint8 {
	kFaces := KSimplices(c, k)
	k1Faces := KSimplices(c, k-1)

	rowIndex := make(map[string]int, len(k1Faces))
	for i, f := range k1Faces {
		rowIndex[f.Key()] = i
	}

	order := c.VertexOrder()
	m := make([][]uint8, len(k1Faces))
	for i := range m {
		m[i] = make([]uint8, len(kFaces))
	}

	for j, s := range kFaces {
		verts := orderedTuple(s, order)
		for i := range verts {
			face := make([]VertexName, 0, len(verts)-1)
			face = append(face, verts[:i]...)
			face = append(face, verts[i+1:]...)
			// Every (k-1)-subset of a face is itself a face, so the
			// row lookup always succeeds.
			r := rowIndex[NewSimplex(face...).Key()]
			m[r][j] ^= 1
		}
	}
	return m
}

// rankMod2 computes the GF(2) rank of m by forward elimination with row
// swaps. m is consumed.
func rankMod2(m [][]uint8) int {
	if len(m) == 0 || len(m[0]) == 0 {
		return 0
	}
	rows, cols := len(m), len(m[0])
	rank := 0
	for col := 0; col < cols && rank < rows; col++ {
		pivot := -1
		for r := rank; r < rows; r++ {
			if m[r][col] == 1 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		m[rank], m[pivot] = m[pivot], m[rank]
		for r := 0; r < rows; r++ {
			if r != rank && m[r][col] == 1 {
				for cc := col; cc < cols; cc++ {
					m[r][cc] ^= m[rank][cc]
				}
			}
		}
		rank++
	}
	return rank
}

// BettiNumber computes the rank of H_k(c) over GF(2):
//
//	betti_k = dim ker ∂_k − rank ∂_{k+1}
//	        = (#k-faces − rank ∂_k) − rank ∂_{k+1}
//
// with ∂_0 the zero map and ∂_j the zero map for j beyond the complex
// dimension. Out-of-range k yields 0, not an error.
func BettiNumber(c *Complex, k int) int {
	dim := c.Dimension()
	if k < 0 || k > dim {
		return 0
	}

	dimCk := len(KSimplices(c, k))

	rankDk := 0
	if k > 0 {
		rankDk = rankMod2(BoundaryMatrix(c, k))
	}

	rankDk1 := 0
	if k+1 <= dim {
		rankDk1 = rankMod2(BoundaryMatrix(c, k+1))
	}

	return (dimCk - rankDk) - rankDk1
}

// Homology returns the Betti numbers of c for every degree 0..dim.
func Homology(c *Complex) map[int]int {
	out := make(map[int]int)
	for k := 0; k <= c.Dimension(); k++ {
		out[k] = BettiNumber(c, k)
	}
	return out
}
