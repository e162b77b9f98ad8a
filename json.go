// json.go — serialization boundary between the evaluator and transports.
package scl

// ComplexView is the wire representation of a Complex: maximal simplices,
// the vertex set and the identification classes, all in deterministic
// (sorted) order.
type ComplexView struct {
	Dimension int                         `json:"dimension"`
	Simplices [][]VertexName              `json:"simplices"`
	Vertices  []VertexName                `json:"vertices"`
	Classes   map[VertexName][]VertexName `json:"classes"`
}

// ViewComplex projects a Complex into its wire form.
func ViewComplex(c *Complex) ComplexView {
	maximal := c.MaximalSimplices()
	simplices := make([][]VertexName, len(maximal))
	for i, s := range maximal {
		simplices[i] = append([]VertexName(nil), s...)
	}
	return ComplexView{
		Dimension: c.Dimension(),
		Simplices: simplices,
		Vertices:  c.Vertices(),
		Classes:   c.Classes(),
	}
}

// Snapshot projects every complex variable visible in the final
// environment. Functions, vertices and operator bindings are skipped.
func (r *Result) Snapshot() map[string]ComplexView {
	out := make(map[string]ComplexView)
	for name, v := range r.Env.Visible() {
		if v.Tag != VTAddr {
			continue
		}
		c, err := r.State.Access(v.Data.(int))
		if err != nil {
			continue // a rolled-back cell; the binding is dead
		}
		out[name] = ViewComplex(c)
	}
	return out
}
