// operators.go — the built-in operator set and its dispatch contract.
//
// The operator set is fixed and small, so operators are a closed
// tagged-variant type: one kind tag per capability (constructive,
// observational, arithmetic) and a single Apply entry point that switches
// on the kind. No open-ended virtual dispatch.
package scl

import "fmt"

// OpKind discriminates the three operator capabilities.
type OpKind int

const (
	// OpConstructive operators build a new Complex from Complex arguments.
	OpConstructive OpKind = iota
	// OpObservational operators compute an integer from one Complex.
	OpObservational
	// OpArithmetic operators compute over integers with fixed arity.
	OpArithmetic
)

// Operator is one built-in. Exactly one of the function fields is set,
// matching Kind:
//
//   - fold: pairwise constructor (union, join); more than two arguments
//     left-fold, e.g. union(A,B,C) = union(union(A,B),C).
//   - glue/pick: special-shaped constructors, dispatched by Name.
//   - obs1/obs2: observational on one Complex (plus one integer for betti).
//   - arith: pure integer function with Arity arguments.
type Operator struct {
	Name  string
	Kind  OpKind
	Arity int // arithmetic only; constructive/observational shapes are fixed by Name

	fold  func(a, b *Complex) (*Complex, error)
	obs1  func(c *Complex) int64
	obs2  func(c *Complex, n int64) int64
	arith func(args []int64) int64
}

// Apply dispatches a call with already-evaluated arguments. mapping is the
// optional glue mapping (hasMapping distinguishes an empty mapping block
// from no block at all); st supplies ambient state for pick_vert.
func (op *Operator) Apply(args []Value, mapping []MappingPair, hasMapping bool, st *State) (Value, error) {
	switch op.Kind {
	case OpConstructive:
		return op.applyConstructive(args, mapping, hasMapping, st)
	case OpObservational:
		return op.applyObservational(args, mapping, hasMapping)
	case OpArithmetic:
		return op.applyArithmetic(args, hasMapping)
	default:
		return Value{}, fmt.Errorf("operator %s has unknown kind", op.Name)
	}
}

func complexArg(opName string, args []Value, i int) (*Complex, error) {
	if args[i].Tag != VTComplex {
		return nil, fmt.Errorf("%s: argument %d is a %s, expected a complex: %w",
			opName, i+1, args[i].kindName(), ErrTypeMismatch)
	}
	return args[i].Data.(*Complex), nil
}

func (op *Operator) applyConstructive(args []Value, mapping []MappingPair, hasMapping bool, st *State) (Value, error) {
	switch op.Name {
	case "glue":
		if !hasMapping {
			return Value{}, fmt.Errorf("glue requires a mapping: %w", ErrTypeMismatch)
		}
		if len(args) != 2 {
			return Value{}, fmt.Errorf("glue expects exactly two complexes, got %d: %w", len(args), ErrArity)
		}
		k1, err := complexArg(op.Name, args, 0)
		if err != nil {
			return Value{}, err
		}
		k2, err := complexArg(op.Name, args, 1)
		if err != nil {
			return Value{}, err
		}
		out, err := Glue(k1, k2, mapping)
		if err != nil {
			return Value{}, err
		}
		return ComplexVal(out), nil

	case "pick_vert":
		if hasMapping {
			return Value{}, fmt.Errorf("pick_vert does not accept a mapping: %w", ErrMappingNotAllowed)
		}
		if len(args) != 1 {
			return Value{}, fmt.Errorf("pick_vert expects exactly one complex, got %d: %w", len(args), ErrArity)
		}
		c, err := complexArg(op.Name, args, 0)
		if err != nil {
			return Value{}, err
		}
		out, err := PickVertex(c, st.VertexOrder())
		if err != nil {
			return Value{}, err
		}
		return ComplexVal(out), nil
	}

	// union / join: variadic left-fold over ≥ 1 complexes.
	if hasMapping {
		return Value{}, fmt.Errorf("%s does not accept a mapping: %w", op.Name, ErrMappingNotAllowed)
	}
	if len(args) == 0 {
		return Value{}, fmt.Errorf("%s expects at least one complex: %w", op.Name, ErrArity)
	}
	acc, err := complexArg(op.Name, args, 0)
	if err != nil {
		return Value{}, err
	}
	for i := 1; i < len(args); i++ {
		next, err := complexArg(op.Name, args, i)
		if err != nil {
			return Value{}, err
		}
		acc, err = op.fold(acc, next)
		if err != nil {
			return Value{}, err
		}
	}
	return ComplexVal(acc), nil
}

func (op *Operator) applyObservational(args []Value, mapping []MappingPair, hasMapping bool) (Value, error) {
	if hasMapping {
		return Value{}, fmt.Errorf("%s does not accept a mapping: %w", op.Name, ErrMappingNotAllowed)
	}

	if op.obs2 != nil { // betti: one complex plus one degree argument
		if len(args) != 2 {
			return Value{}, fmt.Errorf("%s expects a complex and an integer, got %d arguments: %w",
				op.Name, len(args), ErrArity)
		}
		c, err := complexArg(op.Name, args, 0)
		if err != nil {
			return Value{}, err
		}
		if args[1].Tag != VTInt {
			return Value{}, fmt.Errorf("%s: degree argument is a %s, expected an integer: %w",
				op.Name, args[1].kindName(), ErrTypeMismatch)
		}
		return IntVal(op.obs2(c, args[1].Data.(int64))), nil
	}

	if len(args) != 1 {
		return Value{}, fmt.Errorf("%s expects exactly one complex, got %d arguments: %w",
			op.Name, len(args), ErrArity)
	}
	c, err := complexArg(op.Name, args, 0)
	if err != nil {
		return Value{}, err
	}
	return IntVal(op.obs1(c)), nil
}

func (op *Operator) applyArithmetic(args []Value, hasMapping bool) (Value, error) {
	if hasMapping {
		return Value{}, fmt.Errorf("%s does not accept a mapping: %w", op.Name, ErrMappingNotAllowed)
	}
	if len(args) != op.Arity {
		return Value{}, fmt.Errorf("%s expects %d arguments, got %d: %w",
			op.Name, op.Arity, len(args), ErrArity)
	}
	ints := make([]int64, len(args))
	for i, a := range args {
		if a.Tag != VTInt {
			return Value{}, fmt.Errorf("%s: argument %d is a %s, expected an integer: %w",
				op.Name, i+1, a.kindName(), ErrTypeMismatch)
		}
		ints[i] = a.Data.(int64)
	}
	return IntVal(op.arith(ints)), nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// coreOperators lists every built-in. Truthiness everywhere in the
// language is "nonzero integer", so the logical operators consume and
// produce integers.
func coreOperators() []*Operator {
	return []*Operator{
		// Constructive
		{Name: "union", Kind: OpConstructive, fold: Union},
		{Name: "join", Kind: OpConstructive, fold: Join},
		{Name: "glue", Kind: OpConstructive},
		{Name: "pick_vert", Kind: OpConstructive},

		// Observational
		{Name: "dim", Kind: OpObservational, obs1: func(c *Complex) int64 { return int64(c.Dimension()) }},
		{Name: "num_vert", Kind: OpObservational, obs1: func(c *Complex) int64 { return int64(c.NumVertices()) }},
		{Name: "num_simp", Kind: OpObservational, obs1: func(c *Complex) int64 { return int64(c.NumFaces()) }},
		{Name: "betti", Kind: OpObservational, obs2: func(c *Complex, k int64) int64 {
			return int64(BettiNumber(c, int(k)))
		}},

		// Arithmetic
		{Name: "add", Kind: OpArithmetic, Arity: 2, arith: func(a []int64) int64 { return a[0] + a[1] }},
		{Name: "sub", Kind: OpArithmetic, Arity: 2, arith: func(a []int64) int64 { return a[0] - a[1] }},
		{Name: "mul", Kind: OpArithmetic, Arity: 2, arith: func(a []int64) int64 { return a[0] * a[1] }},
		{Name: "and", Kind: OpArithmetic, Arity: 2, arith: func(a []int64) int64 { return boolToInt(a[0] != 0 && a[1] != 0) }},
		{Name: "or", Kind: OpArithmetic, Arity: 2, arith: func(a []int64) int64 { return boolToInt(a[0] != 0 || a[1] != 0) }},
		{Name: "not", Kind: OpArithmetic, Arity: 1, arith: func(a []int64) int64 { return boolToInt(a[0] == 0) }},
		{Name: "greater", Kind: OpArithmetic, Arity: 2, arith: func(a []int64) int64 { return boolToInt(a[0] > a[1]) }},
		{Name: "less", Kind: OpArithmetic, Arity: 2, arith: func(a []int64) int64 { return boolToInt(a[0] < a[1]) }},
		{Name: "leq", Kind: OpArithmetic, Arity: 2, arith: func(a []int64) int64 { return boolToInt(a[0] <= a[1]) }},
		{Name: "geq", Kind: OpArithmetic, Arity: 2, arith: func(a []int64) int64 { return boolToInt(a[0] >= a[1]) }},
	}
}
