// runtime.go — runtime value model, environments and the mutable store.
//
// VALUES
// ------
// Value is a tagged sum. Expression evaluation produces the EVal subset
// (complex, int, bool, closure); environments may additionally denote heap
// addresses, raw vertex names and built-in operators (the DVal superset).
// Complex variables are mutable cells: the environment binds them to a
// store address, and assignment overwrites the cell in place so aliases
// observe the update. Every other kind is immutable and bound directly.
//
// ENVIRONMENTS
// ------------
// Env frames are copy-on-extend: Bind returns a new child frame and never
// mutates an existing one, so closures capture their defining environment
// by reference and branch/function scoping snapshots for free through
// structural sharing. Lookups walk parent-ward.
//
// STATE
// -----
// State carries the store (address → Complex), the next free address, the
// global vertex declaration order (the "insertion order" rule consumed by
// pick_vert) and the fresh-vertex counter. It is threaded explicitly
// through every command; one program run owns one State and nothing is
// shared across runs.
package scl

import (
	"fmt"
	"strconv"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTComplex  ValueTag = iota // *Complex (via store or directly)
	VTInt                      // int64
	VTBool                     // bool
	VTClosure                  // *Closure
	VTAddr                     // int store address (DVal only)
	VTVertex                   // VertexName bound by a vertex declaration (DVal only)
	VTOperator                 // *Operator built-in (DVal only)
)

// Value is the universal runtime carrier. The tag determines which field
// of Data is valid.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

func ComplexVal(c *Complex) Value    { return Value{Tag: VTComplex, Data: c} }
func IntVal(n int64) Value           { return Value{Tag: VTInt, Data: n} }
func BoolVal(b bool) Value           { return Value{Tag: VTBool, Data: b} }
func ClosureVal(c *Closure) Value    { return Value{Tag: VTClosure, Data: c} }
func AddrVal(addr int) Value         { return Value{Tag: VTAddr, Data: addr} }
func VertexVal(v VertexName) Value   { return Value{Tag: VTVertex, Data: v} }
func OperatorVal(op *Operator) Value { return Value{Tag: VTOperator, Data: op} }

// String renders a short debug representation.
func (v Value) String() string {
	switch v.Tag {
	case VTComplex:
		return v.Data.(*Complex).String()
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTClosure:
		return "<function " + v.Data.(*Closure).Fn.Name + ">"
	case VTAddr:
		return fmt.Sprintf("@%d", v.Data.(int))
	case VTVertex:
		return "vertex " + string(v.Data.(VertexName))
	case VTOperator:
		return "<operator " + v.Data.(*Operator).Name + ">"
	default:
		return "<unknown>"
	}
}

// kindName is used in type-mismatch messages.
func (v Value) kindName() string {
	switch v.Tag {
	case VTComplex:
		return "complex"
	case VTInt:
		return "integer"
	case VTBool:
		return "boolean"
	case VTClosure:
		return "function"
	case VTAddr:
		return "variable"
	case VTVertex:
		return "vertex"
	case VTOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Closure pairs a function declaration with the environment in effect at
// its declaration. The captured frame is the one *before* the function's
// own name is bound, so a function cannot call itself through its own name
// unless an earlier binding exists.
type Closure struct {
	Fn  *FunctionDecl
	Env *Env
}

// Env is a lexical environment frame with a parent link. Frames are
// immutable after construction: Bind allocates a child frame.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates an empty frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Bind returns a new frame extending e with name → v. e is not modified,
// so previously captured references to e keep their view.
func (e *Env) Bind(name string, v Value) *Env {
	return &Env{parent: e, table: map[string]Value{name: v}}
}

// define mutates the current frame. Only used while assembling the core
// operator frame before any user code runs.
func (e *Env) define(name string, v Value) { e.table[name] = v }

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Visible flattens the environment into name → value with inner frames
// shadowing outer ones. Used by the serialization boundary.
func (e *Env) Visible() map[string]Value {
	out := make(map[string]Value)
	var walk func(f *Env)
	walk = func(f *Env) {
		if f == nil {
			return
		}
		walk(f.parent)
		for name, v := range f.table {
			out[name] = v
		}
	}
	walk(e)
	return out
}

// maxLoopIterations caps every while loop; exceeding it is a fatal
// "possible infinite loop" failure rather than a silent truncation.
const maxLoopIterations = 10_000_000

// State is the per-run mutable context threaded through every command.
type State struct {
	store        map[int]*Complex
	nextAddr     int
	vertexOrder  map[VertexName]int
	nextVertexID int
}

// NewState returns a fresh state with an empty store.
func NewState() *State {
	return &State{
		store:       make(map[int]*Complex),
		vertexOrder: make(map[VertexName]int),
	}
}

// Alloc places c at the next free address and returns that address.
// Addresses grow monotonically except after a block rollback, which makes
// the discarded range available for reuse.
func (s *State) Alloc(c *Complex) int {
	addr := s.nextAddr
	s.store[addr] = c
	s.nextAddr++
	return addr
}

// Update overwrites the cell at addr. The address itself never changes,
// so aliases of the same cell observe the new value.
func (s *State) Update(addr int, c *Complex) {
	s.store[addr] = c
}

// Access dereferences addr, failing loudly on a never-allocated address
// instead of returning a default.
func (s *State) Access(addr int) (*Complex, error) {
	c, ok := s.store[addr]
	if !ok {
		return nil, fmt.Errorf("address @%d: %w", addr, ErrUninitializedAddress)
	}
	return c, nil
}

// Mark returns the current high-water mark of the address space.
func (s *State) Mark() int { return s.nextAddr }

// Rollback restores the next free address to a previously saved mark,
// discarding allocations made after it while keeping mutations to older
// addresses. This is the only place state is selectively un-applied.
func (s *State) Rollback(mark int) { s.nextAddr = mark }

// RegisterVertices appends any unseen vertices to the global declaration
// order, preserving first-seen positions.
func (s *State) RegisterVertices(verts []VertexName) {
	for _, v := range verts {
		if _, ok := s.vertexOrder[v]; !ok {
			s.vertexOrder[v] = len(s.vertexOrder)
		}
	}
}

// VertexOrder exposes the global insertion order (read by pick_vert).
func (s *State) VertexOrder() map[VertexName]int { return s.vertexOrder }

// FreshVertex synthesizes a new __v<n> vertex name, registers it and
// returns it. Names are never reused within a run.
func (s *State) FreshVertex() VertexName {
	for {
		candidate := VertexName("__v" + strconv.Itoa(s.nextVertexID))
		s.nextVertexID++
		if _, taken := s.vertexOrder[candidate]; taken {
			continue // a user literal squatted on the name
		}
		s.vertexOrder[candidate] = len(s.vertexOrder)
		return candidate
	}
}
