package scl

import (
	"errors"
	"strings"
	"testing"
)

func newSession(t *testing.T, setup string) *Session {
	t.Helper()
	s := NewInterpreter().NewSession()
	if setup != "" {
		if err := s.Exec(setup); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	return s
}

func wantInt(t *testing.T, s *Session, expr string, want int64) {
	t.Helper()
	v, err := s.Eval(expr)
	if err != nil {
		t.Fatalf("eval %q: %v", expr, err)
	}
	if v.Tag != VTInt {
		t.Fatalf("eval %q: got a %s, want an integer", expr, v.kindName())
	}
	if got := v.Data.(int64); got != want {
		t.Errorf("eval %q = %d, want %d", expr, got, want)
	}
}

func wantEvalErr(t *testing.T, src string, sentinel error) {
	t.Helper()
	_, err := NewInterpreter().EvalSource(src)
	if err == nil {
		t.Fatalf("eval %q: expected an error", src)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("eval %q: got %v, want %v", src, err, sentinel)
	}
}

func TestComplexDeclAndObservations(t *testing.T) {
	s := newSession(t, `complex K = [a, b, c]`)
	wantInt(t, s, "dim(K)", 2)
	wantInt(t, s, "num_vert(K)", 3)
	wantInt(t, s, "num_simp(K)", 7) // 3 vertices + 3 edges + 1 triangle
}

func TestUnionProgram(t *testing.T) {
	s := newSession(t, `
		complex K = [a, b, c]
		complex L = [c, d]
		complex M = union(K, L)
	`)
	wantInt(t, s, "num_vert(M)", 4)
	wantInt(t, s, "dim(M)", 2)
	wantInt(t, s, "betti(M, 0)", 1) // the shared vertex c connects them
}

func TestUnionVariadicFold(t *testing.T) {
	s := newSession(t, `
		complex A = [a]
		complex B = [b]
		complex C = [c]
		complex M = union(A, B, C)
	`)
	wantInt(t, s, "num_vert(M)", 3)
	wantInt(t, s, "betti(M, 0)", 3)
}

func TestGlueProgram(t *testing.T) {
	s := newSession(t, `
		complex K = [a, b, c]
		complex L = [d, e]
		complex M = glue(K, L) mapping {c -> d}
	`)
	// Classes {a} {b} {c,d} {e}; the glued vertex connects the operands.
	wantInt(t, s, "num_vert(M)", 4)
	wantInt(t, s, "betti(M, 0)", 1)
	wantInt(t, s, "dim(M)", 2)
}

func TestGlueRejectsCollapsingAnOperandEdge(t *testing.T) {
	// Identifying c with d collapses L's own edge {c, d} to a point.
	wantEvalErr(t, `
		complex K = [a, b, c]
		complex L = [c, d]
		complex M = glue(K, L) mapping {c -> d}
	`, ErrDegenerateSimplex)
}

func TestJoinBuildsCone(t *testing.T) {
	s := newSession(t, `
		complex E = [a, b]
		complex P = [p]
		complex T = join(E, P)
	`)
	wantInt(t, s, "dim(T)", 2)
	wantInt(t, s, "num_vert(T)", 3)
}

func TestHollowTriangleHomology(t *testing.T) {
	s := newSession(t, `
		complex E1 = [a, b]
		complex E2 = [b, c]
		complex E3 = [a, c]
		complex H = union(union(E1, E2), E3)
	`)
	wantInt(t, s, "betti(H, 0)", 1)
	wantInt(t, s, "betti(H, 1)", 1)
	wantInt(t, s, "betti(H, 2)", 0)
}

func TestArithmeticOperators(t *testing.T) {
	s := newSession(t, "")
	cases := []struct {
		expr string
		want int64
	}{
		{"add(2, 3)", 5},
		{"sub(2, 3)", -1},
		{"mul(4, 3)", 12},
		{"and(1, 0)", 0},
		{"and(2, 3)", 1},
		{"or(0, 5)", 1},
		{"or(0, 0)", 0},
		{"not(0)", 1},
		{"not(7)", 0},
		{"greater(3, 2)", 1},
		{"less(3, 2)", 0},
		{"leq(2, 2)", 1},
		{"geq(1, 2)", 0},
	}
	for _, c := range cases {
		wantInt(t, s, c.expr, c.want)
	}
}

func TestIfSelectsBranch(t *testing.T) {
	s := newSession(t, `
		complex K = [a]
		if greater(num_vert(K), 0) {
			K = [a, b]
		} else {
			K = [a, b, c]
		}
	`)
	wantInt(t, s, "num_vert(K)", 2)
}

func TestBranchBindingsAreDiscarded(t *testing.T) {
	s := newSession(t, `
		if 1 {
			complex Inner = [x, y]
		}
	`)
	if _, err := s.Eval("num_vert(Inner)"); !errors.Is(err, ErrUnboundIdentifier) {
		t.Fatalf("Inner should not leak out of the branch, got %v", err)
	}
}

func TestBranchMutationsPersist(t *testing.T) {
	// Updates to a pre-existing cell survive the branch; allocations made
	// inside it are discarded.
	s := newSession(t, `
		complex K = [a]
		if 1 {
			complex Scratch = [s, t]
			K = union(K, [b])
		}
	`)
	wantInt(t, s, "num_vert(K)", 2)
}

func TestWhileGrowsComplex(t *testing.T) {
	s := newSession(t, `
		complex K = [a]
		while less(num_vert(K), 5) {
			vertex v
			K = union(K, v)
		}
	`)
	wantInt(t, s, "num_vert(K)", 5)
}

func TestWhileLoopBound(t *testing.T) {
	wantEvalErr(t, `
		complex K = [a]
		while 1 {
		}
	`, ErrLoopBound)
}

func TestFunctionCall(t *testing.T) {
	s := newSession(t, `
		function cone(k, apex) = join(k, apex)
		complex E = [a, b]
		complex T = cone(E, [p])
	`)
	wantInt(t, s, "dim(T)", 2)
}

func TestFunctionCapturesDeclarationScope(t *testing.T) {
	// The body sees bindings from the declaration site, not the call site.
	s := newSession(t, `
		complex Base = [a, b]
		function extend(k) = union(k, Base)
		complex Base2 = [x]
		complex M = extend([c])
	`)
	wantInt(t, s, "num_vert(M)", 3) // a, b, c
}

func TestFunctionCannotCallItself(t *testing.T) {
	// The closure captures the environment before its own binding.
	wantEvalErr(t, `
		function f(k) = f(k)
		complex K = f([a])
	`, ErrUnboundIdentifier)
}

func TestFunctionArityChecked(t *testing.T) {
	wantEvalErr(t, `
		function g(k) = k
		complex K = g([a], [b])
	`, ErrArity)
}

func TestVertexDeclAndPickVert(t *testing.T) {
	s := newSession(t, `
		complex K = [a, b]
		vertex v
		complex M = union(K, v)
		complex P = pick_vert(M)
	`)
	// v was registered after a and b, so pick_vert selects it.
	wantInt(t, s, "num_vert(P)", 1)
	res := s.Result()
	p, err := res.Complex("P")
	if err != nil {
		t.Fatalf("Complex(P): %v", err)
	}
	verts := p.Vertices()
	if len(verts) != 1 || !strings.HasPrefix(string(verts[0]), "__v") {
		t.Fatalf("pick_vert should select the fresh vertex, got %v", verts)
	}
}

func TestDuplicateVertexLiteralRejected(t *testing.T) {
	wantEvalErr(t, `complex K = [a, a]`, ErrDuplicateVertex)
}

func TestUnboundIdentifier(t *testing.T) {
	wantEvalErr(t, `complex K = union(A, [b])`, ErrUnboundIdentifier)
}

func TestMappingOnlyOnGlue(t *testing.T) {
	wantEvalErr(t, `
		complex K = [a]
		complex L = [b]
		complex M = union(K, L) mapping {a -> b}
	`, ErrMappingNotAllowed)
}

func TestConditionMustBeInteger(t *testing.T) {
	wantEvalErr(t, `
		complex K = [a]
		if K {
			complex L = [b]
		}
	`, ErrTypeMismatch)
}

func TestAssignRequiresComplexVariable(t *testing.T) {
	wantEvalErr(t, `
		function f(k) = k
		f = [a]
	`, ErrTypeMismatch)
}

func TestAssignToUnbound(t *testing.T) {
	wantEvalErr(t, `K = [a]`, ErrUnboundIdentifier)
}

func TestOperatorIsNotAValue(t *testing.T) {
	wantEvalErr(t, `complex K = union`, ErrNotAValue)
}

func TestGlueMappingConflictRejected(t *testing.T) {
	wantEvalErr(t, `
		complex K = glue([a, b], [c, d]) mapping {a -> c, a -> d}
	`, ErrConflictingMapping)
}

func TestGlueVertexMustExist(t *testing.T) {
	wantEvalErr(t, `
		complex K = glue([a, b], [c, d]) mapping {z -> c}
	`, ErrVertexNotFound)
}

func TestEvalErrorCarriesPosition(t *testing.T) {
	_, err := NewInterpreter().EvalSource("complex K = union(A, [b])")
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected an *EvalError, got %v", err)
	}
	if ee.Line != 1 || ee.Col == 0 {
		t.Fatalf("expected a 1-based position on line 1, got %d:%d", ee.Line, ee.Col)
	}
}

func TestResultComplexAccessor(t *testing.T) {
	res, err := NewInterpreter().EvalSource(`complex K = [a, b, c]`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	k, err := res.Complex("K")
	if err != nil {
		t.Fatalf("Complex(K): %v", err)
	}
	if k.Dimension() != 2 {
		t.Errorf("dim = %d, want 2", k.Dimension())
	}
	if _, err := res.Complex("Missing"); !errors.Is(err, ErrUnboundIdentifier) {
		t.Errorf("expected unbound identifier, got %v", err)
	}
}

func TestSessionStatePersistsAcrossExec(t *testing.T) {
	s := newSession(t, `complex K = [a]`)
	if err := s.Exec(`K = union(K, [b])`); err != nil {
		t.Fatalf("second exec: %v", err)
	}
	wantInt(t, s, "num_vert(K)", 2)
}
