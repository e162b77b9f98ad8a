// interpreter_exec.go — the tree-walking evaluator.
//
// Commands thread an environment (scoping) and a State (store, vertex
// order) through execution. Expressions never change bindings; commands
// may return an extended environment. Branch and loop bodies run against
// the enclosing environment and their bindings are discarded on exit,
// together with any store cells they allocated; updates to pre-existing
// cells survive.
package scl

import "fmt"

// execSeq runs commands in order, folding the environment forward.
func execSeq(cmds []Command, env *Env, st *State) (*Env, error) {
	var err error
	for _, cmd := range cmds {
		env, err = execCommand(cmd, env, st)
		if err != nil {
			return nil, err
		}
	}
	return env, nil
}

func execCommand(cmd Command, env *Env, st *State) (*Env, error) {
	switch c := cmd.(type) {
	case *ComplexDecl:
		v, err := evalExpr(c.Expr, env, st)
		if err != nil {
			return nil, err
		}
		if v.Tag != VTComplex {
			return nil, evalErrf(c.Line, c.Col,
				"complex %s: initializer is a %s, expected a complex: %w", c.Name, v.kindName(), ErrTypeMismatch)
		}
		k := v.Data.(*Complex)
		st.RegisterVertices(k.Vertices())
		addr := st.Alloc(k)
		return env.Bind(c.Name, AddrVal(addr)), nil

	case *VertexDecl:
		return env.Bind(c.Name, VertexVal(st.FreshVertex())), nil

	case *Assign:
		bound, ok := env.Get(c.Name)
		if !ok {
			return nil, evalErrf(c.Line, c.Col, "%s: %w", c.Name, ErrUnboundIdentifier)
		}
		if bound.Tag != VTAddr {
			return nil, evalErrf(c.Line, c.Col,
				"cannot assign to %s (a %s), only complex variables are mutable: %w",
				c.Name, bound.kindName(), ErrTypeMismatch)
		}
		v, err := evalExpr(c.Expr, env, st)
		if err != nil {
			return nil, err
		}
		if v.Tag != VTComplex {
			return nil, evalErrf(c.Line, c.Col,
				"assignment to %s: value is a %s, expected a complex: %w", c.Name, v.kindName(), ErrTypeMismatch)
		}
		st.Update(bound.Data.(int), v.Data.(*Complex))
		return env, nil

	case *IfCmd:
		cond, err := condValue(c.Cond, env, st)
		if err != nil {
			return nil, err
		}
		mark := st.Mark()
		branch := c.Then
		if cond == 0 {
			branch = c.Else
		}
		if _, err := execSeq(branch, env, st); err != nil {
			return nil, err
		}
		st.Rollback(mark)
		return env, nil

	case *WhileCmd:
		mark := st.Mark()
		for i := 0; ; i++ {
			if i >= maxLoopIterations {
				return nil, evalErrf(c.Line, c.Col,
					"loop exceeded %d iterations: %w", maxLoopIterations, ErrLoopBound)
			}
			cond, err := condValue(c.Cond, env, st)
			if err != nil {
				return nil, err
			}
			if cond == 0 {
				break
			}
			if _, err := execSeq(c.Body, env, st); err != nil {
				return nil, err
			}
		}
		st.Rollback(mark)
		return env, nil

	case *FunctionDecl:
		// The closure captures env before the function's own binding, so
		// the body cannot reach the function by its own name.
		return env.Bind(c.Name, ClosureVal(&Closure{Fn: c, Env: env})), nil

	default:
		return nil, fmt.Errorf("unknown command node %T", cmd)
	}
}

// condValue evaluates a branch or loop condition to its integer, where 0
// is false and anything else true.
func condValue(e Expr, env *Env, st *State) (int64, error) {
	v, err := evalExpr(e, env, st)
	if err != nil {
		return 0, err
	}
	if v.Tag != VTInt {
		line, col := e.Pos()
		return 0, evalErrf(line, col,
			"condition is a %s, expected an integer: %w", v.kindName(), ErrTypeMismatch)
	}
	return v.Data.(int64), nil
}

func evalExpr(e Expr, env *Env, st *State) (Value, error) {
	switch x := e.(type) {
	case *IntLit:
		return IntVal(x.Value), nil

	case *ComplexLit:
		seen := make(map[VertexName]bool, len(x.Vertices))
		for _, v := range x.Vertices {
			if seen[v] {
				return Value{}, evalErrf(x.Line, x.Col, "vertex %s: %w", v, ErrDuplicateVertex)
			}
			seen[v] = true
		}
		return ComplexVal(NewComplex([]Simplex{NewSimplex(x.Vertices...)}, nil)), nil

	case *Ident:
		v, ok := env.Get(x.Name)
		if !ok {
			return Value{}, evalErrf(x.Line, x.Col, "%s: %w", x.Name, ErrUnboundIdentifier)
		}
		switch v.Tag {
		case VTAddr:
			k, err := st.Access(v.Data.(int))
			if err != nil {
				return Value{}, evalErrAt(x.Line, x.Col, err)
			}
			return ComplexVal(k), nil
		case VTVertex:
			// A vertex variable denotes the one-point complex on its name.
			name := v.Data.(VertexName)
			return ComplexVal(NewComplex([]Simplex{NewSimplex(name)}, nil)), nil
		case VTOperator:
			return Value{}, evalErrf(x.Line, x.Col,
				"operator %s must be applied, not used as a value: %w", x.Name, ErrNotAValue)
		default:
			return v, nil
		}

	case *Call:
		return evalCall(x, env, st)

	default:
		return Value{}, fmt.Errorf("unknown expression node %T", e)
	}
}

func evalCall(call *Call, env *Env, st *State) (Value, error) {
	target, ok := env.Get(call.Name)
	if !ok {
		return Value{}, evalErrf(call.Line, call.Col, "%s: %w", call.Name, ErrUnboundIdentifier)
	}

	switch target.Tag {
	case VTOperator:
		args, err := evalArgs(call.Args, env, st)
		if err != nil {
			return Value{}, err
		}
		out, err := target.Data.(*Operator).Apply(args, call.Mapping, call.HasMapping, st)
		if err != nil {
			return Value{}, evalErrAt(call.Line, call.Col, err)
		}
		return out, nil

	case VTClosure:
		cl := target.Data.(*Closure)
		if call.HasMapping {
			return Value{}, evalErrf(call.Line, call.Col,
				"%s is a function; only glue accepts a mapping: %w", call.Name, ErrMappingNotAllowed)
		}
		if len(call.Args) != len(cl.Fn.Params) {
			return Value{}, evalErrf(call.Line, call.Col,
				"%s expects %d arguments, got %d: %w",
				call.Name, len(cl.Fn.Params), len(call.Args), ErrArity)
		}
		args, err := evalArgs(call.Args, env, st)
		if err != nil {
			return Value{}, err
		}
		frame := cl.Env
		for i, param := range cl.Fn.Params {
			frame = frame.Bind(param, args[i])
		}
		// The body runs in the captured scope but against the caller's
		// state, so store reads through aliased variables stay current.
		return evalExpr(cl.Fn.Body, frame, st)

	default:
		return Value{}, evalErrf(call.Line, call.Col,
			"%s is a %s: %w", call.Name, target.kindName(), ErrNotCallable)
	}
}

// evalArgs evaluates call arguments left to right.
func evalArgs(exprs []Expr, env *Env, st *State) ([]Value, error) {
	args := make([]Value, len(exprs))
	for i, e := range exprs {
		v, err := evalExpr(e, env, st)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}
