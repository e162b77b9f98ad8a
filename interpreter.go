// interpreter.go — public evaluation API.
//
// An Interpreter holds the immutable core environment (the built-in
// operators). Each EvalSource/EvalProgram call runs against a fresh State
// and a fresh child environment, so one Interpreter can serve concurrent
// evaluations: the core frame is only ever read.
package scl

import "fmt"

// Interpreter evaluates programs against the built-in operator set.
type Interpreter struct {
	core *Env
}

// NewInterpreter builds an interpreter with all built-in operators bound.
func NewInterpreter() *Interpreter {
	core := NewEnv(nil)
	for _, op := range coreOperators() {
		core.define(op.Name, OperatorVal(op))
	}
	return &Interpreter{core: core}
}

// Result is the final environment and state of a completed run.
type Result struct {
	Env   *Env
	State *State
}

// Complex resolves a complex variable in the final environment to its
// stored value.
func (r *Result) Complex(name string) (*Complex, error) {
	v, ok := r.Env.Get(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnboundIdentifier)
	}
	if v.Tag != VTAddr {
		return nil, fmt.Errorf("%s is a %s, not a complex variable: %w", name, v.kindName(), ErrTypeMismatch)
	}
	return r.State.Access(v.Data.(int))
}

// EvalSource parses and evaluates source text.
func (in *Interpreter) EvalSource(src string) (*Result, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return in.EvalProgram(prog)
}

// EvalProgram evaluates an already-parsed program against a fresh state.
func (in *Interpreter) EvalProgram(prog Program) (*Result, error) {
	st := NewState()
	env := NewEnv(in.core)
	final, err := execSeq(prog, env, st)
	if err != nil {
		return nil, err
	}
	return &Result{Env: final, State: st}, nil
}

// Session is an incremental evaluation context: bindings and store survive
// across Exec calls. Used by the REPL.
type Session struct {
	env *Env
	st  *State
}

// NewSession starts a session over the interpreter's core environment.
func (in *Interpreter) NewSession() *Session {
	return &Session{env: NewEnv(in.core), st: NewState()}
}

// Exec parses and runs src as commands, retaining any new bindings.
func (s *Session) Exec(src string) error {
	prog, err := Parse(src)
	if err != nil {
		return err
	}
	env, err := execSeq(prog, s.env, s.st)
	if err != nil {
		return err
	}
	s.env = env
	return nil
}

// Eval parses src as a single expression and evaluates it in the current
// session scope.
func (s *Session) Eval(src string) (Value, error) {
	e, err := ParseExpr(src)
	if err != nil {
		return Value{}, err
	}
	return evalExpr(e, s.env, s.st)
}

// Result snapshots the session's current environment and state.
func (s *Session) Result() *Result {
	return &Result{Env: s.env, State: s.st}
}
