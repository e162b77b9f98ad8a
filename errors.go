// errors.go — evaluation-error taxonomy and caret-snippet rendering.
//
// Algebra failures are sentinel errors (algebra.go); this file adds the
// evaluator-side taxonomy and the user-facing presentation. Every failure is
// fatal to the current evaluation: the evaluator wraps the cause into an
// *EvalError carrying a 1-based source position, and the driver layer may
// render it as a caret-annotated snippet via FormatErrorWithSource.
package scl

import (
	"errors"
	"fmt"
	"strings"
)

// Evaluator failure conditions, matched by callers with errors.Is.
var (
	// ErrUnboundIdentifier: a name has no binding in the environment.
	ErrUnboundIdentifier = errors.New("unbound identifier")

	// ErrNotAValue: an identifier is bound to something that cannot be
	// used as an expression value (e.g. a bare operator).
	ErrNotAValue = errors.New("not a value")

	// ErrNotCallable: a call target is neither an operator nor a function.
	ErrNotCallable = errors.New("not an operator or function")

	// ErrArity: wrong number of arguments to an operator or function.
	ErrArity = errors.New("arity mismatch")

	// ErrTypeMismatch: wrong kind of argument or expression result.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMappingNotAllowed: a mapping supplied to anything but glue.
	ErrMappingNotAllowed = errors.New("mapping not allowed")

	// ErrDuplicateVertex: a complex literal repeats a vertex.
	ErrDuplicateVertex = errors.New("duplicate vertex in literal")

	// ErrLoopBound: a while loop exceeded the iteration ceiling.
	ErrLoopBound = errors.New("possible infinite loop")

	// ErrUninitializedAddress: a store address was never allocated.
	ErrUninitializedAddress = errors.New("uninitialized store address")
)

// EvalError is an evaluation failure with a 1-based source position.
// The wrapped cause preserves the sentinel taxonomy for errors.Is.
type EvalError struct {
	Line int
	Col  int
	Msg  string
	err  error
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("EVAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("EVAL ERROR: %s", e.Msg)
}

func (e *EvalError) Unwrap() error { return e.err }

// evalErrf builds an *EvalError at the given position. The last %w verb (if
// any) keeps the sentinel chain reachable.
func evalErrf(line, col int, format string, args ...any) *EvalError {
	wrapped := fmt.Errorf(format, args...)
	return &EvalError{Line: line, Col: col, Msg: wrapped.Error(), err: errors.Unwrap(wrapped)}
}

// evalErrAt re-homes an existing error at a source position, preserving it
// as the cause.
func evalErrAt(line, col int, err error) *EvalError {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee // already positioned
	}
	return &EvalError{Line: line, Col: col, Msg: err.Error(), err: err}
}

// FormatErrorWithSource renders lex/parse/eval errors as a plain-text
// snippet with a caret under the offending column, in the style of
//
//	PARSE ERROR in <name> at 3:12: unexpected token ')'
//
//	   2 | complex K = union(A,
//	   3 |                     )
//	     |                     ^
//
// Other error kinds are returned as their plain Error() string.
func FormatErrorWithSource(err error, name, src string) string {
	switch e := err.(type) {
	case *LexError:
		return prettySnippet(src, "LEXICAL ERROR", name, e.Line, e.Col, e.Msg)
	case *ParseError:
		return prettySnippet(src, "PARSE ERROR", name, e.Line, e.Col, e.Msg)
	case *EvalError:
		if e.Line > 0 {
			return prettySnippet(src, "EVAL ERROR", name, e.Line, e.Col, e.Msg)
		}
		return e.Error()
	default:
		return err.Error()
	}
}

// prettySnippet builds the caret snippet. Coordinates are 1-based and
// clamped to the source bounds so rendering never fails.
func prettySnippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
