// parser.go — recursive-descent parser producing the command/expression AST.
//
// The surface grammar:
//
//	program  := command*
//	command  := "complex" IDENT "=" expr
//	          | "vertex" IDENT
//	          | "function" IDENT "(" [IDENT ("," IDENT)*] ")" "=" expr
//	          | "if" expr block ["else" block]
//	          | "while" expr block
//	          | IDENT "=" expr                     // assignment
//	block    := "{" command* "}"
//	expr     := "[" IDENT ("," IDENT)* "]"         // complex literal
//	          | INT
//	          | IDENT                              // identifier
//	          | IDENT "(" [expr ("," expr)*] ")" ["mapping" mapping]
//	mapping  := "{" IDENT "->" IDENT ("," IDENT "->" IDENT)* "}"
//
// A call's target can syntactically be either a built-in operator or a
// user-defined function; the evaluator resolves which one at run time, so
// unknown names and arity problems surface as evaluation errors, never as
// parse errors.
package scl

import "fmt"

// ---- AST ----

// Program is a sequence of commands executed in order.
type Program []Command

// Command is one imperative statement of the language.
type Command interface{ cmdNode() }

// ComplexDecl allocates a fresh store cell: complex K = <expr>.
type ComplexDecl struct {
	Name      string
	Expr      Expr
	Line, Col int
}

// VertexDecl binds a synthesized fresh vertex name: vertex v.
type VertexDecl struct {
	Name      string
	Line, Col int
}

// Assign overwrites the store cell an existing variable points at.
type Assign struct {
	Name      string
	Expr      Expr
	Line, Col int
}

// IfCmd executes one branch on an integer condition (0 = false).
type IfCmd struct {
	Cond      Expr
	Then      []Command
	Else      []Command
	Line, Col int
}

// WhileCmd re-evaluates Cond before each iteration.
type WhileCmd struct {
	Cond      Expr
	Body      []Command
	Line, Col int
}

// FunctionDecl binds a closure: function f(x, y) = <expr>.
type FunctionDecl struct {
	Name      string
	Params    []string
	Body      Expr
	Line, Col int
}

func (*ComplexDecl) cmdNode()  {}
func (*VertexDecl) cmdNode()   {}
func (*Assign) cmdNode()       {}
func (*IfCmd) cmdNode()        {}
func (*WhileCmd) cmdNode()     {}
func (*FunctionDecl) cmdNode() {}

// Expr is an expression node. Pos returns the 1-based source position used
// for evaluation-error reporting.
type Expr interface {
	exprNode()
	Pos() (line, col int)
}

// Ident references a bound name.
type Ident struct {
	Name      string
	Line, Col int
}

// ComplexLit is a single-simplex literal [v1,...,vn].
type ComplexLit struct {
	Vertices  []VertexName
	Line, Col int
}

// IntLit is an integer literal.
type IntLit struct {
	Value     int64
	Line, Col int
}

// Call applies a named operator or function to arguments, with an optional
// glue mapping.
type Call struct {
	Name       string
	Args       []Expr
	Mapping    []MappingPair
	HasMapping bool
	Line, Col  int
}

func (*Ident) exprNode()      {}
func (*ComplexLit) exprNode() {}
func (*IntLit) exprNode()     {}
func (*Call) exprNode()       {}

func (e *Ident) Pos() (int, int)      { return e.Line, e.Col }
func (e *ComplexLit) Pos() (int, int) { return e.Line, e.Col }
func (e *IntLit) Pos() (int, int)     { return e.Line, e.Col }
func (e *Call) Pos() (int, int)       { return e.Line, e.Col }

// ---- parser ----

// ParseError is a syntax failure at a 1-based position.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse tokenizes and parses source into a Program.
func Parse(src string) (Program, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.program()
}

// ParseExpr parses source as a single expression. Used for interactive
// evaluation, where a bare "betti(K, 0)" is not a command.
func ParseExpr(src string) (Expr, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		t := p.peek()
		return nil, &ParseError{Line: t.Line, Col: t.Col,
			Msg: fmt.Sprintf("unexpected %q after expression", t.Lexeme)}
	}
	return e, nil
}

type parser struct {
	toks []Token
	i    int
}

func (p *parser) peek() Token { return p.toks[p.i] }
func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) next() Token {
	t := p.toks[p.i]
	if t.Type != EOF {
		p.i++
	}
	return t
}

func (p *parser) match(tt TokenType) bool {
	if p.peek().Type == tt {
		p.i++
		return true
	}
	return false
}

func (p *parser) need(tt TokenType, msg string) (Token, error) {
	t := p.peek()
	if t.Type != tt {
		return Token{}, &ParseError{Line: t.Line, Col: t.Col, Msg: msg}
	}
	return p.next(), nil
}

func (p *parser) program() (Program, error) {
	var prog Program
	for !p.atEnd() {
		cmd, err := p.command()
		if err != nil {
			return nil, err
		}
		prog = append(prog, cmd)
	}
	return prog, nil
}

func (p *parser) command() (Command, error) {
	t := p.peek()
	switch t.Type {
	case COMPLEX:
		return p.complexDecl()
	case VERTEX:
		return p.vertexDecl()
	case FUNCTION:
		return p.functionDecl()
	case IF:
		return p.ifCmd()
	case WHILE:
		return p.whileCmd()
	case IDENT:
		return p.assign()
	default:
		return nil, &ParseError{Line: t.Line, Col: t.Col,
			Msg: fmt.Sprintf("expected a command, got %q", t.Lexeme)}
	}
}

func (p *parser) complexDecl() (Command, error) {
	kw := p.next() // complex
	name, err := p.need(IDENT, "expected a variable name after 'complex'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ASSIGN, "expected '=' in complex declaration"); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ComplexDecl{Name: name.Lexeme, Expr: e, Line: kw.Line, Col: kw.Col}, nil
}

func (p *parser) vertexDecl() (Command, error) {
	kw := p.next() // vertex
	name, err := p.need(IDENT, "expected a variable name after 'vertex'")
	if err != nil {
		return nil, err
	}
	return &VertexDecl{Name: name.Lexeme, Line: kw.Line, Col: kw.Col}, nil
}

func (p *parser) functionDecl() (Command, error) {
	kw := p.next() // function
	name, err := p.need(IDENT, "expected a function name after 'function'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []string
	if p.peek().Type != RPAREN {
		for {
			param, err := p.need(IDENT, "expected a parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Lexeme)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "expected ')' after parameter list"); err != nil {
		return nil, err
	}
	if _, err := p.need(ASSIGN, "expected '=' before function body"); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{Name: name.Lexeme, Params: params, Body: body, Line: kw.Line, Col: kw.Col}, nil
}

func (p *parser) ifCmd() (Command, error) {
	kw := p.next() // if
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	var els []Command
	if p.match(ELSE) {
		els, err = p.block()
		if err != nil {
			return nil, err
		}
	}
	return &IfCmd{Cond: cond, Then: then, Else: els, Line: kw.Line, Col: kw.Col}, nil
}

func (p *parser) whileCmd() (Command, error) {
	kw := p.next() // while
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &WhileCmd{Cond: cond, Body: body, Line: kw.Line, Col: kw.Col}, nil
}

func (p *parser) assign() (Command, error) {
	name := p.next()
	if _, err := p.need(ASSIGN, fmt.Sprintf("expected '=' after %q", name.Lexeme)); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &Assign{Name: name.Lexeme, Expr: e, Line: name.Line, Col: name.Col}, nil
}

func (p *parser) block() ([]Command, error) {
	if _, err := p.need(LBRACE, "expected '{'"); err != nil {
		return nil, err
	}
	var cmds []Command
	for p.peek().Type != RBRACE {
		if p.atEnd() {
			t := p.peek()
			return nil, &ParseError{Line: t.Line, Col: t.Col, Msg: "unterminated block, expected '}'"}
		}
		cmd, err := p.command()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	p.next() // }
	return cmds, nil
}

func (p *parser) expr() (Expr, error) {
	t := p.peek()
	switch t.Type {
	case LBRACKET:
		return p.complexLit()
	case INT:
		p.next()
		return &IntLit{Value: t.Literal.(int64), Line: t.Line, Col: t.Col}, nil
	case IDENT:
		p.next()
		if p.peek().Type == LPAREN {
			return p.callTail(t)
		}
		return &Ident{Name: t.Lexeme, Line: t.Line, Col: t.Col}, nil
	default:
		return nil, &ParseError{Line: t.Line, Col: t.Col,
			Msg: fmt.Sprintf("expected an expression, got %q", t.Lexeme)}
	}
}

func (p *parser) complexLit() (Expr, error) {
	open := p.next() // [
	var verts []VertexName
	if p.peek().Type != RBRACKET {
		for {
			v, err := p.need(IDENT, "expected a vertex name")
			if err != nil {
				return nil, err
			}
			verts = append(verts, VertexName(v.Lexeme))
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RBRACKET, "expected ']' after vertex list"); err != nil {
		return nil, err
	}
	if len(verts) == 0 {
		return nil, &ParseError{Line: open.Line, Col: open.Col, Msg: "a complex literal needs at least one vertex"}
	}
	return &ComplexLit{Vertices: verts, Line: open.Line, Col: open.Col}, nil
}

func (p *parser) callTail(name Token) (Expr, error) {
	p.next() // (
	var args []Expr
	if p.peek().Type != RPAREN {
		for {
			a, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "expected ')' after arguments"); err != nil {
		return nil, err
	}

	call := &Call{Name: name.Lexeme, Args: args, Line: name.Line, Col: name.Col}
	if p.match(MAPPING) {
		if _, err := p.need(LBRACE, "expected '{' after 'mapping'"); err != nil {
			return nil, err
		}
		if p.peek().Type != RBRACE {
			for {
				from, err := p.need(IDENT, "expected a vertex name in mapping")
				if err != nil {
					return nil, err
				}
				if _, err := p.need(ARROW, "expected '->' in mapping"); err != nil {
					return nil, err
				}
				to, err := p.need(IDENT, "expected a vertex name after '->'")
				if err != nil {
					return nil, err
				}
				call.Mapping = append(call.Mapping, MappingPair{
					From: VertexName(from.Lexeme),
					To:   VertexName(to.Lexeme),
				})
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.need(RBRACE, "expected '}' after mapping"); err != nil {
			return nil, err
		}
		call.HasMapping = true
	}
	return call, nil
}
