// lexer.go — tokenizer for the simplicial-complex language surface syntax.
package scl

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COMMA    // ","
	ASSIGN   // "="
	ARROW    // "->"

	// Literals & identifiers
	IDENT
	INT

	// Keywords
	COMPLEX
	VERTEX
	IF
	ELSE
	WHILE
	FUNCTION
	MAPPING
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{} // int64 for INT
	Line    int         // 1-based
	Col     int         // 1-based
}

var keywords = map[string]TokenType{
	"complex":  COMPLEX,
	"vertex":   VERTEX,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"function": FUNCTION,
	"mapping":  MAPPING,
}

// LexError is a tokenization failure at a 1-based position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans a source string into tokens.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int
	col   int // 1-based column of cur

	tokStartLine int
	tokStartCol  int

	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	tok := Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
			l.start = l.cur
		case ch == '/' && l.cur+1 < len(l.src) && l.src[l.cur+1] == '/':
			for !l.isAtEnd() {
				if c, _ := l.peek(); c == '\n' {
					break
				}
				l.advance()
			}
			l.start = l.cur
		default:
			return
		}
	}
}

func (l *Lexer) scanToken() (Token, error) {
	l.skipWhitespaceAndComments()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF, nil), nil
	}

	ch, _ := l.advance()
	switch ch {
	case '(':
		return l.addToken(LPAREN, nil), nil
	case ')':
		return l.addToken(RPAREN, nil), nil
	case '[':
		return l.addToken(LBRACKET, nil), nil
	case ']':
		return l.addToken(RBRACKET, nil), nil
	case '{':
		return l.addToken(LBRACE, nil), nil
	case '}':
		return l.addToken(RBRACE, nil), nil
	case ',':
		return l.addToken(COMMA, nil), nil
	case '=':
		return l.addToken(ASSIGN, nil), nil
	case '-':
		if next, ok := l.peek(); ok && next == '>' {
			l.advance()
			return l.addToken(ARROW, nil), nil
		}
		return Token{}, l.err("unexpected character '-' (did you mean '->'?)")
	}

	if isDigit(ch) {
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.advance()
		}
		n, err := strconv.ParseInt(l.src[l.start:l.cur], 10, 64)
		if err != nil {
			return Token{}, l.err("integer literal out of range")
		}
		return l.addToken(INT, n), nil
	}

	if isAlpha(ch) {
		for {
			b, ok := l.peek()
			if !ok || !isAlphaNum(b) {
				break
			}
			l.advance()
		}
		word := l.src[l.start:l.cur]
		if kw, ok := keywords[word]; ok {
			return l.addToken(kw, nil), nil
		}
		return l.addToken(IDENT, word), nil
	}

	return Token{}, l.err(fmt.Sprintf("unexpected character %q", ch))
}

// Scan tokenizes the whole source, ending with an EOF token.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
