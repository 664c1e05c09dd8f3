package parser

import (
	"github.com/phlin-dev/phlin/internal/ast"
	"github.com/phlin-dev/phlin/internal/types"
)

// TokenKind enumerates lexical token types.
type TokenKind int

const (
	EOF TokenKind = iota
	Illegal
	Variable // $name
	Ident    // bare name or keyword
	Int
	Float
	String
	Arrow    // ->
	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	Comma
	Semicolon
	Colon
	Assign  // =
	Not     // !
	AndAnd  // &&
	OrOr    // ||
	EqEq    // ==
	EqEqEq  // ===
	NotEq   // !=
	NotEqEq // !==
	Pipe    // |
	Question
	DoubleArrow // =>
)

// Token is one lexical unit with its source span.
type Token struct {
	Kind TokenKind
	Lit  string
	Pos  types.Position
	End  types.Position
}

// Lexer turns source bytes into tokens, collecting comments on the side
// for the suppression-pragma scanner.
type Lexer struct {
	filename string
	src      []byte
	offset   int
	line     int
	col      int
	comments []*ast.Comment
}

// NewLexer creates a lexer over src.
func NewLexer(filename string, src []byte) *Lexer {
	lx := &Lexer{filename: filename, src: src, line: 1, col: 1}
	lx.skipOpenTag()
	return lx
}

// Comments returns the comments seen so far.
func (lx *Lexer) Comments() []*ast.Comment { return lx.comments }

func (lx *Lexer) skipOpenTag() {
	const tag = "<?php"
	if len(lx.src) >= len(tag) && string(lx.src[:len(tag)]) == tag {
		for i := 0; i < len(tag); i++ {
			lx.advance()
		}
	}
}

func (lx *Lexer) pos() types.Position {
	return types.Position{Filename: lx.filename, Offset: lx.offset, Line: lx.line, Column: lx.col}
}

func (lx *Lexer) peek() byte {
	if lx.offset >= len(lx.src) {
		return 0
	}
	return lx.src[lx.offset]
}

func (lx *Lexer) peekAt(n int) byte {
	if lx.offset+n >= len(lx.src) {
		return 0
	}
	return lx.src[lx.offset+n]
}

func (lx *Lexer) advance() byte {
	if lx.offset >= len(lx.src) {
		return 0
	}
	c := lx.src[lx.offset]
	lx.offset++
	if c == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return c
}

// Next returns the next token, skipping whitespace and recording comments.
func (lx *Lexer) Next() Token {
	lx.skipSpaceAndComments()
	start := lx.pos()
	c := lx.peek()

	switch {
	case c == 0:
		return Token{Kind: EOF, Pos: start, End: start}
	case c == '$':
		lx.advance()
		name := lx.readIdent()
		return lx.tok(Variable, name, start)
	case isLetter(c):
		name := lx.readIdent()
		return lx.tok(Ident, name, start)
	case isDigit(c):
		return lx.readNumber(start)
	case c == '\'' || c == '"':
		return lx.readString(start)
	}

	lx.advance()
	switch c {
	case '(':
		return lx.tok(LParen, "(", start)
	case ')':
		return lx.tok(RParen, ")", start)
	case '{':
		return lx.tok(LBrace, "{", start)
	case '}':
		return lx.tok(RBrace, "}", start)
	case '[':
		return lx.tok(LBracket, "[", start)
	case ']':
		return lx.tok(RBracket, "]", start)
	case ',':
		return lx.tok(Comma, ",", start)
	case ';':
		return lx.tok(Semicolon, ";", start)
	case ':':
		return lx.tok(Colon, ":", start)
	case '?':
		return lx.tok(Question, "?", start)
	case '-':
		if lx.peek() == '>' {
			lx.advance()
			return lx.tok(Arrow, "->", start)
		}
	case '=':
		if lx.peek() == '=' {
			lx.advance()
			if lx.peek() == '=' {
				lx.advance()
				return lx.tok(EqEqEq, "===", start)
			}
			return lx.tok(EqEq, "==", start)
		}
		if lx.peek() == '>' {
			lx.advance()
			return lx.tok(DoubleArrow, "=>", start)
		}
		return lx.tok(Assign, "=", start)
	case '!':
		if lx.peek() == '=' {
			lx.advance()
			if lx.peek() == '=' {
				lx.advance()
				return lx.tok(NotEqEq, "!==", start)
			}
			return lx.tok(NotEq, "!=", start)
		}
		return lx.tok(Not, "!", start)
	case '&':
		if lx.peek() == '&' {
			lx.advance()
			return lx.tok(AndAnd, "&&", start)
		}
	case '|':
		if lx.peek() == '|' {
			lx.advance()
			return lx.tok(OrOr, "||", start)
		}
		return lx.tok(Pipe, "|", start)
	}
	return lx.tok(Illegal, string(c), start)
}

func (lx *Lexer) tok(kind TokenKind, lit string, start types.Position) Token {
	return Token{Kind: kind, Lit: lit, Pos: start, End: lx.pos()}
}

func (lx *Lexer) skipSpaceAndComments() {
	for {
		c := lx.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			lx.advance()
		case c == '/' && lx.peekAt(1) == '/':
			lx.readLineComment()
		case c == '#':
			lx.readLineComment()
		case c == '/' && lx.peekAt(1) == '*':
			lx.readBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) readLineComment() {
	start := lx.pos()
	var text []byte
	for lx.peek() != 0 && lx.peek() != '\n' {
		text = append(text, lx.advance())
	}
	lx.comments = append(lx.comments, &ast.Comment{
		Text: string(text),
		Pos:  types.Span{Start: start, End: lx.pos()},
	})
}

func (lx *Lexer) readBlockComment() {
	start := lx.pos()
	var text []byte
	text = append(text, lx.advance(), lx.advance()) // consume /*
	for lx.peek() != 0 {
		if lx.peek() == '*' && lx.peekAt(1) == '/' {
			text = append(text, lx.advance(), lx.advance())
			break
		}
		text = append(text, lx.advance())
	}
	lx.comments = append(lx.comments, &ast.Comment{
		Text: string(text),
		Pos:  types.Span{Start: start, End: lx.pos()},
	})
}

func (lx *Lexer) readIdent() string {
	var out []byte
	for isLetter(lx.peek()) || isDigit(lx.peek()) {
		out = append(out, lx.advance())
	}
	return string(out)
}

func (lx *Lexer) readNumber(start types.Position) Token {
	var out []byte
	kind := Int
	for isDigit(lx.peek()) {
		out = append(out, lx.advance())
	}
	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		kind = Float
		out = append(out, lx.advance())
		for isDigit(lx.peek()) {
			out = append(out, lx.advance())
		}
	}
	return lx.tok(kind, string(out), start)
}

func (lx *Lexer) readString(start types.Position) Token {
	quote := lx.advance()
	var out []byte
	for {
		c := lx.peek()
		if c == 0 {
			return lx.tok(Illegal, string(out), start)
		}
		if c == '\\' {
			lx.advance()
			esc := lx.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, esc)
			}
			continue
		}
		if c == quote {
			lx.advance()
			return lx.tok(String, string(out), start)
		}
		out = append(out, lx.advance())
	}
}

func isLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
