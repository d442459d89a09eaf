package parser

import (
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	pos    int
	line   int
	column int
	depth  int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input}
}

// Tokenize splits text into tokens, trivia included. Every byte of text is
// covered by exactly one token. The trailing EOF token is not returned.
func Tokenize(text string) []Token {
	l := NewLexer([]byte(text))
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) Position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRune(l.input[l.pos:])
}

func (l *Lexer) advance() {
	r, size := l.peek()
	if size == 0 {
		return
	}
	l.pos += size
	switch {
	case r == '\n':
		l.line++
		l.column = 0
	case r == '\r' && (l.pos >= len(l.input) || l.input[l.pos] != '\n'):
		l.line++
		l.column = 0
	case r == utf8.RuneError && size == 1:
		l.column++
	default:
		l.column += utf16Len(r)
	}
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func isUnknown(r rune, size int) bool {
	if r == utf8.RuneError && size == 1 {
		return true
	}
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}

func (l *Lexer) isWordRune(r rune, size int) bool {
	if size == 0 || isUnknown(r, size) || unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '@', '{', '}', '(', ')', ',', '=', '#', '"', '\\':
		return false
	case '%':
		return l.depth > 0
	}
	return true
}

func (l *Lexer) NextToken() Token {
	start := l.Position()
	r, size := l.peek()
	if size == 0 {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	switch {
	case isUnknown(r, size):
		return l.scanUnknown(start)
	case unicode.IsSpace(r):
		return l.scanWhitespace(start)
	}

	switch r {
	case '@':
		if start.Column == 0 {
			l.depth = 0
		}
		return l.scanDeclaration(start)
	case '\\':
		return l.scanCommand(start)
	case '%':
		if l.depth == 0 {
			return l.scanComment(start)
		}
	case '{':
		l.depth++
		return l.single(start, TokenLBrace)
	case '}':
		if l.depth > 0 {
			l.depth--
		}
		return l.single(start, TokenRBrace)
	case '(':
		return l.single(start, TokenLParen)
	case ')':
		return l.single(start, TokenRParen)
	case ',':
		return l.single(start, TokenComma)
	case '=':
		return l.single(start, TokenAssign)
	case '#':
		return l.single(start, TokenConcat)
	case '"':
		return l.single(start, TokenQuote)
	}
	return l.scanWord(start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) single(start Position, kind TokenKind) Token {
	l.advance()
	return l.token(kind, start)
}

func (l *Lexer) scanUnknown(start Position) Token {
	for {
		r, size := l.peek()
		if size == 0 || !isUnknown(r, size) {
			break
		}
		l.advance()
	}
	return l.token(TokenUnknown, start)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		r, size := l.peek()
		if size == 0 || isUnknown(r, size) || !unicode.IsSpace(r) {
			break
		}
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanComment(start Position) Token {
	for {
		r, size := l.peek()
		if size == 0 || r == '\n' || r == '\r' {
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanDeclaration(start Position) Token {
	l.advance()
	for {
		r, size := l.peek()
		// Entry types never contain '%', even inside braces.
		if r == '%' || !l.isWordRune(r, size) {
			break
		}
		l.advance()
	}
	tok := l.token(TokenEntryType, start)
	tok.Kind = LookupDeclaration(tok.Literal)
	return tok
}

func (l *Lexer) scanCommand(start Position) Token {
	l.advance()
	r, size := l.peek()
	switch {
	case size == 0 || isUnknown(r, size) || unicode.IsSpace(r):
	case isASCIILetter(r):
		for {
			r, size = l.peek()
			if size == 0 || !isASCIILetter(r) {
				break
			}
			l.advance()
		}
	default:
		l.advance()
	}
	return l.token(TokenCommand, start)
}

func (l *Lexer) scanWord(start Position) Token {
	for {
		r, size := l.peek()
		if !l.isWordRune(r, size) {
			break
		}
		l.advance()
	}
	return l.token(TokenWord, start)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// EndOf returns the position just past the last character of text.
func EndOf(text string) Position {
	l := NewLexer([]byte(text))
	for l.pos < len(l.input) {
		l.advance()
	}
	return l.Position()
}
