package parser

import "strings"

// Position is a location in a document. Line and Column are zero-based and
// Column counts UTF-16 code units, which is what editor protocols use.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether pos lies in the half-open span [Start, End).
func (s Span) Contains(pos Position) bool {
	return !pos.Before(s.Start) && pos.Before(s.End)
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenUnknown
	TokenWhitespace
	TokenComment

	// Declaration markers
	TokenPreambleType
	TokenStringType
	TokenCommentType
	TokenEntryType

	TokenWord
	TokenCommand

	// Delimiters and operators
	TokenLBrace
	TokenRBrace
	TokenLParen
	TokenRParen
	TokenComma
	TokenAssign
	TokenConcat
	TokenQuote
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenUnknown:      "Unknown",
	TokenWhitespace:   "Whitespace",
	TokenComment:      "Comment",
	TokenPreambleType: "PreambleType",
	TokenStringType:   "StringType",
	TokenCommentType:  "CommentType",
	TokenEntryType:    "EntryType",
	TokenWord:         "Word",
	TokenCommand:      "Command",
	TokenLBrace:       "{",
	TokenRBrace:       "}",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenComma:        ",",
	TokenAssign:       "=",
	TokenConcat:       "#",
	TokenQuote:        `"`,
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Invalid"
}

// IsDeclaration reports whether the kind starts a top-level declaration.
func (k TokenKind) IsDeclaration() bool {
	switch k {
	case TokenPreambleType, TokenStringType, TokenCommentType, TokenEntryType:
		return true
	}
	return false
}

// IsTrivia reports whether the parser skips the kind inside declarations.
func (k TokenKind) IsTrivia() bool {
	return k == TokenWhitespace
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

var declarationKinds = map[string]TokenKind{
	"preamble": TokenPreambleType,
	"string":   TokenStringType,
	"comment":  TokenCommentType,
}

// LookupDeclaration classifies an "@word" literal.
func LookupDeclaration(literal string) TokenKind {
	name := strings.ToLower(strings.TrimPrefix(literal, "@"))
	if kind, ok := declarationKinds[name]; ok {
		return kind
	}
	return TokenEntryType
}
