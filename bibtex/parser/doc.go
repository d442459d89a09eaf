// Package parser provides an error-tolerant lexer and parser for BibTeX
// databases.
//
// # Overview
//
// The parser turns a document into a concrete syntax tree (CST). It never
// fails: text that does not form a declaration becomes a comment, and
// declarations that are cut short keep whatever was parsed before the
// unexpected token. This suits editor tooling, where the document is
// usually in the middle of being typed.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (string)   │     │  (tokens)   │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// The lexer covers every byte of the input with exactly one token. Whitespace
// tokens are kept in the stream so that comments can be reproduced verbatim,
// and are skipped by the parser everywhere else.
//
// # Positions
//
// Lines and columns are zero-based. Columns count UTF-16 code units so that
// positions can be handed to LSP clients without conversion. A "\r\n" pair
// ends a single line.
//
// # Node Types
//
// The CST uses a uniform node structure:
//
//	type Node struct {
//	    Kind     NodeKind // e.g. KindEntry, KindField, KindBraced
//	    Span     Span     // source location
//	    Children []*Node  // child nodes (for non-terminals)
//	    Token    *Token   // lexical token (for terminals)
//	}
//
// A document parses to:
//
//	Root
//	├── Comment    junk text or an @comment block
//	├── Preamble   @preamble{ value }
//	├── String     @string{ name = value }
//	└── Entry      @type{ key, field, ... }
//	    └── Field  name = value,
//
// Values are Braced, Quoted, Word, Command or Concat nodes. Concatenation
// nests to the right: a # b # c is Concat(a, #, Concat(b, #, c)).
// Delimiters, keys, names and the "=" "," "#" operators are Token leaves.
//
// # Recovery
//
// An "@word" followed by "{" or "(" at the start of a line always begins a
// new declaration, even inside an unterminated braced value. Braces nested
// deeper than the configured maximum depth are not descended into; the
// group is kept as a flat sequence of leaves instead.
//
// # Usage
//
//	root := parser.Parse(text)
//	for _, decl := range root.Children {
//	    fmt.Println(decl.Kind)
//	}
package parser
