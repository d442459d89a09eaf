package parser

import (
	"fmt"
	"strings"
)

type NodeKind int

const (
	KindRoot NodeKind = iota

	// Declarations
	KindComment
	KindPreamble
	KindString
	KindEntry

	KindField

	// Content
	KindBraced
	KindQuoted
	KindWord
	KindCommand
	KindConcat

	// Structural tokens: declaration types, keys, names, delimiters
	KindToken
)

var nodeKindNames = map[NodeKind]string{
	KindRoot:     "Root",
	KindComment:  "Comment",
	KindPreamble: "Preamble",
	KindString:   "String",
	KindEntry:    "Entry",
	KindField:    "Field",
	KindBraced:   "Braced",
	KindQuoted:   "Quoted",
	KindWord:     "Word",
	KindCommand:  "Command",
	KindConcat:   "Concat",
	KindToken:    "Token",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k NodeKind) IsDeclaration() bool {
	switch k {
	case KindComment, KindPreamble, KindString, KindEntry:
		return true
	}
	return false
}

func (k NodeKind) IsContent() bool {
	switch k {
	case KindBraced, KindQuoted, KindWord, KindCommand, KindConcat:
		return true
	}
	return false
}

// Node is a concrete syntax tree node. Leaves carry a Token, inner nodes carry
// Children in source order. A tree is never modified after Parse returns it.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
}

func newLeaf(kind NodeKind, tok Token) *Node {
	return &Node{Kind: kind, Span: tok.Span, Token: &tok}
}

func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	if len(n.Children) == 0 && n.Token == nil {
		n.Span.Start = child.Span.Start
	}
	n.Children = append(n.Children, child)
	n.Span.End = child.Span.End
}

// Contains reports whether pos lies within the node's half-open span.
func (n *Node) Contains(pos Position) bool {
	return n.Span.Contains(pos)
}

func (n *Node) IsLeaf() bool {
	return n.Token != nil
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// ChildToken returns the first structural token child of the given kind.
func (n *Node) ChildToken(kind TokenKind) *Node {
	for _, child := range n.Children {
		if child.Kind == KindToken && child.Token.Kind == kind {
			return child
		}
	}
	return nil
}

// FirstContent returns the first content child.
func (n *Node) FirstContent() *Node {
	for _, child := range n.Children {
		if child.Kind.IsContent() {
			return child
		}
	}
	return nil
}

// Contents returns all content children.
func (n *Node) Contents() []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind.IsContent() {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Leaves returns the tokens of all leaves below n in source order.
func (n *Node) Leaves() []Token {
	var result []Token
	var walk func(*Node)
	walk = func(node *Node) {
		if node.IsLeaf() {
			result = append(result, *node.Token)
			return
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
	return result
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var sb strings.Builder
	n.writeIndent(&sb, indent, showPositions)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		fmt.Fprintf(sb, " [%d:%d-%d:%d]",
			n.Span.Start.Line, n.Span.Start.Column,
			n.Span.End.Line, n.Span.End.Column)
	}
	if n.Token != nil {
		fmt.Fprintf(sb, " %q", n.Token.Literal)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}
