package bibtex

import "github.com/dhamidi/bib/bibtex/parser"

// Find returns the chain of nodes containing pos, from the root down to the
// innermost node. A position right after the last character of a node still
// selects it when no sibling starts there, so a cursor placed after a word
// finds the word. Positions outside the document yield nil.
func Find(root *parser.Node, pos parser.Position) []*parser.Node {
	if root == nil || pos.Before(root.Span.Start) || root.Span.End.Before(pos) {
		return nil
	}

	stack := []*parser.Node{root}
	for node := root; ; {
		next := childAt(node, pos)
		if next == nil {
			return stack
		}
		stack = append(stack, next)
		node = next
	}
}

func childAt(node *parser.Node, pos parser.Position) *parser.Node {
	for _, child := range node.Children {
		if child.Contains(pos) {
			return child
		}
	}
	for _, child := range node.Children {
		if sameLocation(child.Span.End, pos) {
			return child
		}
	}
	return nil
}

func sameLocation(a, b parser.Position) bool {
	return a.Line == b.Line && a.Column == b.Column
}
