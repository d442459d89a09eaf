package codebase

import (
	"strings"

	"github.com/dhamidi/bib/bibtex"
	"github.com/dhamidi/bib/bibtex/parser"
)

type refKind int

const (
	refEntryKey refKind = iota
	refCrossref
	refMacro
)

// reference is a word under the cursor that names something: the key of
// the entry it belongs to, the target of a crossref, or a string macro.
type reference struct {
	kind  refKind
	name  string
	node  *parser.Node
	owner *parser.Node
}

func referenceAt(tree *bibtex.Tree, pos parser.Position) *reference {
	stack := tree.Find(pos)
	if len(stack) < 2 {
		return nil
	}
	leaf := stack[len(stack)-1]
	parent := stack[len(stack)-2]
	if !leaf.IsLeaf() {
		return nil
	}

	switch {
	case leaf.Kind == parser.KindToken && leaf.Token.Kind == parser.TokenWord && parent.Kind == parser.KindEntry:
		return &reference{kind: refEntryKey, name: leaf.Token.Literal, node: leaf, owner: parent}
	case leaf.Kind != parser.KindWord:
		return nil
	}

	switch parent.Kind {
	case parser.KindBraced:
		if len(stack) < 3 || stack[len(stack)-3].Kind != parser.KindField {
			return nil
		}
		field := bibtex.NewField(stack[len(stack)-3])
		if strings.EqualFold(field.Name(), "crossref") && field.CrossrefWord() == leaf {
			return &reference{kind: refCrossref, name: leaf.Token.Literal, node: leaf, owner: stack[len(stack)-3]}
		}
	case parser.KindField, parser.KindString, parser.KindPreamble, parser.KindConcat:
		return &reference{kind: refMacro, name: leaf.Token.Literal, node: leaf, owner: parent}
	}
	return nil
}
