// Package bibtex answers semantic questions about a parsed BibTeX
// document: which declarations it holds, which node is under a position,
// and how entries cross-reference each other.
package bibtex

import (
	"strings"

	"github.com/dhamidi/bib/bibtex/parser"
)

// Tree is a parsed document. It is read-only; a new text produces a new
// Tree.
type Tree struct {
	Root *parser.Node
}

func Parse(text string, opts ...parser.Option) *Tree {
	return &Tree{Root: parser.Parse(text, opts...)}
}

func (t *Tree) declarations(kind parser.NodeKind) []*parser.Node {
	if t == nil || t.Root == nil {
		return nil
	}
	return t.Root.ChildrenOfKind(kind)
}

func (t *Tree) Preambles() []*Preamble {
	var result []*Preamble
	for _, node := range t.declarations(parser.KindPreamble) {
		result = append(result, &Preamble{node: node})
	}
	return result
}

func (t *Tree) Strings() []*String {
	var result []*String
	for _, node := range t.declarations(parser.KindString) {
		result = append(result, &String{node: node})
	}
	return result
}

func (t *Tree) Entries() []*Entry {
	var result []*Entry
	for _, node := range t.declarations(parser.KindEntry) {
		result = append(result, &Entry{node: node})
	}
	return result
}

func (t *Tree) Comments() []*Comment {
	var result []*Comment
	for _, node := range t.declarations(parser.KindComment) {
		result = append(result, &Comment{node: node})
	}
	return result
}

// Entry returns the first entry whose key equals key. Keys are compared
// case-sensitively. Duplicate keys are allowed; later ones are unreachable
// through this lookup.
func (t *Tree) Entry(key string) *Entry {
	for _, node := range t.declarations(parser.KindEntry) {
		entry := &Entry{node: node}
		if tok := entry.KeyToken(); tok != nil && tok.TokenLiteral() == key {
			return entry
		}
	}
	return nil
}

// Macro returns the first @string declaration named name. Macro names are
// case-insensitive, as in BibTeX.
func (t *Tree) Macro(name string) *String {
	for _, node := range t.declarations(parser.KindString) {
		s := &String{node: node}
		if tok := s.NameToken(); tok != nil && strings.EqualFold(tok.TokenLiteral(), name) {
			return s
		}
	}
	return nil
}

// Crossref resolves the entry named by e's crossref field. The field value
// must be a braced group holding a single word. Resolution is one hop: the
// target's own crossref is not followed.
func (t *Tree) Crossref(e *Entry) *Entry {
	key, ok := e.CrossrefKey()
	if !ok {
		return nil
	}
	return t.Entry(key)
}

// CitationKeys lists the keys of all entries that have one, in document
// order.
func (t *Tree) CitationKeys() []string {
	var keys []string
	for _, entry := range t.Entries() {
		if key := entry.Key(); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func (t *Tree) Find(pos parser.Position) []*parser.Node {
	if t == nil {
		return nil
	}
	return Find(t.Root, pos)
}
