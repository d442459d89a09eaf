package codebase

import (
	"strings"

	"github.com/dhamidi/bib/bibtex"
	"github.com/dhamidi/bib/bibtex/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type completionKind int

const (
	completeEntryType completionKind = iota
	completeFieldName
	completeMacro
)

// completionTarget is the token being typed and what it may be replaced by.
type completionTarget struct {
	kind completionKind
	node *parser.Node
}

// completionAt classifies the token holding the character just before pos,
// which is the token a cursor at pos is typing.
func completionAt(tree *bibtex.Tree, pos parser.Position) *completionTarget {
	if pos.Column == 0 {
		return nil
	}
	stack := tree.Find(parser.Position{Line: pos.Line, Column: pos.Column - 1})
	if len(stack) < 2 {
		return nil
	}
	leaf := stack[len(stack)-1]
	parent := stack[len(stack)-2]
	if !leaf.IsLeaf() {
		return nil
	}

	switch {
	case leaf.Kind == parser.KindToken && leaf.Token.Kind.IsDeclaration():
		return &completionTarget{kind: completeEntryType, node: leaf}
	case leaf.Kind == parser.KindToken && leaf.Token.Kind == parser.TokenWord &&
		parent.Kind == parser.KindField && parent.Children[0] == leaf:
		return &completionTarget{kind: completeFieldName, node: leaf}
	case leaf.Kind == parser.KindWord:
		switch parent.Kind {
		case parser.KindField, parser.KindString, parser.KindPreamble, parser.KindConcat:
			return &completionTarget{kind: completeMacro, node: leaf}
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	target := completionAt(doc.Tree, fromProtocolPosition(params.Position))
	if target == nil {
		return nil, nil
	}

	r := spanRange(target.node.Span)
	var items []protocol.CompletionItem
	switch target.kind {
	case completeEntryType:
		for _, b := range bibtex.EntryTypes {
			items = append(items, completionItem(b.Name, "@"+b.Name, b.Doc, protocol.CompletionItemKindClass, r))
		}
	case completeFieldName:
		for _, b := range bibtex.FieldNames {
			items = append(items, completionItem(b.Name, b.Name, b.Doc, protocol.CompletionItemKindField, r))
		}
	case completeMacro:
		declared := make(map[string]bool)
		for _, macro := range ls.codebase.Macros(doc.Path) {
			declared[strings.ToLower(macro.Name())] = true
			items = append(items, completionItem(macro.Name(), macro.Name(), macro.Value(), protocol.CompletionItemKindConstant, r))
		}
		for _, b := range bibtex.MonthMacros {
			if !declared[b.Name] {
				items = append(items, completionItem(b.Name, b.Name, b.Doc, protocol.CompletionItemKindConstant, r))
			}
		}
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

// completionItem replaces the typed token with text. The filter text is the
// replacement so that a typed "@ar" still matches "@article".
func completionItem(label, text, detail string, kind protocol.CompletionItemKind, r protocol.Range) protocol.CompletionItem {
	return protocol.CompletionItem{
		Label:      label,
		Kind:       &kind,
		Detail:     &detail,
		FilterText: &text,
		TextEdit: protocol.TextEdit{
			Range:   r,
			NewText: text,
		},
	}
}
