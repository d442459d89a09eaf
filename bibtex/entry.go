package bibtex

import (
	"strings"

	"github.com/dhamidi/bib/bibtex/parser"
)

type Entry struct {
	node *parser.Node
}

// NewEntry wraps an entry node. The node must be of kind KindEntry.
func NewEntry(node *parser.Node) *Entry {
	return &Entry{node: node}
}

func (e *Entry) Node() *parser.Node {
	return e.node
}

// Type returns the lower-cased entry type without the leading "@".
func (e *Entry) Type() string {
	if len(e.node.Children) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(e.node.Children[0].TokenLiteral(), "@"))
}

// TypeToken returns the "@type" leaf.
func (e *Entry) TypeToken() *parser.Node {
	if len(e.node.Children) == 0 {
		return nil
	}
	return e.node.Children[0]
}

// KeyToken returns the citation key leaf, or nil when the entry has none.
func (e *Entry) KeyToken() *parser.Node {
	return e.node.ChildToken(parser.TokenWord)
}

func (e *Entry) Key() string {
	if tok := e.KeyToken(); tok != nil {
		return tok.TokenLiteral()
	}
	return ""
}

func (e *Entry) Fields() []*Field {
	var result []*Field
	for _, node := range e.node.ChildrenOfKind(parser.KindField) {
		result = append(result, &Field{node: node})
	}
	return result
}

// Field returns the first field called name, ignoring case.
func (e *Entry) Field(name string) *Field {
	for _, node := range e.node.ChildrenOfKind(parser.KindField) {
		f := &Field{node: node}
		if strings.EqualFold(f.Name(), name) {
			return f
		}
	}
	return nil
}

// CrossrefKey returns the key named by the crossref field when its value
// is a braced group holding exactly one word.
func (e *Entry) CrossrefKey() (string, bool) {
	if e == nil || e.node == nil {
		return "", false
	}
	f := e.Field("crossref")
	if f == nil {
		return "", false
	}
	word := f.CrossrefWord()
	if word == nil {
		return "", false
	}
	return word.TokenLiteral(), true
}

type Field struct {
	node *parser.Node
}

func NewField(node *parser.Node) *Field {
	return &Field{node: node}
}

func (f *Field) Node() *parser.Node {
	return f.node
}

func (f *Field) NameToken() *parser.Node {
	if len(f.node.Children) == 0 {
		return nil
	}
	return f.node.Children[0]
}

func (f *Field) Name() string {
	if tok := f.NameToken(); tok != nil {
		return tok.TokenLiteral()
	}
	return ""
}

// Content returns the value node, or nil when the field has no value.
func (f *Field) Content() *parser.Node {
	return f.node.FirstContent()
}

// Value returns the display text of the field value.
func (f *Field) Value() string {
	return ContentText(f.Content())
}

// CrossrefWord returns the single word of a value of the form {key}.
func (f *Field) CrossrefWord() *parser.Node {
	content := f.Content()
	if content == nil || content.Kind != parser.KindBraced {
		return nil
	}
	inner := content.Contents()
	if len(inner) != 1 || inner[0].Kind != parser.KindWord {
		return nil
	}
	return inner[0]
}

type Preamble struct {
	node *parser.Node
}

func (p *Preamble) Node() *parser.Node {
	return p.node
}

func (p *Preamble) Content() *parser.Node {
	return p.node.FirstContent()
}

type String struct {
	node *parser.Node
}

func NewString(node *parser.Node) *String {
	return &String{node: node}
}

func (s *String) Node() *parser.Node {
	return s.node
}

// NameToken returns the macro name leaf, or nil when it is missing.
func (s *String) NameToken() *parser.Node {
	return s.node.ChildToken(parser.TokenWord)
}

func (s *String) Name() string {
	if tok := s.NameToken(); tok != nil {
		return tok.TokenLiteral()
	}
	return ""
}

func (s *String) Content() *parser.Node {
	return s.node.FirstContent()
}

func (s *String) Value() string {
	return ContentText(s.Content())
}

type Comment struct {
	node *parser.Node
}

func (c *Comment) Node() *parser.Node {
	return c.node
}

func (c *Comment) Text() string {
	return c.node.TokenLiteral()
}

// ContentText renders a content node as plain text: delimiters are
// dropped, concatenated parts are joined directly and whitespace runs in
// the source become one space. Macros and commands are not expanded.
func ContentText(node *parser.Node) string {
	return strings.TrimSpace(contentText(node))
}

func contentText(node *parser.Node) string {
	if node == nil {
		return ""
	}
	if node.Kind == parser.KindConcat {
		var sb strings.Builder
		for _, part := range node.Contents() {
			sb.WriteString(contentText(part))
		}
		return sb.String()
	}

	var sb strings.Builder
	var prev *parser.Token
	space := false
	var walk func(*parser.Node)
	walk = func(n *parser.Node) {
		if !n.IsLeaf() {
			for _, child := range n.Children {
				walk(child)
			}
			return
		}
		if prev != nil && prev.Span.End.Offset != n.Token.Span.Start.Offset {
			space = true
		}
		prev = n.Token
		if n.Kind == parser.KindToken {
			return
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteString(n.Token.Literal)
	}
	walk(node)
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}
