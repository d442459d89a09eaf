package bibtex

import (
	"strings"
	"testing"

	"github.com/dhamidi/bib/bibtex/parser"
)

func kinds(stack []*parser.Node) string {
	var parts []string
	for _, n := range stack {
		parts = append(parts, n.Kind.String())
	}
	return strings.Join(parts, " ")
}

func TestFind(t *testing.T) {
	source := "@article{foo,\n    author = {Foo Bar},\n}\n"

	tests := []struct {
		name   string
		line   int
		column int
		want   string
		leaf   string
	}{
		{"field name", 1, 6, "Root Entry Field Token", "author"},
		{"start of field name", 1, 4, "Root Entry Field Token", "author"},
		{"after field name", 1, 10, "Root Entry Field Token", "author"},
		{"word in value", 1, 14, "Root Entry Field Braced Word", "Foo"},
		{"key", 0, 10, "Root Entry Token", "foo"},
		{"entry type", 0, 0, "Root Entry Token", "@article"},
		{"indentation", 1, 0, "Root Entry", ""},
		{"closing brace", 2, 0, "Root Entry Token", "}"},
		{"end of document", 3, 0, "Root", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := Find(parser.Parse(source), parser.Position{Line: tt.line, Column: tt.column})
			if got := kinds(stack); got != tt.want {
				t.Fatalf("Find(%d:%d) = %s, want %s", tt.line, tt.column, got, tt.want)
			}
			if got := stack[len(stack)-1].TokenLiteral(); got != tt.leaf {
				t.Errorf("innermost literal = %q, want %q", got, tt.leaf)
			}
		})
	}
}

func TestFindOutsideDocument(t *testing.T) {
	root := parser.Parse("@misc{m}")
	if stack := Find(root, parser.Position{Line: 5, Column: 0}); stack != nil {
		t.Errorf("Find past end = %s, want nil", kinds(stack))
	}
	if stack := Find(root, parser.Position{Line: 0, Column: 99}); stack != nil {
		t.Errorf("Find past end of line = %s, want nil", kinds(stack))
	}
	if stack := Find(nil, parser.Position{}); stack != nil {
		t.Error("Find(nil) should be nil")
	}
}

func TestFindEmptyDocument(t *testing.T) {
	stack := Find(parser.Parse(""), parser.Position{})
	if got := kinds(stack); got != "Root" {
		t.Errorf("Find = %s, want Root", got)
	}
}

func TestFindAncestorsContainPosition(t *testing.T) {
	tree := Parse(library)
	for line := 0; line < 20; line++ {
		for column := 0; column < 40; column++ {
			pos := parser.Position{Line: line, Column: column}
			stack := tree.Find(pos)
			for i := 1; i < len(stack); i++ {
				n := stack[i]
				if !n.Contains(pos) && !sameLocation(n.Span.End, pos) {
					t.Fatalf("node %v at %d:%d does not cover position", n.Kind, line, column)
				}
				if !containsChild(stack[i-1], n) {
					t.Fatalf("stack entry %d is not a child of its predecessor", i)
				}
			}
		}
	}
}

func containsChild(parent, child *parser.Node) bool {
	for _, c := range parent.Children {
		if c == child {
			return true
		}
	}
	return false
}
