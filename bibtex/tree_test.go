package bibtex

import (
	"reflect"
	"testing"
)

const library = `@string{acm = "ACM Press"}
@preamble{"\newcommand{\noop}[1]{}"}

Some junk text.

@book{proc,
  title = {Proceedings},
  crossref = {series},
}

@inproceedings{paper,
  author = {Doe, Jane},
  title = "A {Study}" # " of " # things,
  crossref = {proc},
}

@misc{quoted, crossref = "proc"}
@misc{two, crossref = {proc paper}}
@misc{missing, crossref = {nowhere}}
@MISC{paper, note = {duplicate key}}
`

func TestTreeDeclarations(t *testing.T) {
	tree := Parse(library)

	if n := len(tree.Strings()); n != 1 {
		t.Errorf("got %d strings, want 1", n)
	}
	if n := len(tree.Preambles()); n != 1 {
		t.Errorf("got %d preambles, want 1", n)
	}
	if n := len(tree.Comments()); n != 1 {
		t.Errorf("got %d comments, want 1", n)
	}

	var keys []string
	for _, e := range tree.Entries() {
		keys = append(keys, e.Key())
	}
	want := []string{"proc", "paper", "quoted", "two", "missing", "paper"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("entry keys = %v, want %v", keys, want)
	}
	if got := tree.CitationKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("CitationKeys() = %v, want %v", got, want)
	}
}

func TestTreeEntry(t *testing.T) {
	tree := Parse(library)

	paper := tree.Entry("paper")
	if paper == nil {
		t.Fatal("Entry(paper) = nil")
	}
	if paper.Type() != "inproceedings" {
		t.Errorf("first paper has type %q, want inproceedings", paper.Type())
	}
	if tree.Entry("PAPER") != nil {
		t.Error("Entry lookup should be case-sensitive")
	}
	if tree.Entry("absent") != nil {
		t.Error("Entry(absent) should be nil")
	}
	if got := tree.Entries()[5].Type(); got != "misc" {
		t.Errorf("Type() = %q, want misc", got)
	}
}

func TestTreeCrossref(t *testing.T) {
	tree := Parse(library)

	tests := []struct {
		key  string
		want string
	}{
		{"paper", "proc"},
		{"proc", ""}, // series is not defined
		{"quoted", ""},
		{"two", ""},
		{"missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			target := tree.Crossref(tree.Entry(tt.key))
			got := ""
			if target != nil {
				got = target.Key()
			}
			if got != tt.want {
				t.Errorf("Crossref(%s) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestTreeCrossrefSingleHop(t *testing.T) {
	tree := Parse("@misc{a, crossref = {b}}\n@misc{b, crossref = {c}}\n@misc{c}")
	target := tree.Crossref(tree.Entry("a"))
	if target == nil || target.Key() != "b" {
		t.Fatalf("Crossref(a) = %v, want b", target)
	}
}

func TestTreeCrossrefNil(t *testing.T) {
	tree := Parse("")
	if tree.Crossref(nil) != nil {
		t.Error("Crossref(nil) should be nil")
	}
}

func TestTreeMacro(t *testing.T) {
	tree := Parse("@string{jan = \"January\"}\n@string{JAN = {Jan.}}")
	s := tree.Macro("Jan")
	if s == nil {
		t.Fatal("Macro(Jan) = nil")
	}
	if s.Value() != "January" {
		t.Errorf("Value() = %q, want January", s.Value())
	}
	if tree.Macro("feb") != nil {
		t.Error("Macro(feb) should be nil")
	}
}

func TestFieldLookup(t *testing.T) {
	tree := Parse(library)
	paper := tree.Entry("paper")

	f := paper.Field("AUTHOR")
	if f == nil {
		t.Fatal("Field(AUTHOR) = nil")
	}
	if f.Name() != "author" {
		t.Errorf("Name() = %q, want author", f.Name())
	}
	if f.Value() != "Doe, Jane" {
		t.Errorf("Value() = %q, want %q", f.Value(), "Doe, Jane")
	}
	if got := paper.Field("title").Value(); got != "A Study of things" {
		t.Errorf("title = %q", got)
	}
	if paper.Field("year") != nil {
		t.Error("Field(year) should be nil")
	}
	if n := len(paper.Fields()); n != 3 {
		t.Errorf("got %d fields, want 3", n)
	}
}

func TestContentText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"@misc{m, t = {The {Uber}   Thing}}", "The Uber Thing"},
		{`@misc{m, t = {Caf\'e}}`, `Caf\'e`},
		{`@misc{m, t = "a" # "b"}`, "ab"},
		{"@misc{m, t = 2020}", "2020"},
		{"@misc{m, t = }", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			entry := Parse(tt.input).Entries()[0]
			if got := entry.Field("t").Value(); got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommentText(t *testing.T) {
	tree := Parse("% header line\n@misc{m}")
	comments := tree.Comments()
	if len(comments) != 1 || comments[0].Text() != "% header line" {
		t.Errorf("comments = %v", comments)
	}
}
