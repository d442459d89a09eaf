package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseTree(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "entry",
			input: "@article{key,\n  title = {A, B}\n}",
			want: `Root
  Entry
    Token "@article"
    Token "{"
    Token "key"
    Token ","
    Field
      Token "title"
      Token "="
      Braced
        Token "{"
        Word "A"
        Word ","
        Word "B"
        Token "}"
    Token "}"
`,
		},
		{
			name:  "string with concatenation",
			input: `@string{s = a # "b" # {c}}`,
			want: `Root
  String
    Token "@string"
    Token "{"
    Token "s"
    Token "="
    Concat
      Word "a"
      Token "#"
      Concat
        Quoted
          Token "\""
          Word "b"
          Token "\""
        Token "#"
        Braced
          Token "{"
          Word "c"
          Token "}"
    Token "}"
`,
		},
		{
			name:  "preamble with command",
			input: `@preamble{"\newcommand"}`,
			want: `Root
  Preamble
    Token "@preamble"
    Token "{"
    Quoted
      Token "\""
      Command "\\newcommand"
      Token "\""
    Token "}"
`,
		},
		{
			name:  "junk becomes a comment",
			input: "hello  world\n@book{b,}",
			want: `Root
  Comment "hello  world"
  Entry
    Token "@book"
    Token "{"
    Token "b"
    Token ","
    Token "}"
`,
		},
		{
			name:  "comment block",
			input: "@comment{ a {b} c }\n@misc(m)",
			want: `Root
  Comment "@comment{ a {b} c }"
  Entry
    Token "@misc"
    Token "("
    Token "m"
    Token ")"
`,
		},
		{
			name:  "missing value",
			input: "@misc{m, note = , year = 1}",
			want: `Root
  Entry
    Token "@misc"
    Token "{"
    Token "m"
    Token ","
    Field
      Token "note"
      Token "="
      Token ","
    Field
      Token "year"
      Token "="
      Word "1"
    Token "}"
`,
		},
		{
			name:  "missing key",
			input: "@misc{title = x}",
			want: `Root
  Entry
    Token "@misc"
    Token "{"
    Field
      Token "title"
      Token "="
      Word "x"
    Token "}"
`,
		},
		{
			name:  "entry without body",
			input: "@misc = x",
			want: `Root
  Entry
    Token "@misc"
  Comment "= x"
`,
		},
		{
			name:  "trailing concatenation",
			input: "@string{s = a #}",
			want: `Root
  String
    Token "@string"
    Token "{"
    Token "s"
    Token "="
    Concat
      Word "a"
      Token "#"
    Token "}"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input).String()
			if got != tt.want {
				t.Errorf("Parse(%q) =\n%s\nwant\n%s", tt.input, got, tt.want)
			}
		})
	}
}

func rootKinds(root *Node) []NodeKind {
	var kinds []NodeKind
	for _, child := range root.Children {
		kinds = append(kinds, child.Kind)
	}
	return kinds
}

func TestParseRecovery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []NodeKind
	}{
		{"empty", "", nil},
		{"whitespace only", " \n\t ", nil},
		{"unterminated brace", "@article{a, title = {oops\n@book{b, year = 1}", []NodeKind{KindEntry, KindEntry}},
		{"unterminated quote", "@article{a, title = \"oops\n@book{b}", []NodeKind{KindEntry, KindEntry}},
		{"stray close brace", "@misc{a}}\n@misc{b}", []NodeKind{KindEntry, KindComment, KindEntry}},
		{"inline at sign", "@misc{a, email = {x @home{y}}}", []NodeKind{KindEntry}},
		{"lone at", "@", []NodeKind{KindEntry}},
		{"comment without body", "@comment text", []NodeKind{KindComment, KindComment}},
		{"unterminated comment block", "@comment{ open\n@misc{m}", []NodeKind{KindComment, KindEntry}},
		{"percent comment", "% header\n@misc{m}", []NodeKind{KindComment, KindEntry}},
		{"paren entry with percent", "@misc(m,\n% note\nyear = 1)", []NodeKind{KindEntry}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := Parse(tt.input)
			got := rootKinds(root)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v\n%s", got, tt.want, root)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("declaration %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
			checkSpans(t, root)
		})
	}
}

func TestParseUnterminatedEntryKeepsFields(t *testing.T) {
	root := Parse("@article{a, author = {Doe}, title = {oops\n@book{b, year = 1}")
	first := root.Children[0]
	if n := len(first.ChildrenOfKind(KindField)); n != 2 {
		t.Errorf("first entry has %d fields, want 2", n)
	}
	if first.ChildToken(TokenRBrace) != nil {
		t.Error("first entry should not have a closing brace")
	}
	second := root.Children[1]
	if key := second.ChildToken(TokenWord); key == nil || key.TokenLiteral() != "b" {
		t.Errorf("second entry key = %v, want b", key)
	}
}

func TestParseMaxDepth(t *testing.T) {
	root := Parse("@misc{m, t = {{{x}}}}", WithMaxDepth(1))
	field := root.Children[0].FirstChildOfKind(KindField)
	outer := field.FirstContent()
	if outer.Kind != KindBraced {
		t.Fatalf("value = %v, want Braced", outer.Kind)
	}
	inner := outer.FirstChildOfKind(KindBraced)
	if inner == nil {
		t.Fatal("missing inner group")
	}
	if inner.FirstChildOfKind(KindBraced) != nil {
		t.Error("group beyond max depth should be flat")
	}
	if n := len(inner.Children); n != 5 {
		t.Errorf("flat group has %d children, want 5", n)
	}
	if root.Children[0].ChildToken(TokenRBrace) == nil {
		t.Error("entry should be closed")
	}
}

func TestParseDeepNesting(t *testing.T) {
	input := "@misc{m, t = " + strings.Repeat("{", 100000) + strings.Repeat("}", 100000) + "}"
	root := Parse(input)
	if len(root.Children) != 1 {
		t.Fatalf("got %d declarations, want 1", len(root.Children))
	}
	if root.Children[0].ChildToken(TokenRBrace) == nil {
		t.Error("entry should be closed")
	}
}

func TestParseTotality(t *testing.T) {
	inputs := []string{
		"@",
		"@{",
		"@misc{",
		"@misc{,",
		"@misc{m,,}",
		"@misc{m, = x}",
		"@string{",
		"@string{ = }",
		"@preamble(",
		"}}}{{{",
		"\"\"\"",
		"# # #",
		"@misc{m, t = a # # b}",
		"\x00\x01\xff",
		"@misc{m, t = \\}",
		"@comment(",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			root := Parse(input)
			checkSpans(t, root)
			if root.Span.End.Offset != len(input) {
				t.Errorf("root ends at %d, want %d", root.Span.End.Offset, len(input))
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	input := "@article{a, author = {A} # b, title = \"T\"}\njunk\n@string{s = x}"
	first := Parse(input).StringWithPositions()
	for i := 0; i < 5; i++ {
		if got := Parse(input).StringWithPositions(); got != first {
			t.Fatalf("parse %d differs:\n%s\nwant\n%s", i, got, first)
		}
	}
}

func TestParseCaseInsensitiveDeclarations(t *testing.T) {
	root := Parse("@STRING{a = b}\n@Preamble{x}\n@COMMENT{y}\n@ARTICLE{k}")
	want := []NodeKind{KindString, KindPreamble, KindComment, KindEntry}
	got := rootKinds(root)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("declaration %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNodeMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Parse("@misc{m}"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind     string `json:"kind"`
			Children []struct {
				Token struct {
					Kind    string `json:"kind"`
					Literal string `json:"literal"`
				} `json:"token"`
			} `json:"children"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Kind != "Root" || len(decoded.Children) != 1 || decoded.Children[0].Kind != "Entry" {
		t.Fatalf("unexpected JSON: %s", data)
	}
	if lit := decoded.Children[0].Children[2].Token.Literal; lit != "m" {
		t.Errorf("key literal = %q, want m", lit)
	}
}

// checkSpans verifies that every child lies within its parent and that
// siblings appear in source order without overlapping.
func checkSpans(t *testing.T, n *Node) {
	t.Helper()
	prevEnd := n.Span.Start.Offset
	for _, child := range n.Children {
		if child.Span.Start.Offset < prevEnd {
			t.Errorf("%v child %v starts at %d before %d", n.Kind, child.Kind, child.Span.Start.Offset, prevEnd)
		}
		if child.Span.End.Offset > n.Span.End.Offset {
			t.Errorf("%v child %v ends at %d after parent end %d", n.Kind, child.Kind, child.Span.End.Offset, n.Span.End.Offset)
		}
		if child.Span.End.Offset < child.Span.Start.Offset {
			t.Errorf("%v has inverted span", child.Kind)
		}
		prevEnd = child.Span.End.Offset
		checkSpans(t, child)
	}
}
