package parser

import (
	"strings"
	"testing"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindRoot, "Root"},
		{KindComment, "Comment"},
		{KindPreamble, "Preamble"},
		{KindString, "String"},
		{KindEntry, "Entry"},
		{KindField, "Field"},
		{KindBraced, "Braced"},
		{KindQuoted, "Quoted"},
		{KindWord, "Word"},
		{KindCommand, "Command"},
		{KindConcat, "Concat"},
		{KindToken, "Token"},
		{NodeKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestNodeAddChild(t *testing.T) {
	parent := &Node{Kind: KindField}
	child1 := &Node{Kind: KindToken, Span: Span{Start: Position{Offset: 3}, End: Position{Offset: 5}}}
	child2 := &Node{Kind: KindWord, Span: Span{Start: Position{Offset: 8}, End: Position{Offset: 9}}}

	parent.AddChild(child1)
	parent.AddChild(child2)
	parent.AddChild(nil)

	if len(parent.Children) != 2 {
		t.Errorf("Expected 2 children, got %d", len(parent.Children))
	}
	if parent.Span.Start.Offset != 3 || parent.Span.End.Offset != 9 {
		t.Errorf("span = %d-%d, want 3-9", parent.Span.Start.Offset, parent.Span.End.Offset)
	}
}

func TestNodeAccessors(t *testing.T) {
	root := Parse(`@article{key, title = {A} # "B"}`)
	entry := root.FirstChildOfKind(KindEntry)
	if entry == nil {
		t.Fatal("no entry")
	}
	if key := entry.ChildToken(TokenWord); key == nil || key.TokenLiteral() != "key" {
		t.Errorf("key = %v, want key", key)
	}
	fields := entry.ChildrenOfKind(KindField)
	if len(fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(fields))
	}
	value := fields[0].FirstContent()
	if value == nil || value.Kind != KindConcat {
		t.Fatalf("value = %v, want Concat", value)
	}
	if n := len(value.Contents()); n != 2 {
		t.Errorf("concat has %d contents, want 2", n)
	}
	if value.IsLeaf() {
		t.Error("concat reported as leaf")
	}
	if key := entry.ChildToken(TokenWord); key != nil && !key.IsLeaf() {
		t.Error("key token not reported as leaf")
	}

	var literals []string
	for _, tok := range value.Leaves() {
		literals = append(literals, tok.Literal)
	}
	if got := strings.Join(literals, " "); got != `{ A } # " B "` {
		t.Errorf("leaves = %q", got)
	}
}

func TestNodeString(t *testing.T) {
	root := Parse("@misc{m}")
	want := `Root
  Entry
    Token "@misc"
    Token "{"
    Token "m"
    Token "}"
`
	if got := root.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}

	withPos := root.StringWithPositions()
	if !strings.Contains(withPos, `Token [0:0-0:5] "@misc"`) {
		t.Errorf("StringWithPositions() missing token position:\n%s", withPos)
	}
}
