package parser

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    *jsonToken  `json:"token,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonToken struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToJSON(true))
}

// ToJSON converts the tree into a value suitable for encoding/json. Spans
// are omitted when withPositions is false.
func (n *Node) ToJSON(withPositions bool) any {
	return n.toJSON(withPositions)
}

func (n *Node) toJSON(withPositions bool) *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind.String(),
	}

	if withPositions {
		jn.Span = &jsonSpan{
			Start: jsonPosition{Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   jsonPosition{Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if n.Token != nil {
		jn.Token = &jsonToken{Kind: n.Token.Kind.String(), Literal: n.Token.Literal}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON(withPositions)
		}
	}

	return jn
}
