package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/bib/bibtex"
)

// ASTJSONEncoder writes the syntax tree as indented JSON.
type ASTJSONEncoder struct {
	w         io.Writer
	Positions bool
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(tree *bibtex.Tree) error {
	text, err := e.MarshalText(tree)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(tree *bibtex.Tree) ([]byte, error) {
	return json.MarshalIndent(tree.Root.ToJSON(e.Positions), "", "  ")
}

// TreeEncoder writes the indented debug dump of the syntax tree.
type TreeEncoder struct {
	w         io.Writer
	Positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(tree *bibtex.Tree) error {
	text := tree.Root.String()
	if e.Positions {
		text = tree.Root.StringWithPositions()
	}
	_, err := io.WriteString(e.w, text)
	return err
}
