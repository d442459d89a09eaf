// Package format renders BibTeX syntax trees: the canonical pretty-printer
// used for document formatting, and encoders for debugging dumps.
package format

import (
	"strings"

	"github.com/dhamidi/bib/bibtex"
	"github.com/dhamidi/bib/bibtex/parser"
)

type Encoder interface {
	Encode(tree *bibtex.Tree) error
}

// Options controls the layout produced by Format.
type Options struct {
	// LineLength is the column at which field values are wrapped. Zero
	// disables wrapping.
	LineLength int
	// TabSize is the width of one indentation level.
	TabSize int
	// InsertSpaces selects spaces over a tab for indentation.
	InsertSpaces bool
}

func DefaultOptions() Options {
	return Options{
		LineLength:   80,
		TabSize:      4,
		InsertSpaces: true,
	}
}

type Range struct {
	Start parser.Position
	End   parser.Position
}

// Edit replaces the text in Range with NewText.
type Edit struct {
	Range   Range
	NewText string
}

// Format lays out tree, which must have been parsed from text, and returns
// a single edit replacing the whole of text with the result.
func Format(tree *bibtex.Tree, text string, opts Options) []Edit {
	var sb strings.Builder
	NewBibtexPrinter(&sb, opts).Print(tree)
	return []Edit{{
		Range:   Range{End: parser.EndOf(text)},
		NewText: sb.String(),
	}}
}

// FormatText parses and formats text in one step.
func FormatText(text string, opts Options) string {
	var sb strings.Builder
	NewBibtexPrinter(&sb, opts).Print(bibtex.Parse(text))
	return sb.String()
}
