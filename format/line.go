package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/bib/bibtex"
	"github.com/dhamidi/bib/bibtex/parser"
)

// LineEncoder writes one tab-separated record per declaration:
//
//	entry     key   type  line  [crossref]
//	string    name  -     line
//	preamble  -     -     line
//
// Lines are one-based. Comments are skipped.
type LineEncoder struct {
	w io.Writer
	// Crossref adds the resolved crossref target (or "-") to entries.
	Crossref bool
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(tree *bibtex.Tree) error {
	text, err := e.MarshalText(tree)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(tree *bibtex.Tree) ([]byte, error) {
	var sb strings.Builder

	for _, decl := range tree.Root.Children {
		line := decl.Span.Start.Line + 1
		switch decl.Kind {
		case parser.KindEntry:
			entry := bibtex.NewEntry(decl)
			fmt.Fprintf(&sb, "entry\t%s\t%s\t%d", orDash(entry.Key()), orDash(entry.Type()), line)
			if e.Crossref {
				target := "-"
				if ref := tree.Crossref(entry); ref != nil {
					target = ref.Key()
				}
				fmt.Fprintf(&sb, "\t%s", target)
			}
			sb.WriteString("\n")
		case parser.KindString:
			s := bibtex.NewString(decl)
			fmt.Fprintf(&sb, "string\t%s\t-\t%d\n", orDash(s.Name()), line)
		case parser.KindPreamble:
			fmt.Fprintf(&sb, "preamble\t-\t-\t%d\n", line)
		}
	}

	return []byte(sb.String()), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
