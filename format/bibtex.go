package format

import (
	"io"
	"strings"

	"github.com/dhamidi/bib/bibtex"
	"github.com/dhamidi/bib/bibtex/parser"
	"github.com/mattn/go-runewidth"
)

// BibtexPrinter writes the canonical layout of a BibTeX document.
type BibtexPrinter struct {
	w         io.Writer
	opts      Options
	indentStr string
	column    int // display column of the next character
	err       error
}

func NewBibtexPrinter(w io.Writer, opts Options) *BibtexPrinter {
	if opts.TabSize < 0 {
		opts.TabSize = 0
	}
	if opts.LineLength < 0 {
		opts.LineLength = 0
	}
	indent := "\t"
	if opts.InsertSpaces || opts.TabSize == 0 {
		indent = strings.Repeat(" ", opts.TabSize)
	}
	return &BibtexPrinter{
		w:         w,
		opts:      opts,
		indentStr: indent,
	}
}

// Print writes every declaration of tree, separated by blank lines. An
// empty document produces no output.
func (p *BibtexPrinter) Print(tree *bibtex.Tree) error {
	if tree == nil || tree.Root == nil {
		return nil
	}
	for i, decl := range tree.Root.Children {
		if i > 0 {
			p.newline()
		}
		p.printDeclaration(decl)
		p.newline()
	}
	return p.err
}

func (p *BibtexPrinter) printDeclaration(node *parser.Node) {
	switch node.Kind {
	case parser.KindComment:
		p.write(strings.TrimSpace(node.TokenLiteral()))
	case parser.KindPreamble:
		p.printPreamble(node)
	case parser.KindString:
		p.printString(node)
	case parser.KindEntry:
		p.printEntry(node)
	}
}

// printType writes the lower-cased declaration type and the opening brace.
// It reports false when the declaration has no body.
func (p *BibtexPrinter) printType(node *parser.Node) bool {
	p.write(strings.ToLower(node.Children[0].TokenLiteral()))
	if node.ChildToken(parser.TokenLBrace) == nil && node.ChildToken(parser.TokenLParen) == nil {
		return false
	}
	p.write("{")
	return true
}

func (p *BibtexPrinter) printPreamble(node *parser.Node) {
	if !p.printType(node) {
		return
	}
	if content := node.FirstContent(); content != nil {
		p.printContent(content)
	}
	p.write("}")
}

func (p *BibtexPrinter) printString(node *parser.Node) {
	if !p.printType(node) {
		return
	}
	if name := node.ChildToken(parser.TokenWord); name != nil {
		p.write(name.TokenLiteral())
	}
	if node.ChildToken(parser.TokenAssign) != nil {
		p.write(" = ")
		if content := node.FirstContent(); content != nil {
			p.printContent(content)
		}
	}
	p.write("}")
}

func (p *BibtexPrinter) printEntry(node *parser.Node) {
	if !p.printType(node) {
		return
	}
	key := node.ChildToken(parser.TokenWord)
	fields := node.ChildrenOfKind(parser.KindField)
	if key != nil {
		p.write(key.TokenLiteral())
	}
	if key != nil || len(fields) > 0 {
		p.write(",")
	}
	p.newline()

	for _, field := range fields {
		p.printField(field)
	}
	p.write("}")
}

func (p *BibtexPrinter) printField(node *parser.Node) {
	p.write(p.indentStr)
	p.write(node.Children[0].TokenLiteral())
	if node.ChildToken(parser.TokenAssign) != nil {
		p.write(" = ")
		if content := node.FirstContent(); content != nil {
			p.printContent(content)
		}
	}
	p.write(",")
	p.newline()
}

// printContent writes the tokens of a value. Tokens that touch in the
// source stay together; whitespace between tokens becomes a single space
// or, when the line would grow past the limit, a line break followed by
// indentation up to the column after the opening delimiter.
func (p *BibtexPrinter) printContent(node *parser.Node) {
	chunks := contentChunks(node)
	if len(chunks) == 0 {
		return
	}
	align := p.column
	if node.Kind == parser.KindBraced || node.Kind == parser.KindQuoted {
		align++
	} else if node.Kind == parser.KindConcat {
		if first := node.FirstContent(); first != nil && first.Kind != parser.KindWord && first.Kind != parser.KindCommand {
			align++
		}
	}

	for i, c := range chunks {
		if i > 0 {
			if p.shouldWrap(c) {
				p.newline()
				p.write(p.continuation(align))
			} else {
				p.write(" ")
			}
		}
		p.write(c.text)
	}
}

func (p *BibtexPrinter) shouldWrap(c chunk) bool {
	if p.opts.LineLength == 0 || !c.breakable {
		return false
	}
	return p.column+1+p.width(c.text) > p.opts.LineLength
}

func (p *BibtexPrinter) continuation(column int) string {
	if p.opts.InsertSpaces || p.opts.TabSize == 0 {
		return strings.Repeat(" ", column)
	}
	return strings.Repeat("\t", column/p.opts.TabSize) + strings.Repeat(" ", column%p.opts.TabSize)
}

func (p *BibtexPrinter) width(s string) int {
	return runewidth.StringWidth(s) + strings.Count(s, "\t")*p.opts.TabSize
}

func (p *BibtexPrinter) write(s string) {
	if p.err != nil {
		return
	}
	if _, err := io.WriteString(p.w, s); err != nil {
		p.err = err
		return
	}
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		p.column = p.width(s[idx+1:])
	} else {
		p.column += p.width(s)
	}
}

func (p *BibtexPrinter) newline() {
	p.write("\n")
}

// chunk is a run of tokens that were adjacent in the source.
type chunk struct {
	text string
	// breakable is false when starting a line with this chunk would turn
	// it into the start of a new declaration.
	breakable bool
}

func contentChunks(node *parser.Node) []chunk {
	var chunks []chunk
	var sb strings.Builder
	var prev *parser.Token
	breakable := true

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, chunk{text: sb.String(), breakable: breakable})
			sb.Reset()
		}
	}

	var walk func(*parser.Node)
	walk = func(n *parser.Node) {
		if n.Token != nil {
			if prev != nil && prev.Span.End.Offset != n.Token.Span.Start.Offset {
				flush()
			}
			if sb.Len() == 0 {
				breakable = !n.Token.Kind.IsDeclaration()
			}
			sb.WriteString(n.Token.Literal)
			prev = n.Token
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
		sb.WriteString(missingClose(n))
	}
	walk(node)
	flush()
	return chunks
}

// missingClose returns the delimiters needed to terminate a group that was
// cut short by the end of input or a following declaration.
func missingClose(n *parser.Node) string {
	switch n.Kind {
	case parser.KindBraced:
		open := 0
		for _, child := range n.Children {
			if child.Kind != parser.KindToken {
				continue
			}
			switch child.Token.Kind {
			case parser.TokenLBrace:
				open++
			case parser.TokenRBrace:
				open--
			}
		}
		if open > 0 {
			return strings.Repeat("}", open)
		}
	case parser.KindQuoted:
		if len(n.ChildrenOfKind(parser.KindToken)) < 2 {
			return `"`
		}
	}
	return ""
}
