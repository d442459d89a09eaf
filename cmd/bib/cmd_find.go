package main

import (
	"fmt"
	"strconv"

	"github.com/dhamidi/bib/bibtex/parser"
	"github.com/spf13/cobra"
)

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <file> <line> <column>",
		Short: "Print the syntax nodes under a position",
		Long: `Print the chain of syntax nodes that contain a position, from the
document root down to the innermost node.

Line and column are one-based; columns count UTF-16 code units.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil || line < 1 {
				return fmt.Errorf("invalid line: %s", args[1])
			}
			column, err := strconv.Atoi(args[2])
			if err != nil || column < 1 {
				return fmt.Errorf("invalid column: %s", args[2])
			}

			tree, err := readTree(a, args[0])
			if err != nil {
				return err
			}

			stack := tree.Find(parser.Position{Line: line - 1, Column: column - 1})
			if len(stack) == 0 {
				return fmt.Errorf("%d:%d is outside the document", line, column)
			}
			for depth, node := range stack {
				fmt.Fprintf(cmd.OutOrStdout(), "%*s%s\n", depth*2, "", describe(node))
			}
			return nil
		},
	}
}

func describe(node *parser.Node) string {
	s := fmt.Sprintf("%s %d:%d-%d:%d", node.Kind,
		node.Span.Start.Line+1, node.Span.Start.Column+1,
		node.Span.End.Line+1, node.Span.End.Column+1)
	if node.Token != nil {
		s += fmt.Sprintf(" %q", node.Token.Literal)
	}
	return s
}
