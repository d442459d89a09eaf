package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/bib/bibtex"
	"github.com/dhamidi/bib/format"
	"github.com/spf13/cobra"
)

func readTree(a *app, filename string) (*bibtex.Tree, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return bibtex.Parse(string(data), a.cfg.ParserOptions()...), nil
}

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .bib file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readTree(a, args[0])
			if err != nil {
				return err
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				enc := format.NewASTJSONEncoder(cmd.OutOrStdout())
				enc.Positions = includePositions
				encoder = enc
			case "tree":
				enc := format.NewTreeEncoder(cmd.OutOrStdout())
				enc.Positions = includePositions
				encoder = enc
			default:
				return fmt.Errorf("unknown format: %s (expected json or tree)", outputFormat)
			}

			if err := encoder.Encode(tree); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include node positions in the output")

	return cmd
}
