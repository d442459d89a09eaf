package main

import (
	"fmt"

	"github.com/dhamidi/bib/format"
	"github.com/spf13/cobra"
)

func newEntriesCmd(a *app) *cobra.Command {
	var crossref bool

	cmd := &cobra.Command{
		Use:   "entries <file>",
		Short: "List the entries, strings and preambles of a .bib file",
		Long: `List the declarations of a .bib file, one per line:

  entry     <key>   <type>  <line>  [<crossref>]
  string    <name>  -       <line>
  preamble  -       -       <line>

Fields are separated by tabs. With --crossref, entries get a fifth column
naming the entry their crossref field resolves to, or "-".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := readTree(a, args[0])
			if err != nil {
				return err
			}
			enc := format.NewLineEncoder(cmd.OutOrStdout())
			enc.Crossref = crossref
			if err := enc.Encode(tree); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&crossref, "crossref", false, "resolve crossref fields")

	return cmd
}
