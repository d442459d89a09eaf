package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dhamidi/bib/bibtex"
	"github.com/dhamidi/bib/bibtex/codebase"
	"github.com/dhamidi/bib/format"
	"github.com/spf13/cobra"
)

func newFmtCmd(a *app) *cobra.Command {
	var fmtOverwrite bool
	var lineLength int

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Format a .bib file",
		Long: `Format a .bib file to stdout.

If a file is provided, it must have a .bib extension.
If no file is provided, reads BibTeX from stdin.

Use -w to overwrite the file in place (requires a file argument).
Use --line-length 0 to disable wrapping of long field values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				ext := filepath.Ext(filename)
				if ext != codebase.Extension {
					return fmt.Errorf("expected %s file, got %s", codebase.Extension, ext)
				}
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			opts := a.cfg.FormatOptions()
			if cmd.Flags().Changed("line-length") {
				if lineLength < 0 {
					return fmt.Errorf("--line-length must not be negative, got %d", lineLength)
				}
				opts.LineLength = lineLength
			}

			tree := bibtex.Parse(string(source), a.cfg.ParserOptions()...)
			edits := format.Format(tree, string(source), opts)
			output := []byte(edits[0].NewText)

			if fmtOverwrite {
				if err := os.WriteFile(filename, output, 0644); err != nil {
					return fmt.Errorf("write file: %w", err)
				}
				a.log.Infof("formatted %s", filename)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().IntVar(&lineLength, "line-length", 80, "wrap field values at this column (0 disables wrapping)")

	return cmd
}
