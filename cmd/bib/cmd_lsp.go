package main

import (
	"github.com/dhamidi/bib/bibtex/codebase"
	"github.com/spf13/cobra"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, a.cfg)
			return server.RunStdio()
		},
	}
}
