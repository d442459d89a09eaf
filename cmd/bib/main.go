package main

import (
	"os"

	"github.com/dhamidi/bib/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// app carries the settings shared by all subcommands. They are filled in
// before any subcommand runs.
type app struct {
	configPath string
	verbose    int
	logFile    string
	cfg        config.Config
	log        commonlog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:          "bib",
		Short:        "Parse, query and format BibTeX files",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd)
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "configuration file")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newFmtCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newFindCmd(a))
	rootCmd.AddCommand(newEntriesCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	verbosity := cfg.Log.Verbosity
	if cmd.Flags().Changed("verbose") {
		verbosity = a.verbose
	}
	logFile := cfg.Log.File
	if a.logFile != "" {
		logFile = a.logFile
	}
	var path *string
	if logFile != "" {
		path = &logFile
	}
	commonlog.Configure(verbosity, path)

	a.log = commonlog.GetLogger("bib.cli")
	a.log.Debugf("using configuration %s", a.configPath)
	return nil
}
