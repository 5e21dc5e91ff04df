package main

import (
	"fmt"
	"os"

	"github.com/CognitoIQ/xsdpost/internal/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "xsdpost:", err)
		os.Exit(2)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		verbose int
		logFile string
	)
	rootCmd := &cobra.Command{
		Use:          "xsdpost",
		Short:        "Post-process schema files generated from Java classes",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(cfg.Verbosity+verbose, path)
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVar(&logFile, "log-file", cfg.LogFile, "write log messages to `file` instead of stderr")

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newNamespacesCmd(cfg))
	rootCmd.AddCommand(newDocsCmd(cfg))
	return rootCmd
}
