package main

import (
	"fmt"
	"strings"

	"github.com/CognitoIQ/xsdpost/internal/commandline"
	"github.com/CognitoIQ/xsdpost/internal/config"
	"github.com/CognitoIQ/xsdpost/javadoc"
	"github.com/CognitoIQ/xsdpost/postprocess"
	"github.com/spf13/cobra"
)

func newDocsCmd(cfg *config.Config) *cobra.Command {
	var (
		exclude  commandline.Strings
		renderer string
	)
	cmd := &cobra.Command{
		Use:   "docs <source>...",
		Short: "Show the documentation extracted from Java sources",
		Long: `Show every documented declaration found in the given Java source files
and directories, with its documentation as it would be injected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := javadoc.LookupRenderer(renderer)
			if err != nil {
				return err
			}
			ix, err := postprocess.NewConfig(
				postprocess.Sources(args...),
				postprocess.Exclude(exclude...),
			).Index()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range ix.Entries() {
				text := r.Render(e.Record, e.Location)
				if strings.TrimSpace(text) == "" {
					continue
				}
				fmt.Fprintf(out, "%s %s\n", e.Location.Kind, e.Location.Path())
				for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
					fmt.Fprintf(out, "\t%s\n", line)
				}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Var(&exclude, "exclude", "leave out Java sources matching `pattern` (repeatable)")
	flags.StringVar(&renderer, "renderer", cfg.Renderer, "documentation renderer: "+strings.Join(javadoc.RendererNames(), ", "))
	return cmd
}
