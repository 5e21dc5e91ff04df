package main

import (
	"fmt"
	"regexp"
	"text/tabwriter"

	"github.com/CognitoIQ/xsdpost/internal/config"
	"github.com/CognitoIQ/xsdpost/postprocess"
	"github.com/CognitoIQ/xsdpost/xsd"
	"github.com/spf13/cobra"
)

func newNamespacesCmd(cfg *config.Config) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "namespaces <dir>",
		Short: "List the namespace declarations of the schema files in a directory",
		Long: `List the schema files of a directory in processing order, each with
its target namespace and namespace declarations. Nothing is modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("invalid --pattern: %w", err)
			}
			p := postprocess.NewConfig(postprocess.SchemaPattern(re)).NewPipeline(args[0])
			if err := p.Resolve(); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range p.Resolvers() {
				fmt.Fprintf(w, "%s\t%s\n", r.Filename(), r.LocalNamespace)
				for _, prefix := range r.Prefixes() {
					uri, _ := r.Namespace(prefix)
					if prefix == xsd.DefaultNamespacePrefix {
						prefix = "(default)"
					}
					fmt.Fprintf(w, "  %s\t%s\n", prefix, uri)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", cfg.SchemaPattern, "`regexp` selecting the schema files by name")
	return cmd
}
