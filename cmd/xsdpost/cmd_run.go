package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/CognitoIQ/xsdpost/internal/commandline"
	"github.com/CognitoIQ/xsdpost/internal/config"
	"github.com/CognitoIQ/xsdpost/javadoc"
	"github.com/CognitoIQ/xsdpost/postprocess"
	"github.com/spf13/cobra"
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	var (
		sources, exclude commandline.Strings
		transforms       commandline.TransformList
		transformFile    string
		renderer         string
		noDocs           bool
		indent           string
		pattern          string
	)
	cmd := &cobra.Command{
		Use:   "run [flags] <dir>",
		Short: "Annotate, re-prefix and rename the schema files in a directory",
		Long: `Rewrite the schema files in a directory in place.

Documentation comments of the Java sources given with --source are
injected into the matching type, element, attribute and enumeration
declarations. Then each namespace named by a transform gets its new
prefix and file name, and imports are updated to match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []postprocess.TransformSchema
			if transformFile != "" {
				fromFile, err := config.LoadTransforms(transformFile)
				if err != nil {
					return err
				}
				list = append(list, fromFile...)
			}
			list = append(list, transforms...)

			r, err := javadoc.LookupRenderer(renderer)
			if err != nil {
				return err
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("invalid --pattern: %w", err)
			}

			result, err := postprocess.Run(args[0],
				postprocess.Renderer(r),
				postprocess.Sources(sources...),
				postprocess.Exclude(exclude...),
				postprocess.Transforms(list...),
				postprocess.SchemaPattern(re),
				postprocess.Indent(indent),
				postprocess.InjectDocumentation(!noDocs),
			)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, file := range result.Files {
				fmt.Fprintln(out, file)
			}
			fmt.Fprintf(out, "%d annotations, %d prefix rewrites, %d references, %d files renamed\n",
				result.Annotations, result.PrefixRewrites, result.References, result.Renamed)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.VarP(&sources, "source", "s", "Java source `path` (file or directory) to read documentation from (repeatable)")
	flags.Var(&exclude, "exclude", "leave out Java sources matching `pattern` (repeatable)")
	flags.VarP(&transforms, "transform", "t", "namespace transform, as uri=URI,prefix=PREFIX,file=FILE (repeatable)")
	flags.StringVar(&transformFile, "transform-file", cfg.TransformFile, "read transforms from a JSON or YAML `file`")
	flags.StringVar(&renderer, "renderer", cfg.Renderer, "documentation renderer: "+strings.Join(javadoc.RendererNames(), ", "))
	flags.BoolVar(&noDocs, "no-docs", cfg.NoDocs, "do not inject documentation")
	flags.StringVar(&indent, "indent", cfg.Indent, "indentation of rewritten files; empty keeps their layout")
	flags.StringVar(&pattern, "pattern", cfg.SchemaPattern, "`regexp` selecting the schema files by name")
	return cmd
}
