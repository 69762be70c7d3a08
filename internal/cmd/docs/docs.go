package docs

import (
	"github.com/CompassSecurity/binstrings/pkg/docs"
	"github.com/spf13/cobra"
)

func NewDocsCmd(root *cobra.Command) *cobra.Command {
	opts := docs.GenerateOptions{RootCmd: root}

	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate CLI documentation",
		Long: `Generate a markdown page per command and an mkdocs.yml navigation for it.
The output directory is deleted and recreated.`,
		Example: "binstrings docs --output ./cli-docs",
		GroupID: "Helper",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return docs.Generate(opts)
		},
	}

	docsCmd.Flags().StringVar(&opts.OutputDir, "output", "./cli-docs", "Directory the documentation is written to")
	docsCmd.Flags().BoolVar(&opts.GithubPages, "github-pages", false, "Generate links for hosting below the repository name on GitHub Pages")

	return docsCmd
}
