package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/CompassSecurity/binstrings/pkg/format"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

const siteName = "binstrings"

// GenerateOptions contains options for documentation generation
type GenerateOptions struct {
	RootCmd     *cobra.Command
	OutputDir   string
	GithubPages bool
}

// getFileName matches the link names cobra/doc generates, so grouped
// commands keep their command name on disk.
func getFileName(cmd *cobra.Command) string {
	return cmd.Name() + ".md"
}

func displayName(cmd *cobra.Command, level int) string {
	titleCaser := cases.Title(language.Und, cases.NoLower)
	switch level {
	case 1:
		if cmd.GroupID != "" {
			return titleCaser.String(cmd.GroupID)
		}
		return titleCaser.String(cmd.Name())
	default:
		return titleCaser.String(cmd.Name())
	}
}

func linkHandler(githubPages bool) func(string) string {
	return func(s string) string {
		if s == siteName+".md" {
			return "/"
		}

		s = strings.TrimPrefix(s, siteName+"_")
		s = strings.TrimSuffix(s, ".md")
		s = strings.ReplaceAll(s, "_", "/")

		// GitHub Pages serves the site below the repository name
		if githubPages {
			return "/" + siteName + "/" + s
		}
		return "/" + s
	}
}

func generateDocs(cmd *cobra.Command, dir string, githubPages bool) error {
	var filename string

	if len(cmd.Commands()) > 0 {
		dir = filepath.Join(dir, cmd.Name())
		if err := os.MkdirAll(dir, format.DirUserGroupRead); err != nil {
			return err
		}
		filename = filepath.Join(dir, "index.md")
	} else {
		filename = filepath.Join(dir, getFileName(cmd))
	}

	// #nosec G304 - Creating docs markdown file at controlled internal path during docs generation
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := doc.GenMarkdownCustom(cmd, f, linkHandler(githubPages)); err != nil {
		return err
	}

	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
			continue
		}
		if err := generateDocs(c, dir, githubPages); err != nil {
			return err
		}
	}

	return nil
}

type NavEntry struct {
	Label    string
	FilePath string
	Children []*NavEntry
}

func buildNav(cmd *cobra.Command, level int, parentPath string) *NavEntry {
	entry := &NavEntry{
		Label: displayName(cmd, level),
	}

	if len(cmd.Commands()) > 0 {
		folder := filepath.Join(parentPath, cmd.Name())
		entry.FilePath = filepath.ToSlash(filepath.Join(folder, "index.md"))
		entry.Children = []*NavEntry{}
		for _, c := range cmd.Commands() {
			if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
				continue
			}
			// Skip autocompletion and docs commands from nav menu
			if c.Name() == "completion" || c.Name() == "docs" {
				continue
			}
			entry.Children = append(entry.Children, buildNav(c, level+1, folder))
		}
	} else {
		entry.FilePath = filepath.ToSlash(filepath.Join(parentPath, getFileName(cmd)))
	}

	return entry
}

func convertNavToYaml(entries []*NavEntry) []map[string]interface{} {
	yamlList := []map[string]interface{}{}
	for _, e := range entries {
		navPath := strings.TrimPrefix(e.FilePath, siteName+"/")
		if len(e.Children) == 0 {
			navPath = strings.TrimSuffix(navPath, ".md")
			yamlList = append(yamlList, map[string]interface{}{
				e.Label: navPath,
			})
		} else {
			yamlList = append(yamlList, map[string]interface{}{
				e.Label: convertNavToYaml(e.Children),
			})
		}
	}
	return yamlList
}

func writeMkdocsYaml(rootCmd *cobra.Command, outputDir string, githubPages bool) error {
	rootEntry := buildNav(rootCmd, 0, "")
	nav := convertNavToYaml([]*NavEntry{rootEntry})

	siteURL := "https://compasssecurity.github.io/" + siteName + "/"
	if !githubPages {
		siteURL = ""
	}

	mkdocs := map[string]interface{}{
		"site_name":        "Binstrings",
		"site_description": "Binstrings prints the printable character sequences found in files, object file sections and pipes",
		"site_url":         siteURL,
		"docs_dir":         siteName,
		"site_dir":         "site",
		"repo_url":         "https://github.com/CompassSecurity/" + siteName,
		"repo_name":        "CompassSecurity/" + siteName,
		"theme": map[string]interface{}{
			"name": "material",
			"features": []string{
				"content.code.copy",
				"navigation.tracking",
				"navigation.indexes",
				"search.highlight",
				"toc.follow",
			},
		},
		"markdown_extensions": []interface{}{
			"pymdownx.superfences",
			"tables",
			"admonition",
			"toc",
		},
		"nav": nav,
	}

	yamlData, err := yaml.Marshal(mkdocs)
	if err != nil {
		return err
	}

	filename := filepath.Join(outputDir, "mkdocs.yml")
	// #nosec G306 - mkdocs.yml is a public documentation configuration file
	return os.WriteFile(filename, yamlData, format.FilePublicRead)
}

// Generate writes one markdown page per command and an mkdocs.yml to
// opts.OutputDir, replacing whatever was there.
func Generate(opts GenerateOptions) error {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "./cli-docs"
	}

	if opts.GithubPages {
		log.Info().Msg("Generating for GitHub Pages")
	}

	if _, err := os.Stat(outputDir); err == nil {
		log.Info().Str("folder", outputDir).Msg("Output directory exists, deleting...")
		if err := os.RemoveAll(outputDir); err != nil {
			return fmt.Errorf("failed to delete existing output directory: %w", err)
		}
	}

	if err := os.MkdirAll(outputDir, format.DirUserGroupRead); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	opts.RootCmd.DisableAutoGenTag = true
	if err := generateDocs(opts.RootCmd, outputDir, opts.GithubPages); err != nil {
		return fmt.Errorf("failed to generate CLI docs: %w", err)
	}

	if err := writeMkdocsYaml(opts.RootCmd, outputDir, opts.GithubPages); err != nil {
		return fmt.Errorf("failed to write mkdocs.yml: %w", err)
	}

	log.Info().Str("folder", outputDir).Msg("Markdown successfully generated")
	return nil
}
