package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/sitetags/internal/config"
)

const (
	sentinelStart = "# sitetags:start"
	sentinelEnd   = "# sitetags:end"
)

func newInitCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path-to-site.yaml]",
		Short: "Write a starter tagger section to site.yaml",
		Long: `Write a starter sorter and tagger configuration to a site.yaml file. The
section is wrapped in sentinel comments so it can be updated in place on
subsequent runs without touching surrounding content. Creates the file if it
does not exist.

path-to-site.yaml defaults to site.yaml in the site root.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := generateSection()

			// --dry-run with no path: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(a.stdout, section)
				return nil
			}

			path := filepath.Join(a.root, config.DefaultFile)
			if len(args) > 0 {
				path = args[0]
			}

			existing, _ := os.ReadFile(path)
			updated := applySection(string(existing), section)

			if dryRun {
				_, _ = fmt.Fprint(a.stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(a.stderr, "wrote sitetags section to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// generateSection returns the full sentinel-wrapped starter configuration.
func generateSection() string {
	body := `# Pages declare tags in front matter:
#
#   tags:
#     - python                        # plain tag
#     - posts: [author, feature]      # relations named after their target tags
#     - guide: {parent: python}       # relation name -> target tag
#
# Archives write one page per tag under target (relative to the content
# directory). The page calls the named layout template with a dict holding
# tag, source, walker (the tagged resources) and page.
sorter:
  time:
    attr: meta.created
    reverse: true
tagger:
  sorter: time
  tags: {}
  archives:
    tags:
      template: tagged.html
      source: ""
      target: tags
      extension: html`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
