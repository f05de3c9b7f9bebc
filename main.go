// sitetags builds a static site's tag graph, writes per-tag archive pages and
// renders the content tree with Go templates.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/sitetags/internal/config"
	"github.com/phobologic/sitetags/internal/logging"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the global flags and the per-run state shared by subcommands.
type app struct {
	stdout, stderr io.Writer

	root       string
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(context.Background())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sitetags",
		Short: "Tag graph, tag archives and template rendering for static sites",
		Long: `sitetags reads a site's content tree, builds the tag graph declared in
front matter, writes one archive page per tag and renders everything into the
deploy directory.

Configuration is read from site.yaml in the site root.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("sitetags {{.Version}}\n")

	root.PersistentFlags().StringVarP(&a.root, "root", "r", ".", "site root directory")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default <root>/site.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(newBuildCmd(a))
	root.AddCommand(newTagsCmd(a))
	root.AddCommand(newInitCmd(a))
	return root
}

// setup resolves the site root, loads the configuration and builds the logger.
func (a *app) setup() error {
	root, err := filepath.Abs(a.root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := config.Load(root, a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.Log.File != "" && !filepath.IsAbs(cfg.Log.File) {
		cfg.Log.File = filepath.Join(root, cfg.Log.File)
	}

	a.cfg = cfg
	a.logger, a.closer = logging.New(cfg.Log, a.stderr)
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}
