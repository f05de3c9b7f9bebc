package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phobologic/sitetags/internal/site"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Tag the content, generate archives and render the site",
		Long: `Load the content tree, build the tag graph, write the configured tag
archives into the content directory and render every resource into the deploy
directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			s, err := site.Load(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			if err := s.Tag(ctx); err != nil {
				return err
			}
			n, err := s.Render(ctx)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(a.stdout, "built %d files (%d tags, %d archive pages) into %s\n",
				n, s.Tagger.Len(), len(s.Archives), a.cfg.DeployDir())
			return nil
		},
	}
}
