package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phobologic/sitetags/internal/ranking"
	"github.com/phobologic/sitetags/internal/site"
	"github.com/phobologic/sitetags/internal/tagger"
	"github.com/phobologic/sitetags/internal/toon"
)

func newTagsCmd(a *app) *cobra.Command {
	var maxTags int

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print the tag graph in TOON format",
		Long: `Load the content tree and print its tags, relations and per-tag
metadata in TOON format, ranked by PageRank over the relation graph. Nothing is
written to disk.`,
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
			reg, err := tagger.Build(ctx, s.Content, a.cfg.Tagger, a.logger)
			if err != nil {
				return err
			}
			s.Tagger = reg

			tm := s.TagMap()
			if maxTags > 0 {
				tm = ranking.SelectTags(tm, maxTags)
			}
			_, _ = fmt.Fprintln(a.stdout, toon.Encode(tm))
			return nil
		},
	}
	cmd.Flags().IntVarP(&maxTags, "max-tags", "n", 0, "maximum number of tags to include")
	return cmd
}
