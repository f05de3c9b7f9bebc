// Package site runs a site build: load content, build the tag graph,
// generate archives and render into the deploy directory.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/phobologic/sitetags/internal/config"
	"github.com/phobologic/sitetags/internal/content"
	"github.com/phobologic/sitetags/internal/graph"
	"github.com/phobologic/sitetags/internal/model"
	"github.com/phobologic/sitetags/internal/render"
	"github.com/phobologic/sitetags/internal/tagger"
)

// Site is the state of one build.
type Site struct {
	Config   *config.Config
	Content  *content.Tree
	Tagger   *tagger.Registry
	Archives []*model.Resource

	logger *slog.Logger
}

// Sorters converts the configured sort strategies for the content tree.
func Sorters(cfg *config.Config) map[string]content.Sorter {
	out := make(map[string]content.Sorter, len(cfg.Sorters))
	for name, s := range cfg.Sorters {
		out[name] = content.Sorter{Attrs: []string(s.Attr), Reverse: s.Reverse}
	}
	return out
}

// Load reads the content tree described by cfg.
func Load(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Site, error) {
	tree, err := content.Load(ctx, cfg.ContentDir(), Sorters(cfg), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded content", "dir", cfg.ContentDir(), "resources", tree.Len())
	return &Site{Config: cfg, Content: tree, logger: logger}, nil
}

// Tag builds the tag registry and writes the configured archives into the
// content tree.
func (s *Site) Tag(ctx context.Context) error {
	reg, err := tagger.Build(ctx, s.Content, s.Config.Tagger, s.logger)
	if err != nil {
		return err
	}
	s.Tagger = reg

	archives, err := tagger.GenerateArchives(ctx, reg, s.Content, s.Config.Tagger.Archives, s.logger)
	if err != nil {
		return err
	}
	s.Archives = archives
	return nil
}

// TagMap summarizes the tag graph, ranked by PageRank.
func (s *Site) TagMap() *model.TagMap {
	tm := &model.TagMap{Site: filepath.Base(s.Config.Root)}
	if s.Tagger == nil {
		return tm
	}
	tags := s.Tagger.Tags()
	tm.Edges = graph.BuildEdges(tags)
	tm.Tags = graph.Rank(tags, tm.Edges)
	return tm
}

// Render writes every resource to the deploy directory and returns the
// number of files written.
func (s *Site) Render(ctx context.Context) (int, error) {
	reg := s.Tagger
	if reg == nil {
		reg = tagger.NewRegistry(s.Content, s.Config.Tagger.Sorter)
	}
	r, err := render.New(s.Config.LayoutDir(), tagger.Funcs(reg, s.Content), s.logger)
	if err != nil {
		return 0, fmt.Errorf("loading layouts: %w", err)
	}
	return r.RenderTree(ctx, s.Content, s.Config.DeployDir())
}

// Build runs a complete build for cfg.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Site, error) {
	s, err := Load(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Tag(ctx); err != nil {
		return nil, err
	}
	if _, err := s.Render(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
