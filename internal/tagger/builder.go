package tagger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/phobologic/sitetags/internal/config"
	"github.com/phobologic/sitetags/internal/content"
	"github.com/phobologic/sitetags/internal/model"
)

// MetaKey is the resource metadata key holding tag declarations.
const MetaKey = "tags"

// Build scans every resource of tree once and returns the tag registry.
// Each resource's "tags" metadata is replaced by the list of canonical tag
// names. Metadata configured per tag is merged into the tags afterwards.
func Build(ctx context.Context, tree *content.Tree, cfg config.Tagger, logger *slog.Logger) (*Registry, error) {
	walk, err := tree.Walker(cfg.Sorter)
	if err != nil {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("cannot find the sorter: %s", cfg.Sorter), Err: err}
	}

	logger.Debug("adding tags from metadata", "sorter", cfg.Sorter)

	reg := NewRegistry(tree, cfg.Sorter)
	for res := range walk() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := reg.addResource(res); err != nil {
			return nil, err
		}
	}

	reg.mergeMetadata(cfg.Tags, logger)

	logger.Info("tag graph built", "tags", reg.Len(), "resources", tree.Len())
	return reg, nil
}

func (r *Registry) addResource(res *model.Resource) error {
	raw, ok := res.Meta[MetaKey]
	if !ok || raw == nil {
		return nil
	}

	var entries []any
	switch v := raw.(type) {
	case []any:
		entries = v
	case []string:
		for _, s := range v {
			entries = append(entries, s)
		}
	default:
		entries = []any{v}
	}

	res.TagRefs = nil
	normalized := make([]string, 0, len(entries))
	for _, entry := range entries {
		decl, err := ParseDeclaration(entry)
		if err != nil {
			var invalidErr *InvalidTagDeclarationError
			if errors.As(err, &invalidErr) {
				invalidErr.Resource = res.Path
			}
			return err
		}

		tag, created := r.ensure(decl.Name)
		if created {
			r.register(decl.Name, tag)
		}
		tag.Resources = append(tag.Resources, res)

		for _, rel := range decl.Relations {
			target, _ := r.ensure(rel.Target)
			r.register(rel.Target, tag)
			tag.RelateToTag(target, rel.Name)
		}

		normalized = append(normalized, decl.Name)
		res.TagRefs = append(res.TagRefs, tag)
	}

	res.Tags = normalized
	res.Meta[MetaKey] = normalized
	return nil
}

func (r *Registry) mergeMetadata(tags map[string]model.Meta, logger *slog.Logger) {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tag, ok := r.tags[name]
		if !ok {
			logger.Debug("tag metadata has no matching tag", "tag", name)
			continue
		}
		tag.Merge(tags[name])
	}
}
