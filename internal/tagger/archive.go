package tagger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/sitetags/internal/config"
	"github.com/phobologic/sitetags/internal/content"
	"github.com/phobologic/sitetags/internal/model"
)

const (
	defaultArchiveTarget    = "tags"
	defaultArchiveExtension = "html"

	// extendsKey names the layout wrapping a page; see render.ExtendsKey.
	extendsKey = "extends"
)

// GenerateArchives runs GenerateArchive for every configured archive, in name
// order, and returns all generated resources.
func GenerateArchives(ctx context.Context, reg *Registry, tree *content.Tree, archives map[string]config.Archive, logger *slog.Logger) ([]*model.Resource, error) {
	if len(archives) == 0 {
		return nil, nil
	}
	logger.Debug("generating archives for tags", "archives", len(archives))

	names := make([]string, 0, len(archives))
	for name := range archives {
		names = append(names, name)
	}
	sort.Strings(names)

	var generated []*model.Resource
	for _, name := range names {
		out, err := GenerateArchive(ctx, reg, tree, archives[name], logger.With("archive", name))
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", name, err)
		}
		generated = append(generated, out...)
	}
	return generated, nil
}

// GenerateArchive writes one listing page per tag under the archive's target
// folder (relative to the content root) and adds each page to tree.
// Existing pages are overwritten.
func GenerateArchive(ctx context.Context, reg *Registry, tree *content.Tree, a config.Archive, logger *slog.Logger) ([]*model.Resource, error) {
	if a.Template == "" {
		return nil, &ConfigurationError{Msg: "no template specified in tagger configuration"}
	}

	target := a.Target
	if target == "" {
		target = defaultArchiveTarget
	}
	ext := strings.TrimPrefix(a.Extension, ".")
	if ext == "" {
		ext = defaultArchiveExtension
	}

	targetDir := filepath.Join(tree.SourceDir(), filepath.FromSlash(target))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", targetDir, err)
	}

	metaText, err := archiveMeta(a.Meta)
	if err != nil {
		return nil, err
	}

	var generated []*model.Resource
	for _, tag := range reg.Tags() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.ContainsAny(tag.Name, `/\`) || tag.Name == "." || tag.Name == ".." {
			logger.Warn("skipping archive for tag that is not a valid file name", "tag", tag.Name)
			continue
		}

		rel := path.Join(target, tag.Name+"."+ext)
		file := filepath.Join(tree.SourceDir(), filepath.FromSlash(rel))
		if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("removing %s: %w", file, err)
		}
		text := ArchiveText(tag.Name, a.Source, a.Template, metaText)
		if err := os.WriteFile(file, []byte(text), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", file, err)
		}

		res, err := tree.AddResource(rel)
		if err != nil {
			return nil, err
		}
		generated = append(generated, res)
	}

	logger.Info("archives generated", "target", target, "pages", len(generated))
	return generated, nil
}

// ArchiveText returns the source of the listing page for one tag. meta is the
// serialized front matter; the body binds the tag, the source node and the
// tag's enumerator and hands them to template.
func ArchiveText(tag, source, template, meta string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(meta)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "{{- $tag := tag %s }}\n", strconv.Quote(tag))
	fmt.Fprintf(&b, "{{- $source := node %s }}\n", strconv.Quote(source))
	fmt.Fprintf(&b, "{{- $walker := walker $source %s }}\n", strconv.Quote(tag))
	fmt.Fprintf(&b, "{{ template %s (dict \"tag\" $tag \"source\" $source \"walker\" $walker \"page\" .) }}\n", strconv.Quote(template))
	return b.String()
}

// archiveMeta serializes the archive front matter. Layout wrapping is off
// unless meta sets extends itself.
func archiveMeta(meta model.Meta) (string, error) {
	front := map[string]any{extendsKey: false}
	for k, v := range meta {
		front[k] = v
	}
	data, err := yaml.Marshal(front)
	if err != nil {
		return "", fmt.Errorf("serializing archive meta: %w", err)
	}
	return string(data), nil
}
