// Package render executes content resources as Go templates and writes the
// results to the deploy directory.
//
// Every file under the layout directory is parsed as a named template (its
// slash-separated path relative to the layout directory). A resource body is
// itself a template executed against a Page; when the resource's "extends"
// metadata names a layout, the rendered body is passed to that layout as
// .Content.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/phobologic/sitetags/internal/content"
	"github.com/phobologic/sitetags/internal/model"
)

// ExtendsKey is the metadata key naming a resource's wrapping layout.
const ExtendsKey = "extends"

// Page is the data a resource body and its layout are executed with.
type Page struct {
	*model.Resource
	Content string
}

// Renderer holds the parsed layouts.
type Renderer struct {
	base   *template.Template
	logger *slog.Logger
}

// New parses every layout under layoutDir. A missing layout directory yields
// a renderer with no layouts.
func New(layoutDir string, funcs template.FuncMap, logger *slog.Logger) (*Renderer, error) {
	base := template.New("").Funcs(template.FuncMap{"dict": dict}).Funcs(funcs)

	err := filepath.WalkDir(layoutDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == layoutDir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if p != layoutDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, err := filepath.Rel(layoutDir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading layout %s: %w", rel, err)
		}
		name := filepath.ToSlash(rel)
		if _, err := base.New(name).Parse(string(data)); err != nil {
			return fmt.Errorf("parsing layout %s: %w", name, err)
		}
		logger.Debug("parsed layout", "name", name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{base: base, logger: logger}, nil
}

// Layouts returns the names of the parsed layouts.
func (r *Renderer) Layouts() []string {
	var names []string
	for _, t := range r.base.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	return names
}

// Render executes res and returns the output.
func (r *Renderer) Render(res *model.Resource) (string, error) {
	t, err := r.base.Clone()
	if err != nil {
		return "", err
	}
	body, err := t.New("content:" + res.Path).Parse(res.Body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", res.Path, err)
	}

	page := &Page{Resource: res}
	var buf bytes.Buffer
	if err := body.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("rendering %s: %w", res.Path, err)
	}

	layout, ok := res.Meta[ExtendsKey].(string)
	if !ok || layout == "" {
		return buf.String(), nil
	}
	if t.Lookup(layout) == nil {
		return "", fmt.Errorf("rendering %s: layout %q not found", res.Path, layout)
	}

	page.Content = buf.String()
	buf.Reset()
	if err := t.ExecuteTemplate(&buf, layout, page); err != nil {
		return "", fmt.Errorf("rendering %s with %s: %w", res.Path, layout, err)
	}
	return buf.String(), nil
}

// RenderTree renders every resource of tree into deployDir at the path of
// its URL and returns the number of files written.
func (r *Renderer) RenderTree(ctx context.Context, tree *content.Tree, deployDir string) (int, error) {
	n := 0
	for res := range tree.Walk() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		out, err := r.Render(res)
		if err != nil {
			return n, err
		}

		dest := filepath.Join(deployDir, filepath.FromSlash(strings.TrimPrefix(res.URL(), "/")))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return n, fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
			return n, fmt.Errorf("writing %s: %w", dest, err)
		}
		n++
	}
	r.logger.Info("rendered site", "dir", deployDir, "files", n)
	return n, nil
}

// dict builds a map from alternating keys and values.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
