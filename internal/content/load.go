package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/sitetags/internal/discover"
	"github.com/phobologic/sitetags/internal/format"
	"github.com/phobologic/sitetags/internal/model"
	"github.com/phobologic/sitetags/internal/parse"
)

// Load discovers and parses every content file under sourceDir. Files are
// parsed concurrently; the resulting tree keeps discovery (path) order.
func Load(ctx context.Context, sourceDir string, sorters map[string]Sorter, logger *slog.Logger) (*Tree, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("content path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", sourceDir)
	}

	files, err := discover.Files(sourceDir, nil)
	if err != nil {
		return nil, fmt.Errorf("discovering content: %w", err)
	}
	logger.Debug("discovered content", "dir", sourceDir, "files", len(files))

	parsed := make([]*model.Resource, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := parseFile(sourceDir, f)
			if err != nil {
				return err
			}
			parsed[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tree := NewTree(sourceDir, sorters)
	for _, res := range parsed {
		tree.Add(res)
	}
	return tree, nil
}

func parseFile(sourceDir string, f discover.FileEntry) (*model.Resource, error) {
	ft := format.Formats[f.Format]
	source, err := os.ReadFile(filepath.Join(sourceDir, filepath.FromSlash(f.Path)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	// Each goroutine gets its own parser
	var parser *sitter.Parser
	if ft.GetLanguage() != nil {
		parser = ft.NewParser()
	}
	return parse.Document(ft, parser, source, f.Path)
}
