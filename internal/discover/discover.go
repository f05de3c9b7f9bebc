// Package discover finds content files under a site's content directory.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/sitetags/internal/format"
)

// FileEntry represents a discovered content file.
type FileEntry struct {
	Path   string // Relative to the content root, slash separated
	Format string
}

// ignoreFiles are read from the content root, in order, and merged.
var ignoreFiles = []string{".gitignore", ".siteignore"}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"__pycache__":  {},
}

// Files discovers content files under root.
// If formats is non-empty, only files matching one of the listed formats are returned.
func Files(root string, formats []string) ([]FileEntry, error) {
	formatSet := make(map[string]struct{}, len(formats))
	for _, f := range formats {
		formatSet[f] = struct{}{}
	}
	gi := loadIgnore(root)

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		formatName := format.ForExtension(filepath.Ext(name))
		if formatName == "" {
			return nil
		}

		if len(formatSet) > 0 {
			if _, ok := formatSet[formatName]; !ok {
				return nil
			}
		}

		results = append(results, FileEntry{Path: rel, Format: formatName})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func loadIgnore(root string) *ignore.GitIgnore {
	var lines []string
	for _, name := range ignoreFiles {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}
