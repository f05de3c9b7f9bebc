// Package content models the site's content tree: folders as nodes, files as
// resources, plus the named sort strategies used to walk them.
package content

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/phobologic/sitetags/internal/format"
	"github.com/phobologic/sitetags/internal/model"
	"github.com/phobologic/sitetags/internal/parse"
)

// ErrUnknownSorter is returned by Walker for a sorter name with no definition.
var ErrUnknownSorter = errors.New("unknown sorter")

// Walker produces a fresh, lazy enumeration of resources on every call.
type Walker func() iter.Seq[*model.Resource]

// Tree is the content tree rooted at a source directory.
type Tree struct {
	sourceDir string
	root      *Node
	nodes     map[string]*Node
	resources []*model.Resource
	sorters   map[string]Sorter
}

// NewTree returns an empty tree rooted at sourceDir.
func NewTree(sourceDir string, sorters map[string]Sorter) *Tree {
	t := &Tree{
		sourceDir: sourceDir,
		nodes:     make(map[string]*Node),
		sorters:   sorters,
	}
	t.root = &Node{tree: t}
	t.nodes[""] = t.root
	return t
}

// SourceDir returns the absolute content directory.
func (t *Tree) SourceDir() string {
	return t.sourceDir
}

// Root returns the node for the content directory itself.
func (t *Tree) Root() *Node {
	return t.root
}

// Len returns the number of resources in the tree.
func (t *Tree) Len() int {
	return len(t.resources)
}

// Resources returns all resources in tree order.
func (t *Tree) Resources() []*model.Resource {
	out := make([]*model.Resource, len(t.resources))
	copy(out, t.resources)
	return out
}

// Resource looks a resource up by its relative path.
func (t *Tree) Resource(rel string) (*model.Resource, bool) {
	rel = cleanRel(rel)
	for _, r := range t.resources {
		if r.Path == rel {
			return r, true
		}
	}
	return nil, false
}

// NodeFromRelativePath returns the node for a folder relative to the content
// root, or nil when no such folder holds content.
func (t *Tree) NodeFromRelativePath(rel string) *Node {
	return t.nodes[cleanRel(rel)]
}

// Walk enumerates every resource in tree order.
func (t *Tree) Walk() iter.Seq[*model.Resource] {
	return func(yield func(*model.Resource) bool) {
		for _, r := range t.resources {
			if !yield(r) {
				return
			}
		}
	}
}

// WalkSortedBy enumerates every resource ordered by the named sorter.
func (t *Tree) WalkSortedBy(name string) (iter.Seq[*model.Resource], error) {
	s, ok := t.sorters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSorter, name)
	}
	return func(yield func(*model.Resource) bool) {
		for _, r := range s.sort(t.resources) {
			if !yield(r) {
				return
			}
		}
	}, nil
}

// Walker resolves a sorter name into a Walker. The empty name walks in tree
// order.
func (t *Tree) Walker(sorter string) (Walker, error) {
	if sorter == "" {
		return t.Walk, nil
	}
	if _, err := t.WalkSortedBy(sorter); err != nil {
		return nil, err
	}
	return func() iter.Seq[*model.Resource] {
		seq, _ := t.WalkSortedBy(sorter)
		return seq
	}, nil
}

// Add inserts res into the tree, replacing any resource with the same path.
func (t *Tree) Add(res *model.Resource) {
	res.Path = cleanRel(res.Path)
	node := t.ensureNode(path.Dir(res.Path))
	for i, existing := range t.resources {
		if existing.Path == res.Path {
			res.Position = existing.Position
			t.resources[i] = res
			node.replace(existing, res)
			return
		}
	}
	res.Position = len(t.resources)
	t.resources = append(t.resources, res)
	node.resources = append(node.resources, res)
}

// AddResource reads and parses the file at rel (relative to the content
// root) and adds it to the tree. Files with an unregistered extension are
// added as plain text.
func (t *Tree) AddResource(rel string) (*model.Resource, error) {
	rel = cleanRel(rel)
	f, ok := format.Formats[format.ForExtension(path.Ext(rel))]
	if !ok {
		f = format.Formats[format.Text]
	}
	source, err := os.ReadFile(filepath.Join(t.sourceDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	res, err := parse.Document(f, f.NewParser(), source, rel)
	if err != nil {
		return nil, err
	}
	t.Add(res)
	return res, nil
}

func (t *Tree) ensureNode(dir string) *Node {
	dir = cleanRel(dir)
	if n, ok := t.nodes[dir]; ok {
		return n
	}
	parent := t.ensureNode(path.Dir(dir))
	n := &Node{Path: dir, parent: parent, tree: t}
	parent.children = append(parent.children, n)
	t.nodes[dir] = n
	return n
}

func cleanRel(rel string) string {
	rel = path.Clean(filepath.ToSlash(rel))
	rel = strings.TrimPrefix(rel, "/")
	if rel == "." {
		return ""
	}
	return rel
}
