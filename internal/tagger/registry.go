package tagger

import (
	"iter"
	"strings"

	"github.com/phobologic/sitetags/internal/content"
	"github.com/phobologic/sitetags/internal/model"
)

// Enumerator lazily yields the resources of node's tree that match a tag
// filter. Every call re-walks the tree.
type Enumerator func(node *content.Node) iter.Seq[*model.Resource]

// Registry maps tag names to tags for one build and holds the per-name
// enumerators.
type Registry struct {
	tree   *content.Tree
	sorter string
	tags   map[string]*model.Tag
	order  []*model.Tag

	// enumerator name -> tag whose filter it applies. Names normally map to
	// their own tag; a relation target's name maps to the relation's source.
	walkers map[string]*model.Tag
}

// NewRegistry returns an empty registry that walks tree with the named sorter.
func NewRegistry(tree *content.Tree, sorter string) *Registry {
	return &Registry{
		tree:    tree,
		sorter:  sorter,
		tags:    make(map[string]*model.Tag),
		walkers: make(map[string]*model.Tag),
	}
}

// Tag looks a tag up by name.
func (r *Registry) Tag(name string) (*model.Tag, bool) {
	t, ok := r.tags[name]
	return t, ok
}

// Tags returns every tag in creation order.
func (r *Registry) Tags() []*model.Tag {
	out := make([]*model.Tag, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns every tag name in creation order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	for i, t := range r.order {
		out[i] = t.Name
	}
	return out
}

// Len returns the number of tags.
func (r *Registry) Len() int {
	return len(r.order)
}

// TagsOf returns the tags res was filed under, in declaration order.
func (r *Registry) TagsOf(res *model.Resource) []*model.Tag {
	out := make([]*model.Tag, len(res.TagRefs))
	copy(out, res.TagRefs)
	return out
}

// Walker returns the enumerator registered under name.
func (r *Registry) Walker(name string) (Enumerator, bool) {
	tag, ok := r.walkers[name]
	if !ok {
		return nil, false
	}
	query := []string{tag.Name}
	return func(node *content.Node) iter.Seq[*model.Resource] {
		return r.filter(node, query)
	}, true
}

// WalkResourcesTaggedWith yields the resources carrying every tag of a
// "+"-joined query, e.g. "python+tutorial".
func (r *Registry) WalkResourcesTaggedWith(node *content.Node, query string) iter.Seq[*model.Resource] {
	var names []string
	for _, part := range strings.Split(query, "+") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return r.filter(node, names)
}

func (r *Registry) filter(node *content.Node, names []string) iter.Seq[*model.Resource] {
	return func(yield func(*model.Resource) bool) {
		if len(names) == 0 {
			return
		}
		tree := r.tree
		if node != nil && node.Tree() != nil {
			tree = node.Tree()
		}
		if tree == nil {
			return
		}
		walk, err := tree.Walker(r.sorter)
		if err != nil {
			return
		}
		for res := range walk() {
			if res.Tags == nil || !hasAll(res.Tags, names) {
				continue
			}
			if !yield(res) {
				return
			}
		}
	}
}

func hasAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ensure returns the named tag, creating it when absent.
func (r *Registry) ensure(name string) (*model.Tag, bool) {
	if t, ok := r.tags[name]; ok {
		return t, false
	}
	t := model.NewTag(name)
	r.tags[name] = t
	r.order = append(r.order, t)
	return t, true
}

// register installs (or replaces) the enumerator for name with tag's filter.
func (r *Registry) register(name string, tag *model.Tag) {
	r.walkers[name] = tag
}
