package tagger

import (
	"slices"
	"text/template"

	"github.com/phobologic/sitetags/internal/content"
	"github.com/phobologic/sitetags/internal/model"
)

// Funcs returns the template functions that expose the registry:
//
//	tag "name"              the *model.Tag, or nil
//	tags                    every tag in creation order
//	node "rel/path"         a content node, or nil
//	walker $node "name"     resources from the enumerator registered under name
//	tagged $node "a+b"      resources carrying every listed tag
//	tagsof $resource        the tags a resource was filed under
func Funcs(reg *Registry, tree *content.Tree) template.FuncMap {
	return template.FuncMap{
		"tag": func(name string) *model.Tag {
			t, _ := reg.Tag(name)
			return t
		},
		"tags": reg.Tags,
		"node": func(rel string) *content.Node {
			return tree.NodeFromRelativePath(rel)
		},
		"walker": func(node *content.Node, name string) []*model.Resource {
			e, ok := reg.Walker(name)
			if !ok {
				return nil
			}
			return slices.Collect(e(node))
		},
		"tagged": func(node *content.Node, query string) []*model.Resource {
			return slices.Collect(reg.WalkResourcesTaggedWith(node, query))
		},
		"tagsof": reg.TagsOf,
	}
}
