// Package model defines core data structures for sitetags.
package model

import (
	"fmt"
	"strings"
)

// Meta is a nested key/value bag decoded from front matter or configuration.
type Meta map[string]any

// Get resolves a dotted path (e.g. "author.name") through nested maps.
func (m Meta) Get(path string) (any, bool) {
	var cur any = map[string]any(m)
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case Meta:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// String returns the value at path formatted with fmt.Sprint, or "".
func (m Meta) String(path string) string {
	v, ok := m.Get(path)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Resource is a single content item.
type Resource struct {
	Path     string // relative to the content root, slash separated
	Format   string
	Title    string
	Meta     Meta
	Body     string
	Tags     []string // normalized tag names, set by the tagger
	TagRefs  []*Tag
	Position int // discovery index within its tree
}

// Name returns the base file name of the resource.
func (r *Resource) Name() string {
	if i := strings.LastIndex(r.Path, "/"); i >= 0 {
		return r.Path[i+1:]
	}
	return r.Path
}

// URL returns the site-absolute URL of the rendered resource.
func (r *Resource) URL() string {
	p := r.Path
	if ext := extOf(p); ext == ".md" || ext == ".markdown" {
		p = strings.TrimSuffix(p, ext) + ".html"
	}
	return "/" + p
}

func (r *Resource) String() string {
	return r.Path
}

func extOf(p string) string {
	name := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		name = p[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[i:]
	}
	return ""
}
