package content

import (
	"iter"
	"path"

	"github.com/phobologic/sitetags/internal/model"
)

// Node is a folder in the content tree.
type Node struct {
	Path      string // relative to the content root, "" for the root
	parent    *Node
	children  []*Node
	resources []*model.Resource
	tree      *Tree
}

// Name returns the folder's base name.
func (n *Node) Name() string {
	if n.Path == "" {
		return ""
	}
	return path.Base(n.Path)
}

// Tree returns the tree the node belongs to.
func (n *Node) Tree() *Tree {
	return n.tree
}

// Parent returns the enclosing node, nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns child folders in discovery order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Resources returns the resources held directly by this node.
func (n *Node) Resources() []*model.Resource {
	out := make([]*model.Resource, len(n.resources))
	copy(out, n.resources)
	return out
}

// Walk enumerates the resources of this node and all its descendants.
func (n *Node) Walk() iter.Seq[*model.Resource] {
	return func(yield func(*model.Resource) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*model.Resource) bool) bool {
	for _, r := range n.resources {
		if !yield(r) {
			return false
		}
	}
	for _, c := range n.children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

func (n *Node) String() string {
	return n.Path
}

func (n *Node) replace(old, res *model.Resource) {
	for i, r := range n.resources {
		if r == old {
			n.resources[i] = res
			return
		}
	}
	n.resources = append(n.resources, res)
}
