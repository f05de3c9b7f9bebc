package format

import (
	sitter "github.com/smacker/go-tree-sitter"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
)

const (
	markdownNodeAtxHeading = "atx_heading"
	markdownNodeH1Marker   = "atx_h1_marker"
	markdownNodeInline     = "inline"
)

func init() {
	Formats["markdown"] = &Format{
		Name:         "markdown",
		Extensions:   []string{".md", ".markdown"},
		lang:         tree_sitter_markdown.GetLanguage(),
		ExtractTitle: markdownExtractTitle,
	}
}

// markdownExtractTitle returns the text of the first level-one ATX heading.
func markdownExtractTitle(root *sitter.Node, source []byte) string {
	heading := findFirst(root, func(n *sitter.Node) bool {
		if n.Type() != markdownNodeAtxHeading {
			return false
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if n.Child(i).Type() == markdownNodeH1Marker {
				return true
			}
		}
		return false
	})
	if heading == nil {
		return ""
	}
	for i := 0; i < int(heading.ChildCount()); i++ {
		child := heading.Child(i)
		if child.Type() == markdownNodeInline {
			return CollapseWhitespace(NodeText(child, source))
		}
	}
	return ""
}
