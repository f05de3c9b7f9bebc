package format

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
)

const (
	htmlNodeElement  = "element"
	htmlNodeStartTag = "start_tag"
	htmlNodeTagName  = "tag_name"
	htmlNodeText     = "text"
)

func init() {
	Formats["html"] = &Format{
		Name:         "html",
		Extensions:   []string{".html", ".htm", ".xml"},
		lang:         html.GetLanguage(),
		ExtractTitle: htmlExtractTitle,
	}
	Formats[Text] = &Format{
		Name:       Text,
		Extensions: []string{".txt"},
	}
}

// htmlExtractTitle returns the text of the first <title> element.
func htmlExtractTitle(root *sitter.Node, source []byte) string {
	title := findFirst(root, func(n *sitter.Node) bool {
		return n.Type() == htmlNodeElement && htmlElementName(n, source) == "title"
	})
	if title == nil {
		return ""
	}
	for i := 0; i < int(title.ChildCount()); i++ {
		child := title.Child(i)
		if child.Type() == htmlNodeText {
			return CollapseWhitespace(NodeText(child, source))
		}
	}
	return ""
}

func htmlElementName(element *sitter.Node, source []byte) string {
	for i := 0; i < int(element.ChildCount()); i++ {
		start := element.Child(i)
		if start.Type() != htmlNodeStartTag {
			continue
		}
		for j := 0; j < int(start.ChildCount()); j++ {
			if name := start.Child(j); name.Type() == htmlNodeTagName {
				return NodeText(name, source)
			}
		}
	}
	return ""
}
