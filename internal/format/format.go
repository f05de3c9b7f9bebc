// Package format provides a content format registry mapping file extensions
// to formats and, where available, the tree-sitter grammar used to pull a
// title out of the document body.
package format

import (
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Format holds the parsing configuration for one kind of content file.
type Format struct {
	Name       string
	Extensions []string
	lang       *sitter.Language

	// ExtractTitle returns the document title found under root, or "".
	ExtractTitle func(root *sitter.Node, source []byte) string
}

// GetLanguage returns the tree-sitter Language pointer, nil for plain formats.
func (f *Format) GetLanguage() *sitter.Language {
	return f.lang
}

// NewParser creates a fresh tree-sitter parser for this format, or nil when
// the format has no grammar. Each goroutine must use its own parser.
func (f *Format) NewParser() *sitter.Parser {
	if f.lang == nil {
		return nil
	}
	p := sitter.NewParser()
	p.SetLanguage(f.lang)
	return p
}

// Text is the format of files with no grammar and no title.
const Text = "text"

// Formats maps format names to their configuration.
// Populated by init() functions in per-format files.
var Formats = map[string]*Format{}

var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, f := range Formats {
			for _, ext := range f.Extensions {
				extensionMap[ext] = f.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the format name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[strings.ToLower(ext)]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// findFirst walks the tree depth first and returns the first node for which
// match returns true.
func findFirst(node *sitter.Node, match func(*sitter.Node) bool) *sitter.Node {
	if node == nil {
		return nil
	}
	if match(node) {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findFirst(node.Child(i), match); found != nil {
			return found
		}
	}
	return nil
}
