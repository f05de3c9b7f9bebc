// Package parse splits content files into front matter and body and derives
// a title from the body using tree-sitter.
package parse

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	sitter "github.com/smacker/go-tree-sitter"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/sitetags/internal/format"
	"github.com/phobologic/sitetags/internal/model"
)

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

// Document parses a content file. The parser must be created for f, or be
// nil when f has no grammar. path is stored as Resource.Path and should be
// relative to the content root.
func Document(f *format.Format, parser *sitter.Parser, source []byte, path string) (*model.Resource, error) {
	meta, body, err := SplitFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	res := &model.Resource{
		Path:   path,
		Format: f.Name,
		Meta:   meta,
		Body:   string(body),
	}

	res.Title = meta.String("title")
	if res.Title == "" && parser != nil && f.ExtractTitle != nil {
		res.Title = extractTitle(f, parser, body)
	}
	return res, nil
}

// SplitFrontMatter separates a leading YAML (---) or TOML (+++) block from the
// body. Sources without front matter yield empty metadata and the full source.
func SplitFrontMatter(source []byte) (model.Meta, []byte, error) {
	trimmed := bytes.TrimLeft(source, " \t\r\n")
	for _, delim := range []string{yamlDelimiter, tomlDelimiter} {
		block, body, ok := cutBlock(trimmed, delim)
		if !ok {
			continue
		}
		meta, err := decode(delim, block)
		if err != nil {
			return nil, nil, err
		}
		return meta, body, nil
	}
	return model.Meta{}, source, nil
}

func cutBlock(source []byte, delim string) (block, body []byte, ok bool) {
	first, rest, found := bytes.Cut(source, []byte("\n"))
	if !found || strings.TrimSpace(string(first)) != delim {
		return nil, nil, false
	}
	lines := bytes.SplitAfter(rest, []byte("\n"))
	offset := 0
	for _, line := range lines {
		if strings.TrimSpace(string(line)) == delim {
			return rest[:offset], rest[offset+len(line):], true
		}
		offset += len(line)
	}
	return nil, nil, false
}

func decode(delim string, block []byte) (model.Meta, error) {
	meta := model.Meta{}
	if len(bytes.TrimSpace(block)) == 0 {
		return meta, nil
	}
	switch delim {
	case tomlDelimiter:
		if _, err := toml.Decode(string(block), (*map[string]any)(&meta)); err != nil {
			return nil, fmt.Errorf("toml front matter: %w", err)
		}
	default:
		if err := yaml.Unmarshal(block, (*map[string]any)(&meta)); err != nil {
			return nil, fmt.Errorf("yaml front matter: %w", err)
		}
	}
	if meta == nil {
		meta = model.Meta{}
	}
	return meta, nil
}

func extractTitle(f *format.Format, parser *sitter.Parser, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	tree, err := parser.ParseCtx(context.Background(), nil, body)
	if err != nil {
		return ""
	}
	defer tree.Close()
	return f.ExtractTitle(tree.RootNode(), body)
}
