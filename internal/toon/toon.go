// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/phobologic/sitetags/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a TagMap into TOON format.
func Encode(tm *model.TagMap) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("site: %s", encodeValue(tm.Site)))

	var tagRows [][]string
	for _, e := range tm.Tags {
		tagRows = append(tagRows, []string{
			e.Tag.Name,
			strconv.Itoa(len(e.Tag.Resources)),
			strconv.Itoa(inbound(e.Tag)),
			fmt.Sprintf("%.4f", e.Rank),
		})
	}
	parts = append(parts, formatTabular("tags", []string{"name", "resources", "inbound", "rank"}, tagRows))

	var relRows [][]string
	for _, e := range tm.Edges {
		relRows = append(relRows, []string{e.Source, e.Relation, e.Target})
	}
	parts = append(parts, formatTabular("relations", []string{"source", "relation", "target"}, relRows))

	var metaRows [][]string
	for _, e := range tm.Tags {
		keys := make([]string, 0, len(e.Tag.Meta))
		for k := range e.Tag.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			metaRows = append(metaRows, []string{e.Tag.Name, k, fmt.Sprint(e.Tag.Meta[k])})
		}
	}
	if len(metaRows) > 0 {
		parts = append(parts, formatTabular("meta", []string{"tag", "key", "value"}, metaRows))
	}

	return strings.Join(parts, "\n")
}

// inbound counts the tags relating to t; zero for a leaf.
func inbound(t *model.Tag) int {
	if t.IsLeaf() {
		return 0
	}
	n := 0
	for _, set := range t.InRelations {
		n += set.Len()
	}
	return n
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
