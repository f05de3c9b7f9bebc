package tagger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/phobologic/sitetags/internal/model"
)

// Relation is one outgoing edge of a declared tag.
type Relation struct {
	Name   string
	Target string
}

// Declaration is a canonical tag entry: the tag name and its relations.
type Declaration struct {
	Name      string
	Relations []Relation
}

// ParseDeclaration converts one raw entry of a resource's tag list.
//
// A scalar is the tag name. A single-key mapping names the tag; its value is
// a list of relation names (each also naming the target tag), a mapping of
// relation name to target tag, a single scalar shorthand, or empty.
// Relations given as a mapping are returned in key order.
func ParseDeclaration(raw any) (Declaration, error) {
	if name, ok := scalar(raw); ok {
		if name == "" {
			return Declaration{}, invalid(raw, "empty tag name")
		}
		return Declaration{Name: name}, nil
	}

	entries, ok := asMapping(raw)
	if !ok {
		return Declaration{}, invalid(raw, "expected a tag name or a single-entry mapping")
	}
	if len(entries) != 1 {
		return Declaration{}, invalid(raw, fmt.Sprintf("expected exactly one tag, got %d", len(entries)))
	}

	var decl Declaration
	var value any
	for k, v := range entries {
		decl.Name, value = k, v
	}
	if decl.Name == "" {
		return Declaration{}, invalid(raw, "empty tag name")
	}

	relations, err := parseRelations(value)
	if err != nil {
		return Declaration{}, invalid(raw, err.Error())
	}
	decl.Relations = relations
	return decl, nil
}

func parseRelations(value any) ([]Relation, error) {
	if value == nil {
		return nil, nil
	}
	if name, ok := scalar(value); ok {
		return []Relation{{Name: name, Target: name}}, nil
	}

	switch v := value.(type) {
	case []any:
		relations := make([]Relation, 0, len(v))
		for _, item := range v {
			name, ok := scalar(item)
			if !ok || name == "" {
				return nil, fmt.Errorf("relation %#v is not a name", item)
			}
			relations = append(relations, Relation{Name: name, Target: name})
		}
		return relations, nil
	case []string:
		relations := make([]Relation, 0, len(v))
		for _, name := range v {
			relations = append(relations, Relation{Name: name, Target: name})
		}
		return relations, nil
	}

	m, ok := asMapping(value)
	if !ok {
		return nil, fmt.Errorf("relations must be a list or a mapping, got %T", value)
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	relations := make([]Relation, 0, len(m))
	for _, name := range names {
		target, ok := scalar(m[name])
		if !ok || target == "" {
			return nil, fmt.Errorf("relation %q has no target tag", name)
		}
		relations = append(relations, Relation{Name: name, Target: target})
	}
	return relations, nil
}

func scalar(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(s), true
	case time.Time:
		return s.Format(time.DateOnly), true
	}
	return "", false
}

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case model.Meta:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func invalid(raw any, reason string) error {
	return &InvalidTagDeclarationError{Declaration: raw, Reason: reason}
}
