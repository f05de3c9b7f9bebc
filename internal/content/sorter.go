package content

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/phobologic/sitetags/internal/model"
)

// Sorter is a named ordering over resources. Attrs are compared in order;
// each is one of "name", "path", "title", "position" or a "meta.<key>" path.
// Resources missing an attribute sort after those that have it.
type Sorter struct {
	Attrs   []string
	Reverse bool
}

func (s Sorter) sort(resources []*model.Resource) []*model.Resource {
	out := make([]*model.Resource, len(resources))
	copy(out, resources)
	slices.SortStableFunc(out, func(a, b *model.Resource) int {
		for _, attr := range s.Attrs {
			av, aok := attribute(a, attr)
			bv, bok := attribute(b, attr)
			switch {
			case !aok && !bok:
				continue
			case !aok:
				return 1
			case !bok:
				return -1
			}
			c := compareValues(av, bv)
			if s.Reverse {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func attribute(r *model.Resource, attr string) (any, bool) {
	switch attr {
	case "name":
		return r.Name(), true
	case "path":
		return r.Path, true
	case "title":
		return r.Title, r.Title != ""
	case "position":
		return r.Position, true
	}
	key := strings.TrimPrefix(attr, "meta.")
	v, ok := r.Meta.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
