// Package ranking trims a tag map to its highest-ranked tags.
package ranking

import "github.com/phobologic/sitetags/internal/model"

// SelectTags returns a new TagMap with only the top-ranked tags and the edges
// between them. If maxTags is <= 0 or >= len(tags), tm is returned unchanged.
// tm.Tags must already be sorted by rank.
func SelectTags(tm *model.TagMap, maxTags int) *model.TagMap {
	if maxTags <= 0 || maxTags >= len(tm.Tags) {
		return tm
	}

	selected := tm.Tags[:maxTags]
	names := make(map[string]struct{}, maxTags)
	for i := range selected {
		names[selected[i].Tag.Name] = struct{}{}
	}

	var edges []model.Edge
	for _, e := range tm.Edges {
		_, srcOK := names[e.Source]
		_, tgtOK := names[e.Target]
		if srcOK && tgtOK {
			edges = append(edges, e)
		}
	}

	return &model.TagMap{
		Site:  tm.Site,
		Tags:  selected,
		Edges: edges,
	}
}
