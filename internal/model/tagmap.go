package model

// Edge is one relation of the tag graph: Source -Relation-> Target.
type Edge struct {
	Source   string
	Relation string
	Target   string
}

// TagEntry pairs a tag with its PageRank score.
type TagEntry struct {
	Tag  *Tag
	Rank float64
}

// TagMap is the complete tag-graph summary for a site.
type TagMap struct {
	Site  string
	Tags  []TagEntry
	Edges []Edge
}
