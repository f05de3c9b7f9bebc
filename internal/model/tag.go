package model

// protectedKeys may never be overwritten by merged metadata.
var protectedKeys = map[string]struct{}{
	"name":      {},
	"resources": {},
}

// Tag is a node of the tag graph.
type Tag struct {
	Name         string
	Resources    []*Resource
	InRelations  map[string]*TagSet
	OutRelations map[string]*TagSet
	Meta         Meta
}

// NewTag returns an empty tag.
func NewTag(name string) *Tag {
	return &Tag{
		Name:         name,
		InRelations:  make(map[string]*TagSet),
		OutRelations: make(map[string]*TagSet),
		Meta:         make(Meta),
	}
}

// IsLeaf reports whether no relation points into the tag.
func (t *Tag) IsLeaf() bool {
	return len(t.InRelations) == 0
}

// RelateToTag records the edge t -relation-> other on both ends.
// Repeating the call is a no-op.
func (t *Tag) RelateToTag(other *Tag, relation string) {
	bucket(t.OutRelations, relation).Add(other)
	bucket(other.InRelations, relation).Add(t)
}

// Merge copies meta into the tag's side table, skipping protected keys.
func (t *Tag) Merge(meta Meta) {
	for k, v := range meta {
		if _, ok := protectedKeys[k]; ok {
			continue
		}
		t.Meta[k] = v
	}
}

// RelationNames returns the names of outgoing relations in sorted order.
func (t *Tag) RelationNames() []string {
	return sortedKeys(t.OutRelations)
}

func (t *Tag) String() string {
	return t.Name
}

func bucket(relations map[string]*TagSet, name string) *TagSet {
	s, ok := relations[name]
	if !ok {
		s = &TagSet{}
		relations[name] = s
	}
	return s
}

// TagSet is an insertion-ordered set of tags.
type TagSet struct {
	tags []*Tag
}

// Add appends tag unless it is already a member.
func (s *TagSet) Add(tag *Tag) bool {
	if s.Contains(tag) {
		return false
	}
	s.tags = append(s.tags, tag)
	return true
}

// Contains reports membership by identity.
func (s *TagSet) Contains(tag *Tag) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns the members in insertion order.
func (s *TagSet) Tags() []*Tag {
	out := make([]*Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Len returns the number of members.
func (s *TagSet) Len() int {
	return len(s.tags)
}
