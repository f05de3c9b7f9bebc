// Package tagger builds the tag graph of a content tree and generates one
// listing archive per tag.
//
// A build makes a single pass over the tree's resources (in the order of the
// configured sorter). Each entry of a resource's "tags" metadata is either a
// plain tag name or a one-entry mapping naming a tag and its relations:
//
//	tags:
//	  - python
//	  - posts: [author, feature]           # relation name == target tag
//	  - guide: {parent: python, see: go}   # relation name -> target tag
//
// The resulting Registry owns every Tag and exposes lazy enumerators that
// filter the tree's resources by tag. Nothing in this package is safe for
// concurrent mutation; the registry is read-only once Build returns.
package tagger
