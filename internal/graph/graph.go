// Package graph lists tag relations and computes PageRank over the tag graph.
package graph

import (
	"math"
	"sort"

	"github.com/phobologic/sitetags/internal/model"
)

// BuildEdges flattens the outgoing relations of tags into a sorted edge list.
func BuildEdges(tags []*model.Tag) []model.Edge {
	var edges []model.Edge
	for _, t := range tags {
		for _, rel := range t.RelationNames() {
			for _, target := range t.OutRelations[rel].Tags() {
				edges = append(edges, model.Edge{
					Source:   t.Name,
					Relation: rel,
					Target:   target.Name,
				})
			}
		}
	}

	// Sort for deterministic output
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		if edges[i].Relation != edges[j].Relation {
			return edges[i].Relation < edges[j].Relation
		}
		return edges[i].Target < edges[j].Target
	})

	return edges
}

// Rank scores every tag with PageRank, following edges from source to target,
// and returns the entries by rank descending. Ties go to the tag with more
// resources, then to the smaller name.
func Rank(tags []*model.Tag, edges []model.Edge) []model.TagEntry {
	if len(tags) == 0 {
		return nil
	}

	entries := make([]model.TagEntry, len(tags))
	for i, t := range tags {
		entries[i] = model.TagEntry{Tag: t}
	}

	if len(edges) == 0 {
		uniform := 1.0 / float64(len(tags))
		for i := range entries {
			entries[i].Rank = uniform
		}
	} else {
		nodes := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			nodes[t.Name] = struct{}{}
		}

		outEdges := make(map[string][]string)
		outDegree := make(map[string]int)
		for _, e := range edges {
			if _, ok := nodes[e.Source]; !ok {
				continue
			}
			if _, ok := nodes[e.Target]; !ok {
				continue
			}
			outEdges[e.Source] = append(outEdges[e.Source], e.Target)
			outDegree[e.Source]++
		}

		ranks := pageRank(nodes, outEdges, outDegree, 0.85, 100, 1e-6)
		for i := range entries {
			entries[i].Rank = ranks[entries[i].Tag.Name]
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}
		if len(a.Tag.Resources) != len(b.Tag.Resources) {
			return len(a.Tag.Resources) > len(b.Tag.Resources)
		}
		return a.Tag.Name < b.Tag.Name
	})
	return entries
}

func pageRank(
	nodes map[string]struct{},
	outEdges map[string][]string,
	outDegree map[string]int,
	alpha float64,
	maxIter int,
	tol float64,
) map[string]float64 {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	initial := 1.0 / float64(n)
	for node := range nodes {
		rank[node] = initial
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make(map[string]float64, n)

		// Dangling tags spread their rank evenly
		var danglingSum float64
		for node := range nodes {
			if outDegree[node] == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range nodes {
			newRank[node] = teleport + danglingContrib
		}

		for src, targets := range outEdges {
			contrib := alpha * rank[src] / float64(outDegree[src])
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		var diff float64
		for node := range nodes {
			diff += math.Abs(newRank[node] - rank[node])
		}

		rank = newRank

		if diff < tol {
			break
		}
	}

	return rank
}
