package search

import (
	"strings"

	"github.com/mcncl/jsonedit/internal/models"
)

// FilterTree keeps the nodes whose title contains term, and the ancestors of
// any such node. Matching is a case-sensitive substring test. Children are
// always filtered, so a matching container keeps only its matching
// descendants. An empty term returns nodes unchanged.
func FilterTree(nodes []models.TreeNode, term string) []models.TreeNode {
	if term == "" {
		return nodes
	}
	out := make([]models.TreeNode, 0, len(nodes))
	for _, n := range nodes {
		children := FilterTree(n.Children, term)
		if !strings.Contains(n.Title, term) && len(children) == 0 {
			continue
		}
		n.Children = children
		out = append(out, n)
	}
	return out
}

// CollectMatchedLeaves returns a selected batch candidate for every leaf
// whose title contains term, in display order. Placeholders are never leaves.
func CollectMatchedLeaves(nodes []models.TreeNode, term string) []models.BatchCandidate {
	var out []models.BatchCandidate
	collect(nodes, term, &out)
	return out
}

func collect(nodes []models.TreeNode, term string, out *[]models.BatchCandidate) {
	for _, n := range nodes {
		if n.IsLeaf && strings.Contains(n.Title, term) {
			*out = append(*out, models.BatchCandidate{
				Path:     n.Path,
				Key:      n.Key,
				Title:    n.Title,
				Selected: true,
			})
		}
		if len(n.Children) > 0 {
			collect(n.Children, term, out)
		}
	}
}
