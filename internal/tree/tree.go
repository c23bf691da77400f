package tree

import (
	"fmt"
	"strconv"

	"github.com/mcncl/jsonedit/internal/config"
	"github.com/mcncl/jsonedit/internal/formatter"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/pathcodec"
)

// Default limits
const (
	DefaultMaxDepth        = 50
	DefaultMaxArrayItems   = 1000
	DefaultTitlePreviewLen = 60
)

// PlaceholderSuffix is appended to an array's key to form the key of its
// truncation placeholder. It never decodes as an index.
const PlaceholderSuffix = ".…"

// Builder turns a document into display nodes
type Builder struct {
	MaxDepth        int
	MaxArrayItems   int
	TitlePreviewLen int // 0 disables truncation
}

// NewBuilder creates a Builder with the default limits
func NewBuilder() *Builder {
	return &Builder{
		MaxDepth:        DefaultMaxDepth,
		MaxArrayItems:   DefaultMaxArrayItems,
		TitlePreviewLen: DefaultTitlePreviewLen,
	}
}

// NewBuilderWithConfig creates a Builder using the tree section of cfg
func NewBuilderWithConfig(cfg *config.Config) *Builder {
	return &Builder{
		MaxDepth:        cfg.Tree.MaxDepth,
		MaxArrayItems:   cfg.Tree.MaxArrayItems,
		TitlePreviewLen: cfg.Tree.TitlePreviewLen,
	}
}

// Build returns the nodes for the members or elements of root. A leaf root
// has no nodes.
func (b *Builder) Build(root *models.Value) []models.TreeNode {
	return b.build(root, models.Path{}, 0)
}

func (b *Builder) build(v *models.Value, path models.Path, depth int) []models.TreeNode {
	if depth >= b.MaxDepth {
		return nil
	}

	switch v.Kind() {
	case models.Object:
		keys := v.Keys()
		nodes := make([]models.TreeNode, 0, len(keys))
		for _, k := range keys {
			child, _ := v.Field(k)
			nodes = append(nodes, b.node(child, path.Child(models.KeySegment(k)), k, depth))
		}
		return nodes

	case models.Array:
		items := v.Items()
		shown := len(items)
		if shown > b.MaxArrayItems {
			shown = b.MaxArrayItems
		}
		nodes := make([]models.TreeNode, 0, shown+1)
		for i := 0; i < shown; i++ {
			nodes = append(nodes, b.node(items[i], path.Child(models.IndexSegment(i)), "["+strconv.Itoa(i)+"]", depth))
		}
		if rest := len(items) - shown; rest > 0 {
			nodes = append(nodes, placeholder(path, rest))
		}
		return nodes
	}
	return nil
}

func (b *Builder) node(v *models.Value, path models.Path, label string, depth int) models.TreeNode {
	n := models.TreeNode{
		Path:     path,
		Key:      pathcodec.Encode(path),
		IsLeaf:   v.IsLeaf(),
		IsArray:  v.IsArray(),
		IsObject: v.IsObject(),
	}
	if n.IsLeaf {
		n.Title = label + ": " + b.preview(v)
		return n
	}
	n.Title = label
	n.Children = b.build(v, path, depth+1)
	return n
}

func (b *Builder) preview(v *models.Value) string {
	text := formatter.Compact(v)
	if b.TitlePreviewLen <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= b.TitlePreviewLen {
		return text
	}
	return string(runes[:b.TitlePreviewLen]) + "…"
}

func placeholder(parent models.Path, remaining int) models.TreeNode {
	return models.TreeNode{
		Key:           pathcodec.Encode(parent) + PlaceholderSuffix,
		Title:         fmt.Sprintf("… %d more items", remaining),
		IsPlaceholder: true,
		Remaining:     remaining,
	}
}

// Walk visits nodes depth first in display order. Returning false from fn
// skips the node's children.
func Walk(nodes []models.TreeNode, fn func(n *models.TreeNode) bool) {
	for i := range nodes {
		if fn(&nodes[i]) {
			Walk(nodes[i].Children, fn)
		}
	}
}

// Find returns the node with the given key.
func Find(nodes []models.TreeNode, key string) (models.TreeNode, bool) {
	var found *models.TreeNode
	Walk(nodes, func(n *models.TreeNode) bool {
		if found != nil {
			return false
		}
		if n.Key == key {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return models.TreeNode{}, false
	}
	return *found, true
}

// Count returns the total number of nodes.
func Count(nodes []models.TreeNode) int {
	total := 0
	Walk(nodes, func(*models.TreeNode) bool {
		total++
		return true
	})
	return total
}
