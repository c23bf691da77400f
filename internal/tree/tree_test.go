package tree

import (
	"strings"
	"testing"

	"github.com/mcncl/jsonedit/internal/config"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/pathcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *models.Value {
	t.Helper()
	v, err := parser.ParseString(text)
	require.NoError(t, err)
	return v
}

func TestBuild_SimpleObject(t *testing.T) {
	nodes := NewBuilder().Build(mustParse(t, `{"a": 1, "b": [1, 2, 3], "c": {"d": null}}`))
	require.Len(t, nodes, 3)

	a := nodes[0]
	assert.Equal(t, "a", a.Key)
	assert.Equal(t, "a: 1", a.Title)
	assert.True(t, a.IsLeaf)
	assert.Empty(t, a.Children)

	b := nodes[1]
	assert.Equal(t, "b", b.Title)
	assert.True(t, b.IsArray)
	assert.False(t, b.IsLeaf)
	require.Len(t, b.Children, 3)
	assert.Equal(t, "b.1", b.Children[1].Key)
	assert.Equal(t, "[1]: 2", b.Children[1].Title)
	assert.True(t, b.Children[1].Path[1].IsIndex)

	c := nodes[2]
	assert.True(t, c.IsObject)
	require.Len(t, c.Children, 1)
	assert.Equal(t, "c.d", c.Children[0].Key)
	assert.Equal(t, "d: null", c.Children[0].Title)
	assert.True(t, c.Children[0].IsLeaf, "null is a leaf")
}

func TestBuild_LeafRootHasNoNodes(t *testing.T) {
	assert.Empty(t, NewBuilder().Build(mustParse(t, `"just a string"`)))
	assert.Empty(t, NewBuilder().Build(mustParse(t, `{}`)))
}

func TestBuild_StringPreviewIsQuoted(t *testing.T) {
	nodes := NewBuilder().Build(mustParse(t, `{"name": "Ada"}`))
	assert.Equal(t, `name: "Ada"`, nodes[0].Title)
}

func TestBuild_TruncatesLongPreviews(t *testing.T) {
	long := strings.Repeat("é", 80)
	b := &Builder{MaxDepth: 50, MaxArrayItems: 1000, TitlePreviewLen: 10}
	nodes := b.Build(mustParse(t, `{"s": "`+long+`"}`))

	assert.Equal(t, `s: "`+strings.Repeat("é", 9)+"…", nodes[0].Title)

	b.TitlePreviewLen = 0
	nodes = b.Build(mustParse(t, `{"s": "`+long+`"}`))
	assert.Equal(t, `s: "`+long+`"`, nodes[0].Title)
}

func TestBuild_ArrayCapAddsPlaceholder(t *testing.T) {
	items := make([]*models.Value, 1500)
	for i := range items {
		items[i] = models.NewNumberFloat(float64(i))
	}
	doc := models.NewObject()
	doc.SetField("big", models.NewArray(items...))

	nodes := NewBuilder().Build(doc)
	require.Len(t, nodes, 1)
	children := nodes[0].Children
	require.Len(t, children, 1001)

	for _, n := range children[:1000] {
		assert.False(t, n.IsPlaceholder)
	}
	assert.Equal(t, "big.999", children[999].Key)

	ph := children[1000]
	assert.True(t, ph.IsPlaceholder)
	assert.Equal(t, 500, ph.Remaining)
	assert.Contains(t, ph.Title, "500")
	assert.False(t, ph.IsLeaf)
	assert.Empty(t, ph.Children)

	_, err := pathcodec.Decode(ph.Key, doc)
	assert.Error(t, err, "placeholder keys never resolve")
}

func TestBuild_ArrayAtCapHasNoPlaceholder(t *testing.T) {
	b := &Builder{MaxDepth: 50, MaxArrayItems: 3, TitlePreviewLen: 60}
	nodes := b.Build(mustParse(t, `[1, 2, 3]`))
	require.Len(t, nodes, 3)
	for _, n := range nodes {
		assert.False(t, n.IsPlaceholder)
	}
}

func TestBuild_DepthCap(t *testing.T) {
	text := strings.Repeat(`{"n":`, 60) + `1` + strings.Repeat(`}`, 60)
	nodes := NewBuilder().Build(mustParse(t, text))

	depth := 0
	for len(nodes) > 0 {
		depth++
		require.Len(t, nodes, 1)
		nodes = nodes[0].Children
	}
	assert.Equal(t, DefaultMaxDepth, depth)

	shallow := &Builder{MaxDepth: 2, MaxArrayItems: 10, TitlePreviewLen: 60}
	nodes = shallow.Build(mustParse(t, `{"a": {"b": {"c": 1}}}`))
	require.Len(t, nodes[0].Children, 1)
	assert.True(t, nodes[0].Children[0].IsObject)
	assert.Empty(t, nodes[0].Children[0].Children, "containers past the cap have no children")
}

func TestBuild_EveryKeyResolves(t *testing.T) {
	doc := mustParse(t, `{"list": [{"0": "x"}, [true]], "3": {"4": [null]}}`)
	nodes := NewBuilder().Build(doc)

	Walk(nodes, func(n *models.TreeNode) bool {
		path, err := pathcodec.Decode(n.Key, doc)
		require.NoError(t, err, n.Key)
		assert.Equal(t, n.Path, path)
		return true
	})
}

func TestNewBuilderWithConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Tree.MaxArrayItems = 2
	b := NewBuilderWithConfig(cfg)

	nodes := b.Build(mustParse(t, `[1, 2, 3, 4]`))
	require.Len(t, nodes, 3)
	assert.Equal(t, 2, nodes[2].Remaining)
	assert.Equal(t, PlaceholderSuffix, nodes[2].Key)
}

func TestFindAndCount(t *testing.T) {
	nodes := NewBuilder().Build(mustParse(t, `{"a": {"b": [1, 2]}, "c": 3}`))

	assert.Equal(t, 5, Count(nodes))

	n, ok := Find(nodes, "a.b.1")
	require.True(t, ok)
	assert.Equal(t, "[1]: 2", n.Title)

	_, ok = Find(nodes, "a.z")
	assert.False(t, ok)
}
