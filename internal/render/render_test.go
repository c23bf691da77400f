package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodesFor(t *testing.T, text string, maxItems int) []models.TreeNode {
	t.Helper()
	v, err := parser.ParseString(text)
	require.NoError(t, err)
	b := tree.NewBuilder()
	b.MaxArrayItems = maxItems
	return b.Build(v)
}

func TestTree_PlainText(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	changes := models.ChangeSet{}
	changes.Add("b.1")
	r.Tree(nodesFor(t, `{"a":1,"b":[1,2,3],"c":{"d":null}}`, 2), changes, "a")

	expected := strings.Join([]string{
		"> a: 1",
		"  b",
		"    [0]: 1",
		"*   [1]: 2",
		"    … 1 more items",
		"  c",
		"    d: null",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestTree_Empty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Tree(nil, nil, "")
	assert.Equal(t, "(empty)\n", buf.String())
}

func TestChanges(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	r.Changes(models.ChangeSet{})
	assert.Equal(t, "No changes\n", buf.String())

	buf.Reset()
	changes := models.ChangeSet{}
	for _, k := range []string{"b.10", "b.2", ""} {
		changes.Add(k)
	}
	r.Changes(changes)
	assert.Equal(t, "3 changed path(s):\n  ~ (root)\n  ~ b.2\n  ~ b.10\n", buf.String())
}

func TestCandidates(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	err := r.Candidates([]models.BatchCandidate{
		{Key: "user.id", Title: "id: 7", Selected: true},
		{Key: "order.id", Title: "id: 42", Selected: false},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "user.id")
	assert.Contains(t, out, "order.id")
	assert.Contains(t, out, "id: 42")
	assert.Equal(t, 1, strings.Count(out, " x "))
}

func TestHighlight_Plain(t *testing.T) {
	r := New(&bytes.Buffer{}, false)
	text := "one two one"
	matches := []models.Match{{Offset: 0, Start: 0, End: 3}, {Offset: 8, Start: 8, End: 11}}

	assert.Equal(t, "»»one«« two «one»", r.Highlight(text, matches, 0))
	assert.Equal(t, "«one» two »»one««", r.Highlight(text, matches, 1))
	assert.Equal(t, text, r.Highlight(text, nil, -1))
}

func TestHighlight_Color(t *testing.T) {
	r := New(&bytes.Buffer{}, true)
	out := r.Highlight("abc", []models.Match{{Start: 1, End: 2}}, 0)

	assert.True(t, strings.HasPrefix(out, "a\x1b["))
	assert.True(t, strings.HasSuffix(out, "\x1b[0mc"))
}

func TestValue(t *testing.T) {
	v, err := parser.ParseString(`{"a":[1]}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	New(&buf, false).Value(v, 2)
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}\n", buf.String())

	buf.Reset()
	New(&buf, true).Value(v, 2)
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestMatchStatus(t *testing.T) {
	r := New(&bytes.Buffer{}, false)
	assert.Equal(t, `no matches for "x"`, r.MatchStatus("x", 0, -1))
	assert.Equal(t, `match 2 of 5 for "x"`, r.MatchStatus("x", 5, 1))
}
