package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mcncl/jsonedit/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samples = "../../testdata/samples"

type result struct {
	code   int
	stdout string
	stderr string
}

func jsonedit(t testing.TB, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli.Main(append([]string{"--no-color"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// TestEndToEnd_ComplexNestedStructures navigates and edits a nested document
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	input := filepath.Join(samples, "service.json")

	res := jsonedit(t, "", "tree", input, "-s", "log_level")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, strings.Join([]string{
		"  config",
		"    environments",
		"      development",
		"        log_level: \"debug\"",
		"      production",
		"        log_level: \"info\"",
		"",
	}, "\n"), res.stdout)

	res = jsonedit(t, "", "get", input, "users.1.roles.0")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "\"user\"\n", res.stdout)

	out := filepath.Join(t.TempDir(), "service.json")
	res = jsonedit(t, "", "batch", input, `"warn"`, "-s", "log_level", "-o", out)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Updated 2 field(s)")

	res = jsonedit(t, "", "diff", input, out)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "2 changed path(s):\n"+
		"  ~ config.environments.development.log_level\n"+
		"  ~ config.environments.production.log_level\n", res.stdout)

	res = jsonedit(t, "", "delete", input, "users.0", "--changes")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "  ~ users.0.id\n")
	assert.Contains(t, res.stdout, "  ~ users.1\n")
	assert.NotContains(t, res.stdout, "config")
}

// TestEndToEnd_HeterogeneousArrays works with arrays holding mixed kinds
func TestEndToEnd_HeterogeneousArrays(t *testing.T) {
	input := filepath.Join(samples, "mixed.json")

	res := jsonedit(t, "", "tree", input)
	require.Equal(t, 0, res.code, res.stderr)
	for _, line := range []string{
		"    [0]: 1\n",
		"    [1]: \"string\"\n",
		"    [3]: null\n",
		"    [4]\n      nested: \"object\"\n",
		"    [5]\n      [0]: 1\n",
		"      members: 5\n",
	} {
		assert.Contains(t, res.stdout, line)
	}

	res = jsonedit(t, "", "set", input, "mixed_array.3", `{"was":null}`, "--changes")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "1 changed path(s):\n  ~ mixed_array.3\n", res.stdout)

	res = jsonedit(t, "", "set", input, "mixed_array.5.x", "1")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Path error")
}

// TestEndToEnd_PatchRoundTrip checks that a diff applied as a patch
// reproduces the edited document
func TestEndToEnd_PatchRoundTrip(t *testing.T) {
	input := filepath.Join(samples, "service.json")
	dir := t.TempDir()
	edited := filepath.Join(dir, "edited.json")

	res := jsonedit(t, "", "set", input, "stats.requests", "0", "-o", edited)
	require.Equal(t, 0, res.code, res.stderr)
	res = jsonedit(t, "", "add", edited, "config.features", `"tracing"`, "-w")
	require.Equal(t, 0, res.code, res.stderr)

	for _, format := range []string{"--patch", "--merge"} {
		t.Run(format, func(t *testing.T) {
			res := jsonedit(t, "", "diff", input, edited, format)
			require.Equal(t, 0, res.code, res.stderr)
			patch := filepath.Join(dir, "patch"+format+".json")
			require.NoError(t, os.WriteFile(patch, []byte(res.stdout), 0o644))

			args := []string{"apply", input, patch, "-o", filepath.Join(dir, "applied"+format+".json")}
			if format == "--merge" {
				args = append(args, "-m")
			}
			res = jsonedit(t, "", args...)
			require.Equal(t, 0, res.code, res.stderr)

			res = jsonedit(t, "", "diff", edited, filepath.Join(dir, "applied"+format+".json"))
			require.Equal(t, 0, res.code, res.stderr)
			assert.Equal(t, "No changes\n", res.stdout)
		})
	}
}

// generateLargeJSON generates a large JSON file with the specified number of items
func generateLargeJSON(t testing.TB, filePath string, itemCount int) {
	// Seed random for reproducible results
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]interface{}, itemCount)
	for i := 0; i < itemCount; i++ {
		items[i] = map[string]interface{}{
			"id":          i + 1,
			"guid":        fmt.Sprintf("%x-%x-%x-%x", rng.Uint32(), rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()),
			"name":        fmt.Sprintf("Item %d", i+1),
			"description": fmt.Sprintf("This is item number %d in the test dataset", i+1),
			"created_at":  time.Now().Add(-time.Duration(rng.Intn(10000)) * time.Hour).Format(time.RFC3339),
			"price":       rng.Float64() * 1000,
			"quantity":    rng.Intn(100),
			"active":      rng.Intn(2) == 1,
			"tags":        []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
			"metadata": map[string]interface{}{
				"source":   "test",
				"priority": rng.Intn(5) + 1,
				"score":    rng.Float64(),
			},
		}
	}

	jsonData, err := json.MarshalIndent(items, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, jsonData, 0644))
}

// TestEndToEnd_LargeArrayIsTruncated shows the first items and a placeholder
func TestEndToEnd_LargeArrayIsTruncated(t *testing.T) {
	input := filepath.Join(t.TempDir(), "large.json")
	generateLargeJSON(t, input, 1500)

	res := jsonedit(t, "", "tree", input)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "  [999]\n")
	assert.NotContains(t, res.stdout, "[1000]")
	assert.True(t, strings.HasSuffix(res.stdout, "  … 500 more items\n"))

	res = jsonedit(t, "", "get", input, "1499.name")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "\"Item 1500\"\n", res.stdout, "truncation only affects the tree")
}

// TestEndToEnd_EdgeCases covers documents at the edges of what the editor
// accepts
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name    string
		json    string
		tree    string
		value   string
		isError bool
	}{
		{name: "EmptyObject", json: `{}`, tree: "(empty)\n", value: "{}\n"},
		{name: "EmptyArray", json: `[]`, tree: "(empty)\n", value: "[]\n"},
		{name: "SingleString", json: `"just a string"`, tree: "(empty)\n", value: "\"just a string\"\n"},
		{name: "SingleNumber", json: `1.50`, tree: "(empty)\n", value: "1.50\n"},
		{name: "SingleBoolean", json: `true`, tree: "(empty)\n", value: "true\n"},
		{name: "SingleNull", json: `null`, tree: "(empty)\n", value: "null\n"},
		{name: "InvalidJSON", json: `{"name": "Invalid JSON",}`, isError: true},
		{name: "Whitespace", json: " \n\t ", isError: true},
		{
			name:  "DeeplyNestedArray",
			json:  `[[[42]]]`,
			tree:  "  [0]\n    [0]\n      [0]: 42\n",
			value: "[\n  [\n    [\n      42\n    ]\n  ]\n]\n",
		},
		{
			name:  "UnicodeKeys",
			json:  `{"ключ":"значение"}`,
			tree:  "  ключ: \"значение\"\n",
			value: "{\n  \"ключ\": \"значение\"\n}\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree := jsonedit(t, tc.json, "tree", "-")
			value := jsonedit(t, tc.json, "get", "-")

			if tc.isError {
				assert.Equal(t, 1, tree.code)
				assert.Contains(t, tree.stderr, "JSON parsing error")
				assert.Equal(t, 1, value.code)
				return
			}

			require.Equal(t, 0, tree.code, tree.stderr)
			assert.Equal(t, tc.tree, tree.stdout)
			require.Equal(t, 0, value.code, value.stderr)
			assert.Equal(t, tc.value, value.stdout)
		})
	}
}
