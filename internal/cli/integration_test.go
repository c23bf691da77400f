package cli_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonedit(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the binary")
	}
	cmd := exec.Command("go", append([]string{"run", "../../main.go", "--no-color"}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestCLI_FileInputOutput edits a file and writes the result to another file
func TestCLI_FileInputOutput(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		"name": "John Doe",
		"age": 30,
		"address": {"street": "123 Main St", "city": "Anytown"},
		"phones": [
			{"type": "home", "number": "555-1234"},
			{"type": "work", "number": "555-5678"}
		],
		"active": true
	}`
	jsonFile := filepath.Join(tempDir, "test.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0644))
	outputFile := filepath.Join(tempDir, "output.json")

	_, stderr, err := jsonedit(t, "", "set", jsonFile, "phones.1.number", `"555-0000"`, "-o", outputFile)
	require.NoError(t, err, "CLI command failed: %s", stderr)

	written, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	doc := string(written)
	assert.Contains(t, doc, `"number": "555-0000"`)
	assert.Contains(t, doc, `"number": "555-1234"`)
	assert.True(t, strings.Index(doc, `"name"`) < strings.Index(doc, `"active"`), "key order is kept")
}

// TestCLI_StdinStdout reads the document from stdin
func TestCLI_StdinStdout(t *testing.T) {
	stdout, stderr, err := jsonedit(t, `{"name": "Jane Smith", "age": 25}`, "get", "-", "name")
	require.NoError(t, err, stderr)
	assert.Equal(t, "\"Jane Smith\"\n", stdout)
}

// TestCLI_Tree prints the navigation tree
func TestCLI_Tree(t *testing.T) {
	stdout, stderr, err := jsonedit(t, `{"user":{"id":7},"tags":["a","b"]}`, "tree", "-")
	require.NoError(t, err, stderr)
	assert.Equal(t, "  user\n    id: 7\n  tags\n    [0]: \"a\"\n    [1]: \"b\"\n", stdout)
}

// TestCLI_InvalidJSON reports parse errors
func TestCLI_InvalidJSON(t *testing.T) {
	_, stderr, err := jsonedit(t, `{"name": "Invalid JSON, "age": 30}`, "tree", "-")
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stderr, "JSON parsing error")
}

// TestCLI_EmptyInput reports empty input
func TestCLI_EmptyInput(t *testing.T) {
	_, stderr, err := jsonedit(t, "", "tree", "-")
	assert.Error(t, err, "CLI should fail with empty input")
	assert.Contains(t, stderr, "empty")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	stdout, _, err := jsonedit(t, "", "-v")
	require.NoError(t, err)
	assert.Contains(t, stdout, "jsonedit version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	stdout, _, err := jsonedit(t, "", "set", "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "-o, --output")
	assert.Contains(t, stdout, "-w, --in-place")
	assert.Contains(t, stdout, "--changes")
	assert.Contains(t, stdout, "-c, --config")
}

// TestCLI_Shell drives the interactive shell through stdin
func TestCLI_Shell(t *testing.T) {
	jsonFile := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"a":[1,2,3]}`), 0644))

	stdout, stderr, err := jsonedit(t, "delete a.0\nchanges\nquit\n", "shell", jsonFile)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "3 changed path(s):")
}
