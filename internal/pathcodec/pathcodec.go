// Package pathcodec converts between Paths and the dotted identifiers shown
// to users and reported by the tree.
//
// Segments are joined with "." and never escaped, so a key containing a dot
// cannot be told apart from a path boundary. Decoding resolves the ambiguity
// between array indices and numeric-looking keys by walking the document.
package pathcodec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
)

// Separator joins path segments.
const Separator = "."

// Encode joins the segments of p. The root encodes as "".
func Encode(p models.Path) string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.Text()
	}
	return strings.Join(parts, Separator)
}

// Decode splits id and types each segment by the container it addresses in
// root: array containers take an index, everything else takes a key. Once
// the walk leaves the document the remaining segments are keys, so a path
// to a value that does not exist yet still decodes.
func Decode(id string, root *models.Value) (models.Path, error) {
	if id == "" {
		return models.Path{}, nil
	}

	parts := strings.Split(id, Separator)
	path := make(models.Path, 0, len(parts))
	cur := root
	for i, part := range parts {
		if !cur.IsArray() {
			path = append(path, models.KeySegment(part))
			cur, _ = cur.Field(part)
			continue
		}

		idx, ok := parseIndex(part)
		if !ok {
			prefix := strings.Join(parts[:i], Separator)
			return nil, errors.NewPathError(
				fmt.Sprintf("segment %q of %q is not an index into the array at %q", part, id, prefix),
				errors.ErrInvalidPath,
			)
		}
		path = append(path, models.IndexSegment(idx))
		cur, _ = cur.Index(idx)
	}
	return path, nil
}

// parseIndex accepts only canonical non-negative integers, so "01", "+1" and
// "-0" never alias an element.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}
