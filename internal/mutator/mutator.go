// Package mutator reads and edits documents by Path.
//
// Set, Insert and Delete change the document they are given and leave it
// untouched when they fail. Callers that need rollback pass a copy, or use
// Apply, and commit the copy only on success.
package mutator

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/agnivade/levenshtein"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/pathcodec"
)

// Get returns the value at path, or nil when any step is missing. The empty
// path returns doc itself.
func Get(doc *models.Value, path models.Path) *models.Value {
	cur := doc
	for _, seg := range path {
		next, ok := step(cur, seg)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Set assigns value at path. Object keys are created or overwritten in
// place; array indices past the end pad the gap with null.
func Set(doc *models.Value, path models.Path, value *models.Value) error {
	parent, last, err := resolveParent(doc, path, "set")
	if err != nil {
		return err
	}

	switch parent.Kind() {
	case models.Object:
		parent.SetField(last.Text(), value)
		return nil
	case models.Array:
		idx, ok := segmentIndex(last)
		if !ok {
			return invalidIndex(path, last)
		}
		parent.SetIndex(idx, value)
		return nil
	default:
		return notContainer(path[:len(path)-1], parent)
	}
}

// Insert adds value under the container at parentPath. Arrays append and
// ignore key; objects assign key, overwriting any existing member.
func Insert(doc *models.Value, parentPath models.Path, key string, value *models.Value) error {
	parent, err := resolve(doc, parentPath)
	if err != nil {
		return err
	}

	switch parent.Kind() {
	case models.Array:
		parent.Append(value)
		return nil
	case models.Object:
		parent.SetField(key, value)
		return nil
	default:
		return notContainer(parentPath, parent)
	}
}

// Delete removes the value at path. Array elements after it shift down by
// one; object members are removed outright, keeping the order of the rest.
func Delete(doc *models.Value, path models.Path) error {
	parent, last, err := resolveParent(doc, path, "delete")
	if err != nil {
		return err
	}

	switch parent.Kind() {
	case models.Object:
		if !parent.DeleteField(last.Text()) {
			return missing(path[:len(path)-1], parent, last)
		}
		return nil
	case models.Array:
		idx, ok := segmentIndex(last)
		if !ok || !parent.RemoveIndex(idx) {
			return invalidIndex(path, last)
		}
		return nil
	default:
		return notContainer(path[:len(path)-1], parent)
	}
}

// Apply runs fn against a deep copy of doc and returns the copy. doc is never
// modified; on error the copy is discarded.
func Apply(doc *models.Value, fn func(draft *models.Value) error) (*models.Value, error) {
	draft := doc.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func step(cur *models.Value, seg models.Segment) (*models.Value, bool) {
	switch cur.Kind() {
	case models.Object:
		return cur.Field(seg.Text())
	case models.Array:
		idx, ok := segmentIndex(seg)
		if !ok {
			return nil, false
		}
		return cur.Index(idx)
	default:
		return nil, false
	}
}

// resolve walks path strictly, failing at the first missing step.
func resolve(doc *models.Value, path models.Path) (*models.Value, error) {
	if doc == nil {
		return nil, errors.NewPathError("document is empty", errors.ErrInvalidPath)
	}
	cur := doc
	for i, seg := range path {
		next, ok := step(cur, seg)
		if !ok {
			if cur.IsLeaf() {
				return nil, notContainer(path[:i], cur)
			}
			return nil, missing(path[:i], cur, seg)
		}
		cur = next
	}
	return cur, nil
}

func resolveParent(doc *models.Value, path models.Path, op string) (*models.Value, models.Segment, error) {
	parentPath, last, ok := path.Parent()
	if !ok {
		return nil, models.Segment{}, errors.NewPathError(
			fmt.Sprintf("cannot %s the document root", op),
			fmt.Errorf("%w: %w", errors.ErrInvalidPath, errors.ErrEmptyPath),
		)
	}
	parent, err := resolve(doc, parentPath)
	if err != nil {
		return nil, models.Segment{}, err
	}
	return parent, last, nil
}

// segmentIndex reads an index from seg. Key segments qualify only when they
// spell a canonical non-negative integer.
func segmentIndex(seg models.Segment) (int, bool) {
	if seg.IsIndex {
		return seg.Index, seg.Index >= 0
	}
	n, err := strconv.Atoi(seg.Key)
	if err != nil || n < 0 || strconv.Itoa(n) != seg.Key {
		return 0, false
	}
	return n, true
}

func location(p models.Path) string {
	if len(p) == 0 {
		return "the document root"
	}
	return fmt.Sprintf("%q", pathcodec.Encode(p))
}

func missing(at models.Path, container *models.Value, seg models.Segment) error {
	if container.IsArray() {
		return invalidIndex(at.Child(seg), seg)
	}
	msg := fmt.Sprintf("key %q not found at %s", seg.Text(), location(at))
	if s := Suggest(seg.Text(), container.Keys()); s != "" {
		msg += fmt.Sprintf("; did you mean %q?", s)
	}
	return errors.NewPathError(msg, errors.ErrInvalidPath)
}

func invalidIndex(path models.Path, seg models.Segment) error {
	return errors.NewPathError(
		fmt.Sprintf("%q is not a valid index for %q", seg.Text(), pathcodec.Encode(path)),
		errors.ErrInvalidPath,
	)
}

func notContainer(at models.Path, v *models.Value) error {
	return errors.NewPathError(
		fmt.Sprintf("value at %s is a %s", location(at), v.Kind()),
		fmt.Errorf("%w: %w", errors.ErrInvalidPath, errors.ErrNotContainer),
	)
}

// Suggest returns the key closest to want by edit distance, or "" when no key
// is close enough to be a plausible typo.
func Suggest(want string, keys []string) string {
	best, bestDist := "", -1
	for _, k := range keys {
		d := levenshtein.ComputeDistance(want, k)
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	limit := len([]rune(want)) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// IsInvalidPath reports whether err means the path did not resolve.
func IsInvalidPath(err error) bool {
	return stderrors.Is(err, errors.ErrInvalidPath)
}
