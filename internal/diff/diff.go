package diff

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/formatter"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/pathcodec"
	"github.com/wI2L/jsondiff"
)

// Diff returns the encoded paths where current differs from original. A
// change of kind, or a value present on one side only, marks the path and
// stops descent. Null and absent count as the same, so a member that is null
// on one side and missing on the other is not a change.
func Diff(original, current *models.Value) models.ChangeSet {
	changes := models.ChangeSet{}
	walk(original, current, models.Path{}, changes)
	return changes
}

// class collapses null and absent into one kind.
func class(v *models.Value) models.Kind {
	if v.IsNullish() {
		return models.Null
	}
	return v.Kind()
}

func walk(a, b *models.Value, path models.Path, changes models.ChangeSet) {
	ca, cb := class(a), class(b)
	if ca != cb {
		changes.Add(pathcodec.Encode(path))
		return
	}

	switch ca {
	case models.Null:
		return
	case models.Array:
		n := a.Len()
		if b.Len() > n {
			n = b.Len()
		}
		for i := 0; i < n; i++ {
			ea, _ := a.Index(i)
			eb, _ := b.Index(i)
			walk(ea, eb, path.Child(models.IndexSegment(i)), changes)
		}
	case models.Object:
		for _, k := range unionKeys(a, b) {
			ma, _ := a.Field(k)
			mb, _ := b.Field(k)
			walk(ma, mb, path.Child(models.KeySegment(k)), changes)
		}
	default:
		if !a.Equal(b) {
			changes.Add(pathcodec.Encode(path))
		}
	}
}

// unionKeys lists the keys of a in order, then the keys only b has.
func unionKeys(a, b *models.Value) []string {
	keys := a.Keys()
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	for _, k := range b.Keys() {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Patch returns the RFC 6902 operations that turn original into current.
func Patch(original, current *models.Value) ([]byte, error) {
	ops, err := jsondiff.CompareJSON(compact(original), compact(current))
	if err != nil {
		return nil, errors.NewOutputError("failed to compute JSON patch", err)
	}
	if len(ops) == 0 {
		return []byte("[]"), nil
	}
	out, err := json.Marshal(ops)
	if err != nil {
		return nil, errors.NewOutputError("failed to encode JSON patch", err)
	}
	return out, nil
}

// MergePatch returns the RFC 7386 merge patch that turns original into
// current.
func MergePatch(original, current *models.Value) ([]byte, error) {
	out, err := jsonpatch.CreateMergePatch(compact(original), compact(current))
	if err != nil {
		return nil, errors.NewOutputError("failed to compute merge patch", err)
	}
	return out, nil
}

// ApplyPatch applies an RFC 6902 patch document to doc and returns the
// result. doc is not modified.
func ApplyPatch(doc *models.Value, patch []byte) (*models.Value, error) {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, errors.NewParsingError("patch is not a valid RFC 6902 document", err)
	}
	out, err := p.Apply(compact(doc))
	if err != nil {
		return nil, errors.NewPathError(fmt.Sprintf("failed to apply patch: %v", err), errors.ErrInvalidPath)
	}
	return parser.ParseBytes(out)
}

// ApplyMergePatch applies an RFC 7386 merge patch to doc and returns the
// result. doc is not modified.
func ApplyMergePatch(doc *models.Value, patch []byte) (*models.Value, error) {
	out, err := jsonpatch.MergePatch(compact(doc), patch)
	if err != nil {
		return nil, errors.NewParsingError("merge patch could not be applied", err)
	}
	return parser.ParseBytes(out)
}

// Equivalent reports whether two JSON texts hold the same document.
func Equivalent(a, b []byte) bool {
	return jsonpatch.Equal(a, b)
}

func compact(v *models.Value) []byte {
	return formatter.AppendCompact(nil, v)
}
