package formatter

import (
	"strings"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

func init() {
	// Keep <, > and & readable in previews and exports. gjson only offers this
	// as a package setting, so it applies to every gjson caller in the binary.
	gjson.DisableEscapeHTML = true
}

// DefaultIndent is the indent width used for exports and previews.
const DefaultIndent = 2

// Formatter serializes documents as JSON text
type Formatter struct {
	Indent int // 0 means compact output
	Color  bool
}

// NewFormatter creates a new Formatter with a 2-space indent and no color
func NewFormatter() *Formatter {
	return &Formatter{Indent: DefaultIndent}
}

// Format serializes v. An absent value cannot be serialized.
func (f *Formatter) Format(v *models.Value) (string, error) {
	if v == nil {
		return "", errors.NewOutputError("nothing to format", errors.ErrNoDocument)
	}
	out := Pretty(v, f.Indent)
	if f.Color {
		out = Colorize(out)
	}
	return out, nil
}

// Compact returns v as single-line JSON.
func Compact(v *models.Value) string {
	return string(AppendCompact(nil, v))
}

// AppendCompact appends the compact JSON encoding of v to dst. Absent values
// encode as null.
func AppendCompact(dst []byte, v *models.Value) []byte {
	switch v.Kind() {
	case models.Bool:
		if v.Bool() {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case models.Number:
		return append(dst, v.Literal()...)
	case models.String:
		return gjson.AppendJSONString(dst, v.Str())
	case models.Array:
		dst = append(dst, '[')
		for i, elem := range v.Items() {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendCompact(dst, elem)
		}
		return append(dst, ']')
	case models.Object:
		dst = append(dst, '{')
		for i, key := range v.Keys() {
			if i > 0 {
				dst = append(dst, ',')
			}
			member, _ := v.Field(key)
			dst = gjson.AppendJSONString(dst, key)
			dst = append(dst, ':')
			dst = AppendCompact(dst, member)
		}
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

// Pretty returns v with every member and element on its own line, indented
// by indent spaces per level. Empty containers stay as {} and [].
func Pretty(v *models.Value, indent int) string {
	compact := AppendCompact(nil, v)
	if indent <= 0 {
		return string(compact)
	}
	out := pretty.PrettyOptions(compact, &pretty.Options{
		Width:  -1,
		Indent: strings.Repeat(" ", indent),
	})
	return strings.TrimSuffix(string(out), "\n")
}

// Colorize adds terminal colors to JSON text.
func Colorize(text string) string {
	return string(pretty.Color([]byte(text), pretty.TerminalStyle))
}
