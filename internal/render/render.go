// Package render writes trees, change sets, batch candidates and search
// previews as terminal text.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mcncl/jsonedit/internal/formatter"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/olekukonko/tablewriter"
)

// Markers used for search hits when color is off.
const (
	HitOpen     = "«"
	HitClose    = "»"
	CurrentOpen = "»»"
	CurrentEnd  = "««"
)

// Renderer writes to Out, coloring output when Color is set.
type Renderer struct {
	Out   io.Writer
	Color bool

	changed  *color.Color
	selected *color.Color
	muted    *color.Color
	hit      *color.Color
	current  *color.Color
	added    *color.Color
}

// New creates a Renderer
func New(out io.Writer, useColor bool) *Renderer {
	r := &Renderer{
		Out:      out,
		Color:    useColor,
		changed:  color.New(color.FgHiYellow),
		selected: color.New(color.FgCyan, color.Bold),
		muted:    color.New(color.FgHiBlack),
		hit:      color.New(color.BgYellow, color.FgBlack),
		current:  color.New(color.BgHiRed, color.FgWhite, color.Bold),
		added:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{r.changed, r.selected, r.muted, r.hit, r.current, r.added} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Tree writes one line per node, indented two spaces per level. Changed
// nodes are marked with "*" and the selected node with ">".
func (r *Renderer) Tree(nodes []models.TreeNode, changes models.ChangeSet, selected string) {
	if len(nodes) == 0 {
		fmt.Fprintln(r.Out, r.muted.Sprint("(empty)"))
		return
	}
	r.tree(nodes, changes, selected, 0)
}

func (r *Renderer) tree(nodes []models.TreeNode, changes models.ChangeSet, selected string, depth int) {
	for _, n := range nodes {
		marker := " "
		title := n.Title
		switch {
		case n.IsPlaceholder:
			title = r.muted.Sprint(title)
		case n.Key == selected:
			marker = ">"
			title = r.selected.Sprint(title)
		case changes.Has(n.Key):
			marker = "*"
			title = r.changed.Sprint(title)
		}
		fmt.Fprintf(r.Out, "%s%s %s\n", marker, strings.Repeat("  ", depth), title)
		r.tree(n.Children, changes, selected, depth+1)
	}
}

// Changes lists changed paths in natural order.
func (r *Renderer) Changes(changes models.ChangeSet) {
	if len(changes) == 0 {
		fmt.Fprintln(r.Out, r.muted.Sprint("No changes"))
		return
	}
	fmt.Fprintf(r.Out, "%d changed path(s):\n", len(changes))
	for _, k := range changes.Sorted() {
		label := k
		if label == "" {
			label = "(root)"
		}
		fmt.Fprintf(r.Out, "  %s %s\n", r.changed.Sprint("~"), label)
	}
}

// Candidates writes the batch candidates as a table.
func (r *Renderer) Candidates(candidates []models.BatchCandidate) error {
	table := tablewriter.NewWriter(r.Out)
	table.Header("#", "Apply", "Path", "Title")
	for i, c := range candidates {
		mark := " "
		if c.Selected {
			mark = "x"
		}
		if err := table.Append([]string{strconv.Itoa(i + 1), mark, c.Key, c.Title}); err != nil {
			return err
		}
	}
	return table.Render()
}

// Value writes v pretty-printed with indent.
func (r *Renderer) Value(v *models.Value, indent int) {
	text := formatter.Pretty(v, indent)
	if r.Color {
		text = formatter.Colorize(text)
	}
	fmt.Fprintln(r.Out, text)
}

// Highlight returns text with every match marked and the match at cursor
// marked differently.
func (r *Renderer) Highlight(text string, matches []models.Match, cursor int) string {
	var b strings.Builder
	last := 0
	for i, m := range matches {
		b.WriteString(text[last:m.Start])
		hit := text[m.Start:m.End]
		switch {
		case r.Color && i == cursor:
			b.WriteString(r.current.Sprint(hit))
		case r.Color:
			b.WriteString(r.hit.Sprint(hit))
		case i == cursor:
			b.WriteString(CurrentOpen + hit + CurrentEnd)
		default:
			b.WriteString(HitOpen + hit + HitClose)
		}
		last = m.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// MatchStatus describes the cursor position, e.g. "match 2 of 5".
func (r *Renderer) MatchStatus(term string, total, cursor int) string {
	if total == 0 {
		return fmt.Sprintf("no matches for %q", term)
	}
	return fmt.Sprintf("match %d of %d for %q", cursor+1, total, term)
}

// Success writes a confirmation line.
func (r *Renderer) Success(format string, args ...any) {
	fmt.Fprintln(r.Out, r.added.Sprintf(format, args...))
}
