package cli

import (
	"fmt"

	"github.com/mcncl/jsonedit/internal/diff"
	"github.com/mcncl/jsonedit/internal/editor"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/parser"
	"go.uber.org/zap"
)

// OutputFlags choose where an edited document goes.
type OutputFlags struct {
	Output  string `help:"Write the result to this file, or to the export file name inside this directory." short:"o" type:"path" xor:"destination"`
	InPlace bool   `help:"Overwrite the input file." short:"w" xor:"destination"`
	Changes bool   `help:"Print the changed paths instead of the document."`
}

// emit writes the edited document according to the flags. Without -o or -w
// it goes to stdout.
func (o OutputFlags) emit(app *App, ed *editor.Editor, input string) error {
	if o.InPlace && input == Stdin {
		return errors.NewInputError("cannot write standard input in place", errors.ErrInvalidFilePath)
	}

	if o.Changes {
		app.Renderer().Changes(ed.Changes())
	}

	target := o.Output
	if o.InPlace {
		target = input
	}
	if target != "" {
		written, err := ed.Export(target)
		if err != nil {
			return err
		}
		app.Notices().Success("Wrote %s", written)
		return nil
	}

	if o.Changes {
		return nil
	}
	app.Renderer().Value(ed.State().Current, app.Config.Export.Indent)
	return nil
}

// TreeCmd prints the navigation tree
type TreeCmd struct {
	File   string `arg:"" help:"JSON file to read, or - for stdin." type:"existingfile"`
	Search string `help:"Only show nodes whose title contains this text." short:"s"`
}

// Run executes the tree command
func (c *TreeCmd) Run(app *App) error {
	ed, err := app.Load(c.File)
	if err != nil {
		return err
	}
	ed.SetSearch(c.Search)
	app.Renderer().Tree(ed.FilteredTree(), ed.Changes(), "")
	return nil
}

// GetCmd prints a value
type GetCmd struct {
	File string `arg:"" help:"JSON file to read, or - for stdin." type:"existingfile"`
	Path string `arg:"" optional:"" help:"Dot-separated path, e.g. users.0.name. Omit for the whole document."`
}

// Run executes the get command
func (c *GetCmd) Run(app *App) error {
	ed, err := app.Load(c.File)
	if err != nil {
		return err
	}
	v := ed.State().Current
	if c.Path != "" {
		if v, err = ed.Get(c.Path); err != nil {
			return err
		}
	}
	app.Renderer().Value(v, app.Config.Export.Indent)
	return nil
}

// SetCmd replaces a value
type SetCmd struct {
	File   string      `arg:"" help:"JSON file to edit, or - for stdin." type:"existingfile"`
	Path   string      `arg:"" help:"Dot-separated path of the value to replace."`
	Value  string      `arg:"" help:"New value as JSON text, e.g. 42 or '\"text\"'."`
	Output OutputFlags `embed:""`
}

// Run executes the set command
func (c *SetCmd) Run(app *App) error {
	ed, err := app.Load(c.File)
	if err != nil {
		return err
	}
	if err := ed.Edit(c.Path, c.Value); err != nil {
		return err
	}
	return c.Output.emit(app, ed, c.File)
}

// AddCmd adds a value to a container
type AddCmd struct {
	File   string      `arg:"" help:"JSON file to edit, or - for stdin." type:"existingfile"`
	Parent string      `arg:"" help:"Path of the object or array to add to. Use \"\" for the root."`
	Value  string      `arg:"" help:"Value as JSON text."`
	Key    string      `help:"Key for the new member when the parent is an object." short:"k"`
	Output OutputFlags `embed:""`
}

// Run executes the add command
func (c *AddCmd) Run(app *App) error {
	ed, err := app.Load(c.File)
	if err != nil {
		return err
	}
	if c.Parent == "" {
		err = ed.AddToRoot(c.Key, c.Value)
	} else {
		err = ed.Add(c.Parent, c.Key, c.Value)
	}
	if err != nil {
		return err
	}
	return c.Output.emit(app, ed, c.File)
}

// DeleteCmd removes a value
type DeleteCmd struct {
	File   string      `arg:"" help:"JSON file to edit, or - for stdin." type:"existingfile"`
	Path   string      `arg:"" help:"Dot-separated path of the value to delete."`
	Output OutputFlags `embed:""`
}

// Run executes the delete command
func (c *DeleteCmd) Run(app *App) error {
	ed, err := app.Load(c.File)
	if err != nil {
		return err
	}
	if err := ed.Delete(c.Path); err != nil {
		return err
	}
	return c.Output.emit(app, ed, c.File)
}

// BatchCmd sets every matching leaf to one value
type BatchCmd struct {
	File    string      `arg:"" help:"JSON file to edit, or - for stdin." type:"existingfile"`
	Value   string      `arg:"" help:"Value as JSON text."`
	Search  string      `help:"Leaves whose title contains this text are updated." short:"s" required:""`
	Exclude []string    `help:"Paths to leave out of the batch." short:"x"`
	DryRun  bool        `help:"List the candidates without changing anything." short:"n"`
	Output  OutputFlags `embed:""`
}

// Run executes the batch command
func (c *BatchCmd) Run(app *App) error {
	ed, err := app.Load(c.File)
	if err != nil {
		return err
	}
	ed.SetSearch(c.Search)
	if _, err := ed.BeginBatch(); err != nil {
		return err
	}
	for _, key := range c.Exclude {
		if err := ed.SetCandidate(key, false); err != nil {
			return err
		}
	}

	if c.DryRun {
		return app.Renderer().Candidates(ed.Candidates())
	}

	n, err := ed.ApplyBatch(c.Value)
	if err != nil {
		return err
	}
	app.Logger.Debug("batch finished", zap.String("term", c.Search), zap.Int("updated", n))
	app.Notices().Success("Updated %d field(s)", n)
	return c.Output.emit(app, ed, c.File)
}

// DiffCmd compares two documents
type DiffCmd struct {
	Original string `arg:"" help:"Original JSON file." type:"existingfile"`
	Current  string `arg:"" help:"Edited JSON file." type:"existingfile"`
	Patch    bool   `help:"Print an RFC 6902 JSON Patch." xor:"format"`
	Merge    bool   `help:"Print an RFC 7386 merge patch." xor:"format"`
}

// Run executes the diff command
func (c *DiffCmd) Run(app *App) error {
	original, err := app.parse(c.Original)
	if err != nil {
		return err
	}
	current, err := app.parse(c.Current)
	if err != nil {
		return err
	}

	var patch []byte
	switch {
	case c.Patch:
		patch, err = diff.Patch(original, current)
	case c.Merge:
		patch, err = diff.MergePatch(original, current)
	default:
		app.Renderer().Changes(diff.Diff(original, current))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Out, string(patch))
	return nil
}

func (a *App) parse(path string) (*models.Value, error) {
	data, err := a.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.ParseBytes(data)
}

// ApplyCmd applies a patch file
type ApplyCmd struct {
	File   string      `arg:"" help:"JSON file to edit, or - for stdin." type:"existingfile"`
	Patch  string      `arg:"" help:"Patch file." type:"existingfile"`
	Merge  bool        `help:"Treat the patch as an RFC 7386 merge patch." short:"m"`
	Output OutputFlags `embed:""`
}

// Run executes the apply command
func (c *ApplyCmd) Run(app *App) error {
	ed, err := app.Load(c.File)
	if err != nil {
		return err
	}
	patch, err := app.ReadFile(c.Patch)
	if err != nil {
		return err
	}
	if err := ed.ApplyPatch(patch, c.Merge); err != nil {
		return err
	}
	return c.Output.emit(app, ed, c.File)
}

// FindCmd highlights a term in the preview
type FindCmd struct {
	File  string `arg:"" help:"JSON file to read, or - for stdin." type:"existingfile"`
	Term  string `arg:"" help:"Text to find, matched case-insensitively."`
	Match int    `help:"Focus this match, counting from 1." short:"m" default:"1"`
}

// Run executes the find command
func (c *FindCmd) Run(app *App) error {
	ed, err := app.Load(c.File)
	if err != nil {
		return err
	}
	matches, err := ed.Find(c.Term)
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		ed.SeekMatch(c.Match - 1)
	}
	_, cursor, _ := ed.Match()

	r := app.Renderer()
	fmt.Fprintln(app.Out, r.Highlight(ed.PreviewText(), matches, cursor))
	fmt.Fprintln(app.Err, r.MatchStatus(c.Term, len(matches), cursor))
	return nil
}

// PreviewCmd prints or copies the pretty document
type PreviewCmd struct {
	File string `arg:"" help:"JSON file to read, or - for stdin." type:"existingfile"`
	Copy bool   `help:"Copy the preview to the clipboard instead of printing it."`
}

// Run executes the preview command
func (c *PreviewCmd) Run(app *App) error {
	ed, err := app.Load(c.File)
	if err != nil {
		return err
	}
	if !c.Copy {
		app.Renderer().Value(ed.State().Current, app.Config.Export.Indent)
		return nil
	}
	return copyPreview(app, ed)
}

func copyPreview(app *App, ed *editor.Editor) error {
	text, err := ed.Pretty()
	if err != nil {
		return err
	}
	if err := app.Clipboard(text); err != nil {
		return errors.NewOutputError("failed to copy to clipboard", err)
	}
	app.Notices().Success("Copied %d bytes to the clipboard", len(text))
	return nil
}

// ShellCmd starts an interactive session
type ShellCmd struct {
	File string `arg:"" optional:"" help:"JSON file to open." type:"existingfile"`
}

// Run executes the shell command
func (c *ShellCmd) Run(app *App) error {
	ed, err := app.NewEditor()
	if err != nil {
		return err
	}
	sh := NewShell(app, ed)
	if c.File != "" {
		if err := sh.open(c.File); err != nil {
			return err
		}
	}
	return sh.Run()
}
