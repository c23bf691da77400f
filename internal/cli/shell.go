package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/jsonedit/internal/editor"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/render"
	"go.uber.org/zap"
)

// RootParent names the document root where a shell command takes a parent.
const RootParent = "/"

const shellHelp = `Commands:
  open FILE              load a document
  tree                   show the tree, filtered by the search term
  search [TERM]          set or clear the search term
  select KEY             select a node
  get [KEY]              print a value (default: selection)
  set KEY VALUE          replace a value
  edit VALUE             replace the selected value
  add PARENT [KEY] VALUE add under PARENT ("/" for the root)
  delete [KEY]           delete a value (default: selection)
  batch                  list leaves matching the search term
  toggle KEY             include or exclude a batch candidate
  apply VALUE            set every selected candidate to VALUE
  cancel                 abandon the batch
  changes                list changed paths
  patch [merge]          print a JSON Patch or merge patch
  find TERM              highlight TERM in the preview
  next / prev            move between matches
  preview                print the pretty document
  copy                   copy the preview to the clipboard
  export [PATH]          write the document
  help                   show this text
  quit                   leave the shell`

// Shell is a line-oriented editing session over an Editor.
type Shell struct {
	app *App
	ed  *editor.Editor
	out *render.Renderer
	err *render.Renderer
}

// NewShell creates a shell that reads commands from app.In
func NewShell(app *App, ed *editor.Editor) *Shell {
	return &Shell{
		app: app,
		ed:  ed,
		out: app.Renderer(),
		err: app.Notices(),
	}
}

// Run reads commands until quit or end of input. Command errors are reported
// and the session continues.
func (s *Shell) Run() error {
	fmt.Fprintln(s.app.Err, "jsonedit shell. Type help for commands.")
	scanner := bufio.NewScanner(s.app.In)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for {
		fmt.Fprint(s.app.Err, s.prompt())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := s.Exec(line)
		if err != nil {
			s.app.Logger.Debug("shell command failed", zap.String("line", line), zap.Error(err))
			fmt.Fprintln(s.app.Err, errors.UserFriendlyError(err))
		}
		if quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.NewInputError("error reading input", err)
	}
	return nil
}

func (s *Shell) prompt() string {
	st := s.ed.State()
	if st.Source == "" {
		return "> "
	}
	if n := len(s.ed.Changes()); n > 0 {
		return fmt.Sprintf("%s*%d> ", st.Source, n)
	}
	return st.Source + "> "
}

// Exec runs one command line. It reports whether the session should end.
func (s *Shell) Exec(line string) (bool, error) {
	name, rest := cut(line)
	switch name {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(s.app.Out, shellHelp)
		return false, nil
	case "open", "load":
		return false, s.open(rest)
	}

	handler, ok := s.handlers()[name]
	if !ok {
		return false, errors.NewInputError(fmt.Sprintf("unknown command %q, type help", name), nil)
	}
	return false, handler(rest)
}

func (s *Shell) handlers() map[string]func(string) error {
	return map[string]func(string) error{
		"tree":    s.tree,
		"search":  s.search,
		"select":  s.selectNode,
		"get":     s.get,
		"set":     s.set,
		"edit":    s.edit,
		"add":     s.add,
		"delete":  s.delete,
		"rm":      s.delete,
		"batch":   s.batch,
		"toggle":  s.toggle,
		"apply":   s.apply,
		"cancel":  s.cancel,
		"changes": s.changes,
		"patch":   s.patch,
		"find":    s.find,
		"next":    s.next,
		"prev":    s.prev,
		"preview": s.preview,
		"copy":    s.copy,
		"export":  s.export,
	}
}

func (s *Shell) open(path string) error {
	if path == "" {
		return errors.NewInputError("usage: open FILE", errors.ErrInvalidFilePath)
	}
	progress := func(st editor.Stage) {
		s.app.Logger.Debug("load progress", zap.Stringer("stage", st))
	}
	if err := s.ed.LoadFile(path, progress); err != nil {
		return err
	}
	s.err.Success("Loaded %s", s.ed.State().Source)
	return nil
}

func (s *Shell) tree(string) error {
	if !s.ed.Loaded() {
		return errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	st := s.ed.State()
	s.out.Tree(s.ed.FilteredTree(), s.ed.Changes(), st.Selected)
	return nil
}

func (s *Shell) search(term string) error {
	s.ed.SetSearch(term)
	return s.tree("")
}

func (s *Shell) selectNode(key string) error {
	if err := s.ed.Select(key); err != nil {
		return err
	}
	text, err := s.ed.ValueText("")
	if err != nil {
		return err
	}
	fmt.Fprintln(s.app.Out, text)
	return nil
}

func (s *Shell) get(key string) error {
	v, err := s.ed.Get(key)
	if err != nil {
		return err
	}
	s.out.Value(v, s.app.Config.Export.Indent)
	return nil
}

func (s *Shell) set(args string) error {
	key, value := cut(args)
	if value == "" {
		return errors.NewInputError("usage: set KEY VALUE", nil)
	}
	return s.ed.Edit(key, value)
}

func (s *Shell) edit(value string) error {
	return s.ed.Edit("", value)
}

func (s *Shell) add(args string) error {
	parent, rest := cut(args)
	if rest == "" {
		return errors.NewInputError("usage: add PARENT [KEY] VALUE", nil)
	}

	key, value := "", rest
	if parent == RootParent || s.isObject(parent) {
		key, value = cut(rest)
		if value == "" {
			return errors.NewInputError("usage: add PARENT KEY VALUE", nil)
		}
	}

	if parent == RootParent {
		return s.ed.AddToRoot(key, value)
	}
	return s.ed.Add(parent, key, value)
}

func (s *Shell) isObject(key string) bool {
	v, err := s.ed.Get(key)
	return err == nil && v.IsObject()
}

func (s *Shell) delete(key string) error {
	return s.ed.Delete(key)
}

func (s *Shell) batch(string) error {
	candidates, err := s.ed.BeginBatch()
	if err != nil {
		return err
	}
	return s.out.Candidates(candidates)
}

func (s *Shell) toggle(key string) error {
	key = s.candidateKey(key)
	if err := s.ed.ToggleCandidate(key); err != nil {
		return err
	}
	return s.out.Candidates(s.ed.Candidates())
}

// candidateKey resolves a row number from the candidates table to its key.
// Keys that name a candidate are returned unchanged.
func (s *Shell) candidateKey(arg string) string {
	candidates := s.ed.Candidates()
	for _, c := range candidates {
		if c.Key == arg {
			return arg
		}
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(candidates) {
		return candidates[n-1].Key
	}
	return arg
}

func (s *Shell) apply(value string) error {
	n, err := s.ed.ApplyBatch(value)
	if err != nil {
		return err
	}
	s.err.Success("Updated %d field(s)", n)
	return nil
}

func (s *Shell) cancel(string) error {
	s.ed.CancelBatch()
	return nil
}

func (s *Shell) changes(string) error {
	s.out.Changes(s.ed.Changes())
	return nil
}

func (s *Shell) patch(mode string) error {
	var (
		data []byte
		err  error
	)
	if mode == "merge" {
		data, err = s.ed.MergePatch()
	} else {
		data, err = s.ed.Patch()
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(s.app.Out, string(data))
	return nil
}

func (s *Shell) find(term string) error {
	if _, err := s.ed.Find(term); err != nil {
		return err
	}
	s.showMatches(term)
	return nil
}

func (s *Shell) next(string) error {
	return s.step(s.ed.NextMatch)
}

func (s *Shell) prev(string) error {
	return s.step(s.ed.PrevMatch)
}

// step refreshes the last find against the current document, then moves the
// cursor.
func (s *Shell) step(move func() (models.Match, bool)) error {
	term := s.ed.FindTerm()
	if term == "" {
		return errors.NewStateError("use find TERM first", errors.ErrEmptySearch)
	}
	if _, err := s.ed.Find(term); err != nil {
		return err
	}
	move()
	s.showMatches(term)
	return nil
}

func (s *Shell) showMatches(term string) {
	matches := s.ed.Matches()
	_, cursor, _ := s.ed.Match()
	fmt.Fprintln(s.app.Out, s.out.Highlight(s.ed.PreviewText(), matches, cursor))
	fmt.Fprintln(s.app.Err, s.out.MatchStatus(term, len(matches), cursor))
}

func (s *Shell) preview(string) error {
	if !s.ed.Loaded() {
		return errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	s.out.Value(s.ed.State().Current, s.app.Config.Export.Indent)
	return nil
}

func (s *Shell) copy(string) error {
	return copyPreview(s.app, s.ed)
}

func (s *Shell) export(path string) error {
	if path == "" {
		path = "."
	}
	written, err := s.ed.Export(path)
	if err != nil {
		return err
	}
	s.err.Success("Wrote %s", written)
	return nil
}

// cut splits off the first whitespace-separated word.
func cut(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}
