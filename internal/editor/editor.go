package editor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mcncl/jsonedit/internal/config"
	"github.com/mcncl/jsonedit/internal/diff"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/formatter"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/mutator"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/pathcodec"
	"github.com/mcncl/jsonedit/internal/search"
	"github.com/mcncl/jsonedit/internal/tree"
	"go.uber.org/zap"
)

// Stage marks a point in loading where the caller may repaint.
type Stage int

const (
	// StageRead is reported once the raw bytes are in memory.
	StageRead Stage = iota
	// StageParsed is reported once the document is parsed, before the tree
	// is built.
	StageParsed
)

func (s Stage) String() string {
	switch s {
	case StageRead:
		return "read"
	case StageParsed:
		return "parsed"
	default:
		return "unknown"
	}
}

// Progress receives load stages. It may be nil.
type Progress func(Stage)

// Batch is a batch edit in progress.
type Batch struct {
	Term       string
	Candidates []models.BatchCandidate
}

// State is everything the editor knows about the session. Documents held in
// a State are never modified once committed.
type State struct {
	Source   string // file name or label of the loaded document
	Original *models.Value
	Current  *models.Value
	Tree     []models.TreeNode // always built from Current
	Selected string
	Search   string
	Batch    *Batch
}

// Editor owns the session state and applies every operation to it.
type Editor struct {
	cfg     *config.Config
	logger  *zap.Logger
	builder *tree.Builder
	text    *search.TextIndex
	state   State
}

// New creates an editor with no document loaded
func New(cfg *config.Config, logger *zap.Logger) (*Editor, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	text, err := search.NewTextIndexWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Editor{
		cfg:     cfg,
		logger:  logger,
		builder: tree.NewBuilderWithConfig(cfg),
		text:    text,
	}, nil
}

// State returns a snapshot of the session.
func (e *Editor) State() State { return e.state }

// Loaded reports whether a document is loaded.
func (e *Editor) Loaded() bool { return e.state.Current != nil }

// Load reads and parses a document from r, replacing the whole session. On
// failure the previous session is kept.
func (e *Editor) Load(source string, r io.Reader, progress Progress) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.NewInputError("failed to read input", err)
	}
	return e.LoadBytes(source, data, progress)
}

// LoadFile loads the document stored at path.
func (e *Editor) LoadFile(path string, progress Progress) error {
	data, err := parser.ReadFile(path)
	if err != nil {
		return err
	}
	return e.LoadBytes(filepath.Base(path), data, progress)
}

// LoadBytes parses data as the new session document.
func (e *Editor) LoadBytes(source string, data []byte, progress Progress) error {
	report(progress, StageRead)
	e.logger.Debug("document read", zap.String("source", source), zap.Int("bytes", len(data)))

	doc, err := parser.ParseBytes(data)
	if err != nil {
		e.logger.Debug("document rejected", zap.String("source", source), zap.Error(err))
		return err
	}
	report(progress, StageParsed)

	e.state = State{
		Source:   source,
		Original: doc,
		Current:  doc.Clone(),
		Tree:     e.builder.Build(doc),
	}
	e.text.Reset()
	e.logger.Debug("document loaded", zap.String("source", source), zap.Int("nodes", tree.Count(e.state.Tree)))
	return nil
}

func report(progress Progress, s Stage) {
	if progress != nil {
		progress(s)
	}
}

// commit swaps in a new current document and rebuilds everything derived
// from it. Batches are dropped because their candidates may no longer exist.
func (e *Editor) commit(op string, next *models.Value) {
	e.state.Current = next
	e.state.Tree = e.builder.Build(next)
	e.state.Batch = nil
	e.refreshMatches()
	if e.state.Selected != "" {
		if _, ok := tree.Find(e.state.Tree, e.state.Selected); !ok {
			e.state.Selected = ""
		}
	}
	e.logger.Debug("document committed", zap.String("op", op), zap.Int("changes", len(e.Changes())))
}

func (e *Editor) requireDocument() error {
	if !e.Loaded() {
		return errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	return nil
}

// target resolves key, or the selection when key is empty.
func (e *Editor) target(key string) (models.Path, error) {
	if err := e.requireDocument(); err != nil {
		return nil, err
	}
	if key == "" {
		if e.state.Selected == "" {
			return nil, errors.NewStateError("select a node first", errors.ErrNoSelection)
		}
		key = e.state.Selected
	}
	return pathcodec.Decode(key, e.state.Current)
}

// Select records the node a tree widget reported. Placeholders, keys that
// are not in the tree and the empty key are rejected.
func (e *Editor) Select(key string) error {
	if err := e.requireDocument(); err != nil {
		return err
	}
	if key == "" {
		return errors.NewPathError("cannot select the empty key", errors.ErrInvalidPath)
	}
	node, ok := tree.Find(e.state.Tree, key)
	if !ok {
		return errors.NewPathError(fmt.Sprintf("no node %q in the tree", key), errors.ErrInvalidPath)
	}
	if node.IsPlaceholder {
		return errors.NewPathError(fmt.Sprintf("cannot select %q", key), errors.ErrPlaceholder)
	}
	e.state.Selected = key
	return nil
}

// ClearSelection forgets the selected node.
func (e *Editor) ClearSelection() { e.state.Selected = "" }

// Get returns the value at key, or at the selection when key is empty.
func (e *Editor) Get(key string) (*models.Value, error) {
	path, err := e.target(key)
	if err != nil {
		return nil, err
	}
	v := mutator.Get(e.state.Current, path)
	if v == nil {
		return nil, errors.NewPathError(fmt.Sprintf("nothing at %q", pathcodec.Encode(path)), errors.ErrInvalidPath)
	}
	return v, nil
}

// ValueText returns the compact JSON at key for prefilling an edit dialog.
func (e *Editor) ValueText(key string) (string, error) {
	v, err := e.Get(key)
	if err != nil {
		return "", err
	}
	return formatter.Compact(v), nil
}

// Edit replaces the value at key with the JSON in text.
func (e *Editor) Edit(key, text string) error {
	path, err := e.target(key)
	if err != nil {
		return err
	}
	value, err := parser.ParseValue(text)
	if err != nil {
		return err
	}
	next, err := mutator.Apply(e.state.Current, func(draft *models.Value) error {
		return mutator.Set(draft, path, value)
	})
	if err != nil {
		return err
	}
	e.commit("edit", next)
	return nil
}

// Add inserts the JSON in text under the container at key. Arrays append
// and ignore childKey.
func (e *Editor) Add(key, childKey, text string) error {
	path, err := e.target(key)
	if err != nil {
		return err
	}
	value, err := parser.ParseValue(text)
	if err != nil {
		return err
	}
	next, err := mutator.Apply(e.state.Current, func(draft *models.Value) error {
		return mutator.Insert(draft, path, childKey, value)
	})
	if err != nil {
		return err
	}
	e.commit("add", next)
	return nil
}

// AddToRoot inserts under the document root, which has no tree node to
// select.
func (e *Editor) AddToRoot(childKey, text string) error {
	if err := e.requireDocument(); err != nil {
		return err
	}
	value, err := parser.ParseValue(text)
	if err != nil {
		return err
	}
	next, err := mutator.Apply(e.state.Current, func(draft *models.Value) error {
		return mutator.Insert(draft, models.Path{}, childKey, value)
	})
	if err != nil {
		return err
	}
	e.commit("add", next)
	return nil
}

// Delete removes the value at key.
func (e *Editor) Delete(key string) error {
	path, err := e.target(key)
	if err != nil {
		return err
	}
	next, err := mutator.Apply(e.state.Current, func(draft *models.Value) error {
		return mutator.Delete(draft, path)
	})
	if err != nil {
		return err
	}
	if pathcodec.Encode(path) == e.state.Selected {
		e.state.Selected = ""
	}
	e.commit("delete", next)
	return nil
}

// Changes returns the paths where the current document differs from the
// one originally loaded.
func (e *Editor) Changes() models.ChangeSet {
	if !e.Loaded() {
		return models.ChangeSet{}
	}
	return diff.Diff(e.state.Original, e.state.Current)
}

// Patch returns the RFC 6902 patch from the original to the current document.
func (e *Editor) Patch() ([]byte, error) {
	if err := e.requireDocument(); err != nil {
		return nil, err
	}
	return diff.Patch(e.state.Original, e.state.Current)
}

// MergePatch returns the RFC 7386 merge patch from the original to the
// current document.
func (e *Editor) MergePatch() ([]byte, error) {
	if err := e.requireDocument(); err != nil {
		return nil, err
	}
	return diff.MergePatch(e.state.Original, e.state.Current)
}

// ApplyPatch applies an RFC 6902 patch, or an RFC 7386 merge patch when
// merge is set, to the current document.
func (e *Editor) ApplyPatch(patch []byte, merge bool) error {
	if err := e.requireDocument(); err != nil {
		return err
	}
	apply := diff.ApplyPatch
	if merge {
		apply = diff.ApplyMergePatch
	}
	next, err := apply(e.state.Current, patch)
	if err != nil {
		return err
	}
	e.commit("patch", next)
	return nil
}

// Pretty returns the current document with the configured indent.
func (e *Editor) Pretty() (string, error) {
	if err := e.requireDocument(); err != nil {
		return "", err
	}
	return formatter.Pretty(e.state.Current, e.cfg.Export.Indent), nil
}

// Export writes the pretty-printed document to target. A directory target
// receives the configured export file name. It returns the path written.
func (e *Editor) Export(target string) (string, error) {
	text, err := e.Pretty()
	if err != nil {
		return "", err
	}
	if target == "" {
		target = "."
	}
	if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
		target = filepath.Join(target, e.cfg.Export.FileName)
	}
	if err := os.WriteFile(target, []byte(text+"\n"), 0o644); err != nil {
		return "", errors.NewOutputError(fmt.Sprintf("failed to write %q", target), err)
	}
	e.logger.Debug("document exported", zap.String("path", target))
	return target, nil
}
