package editor

import (
	"fmt"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/formatter"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/mcncl/jsonedit/internal/mutator"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/search"
	"go.uber.org/zap"
)

// SetSearch sets the tree search term. Any batch in progress is dropped.
func (e *Editor) SetSearch(term string) {
	if term != e.state.Search {
		e.state.Batch = nil
	}
	e.state.Search = term
}

// FilteredTree returns the tree pruned to nodes matching the search term.
func (e *Editor) FilteredTree() []models.TreeNode {
	return search.FilterTree(e.state.Tree, e.state.Search)
}

// BeginBatch collects every leaf matching the search term as a selected
// candidate.
func (e *Editor) BeginBatch() ([]models.BatchCandidate, error) {
	if err := e.requireDocument(); err != nil {
		return nil, err
	}
	if e.state.Search == "" {
		return nil, errors.NewStateError("enter a search term first", errors.ErrEmptySearch)
	}
	candidates := search.CollectMatchedLeaves(e.state.Tree, e.state.Search)
	if len(candidates) == 0 {
		return nil, errors.NewStateError(fmt.Sprintf("no leaf matches %q", e.state.Search), errors.ErrNoMatches)
	}
	e.state.Batch = &Batch{Term: e.state.Search, Candidates: candidates}
	e.logger.Debug("batch started", zap.String("term", e.state.Search), zap.Int("candidates", len(candidates)))
	return e.Candidates(), nil
}

// Candidates returns a copy of the batch candidates, or nil when no batch is
// in progress.
func (e *Editor) Candidates() []models.BatchCandidate {
	if e.state.Batch == nil {
		return nil
	}
	out := make([]models.BatchCandidate, len(e.state.Batch.Candidates))
	copy(out, e.state.Batch.Candidates)
	return out
}

// SetCandidate selects or deselects the candidate with key.
func (e *Editor) SetCandidate(key string, selected bool) error {
	if e.state.Batch == nil {
		return errors.NewStateError("no batch edit in progress", errors.ErrNoMatches)
	}
	for i := range e.state.Batch.Candidates {
		if e.state.Batch.Candidates[i].Key == key {
			e.state.Batch.Candidates[i].Selected = selected
			return nil
		}
	}
	return errors.NewStateError(fmt.Sprintf("%q is not a batch candidate", key), errors.ErrInvalidPath)
}

// ToggleCandidate flips the selection of the candidate with key.
func (e *Editor) ToggleCandidate(key string) error {
	if e.state.Batch != nil {
		for _, c := range e.state.Batch.Candidates {
			if c.Key == key {
				return e.SetCandidate(key, !c.Selected)
			}
		}
	}
	return e.SetCandidate(key, false)
}

// CancelBatch drops the batch in progress.
func (e *Editor) CancelBatch() { e.state.Batch = nil }

// ApplyBatch sets every selected candidate to the JSON in text on one shared
// copy and commits it. The value is parsed once, before any path is touched;
// if any assignment fails nothing is committed. It returns the number of
// fields changed.
func (e *Editor) ApplyBatch(text string) (int, error) {
	if err := e.requireDocument(); err != nil {
		return 0, err
	}
	if e.state.Batch == nil {
		return 0, errors.NewStateError("no batch edit in progress", errors.ErrNoMatches)
	}
	value, err := parser.ParseValue(text)
	if err != nil {
		return 0, err
	}

	count := 0
	next, err := mutator.Apply(e.state.Current, func(draft *models.Value) error {
		for _, c := range e.state.Batch.Candidates {
			if !c.Selected {
				continue
			}
			if err := mutator.Set(draft, c.Path, value.Clone()); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, errors.NewStateError("no batch candidates selected", errors.ErrNoSelection)
	}

	e.commit("batch", next)
	e.logger.Debug("batch applied", zap.Int("fields", count))
	return count, nil
}

// Find searches the pretty-printed document for term, case-insensitively.
// Repeating the same term on an unchanged document keeps the cursor.
func (e *Editor) Find(term string) ([]models.Match, error) {
	text, err := e.Pretty()
	if err != nil {
		return nil, err
	}
	rebuilt, err := e.text.Update(term, text)
	if err != nil {
		// treated as no matches
		e.logger.Debug("search term rejected", zap.String("term", term), zap.Error(err))
	}
	if !rebuilt {
		e.logger.Debug("search unchanged, reusing matches", zap.String("term", term))
	}
	return e.text.Matches(), nil
}

// Match returns the match under the cursor and its position.
func (e *Editor) Match() (models.Match, int, bool) {
	m, ok := e.text.Current()
	return m, e.text.Cursor(), ok
}

// NextMatch advances the search cursor, wrapping at the end.
func (e *Editor) NextMatch() (models.Match, bool) { return e.text.Next() }

// PrevMatch moves the search cursor back, wrapping at the start.
func (e *Editor) PrevMatch() (models.Match, bool) { return e.text.Prev() }

// SeekMatch moves the search cursor to match i.
func (e *Editor) SeekMatch(i int) (models.Match, bool) { return e.text.Seek(i) }

// PreviewText returns the text the search cursor indexes into.
func (e *Editor) PreviewText() string {
	if !e.Loaded() {
		return ""
	}
	return formatter.Pretty(e.state.Current, e.cfg.Export.Indent)
}

// Matches returns the matches of the last Find.
func (e *Editor) Matches() []models.Match { return e.text.Matches() }

// FindTerm returns the term of the last Find.
func (e *Editor) FindTerm() string { return e.text.Term() }

// refreshMatches re-runs the last Find against the current document so the
// cursor never points into text that is no longer shown.
func (e *Editor) refreshMatches() {
	term := e.text.Term()
	if term == "" {
		e.text.Reset()
		return
	}
	if _, err := e.text.Update(term, e.PreviewText()); err != nil {
		e.logger.Debug("search term rejected", zap.String("term", term), zap.Error(err))
	}
}
