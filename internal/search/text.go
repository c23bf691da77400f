package search

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mcncl/jsonedit/internal/config"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
)

// Default limits
const (
	DefaultMaxMatches  = 1000
	DefaultPatternSize = 64
)

// TextIndex finds occurrences of a term in serialized text and keeps a
// cursor over them for next/previous navigation.
type TextIndex struct {
	maxMatches int
	patterns   *lru.Cache[string, *regexp.Regexp]

	built   bool
	term    string
	text    string
	matches []models.Match
	cursor  int
}

// NewTextIndex creates an index that records at most maxMatches occurrences
// and remembers the last cacheSize compiled patterns.
func NewTextIndex(maxMatches, cacheSize int) (*TextIndex, error) {
	patterns, err := lru.New[string, *regexp.Regexp](cacheSize)
	if err != nil {
		return nil, errors.NewConfigError("invalid search pattern cache size", err)
	}
	return &TextIndex{maxMatches: maxMatches, patterns: patterns, cursor: -1}, nil
}

// NewTextIndexWithConfig creates an index from the search section of cfg
func NewTextIndexWithConfig(cfg *config.Config) (*TextIndex, error) {
	return NewTextIndex(cfg.Search.MaxMatches, cfg.Search.PatternCacheSize)
}

// Update rebuilds the matches for term in text and resets the cursor to the
// first match. It does nothing and reports false when neither term nor text
// changed since the last build.
//
// A term that cannot be compiled leaves the index empty; the returned error
// is informational.
func (x *TextIndex) Update(term, text string) (bool, error) {
	if x.built && term == x.term && text == x.text {
		return false, nil
	}
	x.built, x.term, x.text = true, term, text
	x.matches = nil
	x.cursor = -1

	if term == "" {
		return true, nil
	}
	re, err := x.pattern(term)
	if err != nil {
		return true, err
	}

	locs := re.FindAllStringIndex(text, x.maxMatches)
	x.matches = make([]models.Match, 0, len(locs))
	offset, prev := 0, 0
	for _, loc := range locs {
		offset += utf8.RuneCountInString(text[prev:loc[0]])
		prev = loc[0]
		x.matches = append(x.matches, models.Match{Offset: offset, Start: loc[0], End: loc[1]})
	}
	if len(x.matches) > 0 {
		x.cursor = 0
	}
	return true, nil
}

// pattern compiles term as a case-insensitive literal.
func (x *TextIndex) pattern(term string) (*regexp.Regexp, error) {
	if re, ok := x.patterns.Get(term); ok {
		return re, nil
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(term))
	if err != nil {
		return nil, errors.NewSearchError(fmt.Sprintf("cannot search for %q", term), fmt.Errorf("%w: %w", errors.ErrRegexCompile, err))
	}
	x.patterns.Add(term, re)
	return re, nil
}

// Reset forgets the last build so the next Update always rebuilds.
func (x *TextIndex) Reset() {
	x.built = false
	x.term, x.text = "", ""
	x.matches = nil
	x.cursor = -1
}

// Term returns the term of the last build.
func (x *TextIndex) Term() string { return x.term }

// Matches returns the occurrences in text order.
func (x *TextIndex) Matches() []models.Match { return x.matches }

// Len returns the number of occurrences.
func (x *TextIndex) Len() int { return len(x.matches) }

// Cursor returns the index of the current match, or -1 when there are none.
func (x *TextIndex) Cursor() int { return x.cursor }

// Current returns the match under the cursor.
func (x *TextIndex) Current() (models.Match, bool) {
	if x.cursor < 0 {
		return models.Match{}, false
	}
	return x.matches[x.cursor], true
}

// Next moves the cursor forward, wrapping from the last match to the first.
func (x *TextIndex) Next() (models.Match, bool) {
	return x.move(1)
}

// Prev moves the cursor back, wrapping from the first match to the last.
func (x *TextIndex) Prev() (models.Match, bool) {
	return x.move(-1)
}

// Seek moves the cursor to match i, wrapping out-of-range values.
func (x *TextIndex) Seek(i int) (models.Match, bool) {
	n := len(x.matches)
	if n == 0 {
		return models.Match{}, false
	}
	x.cursor = ((i % n) + n) % n
	return x.matches[x.cursor], true
}

func (x *TextIndex) move(delta int) (models.Match, bool) {
	if len(x.matches) == 0 {
		return models.Match{}, false
	}
	return x.Seek(x.cursor + delta)
}
