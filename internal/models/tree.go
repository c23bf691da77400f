package models

import "facette.io/natsort"

// TreeNode is one display node built from a document. Trees are rebuilt after
// every mutation and never edited in place.
type TreeNode struct {
	Path  Path
	Key   string // encoded Path, the identifier a tree widget reports on select
	Title string

	IsLeaf   bool
	IsArray  bool
	IsObject bool

	// IsPlaceholder marks the synthetic "N more" node appended to truncated
	// arrays. It is neither selectable nor editable.
	IsPlaceholder bool
	Remaining     int

	Children []TreeNode
}

// BatchCandidate is a leaf whose title matched the search term.
type BatchCandidate struct {
	Path     Path
	Key      string
	Title    string
	Selected bool
}

// Match is one occurrence of the search term in serialized text.
type Match struct {
	Offset int // character (rune) offset
	Start  int // byte range
	End    int
}

// ChangeSet is the set of encoded paths where two documents differ.
type ChangeSet map[string]struct{}

// Add records key as changed.
func (c ChangeSet) Add(key string) { c[key] = struct{}{} }

// Has reports whether key is in the set.
func (c ChangeSet) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Sorted returns the keys in natural order, so "b.2" sorts before "b.10".
func (c ChangeSet) Sorted() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	natsort.Sort(keys)
	return keys
}
