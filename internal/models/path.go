package models

import "strconv"

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment returns a segment addressing object member key.
func KeySegment(key string) Segment { return Segment{Key: key} }

// IndexSegment returns a segment addressing array element i.
func IndexSegment(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Text returns the segment as it appears in an encoded path.
func (s Segment) Text() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path addresses a location inside a JSON value. The empty path is the root.
type Path []Segment

// Child returns a new path with seg appended. p is never modified.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent splits p into its parent path and final segment.
func (p Path) Parent() (Path, Segment, bool) {
	if len(p) == 0 {
		return nil, Segment{}, false
	}
	return p[:len(p)-1], p[len(p)-1], true
}
