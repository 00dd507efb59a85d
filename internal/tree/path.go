// Package tree holds the path-indexed command structure: immutable paths,
// executable leaves, category nodes, and the registry that builds, looks up,
// and prunes them.
package tree

import (
	"fmt"
	"strings"
)

// Path is an immutable, case-normalized ordered sequence of path segments
// identifying a command or category, e.g. ["shop", "buy"]. Segments are
// lower-cased on construction and never empty.
type Path struct {
	segments []string
}

// NewPath parses a whitespace-separated path string. Returns an error on
// empty input; segments are lower-cased.
func NewPath(raw string) (Path, error) {
	return NewPathFromSegments(strings.Fields(raw))
}

// NewPathFromSegments builds a Path from explicit segments. Empty segment
// lists and empty segments are rejected.
func NewPathFromSegments(segments []string) (Path, error) {
	if len(segments) == 0 {
		return Path{}, fmt.Errorf("command path cannot be empty")
	}
	normalized := make([]string, len(segments))
	for i, seg := range segments {
		seg = strings.ToLower(strings.TrimSpace(seg))
		if seg == "" {
			return Path{}, fmt.Errorf("command path segment %d cannot be empty", i)
		}
		normalized[i] = seg
	}
	return Path{segments: normalized}, nil
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// Segment returns the i-th segment.
func (p Path) Segment(i int) string {
	return p.segments[i]
}

// First returns the root segment.
func (p Path) First() string {
	return p.segments[0]
}

// Last returns the final segment, which names the command or category.
func (p Path) Last() string {
	return p.segments[len(p.segments)-1]
}

// Segments returns a copy of the segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// String joins the segments with single spaces. The result doubles as the
// registry map key.
func (p Path) String() string {
	return strings.Join(p.segments, " ")
}

// IsRoot reports whether the path has exactly one segment.
func (p Path) IsRoot() bool {
	return len(p.segments) == 1
}

// Equal reports segment-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// Less orders paths lexicographically by their string form, giving
// deterministic iteration order.
func (p Path) Less(other Path) bool {
	return p.String() < other.String()
}

// IsChildOf reports whether parent is a strict prefix of p.
func (p Path) IsChildOf(parent Path) bool {
	if len(parent.segments) >= len(p.segments) {
		return false
	}
	for i, seg := range parent.segments {
		if p.segments[i] != seg {
			return false
		}
	}
	return true
}

// Parent returns the path with the final segment removed. ok is false for
// root paths.
func (p Path) Parent() (parent Path, ok bool) {
	if len(p.segments) <= 1 {
		return Path{}, false
	}
	return Path{segments: p.segments[:len(p.segments)-1]}, true
}

// Child derives the path extended by one segment. The segment is lower-cased.
func (p Path) Child(segment string) Path {
	segs := make([]string, 0, len(p.segments)+1)
	segs = append(segs, p.segments...)
	segs = append(segs, strings.ToLower(segment))
	return Path{segments: segs}
}
