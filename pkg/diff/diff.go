// Package diff compares flattened trees and the contents of individual
// files.
package diff

import (
	"sort"
	"strings"

	"github.com/odvcencio/ugit/pkg/object"
)

// ChangeType describes how a path differs between two trees.
type ChangeType int

const (
	Added ChangeType = iota + 1
	Removed
	Modified
)

func (c ChangeType) String() string {
	switch c {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is one path that differs. Before is empty for Added and After is
// empty for Removed.
type Change struct {
	Path   string
	Type   ChangeType
	Before object.Hash
	After  object.Hash
}

// Trees compares two path -> blob maps, as produced by reading a tree, and
// returns the changed paths sorted by path.
func Trees(before, after map[string]object.Hash) []Change {
	var out []Change
	for p, a := range after {
		b, ok := before[p]
		switch {
		case !ok:
			out = append(out, Change{Path: p, Type: Added, After: a})
		case a != b:
			out = append(out, Change{Path: p, Type: Modified, Before: b, After: a})
		}
	}
	for p, b := range before {
		if _, ok := after[p]; !ok {
			out = append(out, Change{Path: p, Type: Removed, Before: b})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Lines returns the line-level edit script turning a into b. A trailing
// newline does not produce an extra empty line.
func Lines(a, b []byte) []Line {
	return myers(splitLines(string(a)), splitLines(string(b)))
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
