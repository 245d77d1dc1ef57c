// Copyright 2022-2026 Arbor Labs, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package interval provides sets of byte ranges over a source buffer.
//
// It backs changed-range accumulation and included-range bookkeeping:
// inserting overlapping or touching ranges merges them, so a Set always
// holds a sorted, non-overlapping, minimal list.
package interval

import (
	"cmp"
	"slices"

	"github.com/tidwall/btree"

	"github.com/arborlabs/arbor/source"
)

// Set is a sorted set of non-overlapping ranges. The zero value is not
// usable; construct with [NewSet].
type Set struct {
	tree *btree.BTreeG[source.Range]
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{tree: btree.NewBTreeG(func(a, b source.Range) bool {
		return a.StartByte < b.StartByte
	})}
}

// Len returns the number of disjoint ranges in the set.
func (s *Set) Len() int { return s.tree.Len() }

// Add inserts a range, merging it with any ranges it overlaps or
// touches.
func (s *Set) Add(r source.Range) {
	if r.EndByte < r.StartByte {
		return
	}
	merged := r
	var doomed []source.Range

	// Absorb neighbors to the left that reach the new range.
	s.tree.Descend(source.Range{StartByte: merged.StartByte}, func(it source.Range) bool {
		if it.EndByte < merged.StartByte {
			return false
		}
		doomed = append(doomed, it)
		if it.StartByte < merged.StartByte {
			merged.StartByte, merged.StartPoint = it.StartByte, it.StartPoint
		}
		if it.EndByte > merged.EndByte {
			merged.EndByte, merged.EndPoint = it.EndByte, it.EndPoint
		}
		return true
	})
	// Absorb ranges starting inside or just past the new range.
	s.tree.Ascend(source.Range{StartByte: r.StartByte}, func(it source.Range) bool {
		if it.StartByte > merged.EndByte {
			return false
		}
		doomed = append(doomed, it)
		if it.EndByte > merged.EndByte {
			merged.EndByte, merged.EndPoint = it.EndByte, it.EndPoint
		}
		return true
	})

	for _, d := range doomed {
		s.tree.Delete(d)
	}
	s.tree.Set(merged)
}

// Ranges returns the set's contents in ascending order.
func (s *Set) Ranges() []source.Range {
	out := make([]source.Range, 0, s.tree.Len())
	s.tree.Scan(func(it source.Range) bool {
		out = append(out, it)
		return true
	})
	return out
}

// Covers reports whether [startByte, endByte) lies entirely inside a
// single range of the sorted list.
func Covers(ranges []source.Range, startByte, endByte int) bool {
	for _, r := range ranges {
		if r.StartByte > startByte {
			return false
		}
		if endByte <= r.EndByte {
			return true
		}
	}
	return false
}

// Intersects reports whether [startByte, endByte) overlaps any range of
// the sorted list. Zero-width spans intersect a range that contains
// their position strictly inside.
func Intersects(ranges []source.Range, startByte, endByte int) bool {
	for _, r := range ranges {
		if r.StartByte >= endByte && !(startByte == endByte && r.StartByte == startByte) {
			break
		}
		if startByte < r.EndByte && r.StartByte < endByte {
			return true
		}
		if startByte == endByte && r.StartByte < startByte && startByte < r.EndByte {
			return true
		}
	}
	return false
}

// SymmetricDifference returns the regions covered by exactly one of two
// sorted, non-overlapping range lists. It is how a reparse under a
// different included-range configuration surfaces regions whose
// inclusion status changed.
func SymmetricDifference(a, b []source.Range) []source.Range {
	type edge struct {
		byte  int
		point source.Point
		isB   bool
		open  bool
	}
	edges := make([]edge, 0, 2*(len(a)+len(b)))
	for _, r := range a {
		edges = append(edges,
			edge{r.StartByte, r.StartPoint, false, true},
			edge{r.EndByte, r.EndPoint, false, false})
	}
	for _, r := range b {
		edges = append(edges,
			edge{r.StartByte, r.StartPoint, true, true},
			edge{r.EndByte, r.EndPoint, true, false})
	}
	slices.SortStableFunc(edges, func(x, y edge) int {
		return cmp.Compare(x.byte, y.byte)
	})

	var (
		out        []source.Range
		inA, inB   bool
		active     bool
		start      int
		startPoint source.Point
	)
	for i := 0; i < len(edges); {
		byteAt := edges[i].byte
		pointAt := edges[i].point
		for i < len(edges) && edges[i].byte == byteAt {
			if edges[i].isB {
				inB = edges[i].open
			} else {
				inA = edges[i].open
			}
			i++
		}
		want := inA != inB
		if want && !active {
			active = true
			start, startPoint = byteAt, pointAt
		} else if !want && active {
			active = false
			if byteAt > start {
				out = append(out, source.Range{
					StartByte:  start,
					EndByte:    byteAt,
					StartPoint: startPoint,
					EndPoint:   pointAt,
				})
			}
		}
	}
	return out
}
