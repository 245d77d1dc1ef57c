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

package syntax

import (
	"slices"

	"github.com/arborlabs/arbor/grammar"
	"github.com/arborlabs/arbor/source"
)

// Tree is a concrete syntax tree produced by a completed parse.
//
// Trees are persistent: Edit and incremental reparsing produce new node
// records along the touched path only, and every other subtree is
// shared by pointer with the trees it came from. Clone is therefore
// O(1), and clones may be edited and reparsed on other goroutines
// without synchronization.
type Tree struct {
	lang   *grammar.Language
	root   *Subtree
	ranges []source.Range
}

// NewTree assembles a tree from a parsed root. The ranges are the
// included ranges the parse ran under; nil means the whole input.
func NewTree(lang *grammar.Language, root *Subtree, ranges []source.Range) *Tree {
	return &Tree{lang: lang, root: root, ranges: slices.Clone(ranges)}
}

// Language returns the language the tree was parsed with.
func (t *Tree) Language() *grammar.Language { return t.lang }

// Root returns a view of the tree's root node.
func (t *Tree) Root() Node {
	return Node{tree: t, sub: t.root}
}

// RootSubtree returns the raw root record. It is exported for the
// parser package, which walks previous trees looking for reusable
// subtrees; other callers should use [Tree.Root].
func (t *Tree) RootSubtree() *Subtree { return t.root }

// IncludedRanges returns the included ranges the tree was parsed under.
// An empty result means the whole input was parsed.
func (t *Tree) IncludedRanges() []source.Range {
	return slices.Clone(t.ranges)
}

// Clone returns an independent tree sharing all of the receiver's
// nodes. Edits and reparses applied through one tree are invisible to
// the other.
func (t *Tree) Clone() *Tree {
	return &Tree{lang: t.lang, root: t.root, ranges: slices.Clone(t.ranges)}
}

// Edit repositions the tree's ranges to account for a text replacement,
// without changing its shape. Shape catches up on the next parse that
// uses this tree as the previous tree. Edits compose sequentially: a
// later edit addresses offsets in the coordinates produced by earlier
// ones.
func (t *Tree) Edit(edit source.Edit) error {
	if err := edit.Validate(); err != nil {
		return err
	}
	rel := relEdit{
		start:  source.Length{Bytes: edit.StartByte, Extent: edit.StartPoint},
		oldEnd: source.Length{Bytes: edit.OldEndByte, Extent: edit.OldEndPoint},
		newEnd: source.Length{Bytes: edit.NewEndByte, Extent: edit.NewEndPoint},
	}
	t.root = editSubtree(t.root, rel)
	for i := range t.ranges {
		t.ranges[i] = remapRange(t.ranges[i], edit)
	}
	return nil
}

// relEdit is an edit expressed in lengths relative to a subtree's outer
// edge, the start of its padding.
type relEdit struct {
	start  source.Length
	oldEnd source.Length
	newEnd source.Length
}

func (e relEdit) pureInsertion() bool { return e.oldEnd.Bytes == e.start.Bytes }

// editSubtree returns the subtree with the edit applied, sharing the
// original wherever the edit cannot have affected it. A subtree is
// unaffected when the edit starts beyond every byte the lexer examined
// while producing it.
func editSubtree(s *Subtree, e relEdit) *Subtree {
	endByte := s.padding.Bytes + s.size.Bytes + s.lookahead
	if e.start.Bytes > endByte ||
		(e.start.Bytes == endByte && e.pureInsertion()) {
		return s
	}

	cp := *s
	cp.flags |= flagChanged

	total := s.padding.Add(s.size)
	switch {
	case e.oldEnd.Bytes <= s.padding.Bytes:
		// Entirely within the padding: shift the node.
		cp.padding = e.newEnd.Add(s.padding.Sub(e.oldEnd))
	case e.start.Bytes < s.padding.Bytes:
		// Starts in the padding, extends into the content.
		cp.size = s.size.Sub(e.oldEnd.Sub(s.padding))
		cp.padding = e.newEnd
	case e.start.Bytes == s.padding.Bytes && e.pureInsertion():
		cp.padding = e.newEnd
	default:
		cp.size = e.newEnd.Sub(s.padding).Add(total.Sub(e.oldEnd))
	}

	if len(s.children) > 0 {
		cp.children = slices.Clone(s.children)
		var left, right source.Length
		childEdit := e
		for i, ch := range s.children {
			left = right
			right = left.Add(ch.padding).Add(ch.size)
			if childEdit.start.Bytes > right.Bytes+ch.lookahead {
				continue
			}
			// Children starting after the replaced span are untouched;
			// their padding is parent-relative, so no shift is needed.
			// Child 0 is the exception: its padding mirrors the
			// parent's and must stay consistent with it.
			if left.Bytes > childEdit.oldEnd.Bytes ||
				(left.Bytes == childEdit.oldEnd.Bytes &&
					left.Bytes > childEdit.start.Bytes && i > 0) {
				break
			}

			ce := relEdit{
				start:  clampSub(childEdit.start, left),
				oldEnd: clampSub(childEdit.oldEnd, left),
				newEnd: clampSub(childEdit.newEnd, left),
			}
			if childEdit.oldEnd.Bytes > right.Bytes {
				ce.oldEnd = right.Sub(left)
			}
			cp.children[i] = editSubtree(ch, ce)

			// All inserted text lands in the first child the edit
			// touches; later children only shrink by their share of
			// the deleted span.
			if right.Bytes > childEdit.start.Bytes ||
				(right.Bytes == childEdit.start.Bytes && childEdit.pureInsertion()) {
				childEdit.newEnd = childEdit.start
			}
		}
		cp.refreshGeometry()
		cp.flags |= flagChanged
	}
	return &cp
}

func clampSub(l, base source.Length) source.Length {
	if l.Bytes < base.Bytes {
		return source.Length{}
	}
	return l.Sub(base)
}

// remapRange moves an included range's boundaries through an edit, in
// absolute coordinates: boundaries at or past the edit's old end shift
// by the delta, boundaries inside the replaced span clamp to the new
// end, earlier boundaries stay.
func remapRange(r source.Range, edit source.Edit) source.Range {
	r.EndByte, r.EndPoint = remapBoundary(r.EndByte, r.EndPoint, edit)
	r.StartByte, r.StartPoint = remapBoundary(r.StartByte, r.StartPoint, edit)
	return r
}

func remapBoundary(offset int, point source.Point, edit source.Edit) (int, source.Point) {
	switch {
	case offset >= edit.OldEndByte:
		return offset - edit.OldEndByte + edit.NewEndByte,
			edit.NewEndPoint.Add(point.Sub(edit.OldEndPoint))
	case offset > edit.StartByte:
		return edit.NewEndByte, edit.NewEndPoint
	default:
		return offset, point
	}
}
