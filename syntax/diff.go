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
	"github.com/arborlabs/arbor/internal/interval"
	"github.com/arborlabs/arbor/source"
)

// ChangedRanges returns the sorted, non-overlapping ranges whose
// syntactic content differs between the two trees. The usual call is
// old.ChangedRanges(new) after editing old and reparsing it into new;
// both trees then address the same coordinate space.
//
// Subtrees shared by pointer at the same position are unchanged by
// definition, which is what keeps the result minimal after an
// incremental parse. Regions whose included-range status differs
// between the trees are always reported, even absent any text change.
func (t *Tree) ChangedRanges(other *Tree) []source.Range {
	set := interval.NewSet()
	diffNodes(t.Root(), other.Root(), set)
	for _, r := range interval.SymmetricDifference(
		t.effectiveRanges(other), other.effectiveRanges(t),
	) {
		set.Add(r)
	}
	return set.Ranges()
}

// effectiveRanges resolves "no included ranges" to a single range
// spanning both documents.
func (t *Tree) effectiveRanges(other *Tree) []source.Range {
	if len(t.ranges) > 0 {
		return t.ranges
	}
	end, endPoint := t.Root().EndByte(), t.Root().EndPoint()
	if oe := other.Root().EndByte(); oe > end {
		end, endPoint = oe, other.Root().EndPoint()
	}
	return []source.Range{{EndByte: end, EndPoint: endPoint}}
}

func diffNodes(a, b Node, set *interval.Set) {
	if a.sub == b.sub && a.StartByte() == b.StartByte() {
		return
	}
	if a.KindID() != b.KindID() ||
		a.IsNamed() != b.IsNamed() ||
		a.IsMissing() != b.IsMissing() {
		set.Add(a.Range())
		set.Add(b.Range())
		return
	}

	aLeaf, bLeaf := a.ChildCount() == 0, b.ChildCount() == 0
	if aLeaf || bLeaf {
		if aLeaf != bLeaf ||
			a.sub.size != b.sub.size ||
			a.StartByte() != b.StartByte() ||
			a.HasChanges() || b.HasChanges() {
			set.Add(a.Range())
			set.Add(b.Range())
		}
		return
	}

	// Align children by span overlap: unmatched children are wholly
	// changed, overlapping pairs are compared recursively.
	i, j := 0, 0
	for i < a.ChildCount() && j < b.ChildCount() {
		ca, cb := a.Child(i), b.Child(j)
		switch {
		case before(ca, cb):
			set.Add(ca.Range())
			i++
		case before(cb, ca):
			set.Add(cb.Range())
			j++
		default:
			diffNodes(ca, cb, set)
			if ca.EndByte() <= cb.EndByte() {
				i++
			}
			if cb.EndByte() <= ca.EndByte() {
				j++
			}
		}
	}
	for ; i < a.ChildCount(); i++ {
		set.Add(a.Child(i).Range())
	}
	for ; j < b.ChildCount(); j++ {
		set.Add(b.Child(j).Range())
	}
}

// before reports that x's span lies strictly before y's, with
// zero-width spans treated as preceding a node that starts where they
// sit only if they start earlier.
func before(x, y Node) bool {
	if x.EndByte() < y.StartByte() {
		return true
	}
	return x.EndByte() == y.StartByte() && x.StartByte() < y.StartByte()
}
