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
	"github.com/arborlabs/arbor/grammar"
	"github.com/arborlabs/arbor/source"
)

// Node is a view of one subtree of a [Tree]. Nodes are cheap values:
// constructing one allocates nothing, and copying one is free. A Node
// is only valid as long as the Tree it came from.
//
// The zero Node is "no node"; bounds-checked accessors like [Node.Child]
// return it past the end.
type Node struct {
	tree *Tree
	sub  *Subtree

	// Absolute start of the subtree's padding.
	outerByte  int
	outerPoint source.Point
}

// IsZero reports whether the node is the "no node" value.
func (n Node) IsZero() bool { return n.sub == nil }

// Tree returns the tree the node is a view into.
func (n Node) Tree() *Tree { return n.tree }

// KindID returns the node's grammar symbol.
func (n Node) KindID() grammar.SymbolID { return n.sub.sym }

// Kind returns the node's kind name, as declared by the grammar.
// ERROR nodes report "ERROR".
func (n Node) Kind() string { return n.tree.lang.SymbolName(n.sub.sym) }

// IsNamed reports whether the node corresponds to a named rule or token
// rather than an anonymous literal.
func (n Node) IsNamed() bool { return n.sub.IsNamed() }

// IsMissing reports whether the node is a zero-width token synthesized
// by error recovery.
func (n Node) IsMissing() bool { return n.sub.IsMissing() }

// IsError reports whether the node is an ERROR node.
func (n Node) IsError() bool { return n.sub.IsError() }

// IsExtra reports whether the node sits outside its parent's
// production.
func (n Node) IsExtra() bool { return n.sub.IsExtra() }

// HasError reports whether the node or any descendant is an ERROR or
// MISSING node.
func (n Node) HasError() bool { return n.sub.HasError() }

// HasChanges reports whether an edit repositioned this node since the
// tree was parsed.
func (n Node) HasChanges() bool { return n.sub.HasChanges() }

// StartByte returns the node's first byte offset in the original input.
// Offsets are always absolute, even under included ranges.
func (n Node) StartByte() int { return n.outerByte + n.sub.padding.Bytes }

// EndByte returns the offset one past the node's last byte.
func (n Node) EndByte() int { return n.StartByte() + n.sub.size.Bytes }

// StartPoint returns the node's start row/column.
func (n Node) StartPoint() source.Point {
	return n.outerPoint.Add(n.sub.padding.Extent)
}

// EndPoint returns the node's end row/column.
func (n Node) EndPoint() source.Point {
	return n.StartPoint().Add(n.sub.size.Extent)
}

// Range returns the node's byte and point range.
func (n Node) Range() source.Range {
	return source.Range{
		StartByte:  n.StartByte(),
		EndByte:    n.EndByte(),
		StartPoint: n.StartPoint(),
		EndPoint:   n.EndPoint(),
	}
}

// ChildCount returns the number of children, anonymous tokens included.
func (n Node) ChildCount() int { return len(n.sub.children) }

// Child returns the i-th child, or the zero Node if i is out of range.
func (n Node) Child(i int) Node {
	if i < 0 || i >= len(n.sub.children) {
		return Node{}
	}
	ob, op := n.outerByte, n.outerPoint
	for _, ch := range n.sub.children[:i] {
		total := ch.TotalLength()
		ob += total.Bytes
		op = op.Add(total.Extent)
	}
	return Node{tree: n.tree, sub: n.sub.children[i], outerByte: ob, outerPoint: op}
}

// NamedChildCount returns the number of named children.
func (n Node) NamedChildCount() int {
	count := 0
	for _, ch := range n.sub.children {
		if ch.IsNamed() {
			count++
		}
	}
	return count
}

// NamedChild returns the i-th named child, or the zero Node if i is out
// of range.
func (n Node) NamedChild(i int) Node {
	if i < 0 {
		return Node{}
	}
	ob, op := n.outerByte, n.outerPoint
	for _, ch := range n.sub.children {
		if ch.IsNamed() {
			if i == 0 {
				return Node{tree: n.tree, sub: ch, outerByte: ob, outerPoint: op}
			}
			i--
		}
		total := ch.TotalLength()
		ob += total.Bytes
		op = op.Add(total.Extent)
	}
	return Node{}
}

// DescendantForByteRange returns the smallest node whose range contains
// [start, end). When several nested nodes cover exactly that span, the
// outermost one wins; when several children of one node contain the
// span, which can happen with zero-width nodes, the earliest child
// wins.
func (n Node) DescendantForByteRange(start, end int) Node {
	if n.IsZero() || start < n.StartByte() || end > n.EndByte() {
		return Node{}
	}
	node := n
	for {
		if node.StartByte() == start && node.EndByte() == end {
			return node
		}
		next := Node{}
		for i := 0; i < node.ChildCount(); i++ {
			ch := node.Child(i)
			if ch.StartByte() <= start && end <= ch.EndByte() {
				next = ch
				break
			}
		}
		if next.IsZero() {
			return node
		}
		node = next
	}
}
