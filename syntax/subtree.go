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

type subtreeFlags uint8

const (
	flagNamed subtreeFlags = 1 << iota
	flagHidden
	flagMissing
	flagExtra
	flagError   // self or a descendant is ERROR or MISSING
	flagChanged // repositioned by Tree.Edit since the last parse
)

// Subtree is one node record of a syntax tree. Subtrees are immutable
// once constructed and freely shared by pointer between trees, which is
// what makes Tree.Clone O(1).
//
// Geometry is relative: padding is the gap between the end of the
// previous sibling (or the parent's outer edge) and this node's first
// byte, and size spans the node's own content. Absolute positions exist
// only in [Node] views, which accumulate lengths on the way down.
type Subtree struct {
	sym       grammar.SymbolID
	flags     subtreeFlags
	padding   source.Length
	size      source.Length
	lookahead int // bytes examined past the node's end during lexing
	state     grammar.StateID
	children  []*Subtree
}

// Symbol returns the grammar symbol this subtree represents.
func (s *Subtree) Symbol() grammar.SymbolID { return s.sym }

// State returns the automaton state the subtree was pushed in. It is
// only meaningful for subtrees produced by a parse, and is what makes a
// subtree a candidate for wholesale reuse in a later parse.
func (s *Subtree) State() grammar.StateID { return s.state }

// Padding returns the length of the gap preceding the subtree.
func (s *Subtree) Padding() source.Length { return s.padding }

// Size returns the length of the subtree's own content.
func (s *Subtree) Size() source.Length { return s.size }

// TotalLength returns padding plus size.
func (s *Subtree) TotalLength() source.Length { return s.padding.Add(s.size) }

// Lookahead returns how many bytes past the subtree's end the lexer
// examined while producing it.
func (s *Subtree) Lookahead() int { return s.lookahead }

// Children returns the subtree's children. The returned slice must not
// be modified.
func (s *Subtree) Children() []*Subtree { return s.children }

// IsNamed reports whether the subtree corresponds to a named rule or
// token rather than an anonymous literal.
func (s *Subtree) IsNamed() bool { return s.flags&flagNamed != 0 }

// IsMissing reports whether the subtree is a zero-width token
// synthesized by error recovery.
func (s *Subtree) IsMissing() bool { return s.flags&flagMissing != 0 }

// IsExtra reports whether the subtree sits outside its parent's
// production, the way ERROR nodes do.
func (s *Subtree) IsExtra() bool { return s.flags&flagExtra != 0 }

// IsError reports whether the subtree is an ERROR node.
func (s *Subtree) IsError() bool { return s.sym == grammar.SymbolError }

// HasError reports whether the subtree or any descendant is an ERROR or
// MISSING node.
func (s *Subtree) HasError() bool { return s.flags&flagError != 0 }

// HasChanges reports whether Tree.Edit repositioned this subtree since
// it was produced by a parse.
func (s *Subtree) HasChanges() bool { return s.flags&flagChanged != 0 }

// FirstLeaf returns the leftmost leaf of the subtree, or the subtree
// itself if it has no children.
func (s *Subtree) FirstLeaf() *Subtree {
	for len(s.children) > 0 {
		s = s.children[0]
	}
	return s
}

// NewLeaf constructs a token subtree.
func NewLeaf(
	lang *grammar.Language,
	sym grammar.SymbolID,
	state grammar.StateID,
	padding, size source.Length,
	lookahead int,
) *Subtree {
	var f subtreeFlags
	if lang.SymbolIsNamed(sym) {
		f |= flagNamed
	}
	if sym == grammar.SymbolError || sym == grammar.SymbolInvalid {
		f |= flagError
	}
	return &Subtree{
		sym:       sym,
		flags:     f,
		padding:   padding,
		size:      size,
		lookahead: lookahead,
		state:     state,
	}
}

// NewMissing constructs a zero-width token synthesized by error
// recovery where the grammar required sym but the input lacked it.
func NewMissing(
	lang *grammar.Language,
	sym grammar.SymbolID,
	state grammar.StateID,
	padding source.Length,
) *Subtree {
	var f subtreeFlags = flagMissing | flagError
	if lang.SymbolIsNamed(sym) {
		f |= flagNamed
	}
	return &Subtree{
		sym:     sym,
		flags:   f,
		padding: padding,
		state:   state,
	}
}

// NewInternal constructs a nonterminal subtree from its children, as
// produced by a reduce action. Children that are themselves hidden
// rules are spliced inline, so a stored child list never contains
// hidden nodes.
func NewInternal(
	lang *grammar.Language,
	sym grammar.SymbolID,
	state grammar.StateID,
	children []*Subtree,
) *Subtree {
	spliced := spliceHidden(children)

	var f subtreeFlags
	if lang.SymbolIsNamed(sym) {
		f |= flagNamed
	}
	if lang.SymbolIsHidden(sym) {
		f |= flagHidden
	}
	sub := &Subtree{
		sym:      sym,
		flags:    f,
		state:    state,
		children: spliced,
	}
	sub.refreshGeometry()
	for _, ch := range spliced {
		if ch.HasError() {
			sub.flags |= flagError
			break
		}
	}
	return sub
}

// NewError wraps input the grammar could not attribute to any
// production. The children are the skipped tokens and popped subtrees
// accumulated during resynchronization.
func NewError(children []*Subtree) *Subtree {
	sub := &Subtree{
		sym:      grammar.SymbolError,
		flags:    flagNamed | flagExtra | flagError,
		children: spliceHidden(children),
	}
	sub.refreshGeometry()
	return sub
}

// WithChildren returns a copy of an internal subtree with an extended
// child list, used when folding leftover extras into the root at the
// end of a parse. Children must already be in positional order.
func (s *Subtree) WithChildren(children []*Subtree) *Subtree {
	cp := *s
	cp.children = spliceHidden(children)
	cp.refreshGeometry()
	cp.flags &^= flagError
	for _, ch := range cp.children {
		if ch.HasError() {
			cp.flags |= flagError
			break
		}
	}
	return &cp
}

func spliceHidden(children []*Subtree) []*Subtree {
	n := 0
	splice := false
	for _, ch := range children {
		if ch.flags&flagHidden != 0 {
			n += len(ch.children)
			splice = true
		} else {
			n++
		}
	}
	if !splice {
		return children
	}
	out := make([]*Subtree, 0, n)
	for _, ch := range children {
		if ch.flags&flagHidden != 0 {
			out = append(out, ch.children...)
		} else {
			out = append(out, ch)
		}
	}
	return out
}

// refreshGeometry recomputes padding, size, and lookahead from the
// child list. The node's padding aliases its first child's padding, and
// its size spans from its first byte to its last child's end.
func (s *Subtree) refreshGeometry() {
	if len(s.children) == 0 {
		s.padding = source.Length{}
		s.size = source.Length{}
		s.lookahead = 0
		return
	}
	var total source.Length
	for _, ch := range s.children {
		total = total.Add(ch.padding).Add(ch.size)
	}
	s.padding = s.children[0].padding
	s.size = total.Sub(s.padding)
	s.lookahead = s.children[len(s.children)-1].lookahead
}
