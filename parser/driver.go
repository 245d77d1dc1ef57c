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

package parser

import (
	"slices"

	"github.com/arborlabs/arbor/grammar"
	"github.com/arborlabs/arbor/source"
	"github.com/arborlabs/arbor/syntax"
)

// token is a lexed-but-not-yet-shifted terminal, in absolute
// coordinates.
type token struct {
	sym        grammar.SymbolID
	start, end int
	startPoint source.Point
	endPoint   source.Point
	lookahead  int
}

// stackEntry is one element of the parse stack. The bottom entry has a
// nil subtree. Extra entries hold ERROR nodes, which sit outside any
// production and are absorbed by whichever reduce or accept passes over
// them.
type stackEntry struct {
	state grammar.StateID
	sub   *syntax.Subtree
	extra bool
}

// session is the complete state of one parse. It survives an
// operation-limit stop inside the Parser, so a later call can resume
// exactly where this one left off, against the new read callback.
type session struct {
	lang  *grammar.Language
	lx    *lexer
	log   LogFunc
	limit int
	ops   int

	ranges []source.Range

	stack   []stackEntry
	pending *token

	// End of pushed tree content (absolute), and end of the last
	// shifted token. They differ only before the first shift, when
	// treeEnd is still the buffer origin but lexing starts at the
	// first included range.
	treeEnd      int
	treeEndPoint source.Point
	lastEnd      int
	lastEndPoint source.Point

	reuse *reuseCursor
}

func newSession(lang *grammar.Language, ranges []source.Range, old *syntax.Tree) *session {
	s := &session{
		lang:   lang,
		ranges: slices.Clone(ranges),
		lx:     newLexer(slices.Clone(ranges)),
		stack:  []stackEntry{{}},
	}
	s.lastEnd, s.lastEndPoint = s.lx.offset, s.lx.point
	if old != nil {
		s.reuse = newReuseCursor(old, ranges)
	}
	return s
}

func (s *session) state() grammar.StateID {
	return s.stack[len(s.stack)-1].state
}

// spend charges one operation against the budget.
func (s *session) spend() bool {
	s.ops++
	return s.limit <= 0 || s.ops <= s.limit
}

func (s *session) run() (*syntax.Tree, error) {
	s.lx.log = s.log
	for {
		if s.pending == nil {
			if pushed, err := s.tryReuse(); err != nil {
				return nil, err
			} else if pushed {
				continue
			}
			if s.pending == nil {
				if !s.spend() {
					return nil, ErrOperationLimit
				}
				s.lexPending(s.validTerminals())
			}
		}

		act, ok := s.lang.Action(s.state(), s.pending.sym)
		if !ok {
			tree, err := s.recover()
			if tree != nil || err != nil {
				return tree, err
			}
			continue
		}
		switch act.Type {
		case grammar.ActionShift:
			if !s.spend() {
				return nil, ErrOperationLimit
			}
			s.shift(act.State)
		case grammar.ActionReduce:
			s.reduce(act)
		case grammar.ActionAccept:
			return s.accept(), nil
		}
	}
}

// validTerminals returns the lexer's contextual filter: only terminals
// the current state has any action for may be produced.
func (s *session) validTerminals() func(grammar.SymbolID) bool {
	state := s.state()
	return func(t grammar.SymbolID) bool {
		_, ok := s.lang.Action(state, t)
		return ok
	}
}

// lexPending produces the next token, jumping across included-range
// gaps; at the end of the last range it produces the end-of-input
// token. When the contextual filter rejects everything under the
// cursor the scan is retried unrestricted, so error recovery sees the
// real token there instead of a one-rune UNEXPECTED leaf.
func (s *session) lexPending(valid func(grammar.SymbolID) bool) {
	for {
		sym := s.lx.scan(s.lang, valid)
		if sym == grammar.NoSymbol && s.lx.Peek() >= 0 && valid != nil {
			sym = s.lx.scan(s.lang, nil)
		}
		if sym == grammar.NoSymbol {
			if s.lx.Peek() >= 0 {
				s.lx.consumeInvalid()
				sym = grammar.SymbolInvalid
			} else if s.lx.nextRange() {
				continue
			} else {
				s.pending = &token{
					sym:        grammar.SymbolEnd,
					start:      s.lx.offset,
					end:        s.lx.offset,
					startPoint: s.lx.point,
					endPoint:   s.lx.point,
				}
				return
			}
		}
		s.pending = &token{
			sym:        sym,
			start:      s.lx.tokenStart,
			end:        s.lx.tokenEnd,
			startPoint: s.lx.tokenStartPoint,
			endPoint:   s.lx.tokenEndPoint,
			lookahead:  s.lx.lookahead(),
		}
		return
	}
}

// shift pushes the pending token as a leaf. Its padding bridges from
// the end of pushed content, so range gaps and leading whitespace
// accumulate into the following token.
func (s *session) shift(to grammar.StateID) {
	t := s.pending
	leaf := syntax.NewLeaf(
		s.lang, t.sym, to,
		source.Between(s.treeEnd, s.treeEndPoint, t.start, t.startPoint),
		source.Between(t.start, t.startPoint, t.end, t.endPoint),
		t.lookahead,
	)
	s.push(stackEntry{state: to, sub: leaf})
	s.treeEnd, s.treeEndPoint = t.end, t.endPoint
	s.lastEnd, s.lastEndPoint = t.end, t.endPoint
	s.pending = nil
	s.logf(LogParse, "shift state:%d", to)
}

func (s *session) push(e stackEntry) {
	s.stack = append(s.stack, e)
}

// reduce pops the production's children, splicing in any extra entries
// found among them, and pushes the resulting nonterminal.
func (s *session) reduce(act grammar.Action) {
	children, below := s.popChildren(act.Count)
	to, ok := s.lang.Goto(below, act.Symbol)
	if !ok {
		// Tables from the grammar builder are closed under their own
		// reductions, so a missing goto means a corrupt Language.
		panic("parser: no goto after reduce")
	}
	sub := syntax.NewInternal(s.lang, act.Symbol, to, children)
	s.push(stackEntry{state: to, sub: sub})
	s.logf(LogParse, "reduce sym:%s, child_count:%d",
		s.lang.SymbolName(act.Symbol), act.Count)
}

// popChildren removes count non-extra entries from the stack top,
// returning them (with interleaved extras) in source order along with
// the exposed state.
func (s *session) popChildren(count int) ([]*syntax.Subtree, grammar.StateID) {
	var children []*syntax.Subtree
	for count > 0 {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		children = append(children, top.sub)
		if !top.extra {
			count--
		}
	}
	slices.Reverse(children)
	return children, s.state()
}

// accept assembles the final tree. The stack holds the start symbol's
// subtree plus any extras recovery left at the top level; extras fold
// into the root's child list by position.
func (s *session) accept() *syntax.Tree {
	s.logf(LogParse, "accept")
	var root *syntax.Subtree
	var before, after []*syntax.Subtree
	for _, e := range s.stack[1:] {
		switch {
		case !e.extra && e.sub.Symbol() == s.lang.StartSymbol():
			root = e.sub
		case root == nil:
			before = append(before, e.sub)
		default:
			after = append(after, e.sub)
		}
	}
	if root == nil {
		root = syntax.NewInternal(s.lang, s.lang.StartSymbol(), 0, append(before, after...))
	} else if len(before) > 0 || len(after) > 0 {
		// slices.Concat needs go1.22; build the same fresh slice by hand.
		rc := root.Children()
		children := make([]*syntax.Subtree, 0, len(before)+len(rc)+len(after))
		children = append(children, before...)
		children = append(children, rc...)
		children = append(children, after...)
		root = root.WithChildren(children)
	}
	return syntax.NewTree(s.lang, root, s.ranges)
}
