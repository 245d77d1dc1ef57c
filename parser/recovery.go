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

// simSteps bounds speculative automaton walks during recovery.
const simSteps = 64

// recover handles a pending token the current state has no action for.
// It first tries to synthesize a zero-width MISSING token that lets the
// parse proceed; failing that it enters panic mode, popping stack
// entries and skipping input into an ERROR node until the automaton can
// resynchronize. A non-nil tree return means the parse finished here.
func (s *session) recover() (*syntax.Tree, error) {
	if s.tryMissing() {
		return nil, nil
	}
	s.logf(LogParse, "detect_error state:%d", s.state())

	var popped, skipped []*syntax.Subtree
	for {
		if act, ok := s.lang.Action(s.state(), s.pending.sym); ok {
			// At end of input, a state whose only move is an empty
			// reduction is still inside an unfinished construct.
			// Keep popping so the construct lands in the ERROR node
			// instead of completing around it; resynchronize only at
			// a state that has already matched a full production.
			atEnd := s.pending.sym == grammar.SymbolEnd
			if !atEnd || act.Type != grammar.ActionReduce || act.Count > 0 {
				s.pushError(popped, skipped)
				return nil, nil
			}
		}
		if len(s.stack) > 1 {
			top := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			popped = append(popped, top.sub)
			continue
		}
		if s.pending.sym == grammar.SymbolEnd {
			return s.forceFinish(popped, skipped), nil
		}
		if !s.spend() {
			s.pushError(popped, skipped)
			return nil, ErrOperationLimit
		}
		skipped = append(skipped, s.skipPending())
		s.lexPending(nil)
	}
}

// skipPending consumes the pending token into an error child.
func (s *session) skipPending() *syntax.Subtree {
	t := s.pending
	leaf := syntax.NewLeaf(
		s.lang, t.sym, s.state(),
		source.Between(s.treeEnd, s.treeEndPoint, t.start, t.startPoint),
		source.Between(t.start, t.startPoint, t.end, t.endPoint),
		t.lookahead,
	)
	s.logf(LogParse, "skip sym:%s", s.lang.SymbolName(t.sym))
	s.treeEnd, s.treeEndPoint = t.end, t.endPoint
	s.lastEnd, s.lastEndPoint = t.end, t.endPoint
	s.pending = nil
	return leaf
}

// pushError wraps the accumulated error children in an ERROR node and
// pushes it as an extra entry, leaving the automaton state unchanged.
func (s *session) pushError(popped, skipped []*syntax.Subtree) {
	slices.Reverse(popped)
	children := append(popped, skipped...)
	if len(children) == 0 {
		return
	}
	s.push(stackEntry{
		state: s.state(),
		sub:   syntax.NewError(children),
		extra: true,
	})
	s.logf(LogParse, "error child_count:%d", len(children))
}

// forceFinish ends the parse at end of input with no resynchronization
// possible: the whole stack becomes an ERROR under a synthesized root.
func (s *session) forceFinish(popped, skipped []*syntax.Subtree) *syntax.Tree {
	slices.Reverse(popped)
	children := append(popped, skipped...)
	var rootChildren []*syntax.Subtree
	if len(children) > 0 {
		rootChildren = []*syntax.Subtree{syntax.NewError(children)}
	}
	root := syntax.NewInternal(s.lang, s.lang.StartSymbol(), 0, rootChildren)
	return syntax.NewTree(s.lang, root, s.ranges)
}

// tryMissing looks for an expected terminal whose zero-width insertion
// would let the pending token shift, trying candidates in ascending
// symbol order. End of input never triggers an insertion: truncated
// input at the very end resynchronizes through panic mode instead.
func (s *session) tryMissing() bool {
	if s.pending.sym == grammar.SymbolEnd {
		return false
	}
	state := s.state()
	for t := grammar.SymbolID(0); int(t) < s.lang.SymbolCount(); t++ {
		if !s.lang.SymbolIsTerminal(t) {
			continue
		}
		if _, ok := s.lang.Action(state, t); !ok {
			continue
		}
		if s.missingViable(t) {
			s.insertMissing(t)
			return true
		}
	}
	return false
}

type simEntry struct {
	state grammar.StateID
	extra bool
}

// missingViable simulates inserting terminal t and checks that the
// pending token becomes shiftable afterwards.
func (s *session) missingViable(t grammar.SymbolID) bool {
	sim := make([]simEntry, len(s.stack))
	for i, e := range s.stack {
		sim[i] = simEntry{state: e.state, extra: e.extra}
	}

	// Drive the automaton with lookahead t until t shifts.
	shifted := false
	for i := 0; i < simSteps; i++ {
		act, ok := s.lang.Action(sim[len(sim)-1].state, t)
		if !ok {
			return false
		}
		if act.Type == grammar.ActionShift {
			sim = append(sim, simEntry{state: act.State})
			shifted = true
			break
		}
		if act.Type != grammar.ActionReduce {
			return false
		}
		sim, ok = simReduce(s.lang, sim, act)
		if !ok {
			return false
		}
	}
	if !shifted {
		return false
	}

	// Now the pending token must shift (or the parse accept).
	for i := 0; i < simSteps; i++ {
		act, ok := s.lang.Action(sim[len(sim)-1].state, s.pending.sym)
		if !ok {
			return false
		}
		switch act.Type {
		case grammar.ActionShift, grammar.ActionAccept:
			return true
		case grammar.ActionReduce:
			sim, ok = simReduce(s.lang, sim, act)
			if !ok {
				return false
			}
		}
	}
	return false
}

func simReduce(lang *grammar.Language, sim []simEntry, act grammar.Action) ([]simEntry, bool) {
	count := act.Count
	for count > 0 {
		if len(sim) <= 1 {
			return nil, false
		}
		if !sim[len(sim)-1].extra {
			count--
		}
		sim = sim[:len(sim)-1]
	}
	to, ok := lang.Goto(sim[len(sim)-1].state, act.Symbol)
	if !ok {
		return nil, false
	}
	return append(sim, simEntry{state: to}), true
}

// insertMissing replays the reductions that make t shiftable on the
// real stack, then pushes the MISSING leaf. The leaf sits at the last
// shifted token's end, which at the very start of the stream is the
// first included range's start.
func (s *session) insertMissing(t grammar.SymbolID) {
	for i := 0; i < simSteps; i++ {
		act, ok := s.lang.Action(s.state(), t)
		if !ok {
			return
		}
		if act.Type == grammar.ActionReduce {
			s.reduce(act)
			continue
		}
		if act.Type != grammar.ActionShift {
			return
		}
		leaf := syntax.NewMissing(
			s.lang, t, act.State,
			source.Between(s.treeEnd, s.treeEndPoint, s.lastEnd, s.lastEndPoint),
		)
		s.push(stackEntry{state: act.State, sub: leaf})
		s.treeEnd, s.treeEndPoint = s.lastEnd, s.lastEndPoint
		s.logf(LogParse, "missing sym:%s", s.lang.SymbolName(t))
		return
	}
}
