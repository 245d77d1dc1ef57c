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
	"github.com/arborlabs/arbor/grammar"
	"github.com/arborlabs/arbor/internal/interval"
	"github.com/arborlabs/arbor/source"
	"github.com/arborlabs/arbor/syntax"
)

// reuseCursor walks a previous (edited) tree looking for subtrees that
// can be carried into the new parse without re-reading their text.
type reuseCursor struct {
	root   *syntax.Subtree
	banned map[*syntax.Subtree]bool

	// Current parse's included ranges; empty means whole input.
	newRanges []source.Range
	// Regions whose inclusion status differs from the previous parse.
	// Nothing overlapping them may be reused.
	diff []source.Range
}

func newReuseCursor(old *syntax.Tree, newRanges []source.Range) *reuseCursor {
	return &reuseCursor{
		root:      old.RootSubtree(),
		banned:    map[*syntax.Subtree]bool{},
		newRanges: newRanges,
		diff: interval.SymmetricDifference(
			wholeInputIfEmpty(old.IncludedRanges()),
			wholeInputIfEmpty(newRanges),
		),
	}
}

func wholeInputIfEmpty(ranges []source.Range) []source.Range {
	if len(ranges) > 0 {
		return ranges
	}
	return []source.Range{{
		EndByte:  maxOffset,
		EndPoint: source.Point{Row: maxOffset},
	}}
}

func (c *reuseCursor) ban(sub *syntax.Subtree) { c.banned[sub] = true }

// candidate returns the highest usable subtree whose outer edge sits at
// the absolute position pos, descending past banned or affected nodes.
// The root itself is never a candidate.
func (c *reuseCursor) candidate(pos int) *syntax.Subtree {
	cur, outer := c.root, 0
	for {
		if cur != c.root && outer == pos && c.usable(cur, outer) {
			return cur
		}
		next := (*syntax.Subtree)(nil)
		childOuter := outer
		for _, ch := range cur.Children() {
			total := ch.TotalLength().Bytes
			if pos >= childOuter && pos < childOuter+total {
				next = ch
				break
			}
			childOuter += total
		}
		if next == nil {
			return nil
		}
		cur, outer = next, childOuter
	}
}

func (c *reuseCursor) usable(sub *syntax.Subtree, outer int) bool {
	if c.banned[sub] ||
		sub.HasChanges() || sub.HasError() ||
		sub.IsMissing() || sub.IsExtra() ||
		sub.Size().Bytes == 0 {
		return false
	}
	start := outer + sub.Padding().Bytes
	end := start + sub.Size().Bytes
	if len(c.newRanges) > 0 && !interval.Covers(c.newRanges, start, end) {
		return false
	}
	return !interval.Intersects(c.diff, start, end+sub.Lookahead())
}

// tryReuse consults the previous tree at the current position. It
// either pushes a whole subtree (reporting true), performs a pending
// reduction implied by the subtree's first token (reporting true), or
// converts a reusable token into the pending token without touching the
// read callback.
func (s *session) tryReuse() (bool, error) {
	if s.reuse == nil {
		return false, nil
	}
	for {
		cand := s.reuse.candidate(s.treeEnd)
		if cand == nil {
			return false, nil
		}

		if len(cand.Children()) == 0 {
			total := cand.TotalLength()
			s.pending = &token{
				sym:        cand.Symbol(),
				start:      s.treeEnd + cand.Padding().Bytes,
				end:        s.treeEnd + total.Bytes,
				startPoint: s.treeEndPoint.Add(cand.Padding().Extent),
				endPoint:   s.treeEndPoint.Add(total.Extent),
				lookahead:  cand.Lookahead(),
			}
			// Keep the lexer in step so the next real scan starts
			// after this token instead of re-reading it.
			s.lx.seek(s.pending.end, s.pending.endPoint)
			s.reuse.ban(cand)
			return false, nil
		}

		if to, ok := s.lang.Goto(s.state(), cand.Symbol()); ok && to == cand.State() {
			if !s.spend() {
				return false, ErrOperationLimit
			}
			total := cand.TotalLength()
			s.push(stackEntry{state: to, sub: cand})
			s.treeEnd += total.Bytes
			s.treeEndPoint = s.treeEndPoint.Add(total.Extent)
			s.lastEnd, s.lastEndPoint = s.treeEnd, s.treeEndPoint
			s.lx.seek(s.treeEnd, s.treeEndPoint)
			s.logf(LogParse, "reuse sym:%s", s.lang.SymbolName(cand.Symbol()))
			return true, nil
		}

		// The subtree does not fit the current state directly; a
		// reduction implied by its first token may make room.
		first := cand.FirstLeaf().Symbol()
		if act, ok := s.lang.Action(s.state(), first); ok && act.Type == grammar.ActionReduce {
			s.reduce(act)
			return true, nil
		}

		// Break the subtree down and retry with its children.
		s.reuse.ban(cand)
	}
}
