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

package grammar

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// SLR(1) table construction. Productions are the desugared grammar plus a
// synthetic accept production 0: accept -> start.

// item is an LR(0) item: a production index and a dot position within its
// right-hand side.
type item struct {
	prod int
	dot  int
}

type itemSet []item

func (s itemSet) key() string {
	var sb strings.Builder
	for _, it := range s {
		fmt.Fprintf(&sb, "%d.%d;", it.prod, it.dot)
	}
	return sb.String()
}

func (c *compiler) buildTables(lang *Language, start SymbolID) error {
	// Production 0 is the synthetic accept production.
	prods := append([]production{{lhs: NoSymbol, rhs: []SymbolID{start}}}, c.prods...)

	byLHS := map[SymbolID][]int{}
	for i, p := range prods {
		byLHS[p.lhs] = append(byLHS[p.lhs], i)
	}

	nullable := c.computeNullable(prods)
	first := c.computeFirst(prods, nullable)
	follow := c.computeFollow(prods, nullable, first, start)

	closure := func(kernel itemSet) itemSet {
		set := slices.Clone(kernel)
		seen := map[item]bool{}
		for _, it := range set {
			seen[it] = true
		}
		for i := 0; i < len(set); i++ {
			it := set[i]
			p := prods[it.prod]
			if it.dot >= len(p.rhs) {
				continue
			}
			next := p.rhs[it.dot]
			if c.isTerminal(next) {
				continue
			}
			for _, pi := range byLHS[next] {
				ni := item{prod: pi}
				if !seen[ni] {
					seen[ni] = true
					set = append(set, ni)
				}
			}
		}
		sort.Slice(set, func(i, j int) bool {
			if set[i].prod != set[j].prod {
				return set[i].prod < set[j].prod
			}
			return set[i].dot < set[j].dot
		})
		return set
	}

	// Canonical collection of LR(0) item sets.
	states := []itemSet{closure(itemSet{{prod: 0}})}
	index := map[string]StateID{states[0].key(): 0}

	type transition struct {
		from StateID
		sym  SymbolID
		to   StateID
	}
	var transitions []transition

	for si := 0; si < len(states); si++ {
		// Group advanceable items by the symbol after the dot, preserving
		// first-appearance order for deterministic state numbering.
		kernels := map[SymbolID]itemSet{}
		var order []SymbolID
		for _, it := range states[si] {
			p := prods[it.prod]
			if it.dot >= len(p.rhs) {
				continue
			}
			sym := p.rhs[it.dot]
			if _, ok := kernels[sym]; !ok {
				order = append(order, sym)
			}
			kernels[sym] = append(kernels[sym], item{prod: it.prod, dot: it.dot + 1})
		}
		for _, sym := range order {
			next := closure(kernels[sym])
			key := next.key()
			ti, ok := index[key]
			if !ok {
				ti = StateID(len(states))
				index[key] = ti
				states = append(states, next)
			}
			transitions = append(transitions, transition{from: StateID(si), sym: sym, to: ti})
		}
	}

	lang.actions = make([]map[SymbolID]Action, len(states))
	lang.gotos = make([]map[SymbolID]StateID, len(states))
	for i := range states {
		lang.actions[i] = map[SymbolID]Action{}
		lang.gotos[i] = map[SymbolID]StateID{}
	}

	setAction := func(state StateID, sym SymbolID, act Action) error {
		if prev, ok := lang.actions[state][sym]; ok && prev != act {
			return fmt.Errorf("%w: state %d on %s: %v vs %v",
				ErrConflict, state, lang.SymbolName(sym), prev.Type, act.Type)
		}
		lang.actions[state][sym] = act
		return nil
	}

	for _, tr := range transitions {
		if c.isTerminal(tr.sym) {
			err := setAction(tr.from, tr.sym, Action{Type: ActionShift, State: tr.to})
			if err != nil {
				return err
			}
		} else {
			lang.gotos[tr.from][tr.sym] = tr.to
		}
	}

	for si, set := range states {
		for _, it := range set {
			p := prods[it.prod]
			if it.dot < len(p.rhs) {
				continue
			}
			if it.prod == 0 {
				err := setAction(StateID(si), SymbolEnd, Action{Type: ActionAccept})
				if err != nil {
					return err
				}
				continue
			}
			red := Action{Type: ActionReduce, Symbol: p.lhs, Count: len(p.rhs)}
			for _, la := range follow[p.lhs] {
				if err := setAction(StateID(si), la, red); err != nil {
					return err
				}
			}
		}
	}

	lang.expected = make([][]SymbolID, len(states))
	for si := range states {
		for sym, act := range lang.actions[si] {
			if act.Type == ActionShift {
				lang.expected[si] = append(lang.expected[si], sym)
			}
		}
		slices.Sort(lang.expected[si])
	}
	return nil
}

func (c *compiler) isTerminal(sym SymbolID) bool {
	return int(sym) < len(c.terms)
}

func (c *compiler) computeNullable(prods []production) map[SymbolID]bool {
	nullable := map[SymbolID]bool{}
	for changed := true; changed; {
		changed = false
		for _, p := range prods {
			if nullable[p.lhs] {
				continue
			}
			all := true
			for _, sym := range p.rhs {
				if !nullable[sym] {
					all = false
					break
				}
			}
			if all {
				nullable[p.lhs] = true
				changed = true
			}
		}
	}
	return nullable
}

func (c *compiler) computeFirst(prods []production, nullable map[SymbolID]bool) map[SymbolID]map[SymbolID]bool {
	first := map[SymbolID]map[SymbolID]bool{}
	for id := range c.symbols {
		sym := SymbolID(id)
		first[sym] = map[SymbolID]bool{}
		if c.isTerminal(sym) {
			first[sym][sym] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for _, p := range prods {
			if p.lhs == NoSymbol {
				continue
			}
			dst := first[p.lhs]
			for _, sym := range p.rhs {
				for t := range first[sym] {
					if !dst[t] {
						dst[t] = true
						changed = true
					}
				}
				if !nullable[sym] {
					break
				}
			}
		}
	}
	return first
}

// computeFollow returns each nonterminal's follow set as a sorted slice.
// SymbolEnd stands in for end of input.
func (c *compiler) computeFollow(
	prods []production,
	nullable map[SymbolID]bool,
	first map[SymbolID]map[SymbolID]bool,
	start SymbolID,
) map[SymbolID][]SymbolID {
	follow := map[SymbolID]map[SymbolID]bool{}
	for id := range c.symbols {
		sym := SymbolID(id)
		if !c.isTerminal(sym) {
			follow[sym] = map[SymbolID]bool{}
		}
	}
	follow[start][SymbolEnd] = true

	for changed := true; changed; {
		changed = false
		for _, p := range prods {
			if p.lhs == NoSymbol {
				continue
			}
			for i, sym := range p.rhs {
				if c.isTerminal(sym) {
					continue
				}
				dst := follow[sym]
				tailNullable := true
				for _, rest := range p.rhs[i+1:] {
					for t := range first[rest] {
						if !dst[t] {
							dst[t] = true
							changed = true
						}
					}
					if !nullable[rest] {
						tailNullable = false
						break
					}
				}
				if tailNullable {
					for t := range follow[p.lhs] {
						if !dst[t] {
							dst[t] = true
							changed = true
						}
					}
				}
			}
		}
	}

	out := map[SymbolID][]SymbolID{}
	for sym, set := range follow {
		list := make([]SymbolID, 0, len(set))
		for t := range set {
			list = append(list, t)
		}
		slices.Sort(list)
		out[sym] = list
	}
	return out
}
