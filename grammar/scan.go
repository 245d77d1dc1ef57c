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

import "maps"

// buildScanner assembles the language's scan function from its terminal
// declarations. The scanner skips separators, then tries every terminal
// permitted by the valid filter from the token start; the longest match
// wins and declaration order breaks ties.
func (b *Builder) buildScanner(c *compiler) ScanFunc {
	terms := make([]tokenDef, len(c.terms))
	copy(terms, c.terms)
	skip := maps.Clone(b.skip)

	return func(lx Lexer, valid func(SymbolID) bool) SymbolID {
		for {
			r := lx.Peek()
			if r < 0 {
				return NoSymbol
			}
			if !skip[r] {
				break
			}
			lx.Skip()
		}

		start := lx.Mark()
		best := NoSymbol
		bestEnd := start.Byte
		for i, t := range terms {
			id := SymbolID(i)
			if valid != nil && !valid(id) {
				continue
			}
			lx.Rewind(start)
			var ok bool
			if t.literal != "" {
				ok = matchLiteral(lx, t.literal)
			} else {
				ok = t.match(lx)
			}
			if !ok {
				continue
			}
			if end := lx.Mark().Byte; end > bestEnd {
				best = id
				bestEnd = end
			}
		}

		lx.Rewind(start)
		if best == NoSymbol {
			return NoSymbol
		}
		t := terms[best]
		if t.literal != "" {
			matchLiteral(lx, t.literal)
		} else {
			t.match(lx)
		}
		// The token always ends where the winning match stopped,
		// regardless of any MarkEnd the match itself issued.
		lx.MarkEnd()
		return best
	}
}

func matchLiteral(lx Lexer, text string) bool {
	for _, r := range text {
		if lx.Peek() != r {
			return false
		}
		lx.Advance()
	}
	return true
}
