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

import "github.com/arborlabs/arbor/source"

// Bookmark is an opaque resumption point within the text a [Lexer] is
// scanning. Bookmarks are only valid with the lexer that produced them,
// and only within the current scan.
type Bookmark struct {
	Byte  int
	Point source.Point
}

// Lexer is the surface a scanner uses to consume input. It is implemented
// by the parser's lexing adapter.
//
// The lexer exposes one lookahead rune at a time. Offsets are absolute
// byte offsets into the original buffer; for UTF-16 input each code unit
// counts as two bytes. The lexer stops producing runes (Peek returns a
// negative value) at the end of the current included range; resuming past
// a range boundary is the parser's job, never the scanner's.
type Lexer interface {
	// Peek returns the lookahead rune, or -1 at the end of the available
	// input.
	Peek() rune
	// Advance consumes the lookahead into the current token.
	Advance()
	// Skip consumes the lookahead as separator text preceding the token;
	// the token's start moves past it.
	Skip()
	// MarkEnd pins the current position as the token's end. The scanner
	// calls it once, after replaying the winning match, so tokens always
	// end at that match's final position.
	MarkEnd()
	// Mark records the current position so a failed match can rewind.
	Mark() Bookmark
	// Rewind restores a previously marked position. Lookahead consumed
	// past the bookmark still counts toward the token's recorded
	// lookahead distance.
	Rewind(Bookmark)
}

// ScanFunc is a language's scanner: it produces the next terminal from
// the lexer's position, or [NoSymbol] when nothing matches.
type ScanFunc func(lx Lexer, valid func(SymbolID) bool) SymbolID

// MatchFunc recognizes one terminal. It must return true only after
// consuming at least one rune via [Lexer.Advance], and may leave the
// lexer anywhere on failure; the scanner rewinds around it. The token's
// end is always the position of the last Advance on success: the
// scanner marks it itself, so a match calling [Lexer.MarkEnd] has no
// effect on the emitted token.
type MatchFunc func(lx Lexer) bool
