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
	"math"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arborlabs/arbor/grammar"
	"github.com/arborlabs/arbor/source"
)

// maxOffset stands in for "end of input not yet discovered".
const maxOffset = math.MaxInt32

// input is one of the two read callbacks. UTF-16 input is addressed in
// code units externally and in bytes (two per unit) internally.
type input struct {
	readUTF8  ReadFunc
	readUTF16 Read16Func
}

// lexer adapts a chunked random-access read callback to the
// [grammar.Lexer] interface, translating included ranges into a single
// virtual stream while keeping every position absolute.
type lexer struct {
	in  *input
	log LogFunc

	ranges   []source.Range
	rangeIdx int

	offset int
	point  source.Point

	// Discovered end of input; callbacks signal it with an empty chunk.
	docEnd int

	chunk      []byte
	chunkStart int

	chunk16      []uint16
	chunk16Start int // in bytes

	tokenStart      int
	tokenStartPoint source.Point
	tokenEnd        int
	tokenEndPoint   source.Point
	farthest        int // high-water mark of examined bytes
}

var _ grammar.Lexer = (*lexer)(nil)

func newLexer(ranges []source.Range) *lexer {
	if len(ranges) == 0 {
		ranges = []source.Range{{
			EndByte:  maxOffset,
			EndPoint: source.Point{Row: maxOffset},
		}}
	}
	l := &lexer{ranges: ranges, docEnd: maxOffset}
	l.offset = ranges[0].StartByte
	l.point = ranges[0].StartPoint
	return l
}

// setInput swaps the read callback, as happens when a suspended parse
// resumes with a new Parse call. Cached chunks and the discovered end
// of input belong to the old callback, so both are dropped.
func (l *lexer) setInput(in *input) {
	l.in = in
	l.chunk, l.chunk16 = nil, nil
	l.docEnd = maxOffset
}

func (l *lexer) rangeEnd() int {
	return min(l.ranges[l.rangeIdx].EndByte, l.docEnd)
}

// seek repositions the lexer at an absolute offset, snapping forward to
// the next included range if the offset falls in a gap.
func (l *lexer) seek(off int, pt source.Point) {
	l.offset, l.point = off, pt
	l.rangeIdx = len(l.ranges) - 1
	for i, r := range l.ranges {
		if off < r.EndByte {
			l.rangeIdx = i
			break
		}
	}
	if r := l.ranges[l.rangeIdx]; off < r.StartByte {
		l.offset, l.point = r.StartByte, r.StartPoint
	}
}

// nextRange jumps to the following included range, returning false at
// the last one.
func (l *lexer) nextRange() bool {
	if l.rangeIdx+1 >= len(l.ranges) {
		return false
	}
	l.rangeIdx++
	if r := l.ranges[l.rangeIdx]; r.StartByte > l.offset {
		l.offset, l.point = r.StartByte, r.StartPoint
	}
	return true
}

// Peek implements [grammar.Lexer]. It returns -1 at the end of the
// current included range.
func (l *lexer) Peek() rune {
	r, size := l.decode(l.offset)
	if r < 0 {
		return -1
	}
	if end := l.offset + size; end > l.farthest {
		l.farthest = end
	}
	return r
}

// Advance implements [grammar.Lexer].
func (l *lexer) Advance() {
	r, size := l.decode(l.offset)
	if r < 0 {
		return
	}
	l.offset += size
	if end := l.offset; end > l.farthest {
		l.farthest = end
	}
	if r == '\n' {
		l.point.Row++
		l.point.Column = 0
	} else {
		l.point.Column += size
	}
}

// Skip implements [grammar.Lexer]: the character is consumed as
// inter-token padding rather than token content.
func (l *lexer) Skip() {
	if r := l.Peek(); r >= 0 && l.log != nil {
		l.log(LogLex, "skip character:'"+string(r)+"'")
	}
	l.Advance()
	l.tokenStart, l.tokenStartPoint = l.offset, l.point
}

// Mark implements [grammar.Lexer].
func (l *lexer) Mark() grammar.Bookmark {
	return grammar.Bookmark{Byte: l.offset, Point: l.point}
}

// Rewind implements [grammar.Lexer]. The examined-bytes high-water mark
// survives rewinding; lookahead is about what was read, not what was
// kept.
func (l *lexer) Rewind(b grammar.Bookmark) {
	l.offset, l.point = b.Byte, b.Point
}

// MarkEnd implements [grammar.Lexer], pinning the token's end at the
// current position.
func (l *lexer) MarkEnd() {
	l.tokenEnd, l.tokenEndPoint = l.offset, l.point
}

// scan produces the next token's symbol within the current included
// range. NoSymbol means no terminal matched: either the range is
// exhausted or the character under the cursor fits nothing, which the
// caller tells apart with Peek.
func (l *lexer) scan(lang *grammar.Language, valid func(grammar.SymbolID) bool) grammar.SymbolID {
	l.tokenStart, l.tokenStartPoint = l.offset, l.point
	l.tokenEnd, l.tokenEndPoint = l.offset, l.point
	l.farthest = l.offset
	return lang.Scan(l, valid)
}

// consumeInvalid swallows one rune as an UNEXPECTED token after every
// scan attempt has failed on it.
func (l *lexer) consumeInvalid() {
	l.tokenStart, l.tokenStartPoint = l.offset, l.point
	l.Advance()
	l.MarkEnd()
}

func (l *lexer) lookahead() int {
	return max(0, l.farthest-l.tokenEnd)
}

func (l *lexer) decode(off int) (rune, int) {
	if off >= l.rangeEnd() {
		return -1, 0
	}
	if l.in.readUTF16 != nil {
		return l.decodeUTF16(off)
	}
	return l.decodeUTF8(off)
}

func (l *lexer) decodeUTF8(off int) (rune, int) {
	end := l.rangeEnd()
	var buf [utf8.UTFMax]byte
	n := 0
	for n < utf8.UTFMax && off+n < end {
		b, ok := l.byteAt(off + n)
		if !ok {
			break
		}
		buf[n] = b
		n++
		if n == 1 && b < utf8.RuneSelf {
			return rune(b), 1
		}
		if n > 1 && utf8.FullRune(buf[:n]) {
			break
		}
	}
	if n == 0 {
		return -1, 0
	}
	r, size := utf8.DecodeRune(buf[:n])
	if r == utf8.RuneError && size <= 1 {
		// Not valid UTF-8; surface the byte itself so the scanner can
		// reject it as a one-byte unexpected token.
		return rune(buf[0]), 1
	}
	return r, size
}

func (l *lexer) decodeUTF16(off int) (rune, int) {
	end := l.rangeEnd()
	u0, ok := l.unitAt(off / 2)
	if !ok {
		return -1, 0
	}
	if utf16.IsSurrogate(rune(u0)) && off+4 <= end {
		if u1, ok := l.unitAt(off/2 + 1); ok {
			if r := utf16.DecodeRune(rune(u0), rune(u1)); r != utf8.RuneError {
				return r, 4
			}
		}
	}
	return rune(u0), 2
}

func (l *lexer) byteAt(off int) (byte, bool) {
	if off >= l.docEnd {
		return 0, false
	}
	if off < l.chunkStart || off >= l.chunkStart+len(l.chunk) {
		data := l.in.readUTF8(off, l.point)
		if len(data) == 0 {
			l.docEnd = min(l.docEnd, off)
			return 0, false
		}
		l.chunk, l.chunkStart = data, off
	}
	return l.chunk[off-l.chunkStart], true
}

func (l *lexer) unitAt(unit int) (uint16, bool) {
	off := unit * 2
	if off >= l.docEnd {
		return 0, false
	}
	if off < l.chunk16Start || off >= l.chunk16Start+2*len(l.chunk16) {
		data := l.in.readUTF16(unit, source.Point{
			Row:    l.point.Row,
			Column: l.point.Column / 2,
		})
		if len(data) == 0 {
			l.docEnd = min(l.docEnd, off)
			return 0, false
		}
		l.chunk16, l.chunk16Start = data, off
	}
	return l.chunk16[(off-l.chunk16Start)/2], true
}
