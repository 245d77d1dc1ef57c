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

// Package source provides the position, range, and edit primitives shared
// by the whole parsing engine.
//
// Offsets are always byte offsets into the original buffer, even when the
// buffer was supplied as UTF-16 code units (each unit counts as two bytes).
// Points are zero-based row/column pairs whose column is measured in the
// same byte units, so that a Point and a byte offset advance in lockstep.
package source

import (
	"fmt"
)

// Point is a zero-based row/column position.
//
// Column is counted in bytes from the start of the row.
type Point struct {
	Row    int
	Column int
}

// Cmp compares two points lexicographically.
func (p Point) Cmp(q Point) int {
	if p.Row != q.Row {
		if p.Row < q.Row {
			return -1
		}
		return 1
	}
	if p.Column != q.Column {
		if p.Column < q.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Add treats q as a displacement relative to p, and returns the absolute
// point q lands on. If q has moved to a new row, p's column no longer
// matters.
func (p Point) Add(q Point) Point {
	if q.Row == 0 {
		return Point{Row: p.Row, Column: p.Column + q.Column}
	}
	return Point{Row: p.Row + q.Row, Column: q.Column}
}

// Sub returns q's position relative to p. It is the inverse of [Point.Add]:
// p.Add(q.Sub(p)) == q for any q >= p.
func (q Point) Sub(p Point) Point {
	if q.Row == p.Row {
		return Point{Row: 0, Column: q.Column - p.Column}
	}
	return Point{Row: q.Row - p.Row, Column: q.Column}
}

// String implements [fmt.Stringer].
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Column)
}

// Length is a distance through the buffer: a byte count paired with the
// row/column displacement it covers.
type Length struct {
	Bytes  int
	Extent Point
}

// Len constructs a single-row Length of the given byte count.
func Len(bytes int) Length {
	return Length{Bytes: bytes, Extent: Point{Column: bytes}}
}

// Add concatenates two lengths.
func (l Length) Add(m Length) Length {
	return Length{
		Bytes:  l.Bytes + m.Bytes,
		Extent: l.Extent.Add(m.Extent),
	}
}

// Sub removes a prefix m from l.
func (l Length) Sub(m Length) Length {
	return Length{
		Bytes:  l.Bytes - m.Bytes,
		Extent: l.Extent.Sub(m.Extent),
	}
}

// IsZero reports whether this length covers no input.
func (l Length) IsZero() bool {
	return l.Bytes == 0 && l.Extent == Point{}
}

// Between returns the length separating two (offset, point) pairs.
func Between(startByte int, startPoint Point, endByte int, endPoint Point) Length {
	return Length{
		Bytes:  endByte - startByte,
		Extent: endPoint.Sub(startPoint),
	}
}

// Range is a span of the buffer, with both byte and point endpoints.
//
// The zero Range is the empty range at the start of the buffer.
type Range struct {
	StartByte  int
	EndByte    int
	StartPoint Point
	EndPoint   Point
}

// Contains reports whether offset lies in [r.StartByte, r.EndByte).
func (r Range) Contains(offset int) bool {
	return offset >= r.StartByte && offset < r.EndByte
}

// ContainsRange reports whether [start, end) lies entirely within r.
func (r Range) ContainsRange(start, end int) bool {
	return start >= r.StartByte && end <= r.EndByte
}

// Overlaps reports whether r and q share at least one byte.
func (r Range) Overlaps(q Range) bool {
	return r.StartByte < q.EndByte && q.StartByte < r.EndByte
}

// Len returns the byte length of the range.
func (r Range) Len() int {
	return r.EndByte - r.StartByte
}

// String implements [fmt.Stringer].
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d) %v-%v", r.StartByte, r.EndByte, r.StartPoint, r.EndPoint)
}

// Edit describes a single contiguous text replacement: the span
// [StartByte, OldEndByte) is replaced by text of length
// NewEndByte - StartByte.
//
// Multiple edits compose by sequential application, with each later edit's
// offsets expressed in the coordinate space produced by the earlier ones.
type Edit struct {
	StartByte   int
	OldEndByte  int
	NewEndByte  int
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

// Validate checks the edit's internal consistency.
func (e Edit) Validate() error {
	if e.OldEndByte < e.StartByte || e.NewEndByte < e.StartByte {
		return fmt.Errorf("%w: start %d, old end %d, new end %d",
			ErrInvertedEdit, e.StartByte, e.OldEndByte, e.NewEndByte)
	}
	if e.OldEndPoint.Cmp(e.StartPoint) < 0 || e.NewEndPoint.Cmp(e.StartPoint) < 0 {
		return fmt.Errorf("%w: start %v, old end %v, new end %v",
			ErrInvertedEdit, e.StartPoint, e.OldEndPoint, e.NewEndPoint)
	}
	return nil
}

// NewLength returns the length of the replacement text.
func (e Edit) NewLength() Length {
	return Between(e.StartByte, e.StartPoint, e.NewEndByte, e.NewEndPoint)
}

// OldLength returns the length of the replaced text.
func (e Edit) OldLength() Length {
	return Between(e.StartByte, e.StartPoint, e.OldEndByte, e.OldEndPoint)
}
