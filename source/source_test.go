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

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborlabs/arbor/source"
)

func TestPointCmp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, source.Point{Row: 1, Column: 2}.Cmp(source.Point{Row: 1, Column: 2}))
	assert.Equal(t, -1, source.Point{Row: 1, Column: 9}.Cmp(source.Point{Row: 2, Column: 0}))
	assert.Equal(t, 1, source.Point{Row: 2, Column: 0}.Cmp(source.Point{Row: 1, Column: 9}))
	assert.Equal(t, -1, source.Point{Row: 1, Column: 2}.Cmp(source.Point{Row: 1, Column: 3}))
}

func TestPointAddSub(t *testing.T) {
	t.Parallel()

	p := source.Point{Row: 2, Column: 5}

	// A same-row displacement extends the column; a multi-row one
	// replaces it.
	assert.Equal(t, source.Point{Row: 2, Column: 8}, p.Add(source.Point{Row: 0, Column: 3}))
	assert.Equal(t, source.Point{Row: 3, Column: 2}, p.Add(source.Point{Row: 1, Column: 2}))

	// Sub inverts Add for any q >= p.
	for _, q := range []source.Point{
		{Row: 2, Column: 5},
		{Row: 2, Column: 9},
		{Row: 4, Column: 0},
		{Row: 7, Column: 3},
	} {
		assert.Equal(t, q, p.Add(q.Sub(p)), "q=%v", q)
	}
}

func TestLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, source.Length{Bytes: 4, Extent: source.Point{Column: 4}}, source.Len(4))
	assert.True(t, source.Length{}.IsZero())
	assert.False(t, source.Len(1).IsZero())

	a := source.Length{Bytes: 3, Extent: source.Point{Row: 0, Column: 3}}
	b := source.Length{Bytes: 5, Extent: source.Point{Row: 1, Column: 2}}
	sum := a.Add(b)
	assert.Equal(t, source.Length{Bytes: 8, Extent: source.Point{Row: 1, Column: 2}}, sum)
	assert.Equal(t, b, sum.Sub(a))
}

func TestBetween(t *testing.T) {
	t.Parallel()

	got := source.Between(3, source.Point{Row: 0, Column: 3}, 10, source.Point{Row: 2, Column: 1})
	assert.Equal(t, source.Length{Bytes: 7, Extent: source.Point{Row: 2, Column: 1}}, got)

	same := source.Between(4, source.Point{Row: 1, Column: 0}, 4, source.Point{Row: 1, Column: 0})
	assert.True(t, same.IsZero())
}

func TestRange(t *testing.T) {
	t.Parallel()

	r := source.Range{StartByte: 2, EndByte: 6}
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(5))
	assert.False(t, r.Contains(6))
	assert.False(t, r.Contains(1))

	assert.True(t, r.ContainsRange(2, 6))
	assert.True(t, r.ContainsRange(3, 3))
	assert.False(t, r.ContainsRange(1, 4))
	assert.False(t, r.ContainsRange(4, 7))

	assert.True(t, r.Overlaps(source.Range{StartByte: 5, EndByte: 9}))
	assert.False(t, r.Overlaps(source.Range{StartByte: 6, EndByte: 9}))
	assert.False(t, r.Overlaps(source.Range{StartByte: 0, EndByte: 2}))

	assert.Equal(t, 4, r.Len())
}

func TestEditValidate(t *testing.T) {
	t.Parallel()

	ok := source.Edit{
		StartByte:   2,
		OldEndByte:  4,
		NewEndByte:  7,
		StartPoint:  source.Point{Column: 2},
		OldEndPoint: source.Point{Column: 4},
		NewEndPoint: source.Point{Column: 7},
	}
	require.NoError(t, ok.Validate())
	assert.Equal(t, source.Len(5), ok.NewLength())
	assert.Equal(t, source.Len(2), ok.OldLength())

	badBytes := ok
	badBytes.OldEndByte = 1
	require.ErrorIs(t, badBytes.Validate(), source.ErrInvertedEdit)

	badPoints := ok
	badPoints.NewEndPoint = source.Point{Column: 1}
	require.ErrorIs(t, badPoints.Validate(), source.ErrInvertedEdit)
}

func TestFileLocation(t *testing.T) {
	t.Parallel()

	// Second line mixes multibyte runes with a tab:
	// bytes 3.. are α(2) β(2) \t(1) 中(3) x(1).
	f := source.NewFile("ab\nαβ\t中x")
	afterHan := 3 + 2 + 2 + 1 + 3

	tests := []struct {
		name   string
		offset int
		units  source.LengthUnit
		want   source.Location
	}{
		{"start", 0, source.ByteLength, source.Location{Offset: 0, Line: 1, Column: 1}},
		{"mid first line", 2, source.ByteLength, source.Location{Offset: 2, Line: 1, Column: 3}},
		{"line start", 3, source.ByteLength, source.Location{Offset: 3, Line: 2, Column: 1}},
		{"bytes", afterHan, source.ByteLength, source.Location{Offset: afterHan, Line: 2, Column: 9}},
		{"runes", afterHan, source.RuneLength, source.Location{Offset: afterHan, Line: 2, Column: 5}},
		{"utf16", afterHan, source.UTF16Length, source.Location{Offset: afterHan, Line: 2, Column: 5}},
		// αβ is 2 cells, the tab snaps to the tabstop at 4, and the
		// han character is 2 cells wide.
		{"cells", afterHan, source.TermWidth, source.Location{Offset: afterHan, Line: 2, Column: 7}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, f.Location(tt.offset, tt.units))
		})
	}
}

func TestFileLocationTabAtTabstop(t *testing.T) {
	t.Parallel()

	// A tab at an exact tabstop still advances a full stop.
	f := source.NewFile("abcd\tx")
	loc := f.Location(5, source.TermWidth)
	assert.Equal(t, source.Location{Offset: 5, Line: 1, Column: 9}, loc)
}

func TestFilePoint(t *testing.T) {
	t.Parallel()

	f := source.NewFile("one\ntwo\n")
	assert.Equal(t, source.Point{}, f.Point(0))
	assert.Equal(t, source.Point{Row: 0, Column: 3}, f.Point(3))
	assert.Equal(t, source.Point{Row: 1, Column: 0}, f.Point(4))
	assert.Equal(t, source.Point{Row: 2, Column: 0}, f.Point(8))
}

func TestNilFile(t *testing.T) {
	t.Parallel()

	var f *source.File
	assert.Equal(t, "", f.Text())
	assert.Equal(t, source.Location{Line: 1, Column: 1}, f.Location(0, source.ByteLength))
}
