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

package interval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arborlabs/arbor/internal/interval"
	"github.com/arborlabs/arbor/source"
)

func span(start, end int) source.Range {
	return source.Range{
		StartByte:  start,
		EndByte:    end,
		StartPoint: source.Point{Column: start},
		EndPoint:   source.Point{Column: end},
	}
}

func bytes(ranges []source.Range) [][2]int {
	out := make([][2]int, len(ranges))
	for i, r := range ranges {
		out[i] = [2]int{r.StartByte, r.EndByte}
	}
	return out
}

func TestSetMergesOverlaps(t *testing.T) {
	t.Parallel()

	s := interval.NewSet()
	s.Add(span(5, 10))
	s.Add(span(20, 30))
	assert.Equal(t, 2, s.Len())

	// Bridges both existing ranges.
	s.Add(span(8, 22))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, [][2]int{{5, 30}}, bytes(s.Ranges()))
}

func TestSetMergesTouchingRanges(t *testing.T) {
	t.Parallel()

	s := interval.NewSet()
	s.Add(span(0, 5))
	s.Add(span(5, 10))
	assert.Equal(t, [][2]int{{0, 10}}, bytes(s.Ranges()))

	s.Add(span(12, 12))
	s.Add(span(11, 13))
	assert.Equal(t, [][2]int{{0, 10}, {11, 13}}, bytes(s.Ranges()))
}

func TestSetKeepsDisjointRangesSorted(t *testing.T) {
	t.Parallel()

	s := interval.NewSet()
	s.Add(span(40, 50))
	s.Add(span(0, 10))
	s.Add(span(20, 30))
	assert.Equal(t, [][2]int{{0, 10}, {20, 30}, {40, 50}}, bytes(s.Ranges()))
}

func TestCovers(t *testing.T) {
	t.Parallel()

	ranges := []source.Range{span(2, 8), span(12, 20)}

	assert.True(t, interval.Covers(ranges, 2, 8))
	assert.True(t, interval.Covers(ranges, 3, 5))
	assert.True(t, interval.Covers(ranges, 12, 12))
	assert.False(t, interval.Covers(ranges, 0, 3))
	assert.False(t, interval.Covers(ranges, 6, 14), "spanning a gap is not covered")
	assert.False(t, interval.Covers(ranges, 20, 22))
	assert.False(t, interval.Covers(nil, 0, 0))
}

func TestIntersects(t *testing.T) {
	t.Parallel()

	ranges := []source.Range{span(2, 8), span(12, 20)}

	assert.True(t, interval.Intersects(ranges, 0, 3))
	assert.True(t, interval.Intersects(ranges, 7, 13))
	assert.False(t, interval.Intersects(ranges, 8, 12), "the gap between ranges")
	assert.False(t, interval.Intersects(ranges, 20, 25))

	// Zero-width spans intersect only strictly inside a range.
	assert.True(t, interval.Intersects(ranges, 5, 5))
	assert.False(t, interval.Intersects(ranges, 2, 2))
	assert.False(t, interval.Intersects(ranges, 8, 8))
	assert.False(t, interval.Intersects(ranges, 10, 10))
}

func TestSymmetricDifference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []source.Range
		want [][2]int
	}{{
		name: "identical",
		a:    []source.Range{span(0, 10)},
		b:    []source.Range{span(0, 10)},
		want: nil,
	}, {
		name: "disjoint",
		a:    []source.Range{span(0, 5)},
		b:    []source.Range{span(10, 15)},
		want: [][2]int{{0, 5}, {10, 15}},
	}, {
		name: "partial overlap",
		a:    []source.Range{span(0, 10)},
		b:    []source.Range{span(5, 15)},
		want: [][2]int{{0, 5}, {10, 15}},
	}, {
		name: "b extends a",
		a:    []source.Range{span(8, 10)},
		b:    []source.Range{span(8, 10), span(27, 29)},
		want: [][2]int{{27, 29}},
	}, {
		name: "one side empty",
		a:    nil,
		b:    []source.Range{span(3, 7)},
		want: [][2]int{{3, 7}},
	}, {
		name: "nested",
		a:    []source.Range{span(0, 20)},
		b:    []source.Range{span(5, 10)},
		want: [][2]int{{0, 5}, {10, 20}},
	}}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := interval.SymmetricDifference(tc.a, tc.b)
			if tc.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tc.want, bytes(got))
			}
		})
	}
}
