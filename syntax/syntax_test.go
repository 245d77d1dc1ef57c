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

package syntax_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborlabs/arbor/grammar"
	"github.com/arborlabs/arbor/internal/langtest"
	"github.com/arborlabs/arbor/parser"
	"github.com/arborlabs/arbor/source"
	"github.com/arborlabs/arbor/syntax"
)

func parse(t *testing.T, lang *grammar.Language, text string) *syntax.Tree {
	t.Helper()
	p := parser.New()
	require.NoError(t, p.SetLanguage(lang))
	tree, err := p.ParseString(text, nil)
	require.NoError(t, err)
	return tree
}

// edit builds a single-line replacement of text[start:start+oldLen] by
// newLen bytes.
func edit(start, oldLen, newLen int) source.Edit {
	return source.Edit{
		StartByte:   start,
		OldEndByte:  start + oldLen,
		NewEndByte:  start + newLen,
		StartPoint:  source.Point{Column: start},
		OldEndPoint: source.Point{Column: start + oldLen},
		NewEndPoint: source.Point{Column: start + newLen},
	}
}

func TestEditRepositionsNodes(t *testing.T) {
	t.Parallel()

	tree := parse(t, langtest.JSON(), "[1, 22]")
	arr := tree.Root().NamedChild(0)
	require.Equal(t, "array", arr.Kind())
	require.Equal(t, 6, arr.NamedChild(1).EndByte())

	// Replace "1" with "100".
	require.NoError(t, tree.Edit(edit(1, 1, 3)))

	root := tree.Root()
	assert.Equal(t, 9, root.EndByte())
	assert.True(t, root.HasChanges())

	arr = root.NamedChild(0)
	first, second := arr.NamedChild(0), arr.NamedChild(1)
	assert.Equal(t, 1, first.StartByte())
	assert.Equal(t, 4, first.EndByte())
	assert.True(t, first.HasChanges())

	// Siblings past the replaced span keep their relative position.
	assert.Equal(t, 6, second.StartByte())
	assert.Equal(t, 8, second.EndByte())
	assert.Equal(t, source.Point{Row: 0, Column: 6}, second.StartPoint())
	assert.False(t, second.HasChanges())
}

func TestEditThenIncrementalParse(t *testing.T) {
	t.Parallel()

	p := parser.New()
	require.NoError(t, p.SetLanguage(langtest.JSON()))

	tree, err := p.ParseString("[1, 22]", nil)
	require.NoError(t, err)

	// Delete ", 22".
	require.NoError(t, tree.Edit(edit(2, 4, 0)))
	assert.Equal(t, 3, tree.Root().EndByte())

	reparsed, err := p.ParseString("[1]", tree)
	require.NoError(t, err)
	fresh, err := p.ParseString("[1]", nil)
	require.NoError(t, err)
	assert.Equal(t, fresh.Root().Sexp(), reparsed.Root().Sexp())
}

func TestEditsCompose(t *testing.T) {
	t.Parallel()

	p := parser.New()
	require.NoError(t, p.SetLanguage(langtest.JSON()))

	tree, err := p.ParseString("[1, 2]", nil)
	require.NoError(t, err)

	// "1" -> "10", then "2" -> "20" at its post-first-edit offset.
	require.NoError(t, tree.Edit(edit(1, 1, 2)))
	require.NoError(t, tree.Edit(edit(5, 1, 2)))
	assert.Equal(t, 8, tree.Root().EndByte())

	reparsed, err := p.ParseString("[10, 20]", tree)
	require.NoError(t, err)
	fresh, err := p.ParseString("[10, 20]", nil)
	require.NoError(t, err)
	assert.Equal(t, fresh.Root().Sexp(), reparsed.Root().Sexp())
}

func TestEditRejectsInvertedEdit(t *testing.T) {
	t.Parallel()

	tree := parse(t, langtest.JSON(), "[1]")
	err := tree.Edit(source.Edit{
		StartByte:  3,
		OldEndByte: 1,
		NewEndByte: 3,
	})
	require.ErrorIs(t, err, source.ErrInvertedEdit)

	// A rejected edit leaves the tree alone.
	assert.Equal(t, 3, tree.Root().EndByte())
	assert.False(t, tree.Root().HasChanges())
}

func TestCloneSharesSubtrees(t *testing.T) {
	t.Parallel()

	tree := parse(t, langtest.JSON(), "[1, 22]")
	clone := tree.Clone()
	assert.Same(t, tree.RootSubtree(), clone.RootSubtree())

	// Editing the clone replaces only the spine above the edit; the
	// untouched tail of the array is still shared by pointer.
	require.NoError(t, clone.Edit(edit(1, 1, 3)))
	require.NotSame(t, tree.RootSubtree(), clone.RootSubtree())

	origArr := tree.RootSubtree().Children()[0]
	cloneArr := clone.RootSubtree().Children()[0]
	require.NotSame(t, origArr, cloneArr)
	assert.Same(t, origArr.Children()[2], cloneArr.Children()[2])
	assert.Same(t, origArr.Children()[3], cloneArr.Children()[3])

	// The original never sees the edit.
	assert.Equal(t, 7, tree.Root().EndByte())
	assert.Equal(t, 9, clone.Root().EndByte())
}

func TestNodeAccessors(t *testing.T) {
	t.Parallel()

	tree := parse(t, langtest.JSON(), "[1, [true]]")
	root := tree.Root()
	require.Equal(t, "value", root.Kind())
	assert.Same(t, tree, root.Tree())
	assert.False(t, root.IsZero())
	assert.False(t, root.HasError())

	arr := root.NamedChild(0)
	assert.Equal(t, 5, arr.ChildCount())
	assert.Equal(t, 2, arr.NamedChildCount())

	open := arr.Child(0)
	assert.Equal(t, "[", open.Kind())
	assert.False(t, open.IsNamed())

	num := arr.NamedChild(0)
	assert.Equal(t, "number", num.Kind())
	assert.Equal(t, source.Range{
		StartByte:  1,
		EndByte:    2,
		StartPoint: source.Point{Row: 0, Column: 1},
		EndPoint:   source.Point{Row: 0, Column: 2},
	}, num.Range())

	inner := arr.NamedChild(1)
	assert.Equal(t, "array", inner.Kind())
	assert.Equal(t, 4, inner.StartByte())
	assert.Equal(t, "true", inner.NamedChild(0).Kind())

	// Out-of-range and negative indexes yield the zero node.
	assert.True(t, arr.Child(5).IsZero())
	assert.True(t, arr.Child(-1).IsZero())
	assert.True(t, arr.NamedChild(2).IsZero())
	assert.True(t, arr.NamedChild(-1).IsZero())
}

func TestDescendantForByteRange(t *testing.T) {
	t.Parallel()

	tree := parse(t, langtest.JSON(), "[[1]]")
	root := tree.Root()

	// Exact-span ties resolve to the outermost node.
	whole := root.DescendantForByteRange(0, 5)
	assert.Equal(t, "value", whole.Kind())

	inner := root.DescendantForByteRange(1, 4)
	assert.Equal(t, "array", inner.Kind())
	assert.Equal(t, 1, inner.StartByte())

	num := root.DescendantForByteRange(2, 3)
	assert.Equal(t, "number", num.Kind())

	// A span inside a token resolves to that token.
	open := root.DescendantForByteRange(0, 1)
	assert.Equal(t, "[", open.Kind())

	// Out-of-bounds spans yield the zero node.
	assert.True(t, root.DescendantForByteRange(0, 100).IsZero())
	assert.True(t, root.DescendantForByteRange(-1, 2).IsZero())
}

func TestDescendantForByteRangeZeroWidth(t *testing.T) {
	t.Parallel()

	tree := parse(t, langtest.JSON(), "[]")
	arr := tree.Root().NamedChild(0)

	// Both brackets contain the zero-width span at their boundary;
	// the earlier child wins.
	n := arr.DescendantForByteRange(1, 1)
	assert.Equal(t, "[", n.Kind())
}

func TestChangedRangesBetweenIndependentTrees(t *testing.T) {
	t.Parallel()

	a := parse(t, langtest.JSON(), "[1]")
	b := parse(t, langtest.JSON(), "[1, 2]")

	// Without shared subtrees the diff is coarse: the arrays overlap
	// but end at different offsets, so the longer one is reported
	// whole and absorbs the finer-grained differences.
	got := a.ChangedRanges(b)
	want := []source.Range{
		{
			StartByte:  0,
			EndByte:    6,
			StartPoint: source.Point{Row: 0, Column: 0},
			EndPoint:   source.Point{Row: 0, Column: 6},
		},
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestChangedRangesEqualTreesAreEmpty(t *testing.T) {
	t.Parallel()

	a := parse(t, langtest.JSON(), "[1, null]")
	b := parse(t, langtest.JSON(), "[1, null]")

	// Structurally identical trees report no changes even though no
	// subtree is shared by pointer.
	assert.Empty(t, a.ChangedRanges(b))
	assert.Empty(t, b.ChangedRanges(a))
}

func TestSexpRendering(t *testing.T) {
	t.Parallel()

	tree := parse(t, langtest.JSON(), `{"a": [1, null]}`)
	require.Equal(t,
		"(value (object (pair (string) (array (number) (null)))))",
		tree.Root().Sexp())

	// Anonymous nodes render their named descendants only; a bare
	// anonymous token renders as nothing.
	arr := tree.Root().NamedChild(0).NamedChild(0).NamedChild(1)
	require.Equal(t, "array", arr.Kind())
	assert.Equal(t, "", arr.Child(0).Sexp())
	assert.Equal(t, "(array (number) (null))", arr.Sexp())
}
