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

package parser_test

import (
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborlabs/arbor/internal/langtest"
	"github.com/arborlabs/arbor/parser"
	"github.com/arborlabs/arbor/source"
)

// lineRange builds a Range over [start, end) of a single-line text.
func lineRange(start, end int) source.Range {
	return source.Range{
		StartByte:  start,
		EndByte:    end,
		StartPoint: source.Point{Column: start},
		EndPoint:   source.Point{Column: end},
	}
}

func TestIncludedRangesEmbeddedScript(t *testing.T) {
	t.Parallel()

	const text = `<script>console.log('sup')</script>`
	rawText := lineRange(
		strings.Index(text, "console"),
		strings.Index(text, "</script>"),
	)
	require.Equal(t, lineRange(8, 26), rawText)

	// The host document parses as markup.
	host := parser.New()
	require.NoError(t, host.SetLanguage(langtest.Markup()))
	hostTree, err := host.ParseString(text, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"(fragment (element (start_tag (tag_name)) (text) (end_tag (tag_name))))",
		hostTree.Root().Sexp())

	// The embedded region parses as script, keeping absolute offsets.
	embedded := parser.New()
	require.NoError(t, embedded.SetLanguage(langtest.Script()))
	require.NoError(t, embedded.SetIncludedRanges([]source.Range{rawText}))

	tree, err := embedded.ParseString(text, nil)
	require.NoError(t, err)

	root := tree.Root()
	assert.Equal(t,
		"(program (expression_statement (call_expression "+
			"(member_expression (identifier) (property_identifier)) "+
			"(arguments (string)))))",
		root.Sexp())
	assert.False(t, root.HasError())
	assert.Equal(t, 8, root.StartByte())
	assert.Equal(t, source.Point{Row: 0, Column: 8}, root.StartPoint())
	assert.Equal(t, 26, root.EndByte())
	assert.Equal(t, []source.Range{rawText}, tree.IncludedRanges())
}

func TestMissingTokenAtRangeStart(t *testing.T) {
	t.Parallel()

	p := parser.New()
	require.NoError(t, p.SetLanguage(langtest.Seq()))
	require.NoError(t, p.SetIncludedRanges([]source.Range{
		lineRange(2, 4),
		lineRange(6, 8),
	}))

	tree, err := p.ParseString("__bc__bc__", nil)
	require.NoError(t, err)

	root := tree.Root()
	assert.Equal(t,
		"(program (A (MISSING)) (b) (c) (A (MISSING)) (b) (c))",
		root.Sexp())
	assert.True(t, root.HasError())

	// The first missing "a" sits at the first included range's start,
	// not at byte zero.
	assert.Equal(t, 2, root.StartByte())
	first := root.Child(0).Child(0)
	require.True(t, first.IsMissing())
	assert.Equal(t, 2, first.StartByte())
	assert.Equal(t, 2, first.EndByte())

	// The second one sits where the grammar expected it, at the end of
	// the already-consumed input.
	second := root.Child(3).Child(0)
	require.True(t, second.IsMissing())
	assert.Equal(t, 4, second.StartByte())
	assert.Equal(t, 4, root.Child(3).StartByte())
	assert.Equal(t, 6, root.Child(4).StartByte())
}

func TestUTF16RecoveryWithinRange(t *testing.T) {
	t.Parallel()

	units := utf16.Encode([]rune("a."))

	p := parser.New()
	require.NoError(t, p.SetLanguage(langtest.Script()))
	require.NoError(t, p.SetIncludedRanges([]source.Range{
		{StartByte: 0, EndByte: 4, EndPoint: source.Point{Column: 4}},
	}))

	tree, err := p.ParseUTF16(func(off int, _ source.Point) []uint16 {
		if off >= len(units) {
			return nil
		}
		return units[off:]
	}, nil)
	require.NoError(t, err)

	root := tree.Root()
	assert.Equal(t, "(program (ERROR (identifier)))", root.Sexp())
	assert.True(t, root.HasError())
	ident := root.Child(0).Child(0)
	assert.Equal(t, 0, ident.StartByte())
	assert.Equal(t, 2, ident.EndByte())
}

func TestChangedRangesAcrossRangeChanges(t *testing.T) {
	t.Parallel()

	const text = `<script>a;</script><script>b;</script>`
	region1 := lineRange(8, 10)
	region2 := lineRange(27, 29)

	p := parser.New()
	require.NoError(t, p.SetLanguage(langtest.Script()))
	require.NoError(t, p.SetIncludedRanges([]source.Range{region1}))

	tree1, err := p.ParseString(text, nil)
	require.NoError(t, err)
	assert.Equal(t, "(program (expression_statement (identifier)))", tree1.Root().Sexp())

	// Same text, one more included region. No edit happened, but the
	// newly included region must be reported as changed.
	require.NoError(t, p.SetIncludedRanges([]source.Range{region1, region2}))
	tree2, err := p.ParseString(text, tree1)
	require.NoError(t, err)
	assert.Equal(t,
		"(program (expression_statement (identifier)) (expression_statement (identifier)))",
		tree2.Root().Sexp())

	changed := tree1.ChangedRanges(tree2)
	require.NotEmpty(t, changed)
	var coversNew bool
	for _, r := range changed {
		assert.GreaterOrEqual(t, r.StartByte, region1.EndByte,
			"the still-included region must not be marked changed")
		if r.Contains(region2.StartByte) && r.Contains(region2.EndByte-1) {
			coversNew = true
		}
	}
	assert.True(t, coversNew, "changed ranges %v should cover %v", changed, region2)
}
