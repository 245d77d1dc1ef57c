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
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/arborlabs/arbor/internal/langtest"
	"github.com/arborlabs/arbor/parser"
	"github.com/arborlabs/arbor/source"
)

// replacement builds the edit that swaps old for new at the first
// occurrence of old in text, along with the resulting text.
func replacement(t *testing.T, text, old, new string) (source.Edit, string) {
	t.Helper()
	start := strings.Index(text, old)
	require.GreaterOrEqual(t, start, 0)
	after := text[:start] + new + text[start+len(old):]
	before, edited := source.NewFile(text), source.NewFile(after)
	return source.Edit{
		StartByte:   start,
		OldEndByte:  start + len(old),
		NewEndByte:  start + len(new),
		StartPoint:  before.Point(start),
		OldEndPoint: before.Point(start + len(old)),
		NewEndPoint: edited.Point(start + len(new)),
	}, after
}

func TestEditThenReparseEquivalence(t *testing.T) {
	t.Parallel()

	p := parser.New()
	require.NoError(t, p.SetLanguage(langtest.JSON()))

	text1 := `{"a": [1, 2, 3], "b": {"c": null}}`
	tree1, err := p.ParseString(text1, nil)
	require.NoError(t, err)

	edit, text2 := replacement(t, text1, "null", "false")
	require.NoError(t, tree1.Edit(edit))

	incremental, err := p.ParseString(text2, tree1)
	require.NoError(t, err)
	fresh, err := p.ParseString(text2, nil)
	require.NoError(t, err)

	assert.Equal(t, fresh.Root().Sexp(), incremental.Root().Sexp())
	assert.Equal(t, fresh.Root().EndByte(), incremental.Root().EndByte())

	// The edited old tree reports the replaced span as changed.
	changed := tree1.ChangedRanges(incremental)
	require.NotEmpty(t, changed)
	covered := false
	for _, r := range changed {
		if r.Contains(edit.StartByte) {
			covered = true
		}
	}
	assert.True(t, covered, "changed ranges %v should cover byte %d", changed, edit.StartByte)

	// Two independent parses of identical text differ nowhere.
	assert.Empty(t, fresh.ChangedRanges(incremental))
}

func TestReuseAvoidsRereadingUneditedText(t *testing.T) {
	t.Parallel()

	p := parser.New()
	require.NoError(t, p.SetLanguage(langtest.JSON()))

	text1 := "[1234, 456, 789, 101112]"
	tree1, err := p.ParseString(text1, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"(value (array (number) (number) (number) (number)))",
		tree1.Root().Sexp())

	edit, text2 := replacement(t, text1, "1234", "1")
	require.NoError(t, tree1.Edit(edit))

	// Serve the new text in small chunks and record which offsets
	// actually produce data.
	var reads []int
	tree2, err := p.Parse(func(off int, _ source.Point) []byte {
		if off >= len(text2) {
			return nil
		}
		reads = append(reads, off)
		end := min(off+3, len(text2))
		return []byte(text2[off:end])
	}, tree1)
	require.NoError(t, err)

	fresh, err := p.ParseString(text2, nil)
	require.NoError(t, err)
	assert.Equal(t, fresh.Root().Sexp(), tree2.Root().Sexp())

	// Only the edited prefix may be read; the unedited numbers are
	// carried over from the previous tree by geometry alone.
	require.NotEmpty(t, reads)
	for _, off := range reads {
		assert.Less(t, off, 6, "read at offset %d, beyond the edited region", off)
	}
}

func TestCloneIsolation(t *testing.T) {
	t.Parallel()

	p := parser.New()
	require.NoError(t, p.SetLanguage(langtest.JSON()))

	text := `[1, [2, 3]]`
	tree, err := p.ParseString(text, nil)
	require.NoError(t, err)
	before := tree.Root().Sexp()

	clone := tree.Clone()
	edit, _ := replacement(t, text, "1,", "100,")
	require.NoError(t, clone.Edit(edit))

	// The clone's geometry moved; the original did not.
	assert.Equal(t, before, tree.Root().Sexp())
	assert.Equal(t, len(text), tree.Root().EndByte())
	assert.Equal(t, len(text)+2, clone.Root().EndByte())
}

func TestConcurrentDerivedParses(t *testing.T) {
	t.Parallel()

	base := "f(); g(); h();"
	p := parser.New()
	require.NoError(t, p.SetLanguage(langtest.Script()))
	tree, err := p.ParseString(base, nil)
	require.NoError(t, err)
	require.Equal(t, 3, tree.Root().ChildCount())
	baseSexp := tree.Root().Sexp()

	const stmt = "q(); "
	var g errgroup.Group
	for i := 1; i <= 4; i++ {
		i := i
		g.Go(func() error {
			prefix := strings.Repeat(stmt, i)
			clone := tree.Clone()
			if err := clone.Edit(source.Edit{
				NewEndByte:  len(prefix),
				NewEndPoint: source.Point{Column: len(prefix)},
			}); err != nil {
				return err
			}

			p := parser.New()
			if err := p.SetLanguage(langtest.Script()); err != nil {
				return err
			}
			derived, err := p.ParseString(prefix+base, clone)
			if err != nil {
				return err
			}
			if got, want := derived.Root().ChildCount(), 3+i; got != want {
				return fmt.Errorf("prepending %d statements: root has %d children, want %d",
					i, got, want)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// The shared original is untouched.
	assert.Equal(t, baseSexp, tree.Root().Sexp())
	assert.Equal(t, 3, tree.Root().ChildCount())
}
