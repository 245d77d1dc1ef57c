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
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/petermattis/goid"

	"github.com/arborlabs/arbor/grammar"
	"github.com/arborlabs/arbor/source"
	"github.com/arborlabs/arbor/syntax"
)

var (
	// ErrNoLanguage reports a parse attempted before SetLanguage.
	ErrNoLanguage = errors.New("parser: no language set")
	// ErrLanguageMismatch reports a previous tree produced under a
	// different language than the parser's current one.
	ErrLanguageMismatch = errors.New("parser: previous tree parsed with a different language")
	// ErrRangeOrder reports included ranges supplied out of order or
	// inverted.
	ErrRangeOrder = errors.New("parser: included ranges out of order")
	// ErrRangeOverlap reports included ranges that overlap.
	ErrRangeOverlap = errors.New("parser: included ranges overlap")
	// ErrOperationLimit reports that a parse stopped at its operation
	// budget. The parser retains its position and partial stack, so a
	// later Parse call resumes where this one stopped; Reset discards
	// the retained state instead.
	ErrOperationLimit = errors.New("parser: operation limit reached")
)

// ReadFunc supplies UTF-8 input. It returns the text from byteOffset
// forward, in chunks of any size; an empty result means end of input.
// It must be stable under repeated calls at the same offset within one
// parse.
type ReadFunc func(byteOffset int, position source.Point) []byte

// Read16Func supplies UTF-16 input. Offsets and point columns are in
// 16-bit code units.
type Read16Func func(unitOffset int, position source.Point) []uint16

// Parser turns input text into [syntax.Tree] values, incrementally when
// given a previous (edited) tree.
//
// Language, included ranges, operation limit, and logger are
// instance-scoped configuration, set once and reused across many
// parses. A Parser may be used from any goroutine but only one at a
// time; concurrent use panics.
type Parser struct {
	busy atomic.Int64 // goroutine id of the current holder

	lang   *grammar.Language
	ranges []source.Range
	limit  int
	log    LogFunc

	// Suspended parse retained after an operation-limit stop.
	session *session
}

// New returns a parser with no language, no included ranges, and no
// operation limit.
func New() *Parser { return &Parser{} }

// SetLanguage sets the grammar used by subsequent parses and discards
// any suspended parse.
func (p *Parser) SetLanguage(lang *grammar.Language) error {
	if lang == nil {
		return ErrNoLanguage
	}
	defer p.hold()()
	p.lang = lang
	p.session = nil
	return nil
}

// Language returns the parser's current language, nil if unset.
func (p *Parser) Language() *grammar.Language { return p.lang }

// SetIncludedRanges restricts subsequent parses to the given sorted,
// non-overlapping ranges of the input; node positions still refer to
// absolute offsets in the original buffer. An empty slice restores
// whole-input parsing. On error the prior configuration stays in
// effect. Setting ranges discards any suspended parse.
func (p *Parser) SetIncludedRanges(ranges []source.Range) error {
	for i, r := range ranges {
		if r.EndByte < r.StartByte {
			return fmt.Errorf("%w: range %d is inverted", ErrRangeOrder, i)
		}
		if i == 0 {
			continue
		}
		prev := ranges[i-1]
		if r.StartByte < prev.StartByte {
			return fmt.Errorf("%w: range %d starts before range %d", ErrRangeOrder, i, i-1)
		}
		if r.StartByte < prev.EndByte {
			return fmt.Errorf("%w: ranges %d and %d", ErrRangeOverlap, i-1, i)
		}
	}
	defer p.hold()()
	p.ranges = append([]source.Range(nil), ranges...)
	p.session = nil
	return nil
}

// IncludedRanges returns the parser's current included ranges; empty
// means the whole input.
func (p *Parser) IncludedRanges() []source.Range {
	return append([]source.Range(nil), p.ranges...)
}

// SetOperationLimit bounds the number of internal steps (lexer
// invocations and token pushes) a single Parse call may spend; n <= 0
// means unlimited. Changing the limit does not discard a suspended
// parse, so raising the limit and parsing again resumes.
func (p *Parser) SetOperationLimit(n int) {
	p.limit = n
}

// OperationLimit returns the current operation limit.
func (p *Parser) OperationLimit() int { return p.limit }

// SetLogger installs a diagnostic callback for subsequent parses; nil
// disables logging.
func (p *Parser) SetLogger(f LogFunc) {
	p.log = f
}

// Reset discards any suspended parse so the next Parse starts from
// scratch. This is what makes text edits at already-scanned positions
// visible after an operation-limit stop.
func (p *Parser) Reset() {
	defer p.hold()()
	p.session = nil
}

// Parse parses UTF-8 input. old, if non-nil, must be a tree from a
// prior parse under the same language, already adjusted with Tree.Edit
// for every text change since; its unchanged subtrees are reused
// without re-reading their text. Returns ErrOperationLimit and no tree
// when the operation budget runs out.
func (p *Parser) Parse(read ReadFunc, old *syntax.Tree) (*syntax.Tree, error) {
	defer p.hold()()
	return p.parse(&input{readUTF8: read}, old)
}

// ParseUTF16 parses UTF-16 input; see [Parser.Parse]. Node byte offsets
// and point columns count two per code unit.
func (p *Parser) ParseUTF16(read Read16Func, old *syntax.Tree) (*syntax.Tree, error) {
	defer p.hold()()
	return p.parse(&input{readUTF16: read}, old)
}

// ParseString parses an in-memory string; see [Parser.Parse].
func (p *Parser) ParseString(text string, old *syntax.Tree) (*syntax.Tree, error) {
	return p.Parse(func(off int, _ source.Point) []byte {
		if off >= len(text) {
			return nil
		}
		return []byte(text[off:])
	}, old)
}

func (p *Parser) parse(in *input, old *syntax.Tree) (*syntax.Tree, error) {
	if p.lang == nil {
		return nil, ErrNoLanguage
	}
	if old != nil && old.Language() != p.lang {
		return nil, ErrLanguageMismatch
	}

	s := p.session
	if s == nil {
		s = newSession(p.lang, p.ranges, old)
	}
	s.log = p.log
	s.limit = p.limit
	s.ops = 0
	s.lx.setInput(in)

	tree, err := s.run()
	if errors.Is(err, ErrOperationLimit) {
		p.session = s
		return nil, err
	}
	p.session = nil
	return tree, err
}

// hold marks the parser as owned by the calling goroutine for the
// duration of one operation.
func (p *Parser) hold() func() {
	id := goid.Get()
	if !p.busy.CompareAndSwap(0, id) {
		panic(fmt.Sprintf(
			"parser: concurrent use of Parser: goroutine %d, already held by goroutine %d",
			id, p.busy.Load(),
		))
	}
	return func() { p.busy.Store(0) }
}
