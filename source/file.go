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

package source

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

// ErrInvertedEdit reports an [Edit] whose end precedes its start.
var ErrInvertedEdit = errors.New("source: edit end precedes start")

// LengthUnit selects the unit in which a [Location]'s column is measured.
type LengthUnit int

const (
	// ByteLength measures columns in bytes.
	ByteLength LengthUnit = iota
	// RuneLength measures columns in Unicode code points.
	RuneLength
	// UTF16Length measures columns in UTF-16 code units.
	UTF16Length
	// TermWidth measures columns in terminal cells.
	TermWidth
)

// Location is a human-displayable location within a [File].
//
// Line and Column are 1-indexed, so a zero Line can serve as a sentinel.
type Location struct {
	Offset int
	Line   int
	Column int
}

// File is an immutable source text with book-keeping for resolving byte
// offsets into line/column locations.
//
// A nil *File behaves like an empty file.
type File struct {
	text string

	once sync.Once
	// The byte offset after each \n in text, prefixed with 0. A binary
	// search on this slice recovers the line containing an offset.
	lineIndex []int
}

// NewFile constructs a File over the given text.
func NewFile(text string) *File {
	return &File{text: text}
}

// Text returns this file's contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

// Point converts a byte offset into a byte-column [Point], the coordinate
// form used throughout the tree. This is primarily a convenience for tests
// and embedders constructing [Edit] and [Range] values.
func (f *File) Point(offset int) Point {
	loc := f.Location(offset, ByteLength)
	return Point{Row: loc.Line - 1, Column: loc.Column - 1}
}

// Location resolves a byte offset into a full Location. O(log n) in the
// number of lines.
func (f *File) Location(offset int, units LengthUnit) Location {
	if f == nil {
		return Location{Line: 1, Column: 1}
	}

	lines := f.lines()
	line, exact := slices.BinarySearch(lines, offset)
	if !exact {
		line--
	}

	chunk := f.text[lines[line]:offset]
	var column int
	switch units {
	case ByteLength:
		column = len(chunk)
	case RuneLength:
		for range chunk {
			column++
		}
	case UTF16Length:
		for _, r := range chunk {
			// utf16.RuneLen needs go1.23; runes from ranging over a
			// string are never surrogates, so this is equivalent.
			if r >= 0x10000 {
				column += 2
			} else {
				column++
			}
		}
	case TermWidth:
		column = stringWidth(chunk)
	}

	return Location{
		Offset: offset,
		Line:   line + 1,
		Column: column + 1,
	}
}

func (f *File) lines() []int {
	f.once.Do(func() {
		var next int
		text := f.text
		for {
			newline := strings.IndexByte(text, '\n') + 1
			if newline == 0 {
				break
			}
			text = text[newline:]
			f.lineIndex = append(f.lineIndex, next)
			next += newline
		}
		f.lineIndex = append(f.lineIndex, next)
	})
	return f.lineIndex
}
