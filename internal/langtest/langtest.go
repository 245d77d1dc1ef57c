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

// Package langtest compiles the small languages the engine's tests parse
// with: a JSON subset, an HTML-like markup language, a JavaScript-like
// script language, and a fixed-sequence grammar for recovery tests.
//
// Each language is compiled once on first use and shared; Language
// values are immutable, so sharing across parallel tests is safe.
package langtest

import (
	"fmt"
	"sync"

	"github.com/arborlabs/arbor/grammar"
)

func compile(name string, build func() (*grammar.Language, error)) func() *grammar.Language {
	var (
		once sync.Once
		lang *grammar.Language
	)
	return func() *grammar.Language {
		once.Do(func() {
			var err error
			lang, err = build()
			if err != nil {
				panic(fmt.Sprintf("langtest: compiling %s: %v", name, err))
			}
		})
		return lang
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdent(r rune) bool { return isIdentStart(r) || isDigit(r) }

func matchIdent(lx grammar.Lexer) bool {
	if !isIdentStart(lx.Peek()) {
		return false
	}
	for isIdent(lx.Peek()) {
		lx.Advance()
	}
	return true
}

// matchQuoted matches a string delimited by quote, honoring backslash
// escapes.
func matchQuoted(lx grammar.Lexer, quote rune) bool {
	if lx.Peek() != quote {
		return false
	}
	lx.Advance()
	for {
		switch r := lx.Peek(); r {
		case quote:
			lx.Advance()
			return true
		case '\\':
			lx.Advance()
			if lx.Peek() < 0 {
				return false
			}
			lx.Advance()
		case -1, '\n':
			return false
		default:
			lx.Advance()
		}
	}
}
