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

// Package parser turns source text into [syntax.Tree] values using the
// tables of a compiled [grammar.Language].
//
// The central type is [Parser]. A Parser is configured once with a
// language and then reused across parses:
//
//	p := parser.New()
//	if err := p.SetLanguage(lang); err != nil {
//		return err
//	}
//	tree, err := p.ParseString(text, nil)
//
// Text can be supplied as a string, as UTF-8 chunks pulled on demand
// through a [ReadFunc], or as UTF-16 code units through a [Read16Func].
// The callback forms never require the whole document in memory at
// once: the parser asks for text at the positions it needs and may ask
// for the same position more than once.
//
// # Incremental parsing
//
// Passing the previous tree to a Parse call, after describing the text
// changes with [syntax.Tree.Edit], lets the parser reuse every subtree
// the edits cannot have affected. Reuse is what makes reparsing large
// documents after small edits cheap: unchanged regions are stitched
// into the new tree without rereading their text. The previous tree is
// not modified, and both trees remain fully usable afterwards.
//
// # Error tolerance
//
// Parsing never fails on malformed input. Where the text does not
// conform to the grammar the parser synthesizes zero-width MISSING
// tokens when a single absent token would repair the parse, and
// otherwise gathers the offending region into ERROR nodes and
// continues. The resulting tree always spans the whole input.
//
// # Bounded work
//
// [Parser.SetOperationLimit] bounds the work done by any single Parse
// call. A call that exhausts its budget returns [ErrOperationLimit]
// and no tree; calling Parse again with the same text resumes where
// the previous call stopped. [Parser.Reset] abandons the suspended
// state instead, and must be used before pointing the parser at
// different text.
//
// A Parser is not safe for concurrent use; parse several documents at
// once by giving each goroutine its own Parser.
package parser
