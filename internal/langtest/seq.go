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

package langtest

import "github.com/arborlabs/arbor/grammar"

// Seq returns a language accepting exactly "a b c a b c", wrapping each
// "a" in an A node. The rigid shape makes missing-token recovery
// deterministic: dropping an "a" forces a zero-width MISSING leaf.
var Seq = compile("seq", func() (*grammar.Language, error) {
	b := grammar.NewBuilder("seq")
	b.Keyword("a")
	b.Keyword("b")
	b.Keyword("c")

	b.Rule("program", grammar.Seq(
		grammar.Ref("A"), grammar.Ref("b"), grammar.Ref("c"),
		grammar.Ref("A"), grammar.Ref("b"), grammar.Ref("c"),
	))
	b.Rule("A", grammar.Ref("a"))
	return b.Compile("program")
})
