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

// Markup returns an HTML-like host language: elements with start and
// end tags around arbitrary text. Separator skipping is disabled so
// text spans are preserved verbatim, which makes it a convenient outer
// document for included-range tests.
var Markup = compile("markup", func() (*grammar.Language, error) {
	b := grammar.NewBuilder("markup")
	b.Skip("")
	b.Token("tag_name", matchIdent)
	b.Token("text", matchText)

	b.Rule("fragment", grammar.Rep(grammar.Ref("_node")))
	b.Rule("_node", grammar.Choice(
		grammar.Ref("element"),
		grammar.Ref("text"),
	))
	b.Rule("element", grammar.Seq(
		grammar.Ref("start_tag"),
		grammar.Rep(grammar.Ref("_node")),
		grammar.Ref("end_tag"),
	))
	b.Rule("start_tag", grammar.Seq(
		grammar.Lit("<"), grammar.Ref("tag_name"), grammar.Lit(">"),
	))
	b.Rule("end_tag", grammar.Seq(
		grammar.Lit("</"), grammar.Ref("tag_name"), grammar.Lit(">"),
	))
	return b.Compile("fragment")
})

// matchText matches a maximal nonempty run of characters up to the next
// tag opener.
func matchText(lx grammar.Lexer) bool {
	matched := false
	for {
		r := lx.Peek()
		if r < 0 || r == '<' {
			return matched
		}
		lx.Advance()
		matched = true
	}
}
