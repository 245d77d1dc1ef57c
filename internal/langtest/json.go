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

// JSON returns a JSON-subset language whose trees look like
// (value (array (number) (number))).
var JSON = compile("json", func() (*grammar.Language, error) {
	b := grammar.NewBuilder("json")
	b.Token("number", matchNumber)
	b.Token("string", func(lx grammar.Lexer) bool { return matchQuoted(lx, '"') })
	b.Keyword("true")
	b.Keyword("false")
	b.Keyword("null")

	b.Rule("value", grammar.Ref("_value"))
	b.Rule("_value", grammar.Choice(
		grammar.Ref("object"),
		grammar.Ref("array"),
		grammar.Ref("number"),
		grammar.Ref("string"),
		grammar.Ref("true"),
		grammar.Ref("false"),
		grammar.Ref("null"),
	))
	b.Rule("object", grammar.Choice(
		grammar.Seq(grammar.Lit("{"), grammar.Lit("}")),
		grammar.Seq(grammar.Lit("{"), grammar.Ref("_members"), grammar.Lit("}")),
	))
	b.Rule("_members", grammar.Choice(
		grammar.Ref("pair"),
		grammar.Seq(grammar.Ref("_members"), grammar.Lit(","), grammar.Ref("pair")),
	))
	b.Rule("pair", grammar.Seq(
		grammar.Ref("string"), grammar.Lit(":"), grammar.Ref("_value"),
	))
	b.Rule("array", grammar.Choice(
		grammar.Seq(grammar.Lit("["), grammar.Lit("]")),
		grammar.Seq(grammar.Lit("["), grammar.Ref("_elements"), grammar.Lit("]")),
	))
	b.Rule("_elements", grammar.Choice(
		grammar.Ref("_value"),
		grammar.Seq(grammar.Ref("_elements"), grammar.Lit(","), grammar.Ref("_value")),
	))
	return b.Compile("value")
})

func matchNumber(lx grammar.Lexer) bool {
	if lx.Peek() == '-' {
		lx.Advance()
	}
	if !isDigit(lx.Peek()) {
		return false
	}
	for isDigit(lx.Peek()) {
		lx.Advance()
	}
	if lx.Peek() == '.' {
		lx.Advance()
		if !isDigit(lx.Peek()) {
			return false
		}
		for isDigit(lx.Peek()) {
			lx.Advance()
		}
	}
	if r := lx.Peek(); r == 'e' || r == 'E' {
		lx.Advance()
		if r := lx.Peek(); r == '+' || r == '-' {
			lx.Advance()
		}
		if !isDigit(lx.Peek()) {
			return false
		}
		for isDigit(lx.Peek()) {
			lx.Advance()
		}
	}
	return true
}
