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

// Script returns a JavaScript-like expression language: identifiers,
// strings, member access, and calls. The property_identifier token
// keys off the parse state, so the scanner's valid-symbol filtering is
// exercised on every member expression.
var Script = compile("script", func() (*grammar.Language, error) {
	b := grammar.NewBuilder("script")
	b.Token("identifier", matchIdent)
	b.Token("property_identifier", matchIdent)
	b.Token("string", matchScriptString)

	b.Rule("program", grammar.Rep(grammar.Ref("_statement")))
	b.Rule("_statement", grammar.Ref("expression_statement"))
	b.Rule("expression_statement", grammar.Seq(
		grammar.Ref("_expression"), grammar.Opt(grammar.Lit(";")),
	))
	b.Rule("_expression", grammar.Choice(
		grammar.Ref("member_expression"),
		grammar.Ref("call_expression"),
		grammar.Ref("identifier"),
		grammar.Ref("string"),
	))
	b.Rule("member_expression", grammar.Seq(
		grammar.Ref("_expression"), grammar.Lit("."), grammar.Ref("property_identifier"),
	))
	b.Rule("call_expression", grammar.Seq(
		grammar.Ref("_expression"), grammar.Ref("arguments"),
	))
	b.Rule("arguments", grammar.Choice(
		grammar.Seq(grammar.Lit("("), grammar.Lit(")")),
		grammar.Seq(grammar.Lit("("), grammar.Ref("_arg_list"), grammar.Lit(")")),
	))
	b.Rule("_arg_list", grammar.Choice(
		grammar.Ref("_expression"),
		grammar.Seq(grammar.Ref("_arg_list"), grammar.Lit(","), grammar.Ref("_expression")),
	))
	return b.Compile("program")
})

func matchScriptString(lx grammar.Lexer) bool {
	switch lx.Peek() {
	case '\'':
		return matchQuoted(lx, '\'')
	default:
		return matchQuoted(lx, '"')
	}
}
