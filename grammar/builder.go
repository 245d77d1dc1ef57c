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

package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflict reports that a grammar is not deterministic under SLR(1)
// table construction.
var ErrConflict = errors.New("grammar: table conflict")

// ErrUnknownRule reports a reference to a rule that was never declared.
var ErrUnknownRule = errors.New("grammar: unknown rule")

// Element is one piece of a rule's right-hand side. Elements are built
// with [Ref], [Lit], [Seq], [Choice], [Rep], and [Opt], and consumed by
// [Builder.Rule].
type Element interface {
	element()
}

type (
	refElem    struct{ name string }
	litElem    struct{ text string }
	seqElem    struct{ members []Element }
	choiceElem struct{ members []Element }
	repElem    struct{ member Element }
	optElem    struct{ member Element }
)

func (refElem) element()    {}
func (litElem) element()    {}
func (seqElem) element()    {}
func (choiceElem) element() {}
func (repElem) element()    {}
func (optElem) element()    {}

// Ref refers to a declared rule or token by name.
func Ref(name string) Element { return refElem{name} }

// Lit is an anonymous literal terminal. Literals do not need declaring;
// using one in a rule registers it.
func Lit(text string) Element { return litElem{text} }

// Seq matches its members in order.
func Seq(members ...Element) Element { return seqElem{members} }

// Choice matches exactly one of its members.
func Choice(members ...Element) Element { return choiceElem{members} }

// Rep matches zero or more occurrences of its member.
func Rep(member Element) Element { return repElem{member} }

// Opt matches zero or one occurrence of its member.
func Opt(member Element) Element { return optElem{member} }

// Builder accumulates a grammar's token and rule declarations and
// compiles them into a [Language].
//
// Rule names beginning with an underscore declare hidden rules, whose
// nodes are spliced into their parent during tree assembly.
type Builder struct {
	name string
	skip map[rune]bool

	// Terminal declarations, in order. Literals referenced from rules are
	// appended as they are first seen.
	tokens     []tokenDef
	tokenIndex map[string]int

	rules     []ruleDef
	ruleIndex map[string]int

	err error
}

type tokenDef struct {
	name    string
	named   bool
	literal string // non-empty for literal/keyword terminals
	match   MatchFunc
}

type ruleDef struct {
	name string
	def  Element
}

// NewBuilder starts a grammar with the given language name. Whitespace
// defaults to " \t\n\r"; override with [Builder.Skip].
func NewBuilder(name string) *Builder {
	b := &Builder{
		name:       name,
		skip:       map[rune]bool{},
		tokenIndex: map[string]int{},
		ruleIndex:  map[string]int{},
	}
	b.Skip(" \t\n\r")
	return b
}

// Skip declares the set of separator characters the scanner consumes
// between tokens. An empty string disables separator skipping entirely.
func (b *Builder) Skip(chars string) {
	b.skip = map[rune]bool{}
	for _, r := range chars {
		b.skip[r] = true
	}
}

// Token declares a named terminal recognized by match.
func (b *Builder) Token(name string, match MatchFunc) {
	b.declareToken(tokenDef{name: name, named: true, match: match})
}

// Keyword declares a named terminal that matches text exactly. Unlike
// [Lit], keyword tokens appear in s-expression renderings.
func (b *Builder) Keyword(text string) {
	b.declareToken(tokenDef{name: text, named: true, literal: text})
}

func (b *Builder) declareToken(def tokenDef) {
	if _, dup := b.tokenIndex[def.name]; dup {
		b.fail(fmt.Errorf("grammar: duplicate token %q", def.name))
		return
	}
	b.tokenIndex[def.name] = len(b.tokens)
	b.tokens = append(b.tokens, def)
}

// Rule declares a rule. Rules may reference each other freely; resolution
// happens at [Builder.Compile] time.
func (b *Builder) Rule(name string, def Element) {
	if _, dup := b.ruleIndex[name]; dup {
		b.fail(fmt.Errorf("grammar: duplicate rule %q", name))
		return
	}
	b.ruleIndex[name] = len(b.rules)
	b.rules = append(b.rules, ruleDef{name: name, def: def})
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// production is one alternative of a rule.
type production struct {
	lhs SymbolID
	rhs []SymbolID
}

// compiler is the scratch state of one Compile call.
type compiler struct {
	b       *Builder
	symbols []Symbol
	// terminal metadata parallel to the terminal prefix of symbols.
	terms []tokenDef
	ids   map[string]SymbolID // by token/rule name and literal text
	prods []production
	aux   int
}

// Compile resolves the declared rules and builds the SLR(1) automaton,
// with start as the grammar's start rule.
func (b *Builder) Compile(start string) (*Language, error) {
	if b.err != nil {
		return nil, b.err
	}

	c := &compiler{b: b, ids: map[string]SymbolID{}}

	// Declared terminals come first in the symbol space; literals found in
	// rule bodies follow, then nonterminals, then desugaring aux rules.
	for _, tok := range b.tokens {
		c.addTerminal(tok)
	}
	for _, r := range b.rules {
		c.collectLiterals(r.def)
	}
	for _, r := range b.rules {
		c.addNonterminal(r.name)
	}

	for _, r := range b.rules {
		lhs := c.ids[r.name]
		if err := c.expandRule(lhs, r.def); err != nil {
			return nil, err
		}
	}

	startSym, ok := c.ids[start]
	if !ok {
		return nil, fmt.Errorf("%w: start rule %q", ErrUnknownRule, start)
	}

	lang := &Language{
		name:    b.name,
		symbols: c.symbols,
		start:   startSym,
	}
	if err := c.buildTables(lang, startSym); err != nil {
		return nil, err
	}
	lang.scan = b.buildScanner(c)
	return lang, nil
}

func (c *compiler) addTerminal(tok tokenDef) SymbolID {
	id := SymbolID(len(c.symbols))
	c.symbols = append(c.symbols, Symbol{
		Name:     tok.name,
		Named:    tok.named,
		Terminal: true,
	})
	c.terms = append(c.terms, tok)
	c.ids[tok.name] = id
	return id
}

func (c *compiler) addNonterminal(name string) SymbolID {
	id := SymbolID(len(c.symbols))
	c.symbols = append(c.symbols, Symbol{
		Name:   name,
		Named:  !strings.HasPrefix(name, "_"),
		Hidden: strings.HasPrefix(name, "_"),
	})
	c.ids[name] = id
	return id
}

// collectLiterals registers every Lit terminal appearing in an element,
// in left-to-right order.
func (c *compiler) collectLiterals(e Element) {
	switch e := e.(type) {
	case litElem:
		if _, ok := c.ids[e.text]; !ok {
			c.addTerminal(tokenDef{name: e.text, literal: e.text})
		}
	case seqElem:
		for _, m := range e.members {
			c.collectLiterals(m)
		}
	case choiceElem:
		for _, m := range e.members {
			c.collectLiterals(m)
		}
	case repElem:
		c.collectLiterals(e.member)
	case optElem:
		c.collectLiterals(e.member)
	}
}

// expandRule desugars a rule body into plain productions.
func (c *compiler) expandRule(lhs SymbolID, def Element) error {
	alts := []Element{def}
	if ch, ok := def.(choiceElem); ok {
		alts = ch.members
	}
	for _, alt := range alts {
		rhs, err := c.expandSeq(alt)
		if err != nil {
			return err
		}
		c.prods = append(c.prods, production{lhs: lhs, rhs: rhs})
	}
	return nil
}

func (c *compiler) expandSeq(e Element) ([]SymbolID, error) {
	members := []Element{e}
	if seq, ok := e.(seqElem); ok {
		members = seq.members
	}
	rhs := make([]SymbolID, 0, len(members))
	for _, m := range members {
		sym, err := c.symbolFor(m)
		if err != nil {
			return nil, err
		}
		rhs = append(rhs, sym)
	}
	return rhs, nil
}

// symbolFor resolves an element to a single symbol, introducing hidden
// auxiliary rules for nested structure.
func (c *compiler) symbolFor(e Element) (SymbolID, error) {
	switch e := e.(type) {
	case refElem:
		sym, ok := c.ids[e.name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownRule, e.name)
		}
		return sym, nil
	case litElem:
		return c.ids[e.text], nil
	case repElem:
		member, err := c.symbolFor(e.member)
		if err != nil {
			return 0, err
		}
		aux := c.newAux()
		// aux -> ε | aux member
		c.prods = append(c.prods,
			production{lhs: aux},
			production{lhs: aux, rhs: []SymbolID{aux, member}},
		)
		return aux, nil
	case optElem:
		member, err := c.symbolFor(e.member)
		if err != nil {
			return 0, err
		}
		aux := c.newAux()
		c.prods = append(c.prods,
			production{lhs: aux},
			production{lhs: aux, rhs: []SymbolID{member}},
		)
		return aux, nil
	case seqElem, choiceElem:
		aux := c.newAux()
		if err := c.expandRule(aux, e); err != nil {
			return 0, err
		}
		return aux, nil
	default:
		panic(fmt.Sprintf("grammar: unknown element %T", e))
	}
}

func (c *compiler) newAux() SymbolID {
	c.aux++
	return c.addNonterminal(fmt.Sprintf("_aux%d", c.aux))
}
