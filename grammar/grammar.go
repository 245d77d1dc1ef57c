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

// Package grammar defines the runtime contract of a compiled grammar: an
// opaque, immutable Language value that bundles an LR action/goto table
// with a lexical scanner, plus a [Builder] for compiling small grammars at
// runtime.
//
// A Language is read-only after construction and may be shared freely by
// reference across goroutines; all per-parse scratch state lives in the
// parser, never here.
package grammar

import (
	"fmt"
	"math"
)

// SymbolID identifies a grammar symbol within a [Language].
//
// Grammar symbols occupy the low end of the ID space, in declaration
// order. A small set of reserved values at the top of the space denote the
// sentinels every language shares.
type SymbolID uint16

const (
	// SymbolEnd stands for the end of the token stream.
	SymbolEnd SymbolID = math.MaxUint16 - iota
	// SymbolError is the kind of nodes that wrap input the grammar could
	// not attribute to any production.
	SymbolError
	// SymbolInvalid is the kind of tokens no lexical rule matched.
	SymbolInvalid
	// NoSymbol is the absence of a symbol.
	NoSymbol
)

// StateID identifies a state of a Language's automaton. State 0 is always
// the start state.
type StateID uint16

// Symbol carries the metadata the tree and its consumers need about one
// grammar symbol.
type Symbol struct {
	// Name is the symbol's grammar-level name. For anonymous terminals this
	// is the literal text.
	Name string
	// Named distinguishes rule-backed symbols from punctuation/literal
	// tokens; only named symbols appear in s-expression renderings.
	Named bool
	// Terminal reports whether the symbol is produced by the scanner
	// rather than by a reduction.
	Terminal bool
	// Hidden symbols never appear in the tree: their children are spliced
	// into the parent when a node is assembled. By convention their names
	// begin with an underscore.
	Hidden bool
}

// ActionType enumerates the automaton's actions.
type ActionType uint8

const (
	// ActionNone is the absence of an action.
	ActionNone ActionType = iota
	// ActionShift consumes the lookahead and pushes Action.State.
	ActionShift
	// ActionReduce pops Action.Count symbols and produces Action.Symbol.
	ActionReduce
	// ActionAccept completes the parse.
	ActionAccept
)

// Action is one entry of a Language's action table.
type Action struct {
	Type   ActionType
	State  StateID  // shift target
	Symbol SymbolID // reduced nonterminal
	Count  int      // number of symbols the reduction pops
}

// Language is a compiled grammar: the automaton tables plus the scanner.
//
// Languages are immutable and are compared by identity; a tree remembers
// the exact Language value it was parsed with.
type Language struct {
	name    string
	symbols []Symbol
	start   SymbolID

	actions []map[SymbolID]Action
	gotos   []map[SymbolID]StateID
	// Shiftable terminals per state, ascending, for deterministic error
	// recovery.
	expected [][]SymbolID

	scan ScanFunc
}

// Name returns the language's name.
func (l *Language) Name() string { return l.name }

// StartSymbol returns the grammar's start symbol.
func (l *Language) StartSymbol() SymbolID { return l.start }

// SymbolCount returns the number of grammar symbols, excluding the
// reserved sentinels.
func (l *Language) SymbolCount() int { return len(l.symbols) }

// StateCount returns the number of automaton states.
func (l *Language) StateCount() int { return len(l.actions) }

// SymbolName returns the display name for a symbol, including the
// reserved sentinels.
func (l *Language) SymbolName(sym SymbolID) string {
	switch sym {
	case SymbolEnd:
		return "end"
	case SymbolError:
		return "ERROR"
	case SymbolInvalid:
		return "UNEXPECTED"
	case NoSymbol:
		return "none"
	}
	if int(sym) >= len(l.symbols) {
		return fmt.Sprintf("symbol-%d", sym)
	}
	return l.symbols[sym].Name
}

// SymbolIsNamed reports whether a symbol appears in s-expression
// renderings under its own name.
func (l *Language) SymbolIsNamed(sym SymbolID) bool {
	if sym == SymbolError {
		return true
	}
	if int(sym) >= len(l.symbols) {
		return false
	}
	return l.symbols[sym].Named
}

// SymbolIsHidden reports whether nodes of this symbol are spliced away
// during tree assembly.
func (l *Language) SymbolIsHidden(sym SymbolID) bool {
	if int(sym) >= len(l.symbols) {
		return false
	}
	return l.symbols[sym].Hidden
}

// SymbolIsTerminal reports whether the scanner produces this symbol.
func (l *Language) SymbolIsTerminal(sym SymbolID) bool {
	if sym == SymbolEnd || sym == SymbolInvalid {
		return true
	}
	if int(sym) >= len(l.symbols) {
		return false
	}
	return l.symbols[sym].Terminal
}

// Action looks up the automaton's action in the given state for the given
// lookahead terminal.
func (l *Language) Action(state StateID, lookahead SymbolID) (Action, bool) {
	if int(state) >= len(l.actions) {
		return Action{}, false
	}
	act, ok := l.actions[state][lookahead]
	return act, ok
}

// Goto looks up the state pushed after a reduction to sym in the given
// state.
func (l *Language) Goto(state StateID, sym SymbolID) (StateID, bool) {
	if int(state) >= len(l.gotos) {
		return 0, false
	}
	next, ok := l.gotos[state][sym]
	return next, ok
}

// ShiftableTerminals returns the terminals the given state has a shift
// action for, in ascending symbol order. The slice is shared; callers must
// not modify it.
func (l *Language) ShiftableTerminals(state StateID) []SymbolID {
	if int(state) >= len(l.expected) {
		return nil
	}
	return l.expected[state]
}

// Scan runs the language's scanner once, producing the next terminal from
// the lexer's current position. valid restricts which terminals the
// scanner may produce; passing nil allows all of them.
//
// Returns [NoSymbol] when no terminal matches, with the lexer rewound to
// where scanning began (not counting skipped separator characters).
func (l *Language) Scan(lx Lexer, valid func(SymbolID) bool) SymbolID {
	return l.scan(lx, valid)
}
