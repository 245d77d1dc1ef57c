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

import "fmt"

// LogType categorizes a parse log event.
type LogType int

const (
	// LogLex events describe lexing decisions, such as skipped
	// separator characters.
	LogLex LogType = iota
	// LogParse events describe automaton decisions, such as shifts and
	// reductions.
	LogParse
)

// String implements [fmt.Stringer].
func (t LogType) String() string {
	switch t {
	case LogLex:
		return "lex"
	case LogParse:
		return "parse"
	default:
		return "unknown"
	}
}

// LogFunc receives free-text diagnostic events from a parse. Logging is
// purely observational: it never affects the shape of the resulting
// tree.
type LogFunc func(LogType, string)

func (s *session) logf(t LogType, format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log(t, fmt.Sprintf(format, args...))
}
