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

package syntax

import "strings"

// Sexp renders the node as a deterministic parenthesized expression.
// Only named nodes appear; anonymous tokens are omitted, ERROR nodes
// render as (ERROR ...), and synthesized tokens render as (MISSING).
// The rendering is a diagnostic and test format, not a stable wire
// format.
func (n Node) Sexp() string {
	var sb strings.Builder
	n.writeSexp(&sb)
	return sb.String()
}

func (n Node) writeSexp(sb *strings.Builder) {
	if n.IsMissing() {
		sb.WriteString("(MISSING)")
		return
	}
	if !n.IsNamed() {
		for i := 0; i < n.ChildCount(); i++ {
			n.Child(i).writeSexp(sb)
		}
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Kind())
	for i := 0; i < n.ChildCount(); i++ {
		var child strings.Builder
		n.Child(i).writeSexp(&child)
		if child.Len() > 0 {
			sb.WriteByte(' ')
			sb.WriteString(child.String())
		}
	}
	sb.WriteByte(')')
}
