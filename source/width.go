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

package source

import (
	"strings"

	"github.com/rivo/uniseg"
)

// TabstopWidth is the cell width every tab renders as when measuring
// [TermWidth] columns.
const TabstopWidth = 4

// stringWidth measures text in terminal cells, counting grapheme clusters
// rather than runes so that combining marks and wide characters report the
// width a terminal would actually use.
func stringWidth(text string) int {
	var width int
	for len(text) > 0 {
		tab := strings.IndexByte(text, '\t')
		if tab == -1 {
			return width + uniseg.StringWidth(text)
		}

		width += uniseg.StringWidth(text[:tab])
		// Snap to the next tabstop.
		width += TabstopWidth - width%TabstopWidth
		text = text[tab+1:]
	}
	return width
}
