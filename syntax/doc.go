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

// Package syntax defines the trees the parser produces.
//
// A [Tree] owns an immutable hierarchy of [Subtree] records; [Node] is
// the cursor-like view through which callers inspect it. Subtrees store
// their geometry relative to their parent (leading padding plus
// content size), so a subtree is position-independent and can be shared
// between trees. Sharing is what [Tree.Clone] and incremental reparsing
// build on: cloning is O(1), and an edited-then-reparsed tree shares
// every subtree the edit did not touch with its predecessor.
//
// [Tree.Edit] repositions a tree's geometry after a text change without
// reparsing; the structure catches up on the next parse that uses the
// tree as its previous tree. [Tree.ChangedRanges] reports where two
// such trees disagree, which is the signal editors use to re-run
// highlighting only where needed.
package syntax
