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

// Package corpora runs file-system test corpora: directories of source
// files, each paired with golden files holding the expected outputs of
// parsing it. It is table-driven testing where the table lives in
// testdata.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// A Corpus describes one test data corpus.
type Corpus struct {
	// Root of the corpus directory, relative to the test file that calls
	// [Corpus.Run].
	Root string

	// Name of an environment variable consulted for "refresh" mode. When
	// the variable holds a glob, golden files of the matching cases are
	// rewritten from the run's actual outputs instead of compared, and
	// the test fails so refreshed goldens are never mistaken for a pass.
	Refresh string

	// Extension (without the dot) of the files that define a case,
	// e.g. "json".
	Extension string

	// Outputs the runner compares for each case, located by appending
	// Output.Extension to the case file's name. A missing golden file is
	// treated as expecting empty output.
	Outputs []Output

	// Test parses one case and returns its outputs, parallel to Outputs.
	Test func(t *testing.T, name, text string) []string
}

// Output is one comparable product of a corpus case.
type Output struct {
	// Extension appended to the case file's name to locate the golden,
	// so case "pair.json" with extension "sexp" reads "pair.json.sexp".
	Extension string

	// Compare reports a mismatch between an actual and a golden value as
	// a non-empty message. Nil means a unified-diff comparison.
	Compare Compare
}

// Compare reports the difference between got and want, or "" if they
// match.
type Compare func(got, want string) string

// Run locates every case under the corpus root and runs each as a
// subtest named by its path.
func (c Corpus) Run(t *testing.T) {
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	var cases []string
	err := filepath.Walk(root, func(p string, fi fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && strings.TrimPrefix(path.Ext(p), ".") == c.Extension {
			cases = append(cases, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("corpora: walking %q: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("corpora: no .%s cases under %q", c.Extension, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: %s is not a valid glob: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("corpora: refreshing golden files because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, casePath := range cases {
		name, _ := filepath.Rel(testDir, casePath)
		t.Run(name, func(t *testing.T) {
			text, err := os.ReadFile(casePath)
			if err != nil {
				t.Fatalf("corpora: reading case %q: %v", casePath, err)
			}

			results := c.Test(t, name, string(text))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: case %q produced %d outputs, want %d", name, len(results), len(c.Outputs))
			}

			refreshCase, _ := doublestar.Match(refresh, name)
			for i, out := range c.Outputs {
				golden := fmt.Sprint(casePath, ".", out.Extension)
				if refreshCase {
					c.rewrite(t, golden, results[i])
					continue
				}

				want, err := os.ReadFile(golden)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: reading golden %q: %v", golden, err)
					continue
				}
				cmp := out.Compare
				if cmp == nil {
					cmp = diffCompare
				}
				if msg := cmp(results[i], string(want)); msg != "" {
					t.Errorf("mismatch for %q:\n%s", golden, msg)
				}
			}
		})
	}
}

func (c Corpus) rewrite(t *testing.T, golden, content string) {
	if content == "" {
		if err := os.Remove(golden); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.Errorf("corpora: deleting golden %q: %v", golden, err)
		}
		return
	}
	if err := os.WriteFile(golden, []byte(content), 0o644); err != nil {
		t.Errorf("corpora: writing golden %q: %v", golden, err)
	}
}

func diffCompare(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	// Colorize so added and removed lines stand out in test output.
	lines := strings.Split(diff, "\n")
	for i, s := range lines {
		switch {
		case strings.HasPrefix(s, "+"):
			lines[i] = "\033[1;92m" + s + "\033[0m"
		case strings.HasPrefix(s, "-"):
			lines[i] = "\033[1;91m" + s + "\033[0m"
		}
	}
	return strings.Join(lines, "\n")
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
