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

package corpora

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// Scenarios decodes a YAML fixture holding a list of test scenarios.
// The path is relative to the test file of the caller.
func Scenarios[T any](t *testing.T, path string) []T {
	t.Helper()

	full := filepath.Join(callerDir(0), path)
	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("corpora: reading scenarios %q: %v", full, err)
	}

	var scenarios []T
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		t.Fatalf("corpora: decoding scenarios %q: %v", full, err)
	}
	if len(scenarios) == 0 {
		t.Fatalf("corpora: no scenarios in %q", full)
	}
	return scenarios
}
