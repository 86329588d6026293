// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sourcerepo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRepoURL(t *testing.T) {
	got := RepoURL("source.example.com", "p1", "app")
	want := "https://source.example.com/p/p1/r/app"
	if got != want {
		t.Errorf("RepoURL = %q, want %q", got, want)
	}
}

func TestCloneFailureCleansDestination(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkout")
	err := Clone(t.Context(), CloneOptions{
		URL: "file:///nonexistent/repository",
		Dir: dir,
	})
	if err == nil {
		t.Fatal("expected clone failure")
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Errorf("failed clone left %s behind", dir)
	}
}
