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

package cloudctl

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"
)

var noHeaderRequiredFiles = []string{
	"CODEOWNERS",
	".gitignore",
	"LICENSE",
	"go.mod",
	"go.sum",
	"renovate.json",
}

var ignoredExts = map[string]bool{
	".md":   true,
	".txt":  true,
	".yml":  true,
	".yaml": true,
}

var ignoredDirs = []string{
	".git",
	".idea",
	".vscode",
	"_examples",
	"doc",
	"testdata",
}

// expectedHeader defines the regex for the required copyright header.
const expectedHeader = `// Copyright 202\d Google LLC
//
// Licensed under the Apache License, Version 2.0 \(the "License"\);
// you may not use this file except in compliance with the License\.
// You may obtain a copy of the License at`

var (
	headerRegex       = regexp.MustCompile("(?s)" + expectedHeader)
	modGoVersionRegex = regexp.MustCompile(`\ngo\s+(?P<version>[^ \n]+)`)
)

func TestHeaders(t *testing.T) {
	sfs := os.DirFS(".")
	err := fs.WalkDir(sfs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored files and directories.
		if d.IsDir() {
			if slices.Contains(ignoredDirs, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if slices.Contains(noHeaderRequiredFiles, filepath.Base(path)) || ignoredExts[filepath.Ext(path)] {
			return nil
		}

		f, err := sfs.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		allBytes, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		if !headerRegex.Match(allBytes) {
			t.Errorf("%q: invalid header", path)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// TestConsistentGoVersions checks every go.mod in the tree for its declared
// Go version and fails when more than one distinct version is found.
func TestConsistentGoVersions(t *testing.T) {
	goVersions := make(map[string][]string)
	sfs := os.DirFS(".")
	err := fs.WalkDir(sfs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if slices.Contains(ignoredDirs, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, "go.mod") {
			return recordGoVersion(path, sfs, modGoVersionRegex, goVersions)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(goVersions) > 1 {
		for ver, paths := range goVersions {
			t.Logf("%s found in %s", ver, strings.Join(paths, "\n"))
		}
		t.Error("found multiple golang versions")
	}
}

func recordGoVersion(path string, sfs fs.FS, re *regexp.Regexp, goVersions map[string][]string) error {
	f, err := sfs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	allBytes, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	matches := re.FindAllStringSubmatch(string(allBytes), -1)
	for _, match := range matches {
		goVersions[match[1]] = append(goVersions[match[1]], path)
	}

	return nil
}
