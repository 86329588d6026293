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

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFlagsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flags.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFlagsFileExpansion(t *testing.T) {
	root := newTestTree(t)
	path := writeFlagsFile(t, `--zone: us-east1-b
--enable-display: true
--tags:
  - serving
  - canary
`)
	inv, err := root.Parse([]string{"compute", "instances", "create", "i1", "--flags-file", path})
	if err != nil {
		t.Fatal(err)
	}
	ns := inv.Namespace
	if got := ns.GetString("zone"); got != "us-east1-b" {
		t.Errorf("zone = %q", got)
	}
	if !ns.GetBool("enable_display") {
		t.Error("enable_display should be true")
	}
	if diff := cmp.Diff([]string{"serving", "canary"}, ns.GetStringList("tags")); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	// Flags from the file count as specified, like any other argv flag.
	if !ns.IsSpecified("zone") || !ns.IsSpecified("tags") {
		t.Error("flags-file values should be marked specified")
	}
}

func TestFlagsFileCommandLineWins(t *testing.T) {
	root := newTestTree(t)
	path := writeFlagsFile(t, "--zone: us-east1-b\n")
	// Later tokens overwrite earlier ones, so argv after the file wins.
	inv, err := root.Parse([]string{"compute", "instances", "create", "i1", "--flags-file=" + path, "--zone", "us-west1-a"})
	if err != nil {
		t.Fatal(err)
	}
	if got := inv.Namespace.GetString("zone"); got != "us-west1-a" {
		t.Errorf("zone = %q", got)
	}
}

func TestFlagsFileNested(t *testing.T) {
	root := newTestTree(t)
	inner := writeFlagsFile(t, "--zone: us-east1-b\n")
	outer := filepath.Join(t.TempDir(), "outer.yaml")
	if err := os.WriteFile(outer, []byte("--flags-file: "+inner+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	inv, err := root.Parse([]string{"compute", "instances", "create", "i1", "--flags-file", outer})
	if err != nil {
		t.Fatal(err)
	}
	if got := inv.Namespace.GetString("zone"); got != "us-east1-b" {
		t.Errorf("zone = %q", got)
	}
}

func TestFlagsFileCycle(t *testing.T) {
	root := newTestTree(t)
	path := filepath.Join(t.TempDir(), "flags.yaml")
	if err := os.WriteFile(path, []byte("--flags-file: "+path+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := root.Parse([]string{"compute", "instances", "create", "i1", "--flags-file", path})
	if err == nil || !strings.Contains(err.Error(), "nested too deeply") {
		t.Errorf("err = %v", err)
	}
	if ExitCode(err) != ExitUsage {
		t.Errorf("exit code = %d, want %d", ExitCode(err), ExitUsage)
	}
}

func TestFlagsFileErrors(t *testing.T) {
	root := newTestTree(t)
	for _, test := range []struct {
		name    string
		content string
		wantErr string
	}{
		{"not_a_mapping", "- --zone\n", "must map flag names"},
		{"bare_key", "zone: us-east1-b\n", "is not a flag name"},
		{"nested_mapping_value", "--zone:\n  inner: x\n", "must be a scalar or a list"},
	} {
		t.Run(test.name, func(t *testing.T) {
			path := writeFlagsFile(t, test.content)
			_, err := root.Parse([]string{"compute", "instances", "create", "i1", "--flags-file", path})
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("err = %v, want substring %q", err, test.wantErr)
			}
		})
	}
}

func TestFlagsFileMissing(t *testing.T) {
	root := newTestTree(t)
	_, err := root.Parse([]string{"compute", "instances", "create", "i1", "--flags-file", "/no/such/file.yaml"})
	if err == nil || !strings.Contains(err.Error(), flagsFileArg) {
		t.Errorf("err = %v", err)
	}
}
