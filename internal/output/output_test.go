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

package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, test := range []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", JSON, false},
		{"yaml", YAML, false},
		{"table", Table, false},
		{"text", Text, false},
		{"", Text, false},
		{"xml", "", true},
	} {
		got, err := ParseFormat(test.in)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(JSON, false, &buf, nil)
	if err := p.Print(map[string]any{"name": "widgets/w1", "cpuCount": 4}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"name": "widgets/w1"`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(YAML, false, &buf, nil)
	if err := p.Print(map[string]any{"name": "widgets/w1"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "name: widgets/w1") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintTextSortsKeys(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(Text, false, &buf, nil)
	if err := p.Print(map[string]any{"zone": "us-central1-a", "name": "w1"}); err != nil {
		t.Fatal(err)
	}
	want := "name: w1\nzone: us-central1-a\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(Table, false, &buf, nil)
	err := p.PrintTable([]string{"NAME", "ZONE"}, [][]string{
		{"w1", "us-central1-a"},
		{"w2", "us-east1-b"},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"NAME", "w1", "us-east1-b"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestConfirm(t *testing.T) {
	for _, test := range []struct {
		name  string
		quiet bool
		input string
		want  bool
	}{
		{"quiet_skips_prompt", true, "", true},
		{"yes", false, "y\n", true},
		{"yes_word", false, "yes\n", true},
		{"no", false, "n\n", false},
		{"empty_defaults_no", false, "\n", false},
	} {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(Text, test.quiet, &buf, strings.NewReader(test.input))
			got, err := p.Confirm("Delete instance [w1]?")
			if err != nil {
				t.Fatal(err)
			}
			if got != test.want {
				t.Errorf("Confirm = %t, want %t", got, test.want)
			}
			if !test.quiet && !strings.Contains(buf.String(), "Delete instance [w1]?") {
				t.Errorf("prompt missing: %q", buf.String())
			}
		})
	}
}
