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

package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const instancePath = "v1/projects/{project}/zones/{zone}/instances/{instance}"

func TestExpandPath(t *testing.T) {
	for _, test := range []struct {
		name   string
		path   string
		values map[string]string
		want   string
	}{
		{
			name:   "full_template",
			path:   instancePath,
			values: map[string]string{"project": "p1", "zone": "z1", "instance": "i1"},
			want:   "v1/projects/p1/zones/z1/instances/i1",
		},
		{
			name:   "no_variables",
			path:   "v1/operations",
			values: nil,
			want:   "v1/operations",
		},
		{
			name:   "extra_values_ignored",
			path:   "v1/projects/{project}/repos",
			values: map[string]string{"project": "p1", "zone": "z1"},
			want:   "v1/projects/p1/repos",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := ExpandPath(test.path, test.values)
			if err != nil {
				t.Fatal(err)
			}
			if got != test.want {
				t.Errorf("ExpandPath = %q, want %q", got, test.want)
			}
		})
	}
}

func TestExpandPathMissingValue(t *testing.T) {
	_, err := ExpandPath(instancePath, map[string]string{"project": "p1", "zone": "z1"})
	if err == nil || !strings.Contains(err.Error(), "{instance}") {
		t.Errorf("err = %v, want missing {instance}", err)
	}
	// An empty value is as missing as an absent one.
	_, err = ExpandPath(instancePath, map[string]string{"project": "p1", "zone": "", "instance": "i1"})
	if err == nil || !strings.Contains(err.Error(), "{zone}") {
		t.Errorf("err = %v, want missing {zone}", err)
	}
}

func TestPathVars(t *testing.T) {
	got := PathVars(instancePath)
	if diff := cmp.Diff([]string{"project", "zone", "instance"}, got); diff != "" {
		t.Errorf("PathVars mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectionFromPath(t *testing.T) {
	if got := CollectionFromPath(instancePath); got != "projects.zones.instances" {
		t.Errorf("CollectionFromPath = %q", got)
	}
}

func TestJSONName(t *testing.T) {
	for name, want := range map[string]string{
		"machine_type":   "machineType",
		"name":           "name",
		"min_node_cpus":  "minNodeCpus",
		"enable_display": "enableDisplay",
	} {
		f := &Field{Name: name}
		if got := f.JSONName(); got != want {
			t.Errorf("JSONName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestServiceMethodLookup(t *testing.T) {
	svc := &Service{
		Name: "compute",
		Methods: map[string]*Method{
			"instances.get": {Name: "instances.get"},
		},
	}
	if _, err := svc.Method("instances.get"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Method("instances.destroy")
	if err == nil || !strings.Contains(err.Error(), "instances.destroy") {
		t.Errorf("err = %v", err)
	}
}

func TestEnumHas(t *testing.T) {
	e := &Enum{Name: "NetworkTier", Values: []string{"STANDARD", "PREMIUM"}}
	if !e.Has("PREMIUM") {
		t.Error("Has(PREMIUM) = false")
	}
	if e.Has("premium") {
		t.Error("Has(premium) = true, members are exact")
	}
}
