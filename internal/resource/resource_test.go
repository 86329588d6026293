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

package resource

import (
	"context"
	"strings"
	"testing"

	"github.com/googleapis/cloudctl/internal/cli"
)

const instanceTemplate = "projects/{project}/zones/{zone}/instances/{instance}"

func TestCollectionNouns(t *testing.T) {
	c := NewCollection(instanceTemplate)
	if got, want := c.Singular(), "instance"; got != want {
		t.Errorf("Singular = %q, want %q", got, want)
	}
	if got, want := c.Plural(), "instances"; got != want {
		t.Errorf("Plural = %q, want %q", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	c := NewCollection(instanceTemplate)
	name := "projects/p1/zones/us-central1-a/instances/my-vm"
	ref, err := c.Parse(name)
	if err != nil {
		t.Fatal(err)
	}
	if got := ref.RelativeName(); got != name {
		t.Errorf("RelativeName = %q, want %q", got, name)
	}
	if got, want := ref.Name(), "my-vm"; got != want {
		t.Errorf("Name = %q, want %q", got, want)
	}
	if got, want := ref.Param("zone"), "us-central1-a"; got != want {
		t.Errorf("Param(zone) = %q, want %q", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	c := NewCollection(instanceTemplate)
	for _, name := range []string{
		"projects/p1/instances/my-vm",
		"projects/p1/regions/r1/instances/my-vm",
		"projects/p1/zones//instances/my-vm",
	} {
		if _, err := c.Parse(name); err == nil {
			t.Errorf("Parse(%q) should fail", name)
		}
	}
}

func newResourceCommand(t *testing.T) (*cli.Command, *Arg) {
	t.Helper()
	leaf := &cli.Command{
		Name:   "describe",
		Action: func(ctx context.Context, inv *cli.Invocation) error { return nil },
	}
	arg, err := AddArg(leaf, NewCollection(instanceTemplate), "The instance to describe.")
	if err != nil {
		t.Fatal(err)
	}
	root := &cli.Command{Name: "tool", Commands: []*cli.Command{leaf}}
	root.Init()
	return root, arg
}

func TestResolveEquivalence(t *testing.T) {
	want := "projects/p1/zones/us-central1-a/instances/my-vm"
	for _, test := range []struct {
		name     string
		args     []string
		defaults map[string]string
	}{
		{
			name: "fully qualified path",
			args: []string{"describe", want},
		},
		{
			name: "bare name with scope flags",
			args: []string{"describe", "my-vm", "--zone", "us-central1-a", "--project", "p1"},
		},
		{
			name:     "bare name with property defaults",
			args:     []string{"describe", "my-vm", "--zone", "us-central1-a"},
			defaults: map[string]string{"project": "p1"},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			root, arg := newResourceCommand(t)
			inv, err := root.Parse(test.args)
			if err != nil {
				t.Fatal(err)
			}
			ref, err := arg.Resolve(inv.Namespace, test.defaults)
			if err != nil {
				t.Fatal(err)
			}
			if got := ref.RelativeName(); got != want {
				t.Errorf("RelativeName = %q, want %q", got, want)
			}
		})
	}
}

func TestResolveMissingScope(t *testing.T) {
	root, arg := newResourceCommand(t)
	inv, err := root.Parse([]string{"describe", "my-vm", "--project", "p1"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = arg.Resolve(inv.Namespace, nil)
	if err == nil {
		t.Fatal("expected missing scope error")
	}
	if !strings.Contains(err.Error(), "--zone") {
		t.Errorf("error %q should point at --zone", err)
	}
}
