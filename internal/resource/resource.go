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

// Package resource implements parsed, typed representations of REST
// resource paths (e.g. projects/P/zones/Z/instances/I) and the combined
// resource argument that resolves one from either a fully qualified path or
// a bare name plus scope flags.
package resource

import (
	"fmt"
	"strings"

	"github.com/googleapis/cloudctl/internal/schema"
)

// Collection describes one resource collection by its path template, e.g.
// "projects/{project}/zones/{zone}/instances/{instance}". The last segment
// must be a variable naming the resource in singular form; the literal
// before it is the plural collection identifier.
type Collection struct {
	template string
	segments []schema.PathSegment
}

// NewCollection parses a path template into a collection.
func NewCollection(template string) *Collection {
	return &Collection{
		template: template,
		segments: schema.ParsePath(template),
	}
}

// Template returns the original path template.
func (c *Collection) Template() string { return c.template }

// Params returns the template's variable names in order.
func (c *Collection) Params() []string {
	return schema.PathVars(c.template)
}

// Singular returns the singular resource noun, taken from the final
// variable segment.
func (c *Collection) Singular() string {
	last := c.segments[len(c.segments)-1]
	return last.Variable
}

// Plural returns the plural resource noun, the literal segment preceding
// the final variable.
func (c *Collection) Plural() string {
	if len(c.segments) < 2 {
		return ""
	}
	return c.segments[len(c.segments)-2].Literal
}

// Ref is a fully resolved reference to one resource.
type Ref struct {
	Collection *Collection
	params     map[string]string
}

// Param returns the value captured for a template variable.
func (r *Ref) Param(name string) string { return r.params[name] }

// Name returns the final path component, the resource's short name.
func (r *Ref) Name() string { return r.params[r.Collection.Singular()] }

// RelativeName renders the full resource path.
func (r *Ref) RelativeName() string {
	name, err := schema.ExpandPath(r.Collection.template, r.params)
	if err != nil {
		// A Ref is only constructed with every parameter present.
		panic(err)
	}
	return name
}

// New constructs a reference from explicit parameter values. Every template
// variable must be present and non-empty.
func (c *Collection) New(params map[string]string) (*Ref, error) {
	copied := make(map[string]string, len(params))
	for _, p := range c.Params() {
		v := params[p]
		if v == "" {
			return nil, fmt.Errorf("resource %s: missing value for [%s]", c.Plural(), p)
		}
		copied[p] = v
	}
	return &Ref{Collection: c, params: copied}, nil
}

// Parse resolves a fully qualified resource path against the collection's
// template, capturing each variable.
func (c *Collection) Parse(name string) (*Ref, error) {
	parts := strings.Split(strings.Trim(name, "/"), "/")
	if len(parts) != len(c.segments) {
		return nil, fmt.Errorf("%q is not a valid %s resource name; expected the form %s", name, c.Singular(), c.template)
	}
	params := map[string]string{}
	for i, seg := range c.segments {
		if seg.Variable != "" {
			if parts[i] == "" {
				return nil, fmt.Errorf("%q is not a valid %s resource name; empty segment for [%s]", name, c.Singular(), seg.Variable)
			}
			params[seg.Variable] = parts[i]
			continue
		}
		if parts[i] != seg.Literal {
			return nil, fmt.Errorf("%q is not a valid %s resource name; expected segment %q, got %q", name, c.Singular(), seg.Literal, parts[i])
		}
	}
	return &Ref{Collection: c, params: params}, nil
}
