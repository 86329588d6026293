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
	"fmt"
	"strings"
)

// PathSegment is one segment of a URL template: either a literal or a
// {variable} placeholder.
type PathSegment struct {
	Literal  string
	Variable string
}

// ParsePath splits a URL template into segments.
func ParsePath(path string) []PathSegment {
	var segments []PathSegment
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			segments = append(segments, PathSegment{Variable: part[1 : len(part)-1]})
		} else {
			segments = append(segments, PathSegment{Literal: part})
		}
	}
	return segments
}

// PathVars returns the variable names of a URL template in order.
func PathVars(path string) []string {
	var vars []string
	for _, s := range ParsePath(path) {
		if s.Variable != "" {
			vars = append(vars, s.Variable)
		}
	}
	return vars
}

// ExpandPath substitutes values into a URL template. Every variable must be
// present in values; a missing one is a schema-drift error, not a
// user-facing one.
func ExpandPath(path string, values map[string]string) (string, error) {
	var parts []string
	for _, s := range ParsePath(path) {
		if s.Variable == "" {
			parts = append(parts, s.Literal)
			continue
		}
		v, ok := values[s.Variable]
		if !ok || v == "" {
			return "", fmt.Errorf("path template %q: missing value for {%s}", path, s.Variable)
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "/"), nil
}

// CollectionFromPath derives the dotted collection identifier from a
// resource URL template, joining the literal segments that precede each
// variable. Example:
// "v1/projects/{project}/zones/{zone}/instances/{instance}" ->
// "projects.zones.instances".
func CollectionFromPath(path string) string {
	segments := ParsePath(path)
	var parts []string
	for i := 0; i+1 < len(segments); i++ {
		if segments[i].Literal != "" && segments[i+1].Variable != "" {
			parts = append(parts, segments[i].Literal)
		}
	}
	return strings.Join(parts, ".")
}
