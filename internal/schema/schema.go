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

// Package schema models request and response message shapes for the remote
// control plane: a closed set of field kinds, messages, and methods with
// their HTTP bindings. Command surfaces declare these models the same way
// generated API bindings would, and the argument generator walks them to
// derive flags and to reassemble requests.
package schema

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// Kind is the closed set of field value kinds.
type Kind int

// The supported field kinds.
const (
	StringKind Kind = iota
	Int64Kind
	DoubleKind
	BoolKind
	EnumKind
	MessageKind
)

func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case Int64Kind:
		return "int64"
	case DoubleKind:
		return "double"
	case BoolKind:
		return "bool"
	case EnumKind:
		return "enum"
	case MessageKind:
		return "message"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Enum is a named closed set of UPPER_SNAKE_CASE members.
type Enum struct {
	Name   string
	Values []string
}

// Has reports whether value is a member of the enum.
func (e *Enum) Has(value string) bool {
	for _, v := range e.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Field is one field of a message. Exactly one of Enum and Message is set
// when Kind is EnumKind or MessageKind respectively.
type Field struct {
	// Name is the proto-style snake_case field name.
	Name     string
	Kind     Kind
	Repeated bool
	Required bool
	Doc      string
	Enum     *Enum
	Message  *Message

	// ResourcePath marks the field that carries the request's resource
	// name; it is not surfaced as an ordinary flag but through a combined
	// resource argument.
	ResourcePath bool
}

// JSONName returns the lowerCamel wire name of the field.
func (f *Field) JSONName() string {
	return strcase.ToLowerCamel(f.Name)
}

// Message is a named collection of fields mirroring a wire schema.
type Message struct {
	Name   string
	Fields []*Field
}

// Field returns the field with the given snake_case name, or nil.
func (m *Message) Field(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Method describes a single callable API method: its HTTP binding, request
// shape, and whether it starts a long-running operation.
type Method struct {
	// Name is the method verb, e.g. "Create".
	Name string

	// Verb is the HTTP verb of the binding.
	Verb string

	// Path is the URL template relative to the service endpoint, with
	// {variable} segments, e.g.
	// "v1/projects/{project}/zones/{zone}/instances/{instance}".
	Path string

	// Request is the request message schema. Nil for methods whose only
	// input is the resource path.
	Request *Message

	// LRO marks methods that return an operation reference instead of the
	// target resource.
	LRO bool
}

// Service groups the methods of one API surface.
type Service struct {
	// Name is the short service name, e.g. "compute".
	Name string

	// Endpoint is the base URL of the control plane for this service.
	Endpoint string

	Methods map[string]*Method
}

// Method returns the named method or an error naming the service, so call
// sites fail descriptively on schema drift.
func (s *Service) Method(name string) (*Method, error) {
	m, ok := s.Methods[name]
	if !ok {
		return nil, fmt.Errorf("service %s has no method %q", s.Name, name)
	}
	return m, nil
}
