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
	"fmt"
	"strings"
)

// ArgType is the closed set of value kinds a flag or positional can carry.
type ArgType int

// The supported argument value kinds.
const (
	StringType ArgType = iota
	IntType
	FloatType
	BoolType
)

// Argument describes a single registered flag or positional: how it is
// spelled, where its value lands, and how it participates in validation.
type Argument struct {
	// Name is the user-facing spelling: "--foo" for flags, "FOO" for
	// positionals.
	Name string

	// Dest is the namespace key the parsed value is stored under. Defaults
	// to the snake_case form of Name.
	Dest string

	// Help is the one-line description used in usage text.
	Help string

	// Type is the value kind. Positionals are always strings.
	Type ArgType

	// Repeated marks a flag that accepts a comma-separated list, or a
	// positional that consumes the remaining arguments.
	Repeated bool

	// Required makes a missing argument a parse error.
	Required bool

	// Hidden excludes the argument from usage text.
	Hidden bool

	// Global marks a flag registered on the root and valid on every
	// command.
	Global bool

	// Category groups flags in help output. Must not be set on positionals
	// and must not be the literal "REQUIRED" on a required flag, which has
	// its own section.
	Category string

	// Default is applied to the namespace when the argument is not
	// specified. It never marks the argument as specified.
	Default any

	// Choices restricts string values to a fixed set.
	Choices []string

	// SuggestionAliases are additional spellings that map to this argument
	// in "did you mean" suggestions.
	SuggestionAliases []string

	// InvertedOf names the positive flag this --no- flag was synthesized
	// from. Empty for ordinary arguments.
	InvertedOf string

	positional bool
	group      *argGroup
}

// IsPositional reports whether the argument is a positional.
func (a *Argument) IsPositional() bool { return a.positional }

type argGroup struct {
	id       string
	mutex    bool
	required bool
	members  []*Argument
}

// ArgumentInterceptor records every argument added to a command so that
// later stages (parsing, help generation, completion) can classify them
// without re-inspecting the parser. Invalid combinations fail at
// registration time, never silently and never at parse time.
type ArgumentInterceptor struct {
	cmd         *Command
	flags       []*Argument
	positionals []*Argument
	byName      map[string]*Argument
	groups      []*argGroup
}

// NewArgumentInterceptor returns an empty interceptor for cmd.
func NewArgumentInterceptor(cmd *Command) *ArgumentInterceptor {
	return &ArgumentInterceptor{
		cmd:    cmd,
		byName: map[string]*Argument{},
	}
}

// Flags returns the registered flags, including synthesized inverted ones.
func (ai *ArgumentInterceptor) Flags() []*Argument { return ai.flags }

// Positionals returns the registered positionals in declaration order.
func (ai *ArgumentInterceptor) Positionals() []*Argument { return ai.positionals }

// AddFlag registers a flag. For boolean flags it also synthesizes a hidden
// inverted --no-<flag> sharing the same dest, unless the flag itself starts
// with --no-, an explicit inverted twin is already registered, or the flag
// is a member of a mutually exclusive group.
func (ai *ArgumentInterceptor) AddFlag(a *Argument) (*Argument, error) {
	if !strings.HasPrefix(a.Name, "--") {
		return nil, fmt.Errorf("flag %q must start with %q", a.Name, "--")
	}
	if a.Required && a.Category == "REQUIRED" {
		return nil, fmt.Errorf("flag %s: REQUIRED is a reserved category; required flags are sectioned automatically", a.Name)
	}
	if err := ai.register(a); err != nil {
		return nil, err
	}
	ai.flags = append(ai.flags, a)
	if a.Type == BoolType {
		if inverted := ai.addInvertedBooleanFlagIfNecessary(a); inverted != nil {
			inverted.Category = a.Category
			inverted.Global = a.Global
			// The inverted flag never contributes suggestion aliases; it
			// can only be spelled one way.
			ai.flags = append(ai.flags, inverted)
		}
	}
	return a, nil
}

// AddPositional registers a positional argument. Positionals must not carry
// a help category and are always string-valued.
func (ai *ArgumentInterceptor) AddPositional(a *Argument) (*Argument, error) {
	if strings.HasPrefix(a.Name, "-") {
		return nil, fmt.Errorf("positional %q must not start with %q", a.Name, "-")
	}
	if a.Category != "" {
		return nil, fmt.Errorf("positional %s: categories are only valid for flags", a.Name)
	}
	if a.Type != StringType {
		return nil, fmt.Errorf("positional %s: positionals are always strings", a.Name)
	}
	a.positional = true
	if err := ai.register(a); err != nil {
		return nil, err
	}
	ai.positionals = append(ai.positionals, a)
	return a, nil
}

// AddMutexGroup places the given already-registered flags in a mutually
// exclusive group. If required, exactly one member must be specified;
// otherwise at most one.
func (ai *ArgumentInterceptor) AddMutexGroup(id string, required bool, members ...*Argument) error {
	g := &argGroup{id: id, mutex: true, required: required}
	for _, m := range members {
		if m.positional {
			return fmt.Errorf("group %s: positional %s cannot join a mutually exclusive group", id, m.Name)
		}
		if m.group != nil {
			return fmt.Errorf("group %s: %s already belongs to group %s", id, m.Name, m.group.id)
		}
		// Flags in mutually exclusive groups are not inverted; drop any twin
		// synthesized before the group membership was known.
		if twin := ai.invertedTwin(m); twin != nil {
			ai.remove(twin)
		}
		m.group = g
		g.members = append(g.members, m)
	}
	ai.groups = append(ai.groups, g)
	return nil
}

func (ai *ArgumentInterceptor) remove(a *Argument) {
	delete(ai.byName, a.Name)
	for i, f := range ai.flags {
		if f == a {
			ai.flags = append(ai.flags[:i], ai.flags[i+1:]...)
			break
		}
	}
}

// Lookup finds a registered argument by its user-facing name.
func (ai *ArgumentInterceptor) Lookup(name string) *Argument {
	return ai.byName[name]
}

func (ai *ArgumentInterceptor) register(a *Argument) error {
	if a.Dest == "" {
		a.Dest = DestForName(a.Name)
	}
	if _, ok := ai.byName[a.Name]; ok {
		return fmt.Errorf("argument %s registered twice on %s", a.Name, ai.cmd.Name)
	}
	ai.byName[a.Name] = a
	return nil
}

// addInvertedBooleanFlagIfNecessary decides whether the hidden --no-* twin
// should exist for a boolean flag and registers it if so.
func (ai *ArgumentInterceptor) addInvertedBooleanFlagIfNecessary(a *Argument) *Argument {
	if strings.HasPrefix(a.Name, "--no-") {
		// --no-no-* is a no no.
		return nil
	}
	if _, ok := ai.byName[invertedName(a.Name)]; ok {
		// An explicit --no-* flag wins.
		return nil
	}
	if a.group != nil && a.group.mutex {
		// Flags in mutually exclusive groups are not inverted.
		return nil
	}
	inverted := &Argument{
		Name:       invertedName(a.Name),
		Dest:       a.Dest,
		Help:       fmt.Sprintf("The inverse of %s.", a.Name),
		Type:       BoolType,
		Hidden:     true,
		InvertedOf: a.Name,
	}
	// Registration of a synthesized flag cannot collide: we just checked.
	ai.byName[inverted.Name] = inverted
	return inverted
}

func (ai *ArgumentInterceptor) invertedTwin(a *Argument) *Argument {
	if a.Type != BoolType {
		return nil
	}
	twin := ai.byName[invertedName(a.Name)]
	if twin != nil && twin.InvertedOf == a.Name {
		return twin
	}
	return nil
}

func invertedName(name string) string {
	return strings.Replace(name, "--", "--no-", 1)
}

// DestForName derives the default namespace key for an argument name:
// leading dashes are stripped and remaining dashes become underscores.
func DestForName(name string) string {
	return strings.ReplaceAll(strings.TrimLeft(name, "-"), "-", "_")
}
