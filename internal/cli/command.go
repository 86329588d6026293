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

// Package cli implements the cloudctl command tree: command registration,
// argument interception, parsing with specified-argument tracking, and
// suggestion-based error reporting.
package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ReleaseTrack selects which command surface a command belongs to.
type ReleaseTrack string

// The release tracks, from most to least stable.
const (
	GA    ReleaseTrack = "GA"
	Beta  ReleaseTrack = "BETA"
	Alpha ReleaseTrack = "ALPHA"
)

// Prefix returns the command path prefix for the track, empty for GA.
func (t ReleaseTrack) Prefix() string {
	switch t {
	case Beta:
		return "beta"
	case Alpha:
		return "alpha"
	default:
		return ""
	}
}

// Command is a single node in the command tree: either a group (it has
// subcommands) or a leaf (it has an Action). A node is constructed once at
// tree-build time; groups may defer building their children until the path
// is first referenced by setting Loader.
type Command struct {
	// Name is the last segment of the command path, e.g. "create".
	Name string

	// Short is a one-line description shown in group help.
	Short string

	// UsageLine is the full usage synopsis, e.g.
	// "cloudctl compute instances create INSTANCE [flags]".
	UsageLine string

	// Long is the full help text. May contain markdown.
	Long string

	// Track is the release track the command is served from. Children
	// inherit the track of their closest ancestor group that sets one.
	Track ReleaseTrack

	// Hidden excludes the command from help listings. It remains invocable.
	Hidden bool

	// Commands are the eagerly registered subcommands.
	Commands []*Command

	// Loader, if set, is invoked at most once to materialize additional
	// subcommands when this group's path is first referenced. This keeps
	// startup cheap for wide trees.
	Loader func() []*Command

	// Action runs the command after a successful parse. Nil for groups.
	Action func(ctx context.Context, inv *Invocation) error

	args   *ArgumentInterceptor
	parent *Command
	loaded bool
}

// Invocation carries everything an Action needs: the resolved command and
// the parsed namespace.
type Invocation struct {
	Command   *Command
	Namespace *Namespace
}

// Init finalizes a command after its fields are populated: it creates the
// argument interceptor if absent, links children to their parent and
// propagates release tracks. It must be called once per constructed command;
// calling it on a parent also initializes registered children.
func (c *Command) Init() {
	if c.args == nil {
		c.args = NewArgumentInterceptor(c)
	}
	c.pruneShadowedFlags()
	for _, sub := range c.Commands {
		sub.parent = c
		if sub.Track == "" {
			sub.Track = c.Track
		}
		sub.Init()
	}
}

// pruneShadowedFlags drops flags that an ancestor already serves as a global
// with the same name and dest. Commands register their flags before the tree
// is linked, so a leaf can end up re-declaring --project next to the root's
// global one; keeping both would list the flag twice in help and reference
// docs.
func (c *Command) pruneShadowedFlags() {
	for _, f := range append([]*Argument(nil), c.args.flags...) {
		for anc := c.parent; anc != nil; anc = anc.parent {
			g := anc.Args().Lookup(f.Name)
			if g != nil && g.Global && g.Dest == f.Dest {
				c.args.remove(f)
				break
			}
		}
	}
}

// Args returns the command's argument interceptor, creating it on first use
// so flags can be registered before Init runs.
func (c *Command) Args() *ArgumentInterceptor {
	if c.args == nil {
		c.args = NewArgumentInterceptor(c)
	}
	return c.args
}

// Path returns the full command path from the root, excluding the root
// command's own name.
func (c *Command) Path() []string {
	if c.parent == nil {
		return nil
	}
	return append(c.parent.Path(), c.Name)
}

// Root walks up to the top of the tree.
func (c *Command) Root() *Command {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

// IsGroup reports whether the command only dispatches to subcommands.
func (c *Command) IsGroup() bool {
	return c.Action == nil
}

// load materializes lazily registered subcommands. It is idempotent.
func (c *Command) load() {
	if c.loaded || c.Loader == nil {
		c.loaded = true
		return
	}
	c.loaded = true
	for _, sub := range c.Loader() {
		sub.parent = c
		if sub.Track == "" {
			sub.Track = c.Track
		}
		sub.Init()
		c.Commands = append(c.Commands, sub)
	}
}

// Subcommand returns the child with the given name, loading lazily
// registered children if needed. Returns nil if no such child exists.
func (c *Command) Subcommand(name string) *Command {
	c.load()
	for _, sub := range c.Commands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// SubcommandNames returns the sorted names of all visible children.
func (c *Command) SubcommandNames() []string {
	c.load()
	var names []string
	for _, sub := range c.Commands {
		if !sub.Hidden {
			names = append(names, sub.Name)
		}
	}
	sort.Strings(names)
	return names
}

// LookupPath resolves a full path below this command, loading lazy groups
// along the way. Returns nil if any segment is missing.
func (c *Command) LookupPath(path []string) *Command {
	cur := c
	for _, segment := range path {
		cur = cur.Subcommand(segment)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Walk visits the command and every reachable descendant, forcing lazy
// groups. Used by help and reference-doc generation.
func (c *Command) Walk(fn func(*Command)) {
	fn(c)
	c.load()
	for _, sub := range c.Commands {
		sub.Walk(fn)
	}
}

// Run parses args against the command tree rooted at c and executes the
// resolved command. The returned error is nil on success, a *UsageError for
// argument-parsing failures, and the Action's error otherwise.
func (c *Command) Run(ctx context.Context, args []string) error {
	inv, err := c.Parse(args)
	if err != nil {
		return err
	}
	cmd := inv.Command
	if cmd.IsGroup() {
		return &UsageError{
			Command: cmd,
			Message: fmt.Sprintf("command name argument expected\nAvailable commands for %s:\n  %s",
				strings.Join(append([]string{c.Name}, cmd.Path()...), " "),
				strings.Join(cmd.SubcommandNames(), "\n  ")),
		}
	}
	return cmd.Action(ctx, inv)
}
