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
	"sort"
	"strconv"
	"strings"
)

// Namespace is the mutable bag of parsed values for a single invocation.
// Exactly one Namespace exists per invocation; as parsing descends into
// nested subcommands the specified-argument bookkeeping accumulates and is
// never reset by a deeper command.
type Namespace struct {
	values    map[string]any
	specified map[string]string
	deepest   *Command
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		values:    map[string]any{},
		specified: map[string]string{},
	}
}

// IsSpecified reports whether the user explicitly supplied an argument
// writing to dest. Defaults never count as specified.
func (ns *Namespace) IsSpecified(dest string) bool {
	_, ok := ns.specified[dest]
	return ok
}

// SpecifiedArgs returns a copy of the dest-to-argument-name map of every
// explicitly supplied argument.
func (ns *Namespace) SpecifiedArgs() map[string]string {
	out := make(map[string]string, len(ns.specified))
	for dest, name := range ns.specified {
		out[dest] = name
	}
	return out
}

// SpecifiedArgNames returns the sorted user-facing names of every
// explicitly supplied argument, for metrics and error reporting.
func (ns *Namespace) SpecifiedArgNames() []string {
	var names []string
	for _, name := range ns.specified {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Deepest returns the command that handled the tail of the argument list.
func (ns *Namespace) Deepest() *Command { return ns.deepest }

// Value returns the raw parsed value for dest.
func (ns *Namespace) Value(dest string) (any, bool) {
	v, ok := ns.values[dest]
	return v, ok
}

// GetString returns the string value for dest, or "" if unset.
func (ns *Namespace) GetString(dest string) string {
	v, _ := ns.values[dest].(string)
	return v
}

// GetBool returns the bool value for dest, or false if unset.
func (ns *Namespace) GetBool(dest string) bool {
	v, _ := ns.values[dest].(bool)
	return v
}

// GetInt returns the integer value for dest, or 0 if unset.
func (ns *Namespace) GetInt(dest string) int64 {
	v, _ := ns.values[dest].(int64)
	return v
}

// GetFloat returns the float value for dest, or 0 if unset.
func (ns *Namespace) GetFloat(dest string) float64 {
	v, _ := ns.values[dest].(float64)
	return v
}

// GetStringList returns the repeated string value for dest, or nil.
func (ns *Namespace) GetStringList(dest string) []string {
	v, _ := ns.values[dest].([]string)
	return v
}

// GetIntList returns the repeated integer value for dest, or nil.
func (ns *Namespace) GetIntList(dest string) []int64 {
	v, _ := ns.values[dest].([]int64)
	return v
}

// GetFloatList returns the repeated float value for dest, or nil.
func (ns *Namespace) GetFloatList(dest string) []float64 {
	v, _ := ns.values[dest].([]float64)
	return v
}

// Set stores a value and marks it specified under the given argument name.
// It exists for tests and for layers that resolve values outside argv, such
// as resource arguments filled from properties.
func (ns *Namespace) Set(dest, argName string, value any) {
	ns.values[dest] = value
	ns.specified[dest] = argName
}

func (ns *Namespace) setDefault(dest string, value any) {
	if _, ok := ns.values[dest]; !ok {
		ns.values[dest] = value
	}
}

// Parse resolves a command path and flag values from args against the tree
// rooted at c. It returns the invocation for the deepest command reached.
// All parse failures are *UsageError values so the dispatcher can map them
// to exit code 2.
func (c *Command) Parse(args []string) (*Invocation, error) {
	args, err := expandFlagsFiles(args)
	if err != nil {
		return nil, &UsageError{Command: c, Message: err.Error()}
	}
	ns := NewNamespace()
	cur := c
	var unknown []string
	posIdx := 0

	for i := 0; i < len(args); i++ {
		tok := args[i]
		if strings.HasPrefix(tok, "--") {
			name := tok
			inline := ""
			hasInline := false
			if eq := strings.Index(tok, "="); eq >= 0 {
				name, inline, hasInline = tok[:eq], tok[eq+1:], true
			}
			arg := cur.lookupArg(name)
			if arg == nil {
				unknown = append(unknown, name)
				// Swallow the flag's value token so it is not reported
				// again as a stray positional.
				if !hasInline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
					i++
				}
				continue
			}
			if arg.Type == BoolType {
				v := true
				if hasInline {
					b, err := strconv.ParseBool(inline)
					if err != nil {
						return nil, &UsageError{Command: cur, Message: fmt.Sprintf("argument %s: invalid boolean value: %q", name, inline)}
					}
					v = b
				}
				if arg.InvertedOf != "" {
					v = !v
				}
				ns.values[arg.Dest] = v
				ns.specified[arg.Dest] = name
				continue
			}
			value := inline
			if !hasInline {
				if i+1 >= len(args) {
					return nil, &UsageError{Command: cur, Message: fmt.Sprintf("argument %s: expected one argument", name)}
				}
				i++
				value = args[i]
			}
			if err := storeValue(ns, arg, name, value); err != nil {
				return nil, &UsageError{Command: cur, Message: err.Error()}
			}
			continue
		}
		// A non-flag token either selects a subcommand or fills the next
		// positional of the command reached so far.
		if cur.IsGroup() {
			sub := cur.Subcommand(tok)
			if sub == nil {
				return nil, cur.unknownCommandError(tok)
			}
			cur = sub
			continue
		}
		positionals := cur.chainPositionals()
		if posIdx < len(positionals) {
			p := positionals[posIdx]
			if p.Repeated {
				list, _ := ns.values[p.Dest].([]string)
				ns.values[p.Dest] = append(list, tok)
			} else {
				ns.values[p.Dest] = tok
				posIdx++
			}
			ns.specified[p.Dest] = p.Name
			continue
		}
		unknown = append(unknown, tok)
	}

	ns.deepest = cur
	if len(unknown) > 0 {
		return nil, cur.suggestUnknownArgs(unknown)
	}
	if err := cur.validate(ns); err != nil {
		return nil, err
	}
	cur.applyDefaults(ns)
	return &Invocation{Command: cur, Namespace: ns}, nil
}

func storeValue(ns *Namespace, arg *Argument, name, value string) error {
	// A repeated flag takes a comma-separated list; every element is
	// validated and converted on its own.
	elements := []string{value}
	if arg.Repeated {
		elements = strings.Split(value, ",")
	}
	if len(arg.Choices) > 0 {
		for _, el := range elements {
			ok := false
			for _, choice := range arg.Choices {
				if el == choice {
					ok = true
					break
				}
			}
			if !ok {
				return fmt.Errorf("argument %s: invalid choice: %q (choose from %s)", name, el, strings.Join(arg.Choices, ", "))
			}
		}
	}
	switch arg.Type {
	case IntType:
		var parsed []int64
		for _, el := range elements {
			n, err := strconv.ParseInt(el, 10, 64)
			if err != nil {
				return fmt.Errorf("argument %s: invalid integer value: %q", name, el)
			}
			parsed = append(parsed, n)
		}
		if arg.Repeated {
			list, _ := ns.values[arg.Dest].([]int64)
			ns.values[arg.Dest] = append(list, parsed...)
		} else {
			ns.values[arg.Dest] = parsed[0]
		}
	case FloatType:
		var parsed []float64
		for _, el := range elements {
			f, err := strconv.ParseFloat(el, 64)
			if err != nil {
				return fmt.Errorf("argument %s: invalid float value: %q", name, el)
			}
			parsed = append(parsed, f)
		}
		if arg.Repeated {
			list, _ := ns.values[arg.Dest].([]float64)
			ns.values[arg.Dest] = append(list, parsed...)
		} else {
			ns.values[arg.Dest] = parsed[0]
		}
	default:
		if arg.Repeated {
			list, _ := ns.values[arg.Dest].([]string)
			ns.values[arg.Dest] = append(list, elements...)
		} else {
			ns.values[arg.Dest] = value
		}
	}
	ns.specified[arg.Dest] = name
	return nil
}

// lookupArg resolves a flag name against this command and every ancestor,
// so global flags remain valid on any subcommand.
func (c *Command) lookupArg(name string) *Argument {
	for cmd := c; cmd != nil; cmd = cmd.parent {
		if a := cmd.Args().Lookup(name); a != nil {
			return a
		}
	}
	return nil
}

// chain returns the path of commands from the root down to c.
func (c *Command) chain() []*Command {
	if c.parent == nil {
		return []*Command{c}
	}
	return append(c.parent.chain(), c)
}

func (c *Command) chainPositionals() []*Argument {
	var out []*Argument
	for _, cmd := range c.chain() {
		out = append(out, cmd.Args().Positionals()...)
	}
	return out
}

// validate enforces required arguments and mutually exclusive groups across
// the resolved command chain.
func (c *Command) validate(ns *Namespace) error {
	var missing []string
	for _, cmd := range c.chain() {
		for _, p := range cmd.Args().Positionals() {
			if p.Required && !ns.IsSpecified(p.Dest) {
				missing = append(missing, p.Name)
			}
		}
		for _, f := range cmd.Args().Flags() {
			if f.Required && !ns.IsSpecified(f.Dest) {
				missing = append(missing, f.Name)
			}
		}
		for _, g := range cmd.Args().groups {
			if !g.mutex {
				continue
			}
			var given []string
			for _, m := range g.members {
				if ns.specified[m.Dest] == m.Name {
					given = append(given, m.Name)
				}
			}
			if len(given) > 1 {
				return &UsageError{Command: c, Message: fmt.Sprintf("argument %s: not allowed with argument %s", given[1], given[0])}
			}
			if g.required && len(given) == 0 {
				var names []string
				for _, m := range g.members {
					names = append(names, m.Name)
				}
				return &UsageError{Command: c, Message: fmt.Sprintf("exactly one of (%s) is required", strings.Join(names, " | "))}
			}
		}
	}
	if len(missing) > 0 {
		return &UsageError{Command: c, Message: fmt.Sprintf("the following arguments are required: %s", strings.Join(missing, ", "))}
	}
	return nil
}

func (c *Command) applyDefaults(ns *Namespace) {
	for _, cmd := range c.chain() {
		for _, a := range cmd.Args().Flags() {
			if a.Default != nil {
				ns.setDefault(a.Dest, a.Default)
			}
		}
		for _, p := range cmd.Args().Positionals() {
			if p.Default != nil {
				ns.setDefault(p.Dest, p.Default)
			}
		}
	}
}
