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
	"fmt"
	"strings"

	"github.com/googleapis/cloudctl/internal/cli"
)

// Arg is a combined resource argument: one positional that accepts either a
// fully qualified resource path or a bare name, plus one scope flag per
// remaining template parameter. Scope parameters covered by flags the
// command already has (such as a global --project) are reused rather than
// re-registered.
type Arg struct {
	collection *Collection
	positional *cli.Argument
	// template parameter -> namespace dest supplying it
	scopeDests map[string]string
}

// AddArg registers the combined resource argument for collection on cmd.
// The positional is named after the singular resource noun, upper-cased.
func AddArg(cmd *cli.Command, collection *Collection, help string) (*Arg, error) {
	positional, err := cmd.Args().AddPositional(&cli.Argument{
		Name:     strings.ToUpper(collection.Singular()),
		Dest:     collection.Singular(),
		Help:     help,
		Required: true,
	})
	if err != nil {
		return nil, err
	}
	a := &Arg{
		collection: collection,
		positional: positional,
		scopeDests: map[string]string{},
	}
	params := collection.Params()
	for _, p := range params[:len(params)-1] {
		dest := p
		flagName := "--" + p
		// Reuse a flag an ancestor already provides for this parameter.
		if existing := lookupChain(cmd, flagName); existing != nil {
			a.scopeDests[p] = existing.Dest
			continue
		}
		flag, err := cmd.Args().AddFlag(&cli.Argument{
			Name: flagName,
			Dest: dest,
			Help: fmt.Sprintf("The %s scope for this request.", p),
		})
		if err != nil {
			return nil, err
		}
		a.scopeDests[p] = flag.Dest
	}
	return a, nil
}

func lookupChain(cmd *cli.Command, name string) *cli.Argument {
	// The command is not linked into the tree until Init runs on the root,
	// so at registration time only the command's own args are visible. A
	// flag an ancestor serves as a global (such as --project) is therefore
	// registered here too and pruned again when Init links the tree; the
	// dest recorded in scopeDests stays valid either way.
	return cmd.Args().Lookup(name)
}

// Resolve produces the resource reference for a parsed invocation. A
// positional containing "/" is parsed as a fully qualified path; a bare
// name is combined with scope flag values, falling back to the supplied
// defaults (typically from properties) for parameters the user omitted.
// Both spellings resolve to the same reference.
func (a *Arg) Resolve(ns *cli.Namespace, defaults map[string]string) (*Ref, error) {
	raw := ns.GetString(a.positional.Dest)
	if raw == "" {
		return nil, fmt.Errorf("missing required resource argument [%s]", a.positional.Name)
	}
	if strings.Contains(raw, "/") {
		return a.collection.Parse(raw)
	}
	params := map[string]string{a.collection.Singular(): raw}
	for param, dest := range a.scopeDests {
		v := ns.GetString(dest)
		if v == "" {
			v = defaults[param]
		}
		if v == "" {
			return nil, fmt.Errorf(
				"could not determine the %s scope for [%s]; supply --%s or a fully qualified resource path",
				param, raw, param)
		}
		params[param] = v
	}
	return a.collection.New(params)
}
