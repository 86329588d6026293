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

// Package argen mechanically derives CLI flags from a request message
// schema and reassembles a request from parsed flag values. Scalar fields
// become flags, message fields flatten into prefixed sub-flags, enum values
// round-trip between dash-case flag spellings and UPPER_SNAKE_CASE members,
// and resource-path fields are left to the combined resource argument.
package argen

import (
	"fmt"
	"strings"

	"github.com/googleapis/cloudctl/internal/cli"
	"github.com/googleapis/cloudctl/internal/schema"
	"github.com/iancoleman/strcase"
)

// FieldInfo is per-field argument metadata supplied by a command surface to
// override the mechanical defaults.
type FieldInfo struct {
	// FlagName overrides the derived flag name, including leading dashes.
	FlagName string

	// Skip excludes the field from flag generation entirely; the command
	// fills it by hand.
	Skip bool

	// Help overrides the derived help text.
	Help string
}

// Options control flag generation.
type Options struct {
	// Strict requires every required non-resource field to have an entry
	// in Fields. It is a build-time safety net against API schema drift:
	// a violation means the command definition is stale, so Generate fails
	// fast instead of deferring to parse time.
	Strict bool

	// Fields maps snake_case field names to overrides.
	Fields map[string]FieldInfo
}

// Generator binds a method's request schema to a command's flag set and
// rebuilds the request message from a parsed namespace.
type Generator struct {
	method *schema.Method
	opts   Options
}

// Generate registers a flag for every field of the method's request schema
// on cmd and returns the generator used to reconstruct the request after
// parsing.
func Generate(cmd *cli.Command, method *schema.Method, opts Options) (*Generator, error) {
	g := &Generator{method: method, opts: opts}
	if method.Request != nil {
		if err := g.addFields(cmd, method.Request, nil); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Generator) addFields(cmd *cli.Command, msg *schema.Message, prefix []string) error {
	for _, f := range msg.Fields {
		if f.ResourcePath {
			continue
		}
		info := g.opts.Fields[fieldKey(prefix, f)]
		if info.Skip {
			continue
		}
		if f.Repeated && f.Kind == schema.BoolKind {
			return fmt.Errorf("field %s: repeated bool fields are not mappable to flags", fieldKey(prefix, f))
		}
		if f.Kind == schema.MessageKind {
			if f.Repeated {
				return fmt.Errorf("field %s: repeated message fields are not mappable to flags", fieldKey(prefix, f))
			}
			if err := g.addFields(cmd, f.Message, childPrefix(prefix, f.Name)); err != nil {
				return err
			}
			continue
		}
		if g.opts.Strict && f.Required && info.FlagName == "" {
			return fmt.Errorf("missing argument information for required field %q in %s", fieldKey(prefix, f), msg.Name)
		}
		arg := &cli.Argument{
			Name:     flagName(prefix, f, info),
			Help:     f.Doc,
			Required: f.Required,
			Repeated: f.Repeated,
			Type:     flagType(f.Kind),
		}
		if info.Help != "" {
			arg.Help = info.Help
		}
		if f.Kind == schema.EnumKind {
			for _, member := range f.Enum.Values {
				arg.Choices = append(arg.Choices, FlagValueForEnum(member))
			}
		}
		if _, err := cmd.Args().AddFlag(arg); err != nil {
			return fmt.Errorf("generating flags for %s: %w", g.method.Name, err)
		}
	}
	return nil
}

// BuildRequest walks the request schema and copies parsed flag values back
// into a nested message object keyed by wire names. Fields the user did not
// supply and that carry no default are omitted.
func (g *Generator) BuildRequest(ns *cli.Namespace) (map[string]any, error) {
	if g.method.Request == nil {
		return map[string]any{}, nil
	}
	return g.buildMessage(ns, g.method.Request, nil)
}

func (g *Generator) buildMessage(ns *cli.Namespace, msg *schema.Message, prefix []string) (map[string]any, error) {
	out := map[string]any{}
	for _, f := range msg.Fields {
		if f.ResourcePath {
			continue
		}
		info := g.opts.Fields[fieldKey(prefix, f)]
		if info.Skip {
			continue
		}
		if f.Kind == schema.MessageKind {
			nested, err := g.buildMessage(ns, f.Message, childPrefix(prefix, f.Name))
			if err != nil {
				return nil, err
			}
			if len(nested) > 0 {
				out[f.JSONName()] = nested
			}
			continue
		}
		dest := cli.DestForName(flagName(prefix, f, info))
		value, ok := ns.Value(dest)
		if !ok {
			continue
		}
		if f.Repeated {
			values, err := repeatedValues(ns, f, dest)
			if err != nil {
				return nil, err
			}
			out[f.JSONName()] = values
			continue
		}
		if f.Kind == schema.EnumKind {
			member := EnumForFlagValue(value.(string))
			if !f.Enum.Has(member) {
				return nil, fmt.Errorf("field %s: %q is not a member of %s", f.Name, member, f.Enum.Name)
			}
			value = member
		}
		out[f.JSONName()] = value
	}
	return out, nil
}

// repeatedValues reads a repeated field back out of the namespace as a fresh
// []any keyed by the field's kind, so the request object does not alias
// namespace storage. Enum elements are mapped from their dash-case flag
// spellings to enum members.
func repeatedValues(ns *cli.Namespace, f *schema.Field, dest string) ([]any, error) {
	switch f.Kind {
	case schema.Int64Kind:
		list := ns.GetIntList(dest)
		values := make([]any, len(list))
		for i, v := range list {
			values[i] = v
		}
		return values, nil
	case schema.DoubleKind:
		list := ns.GetFloatList(dest)
		values := make([]any, len(list))
		for i, v := range list {
			values[i] = v
		}
		return values, nil
	case schema.EnumKind:
		list := ns.GetStringList(dest)
		values := make([]any, len(list))
		for i, v := range list {
			member := EnumForFlagValue(v)
			if !f.Enum.Has(member) {
				return nil, fmt.Errorf("field %s: %q is not a member of %s", f.Name, member, f.Enum.Name)
			}
			values[i] = member
		}
		return values, nil
	default:
		list := ns.GetStringList(dest)
		values := make([]any, len(list))
		for i, v := range list {
			values[i] = v
		}
		return values, nil
	}
}

func childPrefix(prefix []string, name string) []string {
	return append(append([]string{}, prefix...), name)
}

func fieldKey(prefix []string, f *schema.Field) string {
	return strings.Join(append(append([]string{}, prefix...), f.Name), ".")
}

func flagName(prefix []string, f *schema.Field, info FieldInfo) string {
	if info.FlagName != "" {
		return info.FlagName
	}
	parts := append(append([]string{}, prefix...), f.Name)
	return "--" + strcase.ToKebab(strings.Join(parts, "_"))
}

func flagType(k schema.Kind) cli.ArgType {
	switch k {
	case schema.Int64Kind:
		return cli.IntType
	case schema.DoubleKind:
		return cli.FloatType
	case schema.BoolKind:
		return cli.BoolType
	default:
		return cli.StringType
	}
}

// FlagValueForEnum converts an UPPER_SNAKE_CASE enum member to its
// dash-case flag spelling, e.g. "PREMIUM_TIER" -> "premium-tier".
func FlagValueForEnum(member string) string {
	return strings.ToLower(strings.ReplaceAll(member, "_", "-"))
}

// EnumForFlagValue converts a dash-case flag value back to the
// UPPER_SNAKE_CASE enum member, e.g. "premium-tier" -> "PREMIUM_TIER".
func EnumForFlagValue(value string) string {
	return strings.ToUpper(strings.ReplaceAll(value, "-", "_"))
}
