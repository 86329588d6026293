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

package cloudctl

import (
	"context"
	"fmt"

	"github.com/googleapis/cloudctl/internal/cli"
	"github.com/googleapis/cloudctl/internal/config"
)

func newConfigGroup(e *env) *cli.Command {
	return &cli.Command{
		Name:      "config",
		Short:     "view and edit properties of the active configuration",
		UsageLine: "cloudctl config <command> [arguments]",
		Commands: []*cli.Command{
			newConfigSet(e),
			newConfigGet(e),
			newConfigUnset(e),
			newConfigList(e),
			newConfigurationsGroup(e),
		},
	}
}

func propertyPositional(cmd *cli.Command) {
	must(cmd.Args().AddPositional(&cli.Argument{
		Name:     "PROPERTY",
		Dest:     "property",
		Help:     "Property key, section/name or a bare core property name.",
		Required: true,
	}))
}

func newConfigSet(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "set",
		Short:     "set a property in the active configuration",
		UsageLine: "cloudctl config set PROPERTY VALUE",
	}
	propertyPositional(cmd)
	must(cmd.Args().AddPositional(&cli.Argument{
		Name:     "VALUE",
		Dest:     "value",
		Help:     "New property value.",
		Required: true,
	}))
	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		key := ns.GetString("property")
		if err := e.cfg.Set(key, ns.GetString("value")); err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "Updated property [%s].\n", key)
		return nil
	}
	return cmd
}

func newConfigGet(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "get",
		Short:     "print a property of the active configuration",
		UsageLine: "cloudctl config get PROPERTY",
	}
	propertyPositional(cmd)
	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		value, err := e.cfg.Get(inv.Namespace.GetString("property"))
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, value)
		return nil
	}
	return cmd
}

func newConfigUnset(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "unset",
		Short:     "clear a property in the active configuration",
		UsageLine: "cloudctl config unset PROPERTY",
	}
	propertyPositional(cmd)
	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		key := inv.Namespace.GetString("property")
		if err := e.cfg.Unset(key); err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "Unset property [%s].\n", key)
		return nil
	}
	return cmd
}

func newConfigList(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "list",
		Short:     "list the properties of the active configuration",
		UsageLine: "cloudctl config list",
	}
	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		printer, err := e.printer(inv.Namespace)
		if err != nil {
			return err
		}
		props := map[string]any{}
		for _, key := range config.PropertyKeys() {
			value, err := e.cfg.Get(key)
			if err != nil {
				return err
			}
			if value != "" {
				props[key] = value
			}
		}
		return printer.Print(props)
	}
	return cmd
}

func newConfigurationsGroup(e *env) *cli.Command {
	return &cli.Command{
		Name:      "configurations",
		Short:     "manage named configuration profiles",
		UsageLine: "cloudctl config configurations <command> [arguments]",
		Commands: []*cli.Command{
			newConfigurationsCreate(e),
			newConfigurationsActivate(e),
			newConfigurationsList(e),
		},
	}
}

func configNamePositional(cmd *cli.Command) {
	must(cmd.Args().AddPositional(&cli.Argument{
		Name:     "NAME",
		Dest:     "name",
		Help:     "Configuration name.",
		Required: true,
	}))
}

func newConfigurationsCreate(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "create",
		Short:     "create a new named configuration",
		UsageLine: "cloudctl config configurations create NAME",
	}
	configNamePositional(cmd)
	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		name := inv.Namespace.GetString("name")
		if err := config.CreateConfiguration(e.cfg.Paths, name); err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "Created [%s].\n", name)
		return nil
	}
	return cmd
}

func newConfigurationsActivate(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "activate",
		Short:     "switch the active named configuration",
		UsageLine: "cloudctl config configurations activate NAME",
	}
	configNamePositional(cmd)
	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		name := inv.Namespace.GetString("name")
		if err := config.ActivateConfiguration(e.cfg.Paths, name); err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "Activated [%s].\n", name)
		return nil
	}
	return cmd
}

func newConfigurationsList(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "list",
		Short:     "list named configurations",
		UsageLine: "cloudctl config configurations list",
	}
	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		printer, err := e.printer(inv.Namespace)
		if err != nil {
			return err
		}
		names, err := config.ListConfigurations(e.cfg.Paths)
		if err != nil {
			return err
		}
		var rows [][]string
		for _, name := range names {
			active := ""
			if name == e.cfg.ConfigName {
				active = "*"
			}
			rows = append(rows, []string{name, active})
		}
		return printer.PrintList([]string{"NAME", "ACTIVE"}, rows, names)
	}
	return cmd
}
