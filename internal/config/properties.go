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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Properties are the persisted per-configuration settings. The set of keys
// is closed; unknown section/name pairs are rejected at set and get time so
// typos surface immediately.
type Properties struct {
	Core    CoreProperties    `toml:"core,omitempty"`
	Compute ComputeProperties `toml:"compute,omitempty"`
}

// CoreProperties are settings consulted by every command.
type CoreProperties struct {
	// Project is the default project for resource resolution.
	Project string `toml:"project,omitempty"`

	// Account is the active credentialed account.
	Account string `toml:"account,omitempty"`

	// Format is the default output format (json, yaml, table, text).
	Format string `toml:"format,omitempty"`

	// Verbosity is the default log level (debug, info, warning, error).
	Verbosity string `toml:"verbosity,omitempty"`

	// DisableUsageReporting turns off anonymous usage reporting.
	DisableUsageReporting bool `toml:"disable_usage_reporting,omitempty"`
}

// ComputeProperties are default scopes for compute resources.
type ComputeProperties struct {
	Zone   string `toml:"zone,omitempty"`
	Region string `toml:"region,omitempty"`
}

// propertyAccessor reads and writes one registered property by name.
type propertyAccessor struct {
	get func(*Properties) string
	set func(*Properties, string)
}

// registry is the closed set of section/name property keys.
var registry = map[string]propertyAccessor{
	"core/project": {
		get: func(p *Properties) string { return p.Core.Project },
		set: func(p *Properties, v string) { p.Core.Project = v },
	},
	"core/account": {
		get: func(p *Properties) string { return p.Core.Account },
		set: func(p *Properties, v string) { p.Core.Account = v },
	},
	"core/format": {
		get: func(p *Properties) string { return p.Core.Format },
		set: func(p *Properties, v string) { p.Core.Format = v },
	},
	"core/verbosity": {
		get: func(p *Properties) string { return p.Core.Verbosity },
		set: func(p *Properties, v string) { p.Core.Verbosity = v },
	},
	"core/disable_usage_reporting": {
		get: func(p *Properties) string { return fmt.Sprintf("%t", p.Core.DisableUsageReporting) },
		set: func(p *Properties, v string) { p.Core.DisableUsageReporting = v == "true" },
	},
	"compute/zone": {
		get: func(p *Properties) string { return p.Compute.Zone },
		set: func(p *Properties, v string) { p.Compute.Zone = v },
	},
	"compute/region": {
		get: func(p *Properties) string { return p.Compute.Region },
		set: func(p *Properties, v string) { p.Compute.Region = v },
	},
}

// PropertyKeys returns every settable section/name key, sorted.
func PropertyKeys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalizeKey accepts "project" as shorthand for "core/project".
func normalizeKey(key string) string {
	if !strings.Contains(key, "/") {
		return "core/" + key
	}
	return key
}

// envVarForKey maps a property key to its override environment variable,
// e.g. "compute/zone" -> "CLOUDCTL_COMPUTE_ZONE".
func envVarForKey(key string) string {
	return "CLOUDCTL_" + strings.ToUpper(strings.NewReplacer("/", "_", "-", "_").Replace(key))
}

// Context is the resolved configuration for one invocation: paths, the
// active named configuration, and its properties with environment
// overrides applied. It is threaded explicitly through commands rather
// than held as process-global mutable state.
type Context struct {
	Paths      Paths
	ConfigName string

	// Properties is the effective view: the stored properties with
	// environment overrides layered on top. Reads go here.
	Properties Properties

	// stored holds exactly what the property file says. Set and Unset
	// write here, and save persists it, so environment overrides are
	// never baked into the file.
	stored Properties
}

// Load builds the configuration context: configuration directory (with env
// override), active named configuration (env, then the active_config file,
// then "default"), its property file if present, and per-property
// environment overrides on top.
func Load() (*Context, error) {
	paths, err := NewPaths()
	if err != nil {
		return nil, err
	}
	return loadFrom(paths)
}

func loadFrom(paths Paths) (*Context, error) {
	ctx := &Context{Paths: paths, ConfigName: activeConfigName(paths)}
	data, err := os.ReadFile(paths.NamedConfigFile(ctx.ConfigName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// A missing properties file is an empty configuration.
	case err != nil:
		return nil, fmt.Errorf("reading configuration %q: %w", ctx.ConfigName, err)
	default:
		if err := toml.Unmarshal(data, &ctx.stored); err != nil {
			return nil, fmt.Errorf("configuration %q is not valid TOML: %w", ctx.ConfigName, err)
		}
	}
	ctx.refresh()
	return ctx, nil
}

// refresh recomputes the effective properties from the stored ones plus
// environment overrides.
func (c *Context) refresh() {
	c.Properties = c.stored
	for key, acc := range registry {
		if v := os.Getenv(envVarForKey(key)); v != "" {
			acc.set(&c.Properties, v)
		}
	}
}

func activeConfigName(paths Paths) string {
	if name := os.Getenv(ActiveConfigEnv); name != "" {
		return name
	}
	if data, err := os.ReadFile(paths.ActiveConfigFile()); err == nil {
		if name := strings.TrimSpace(string(data)); name != "" {
			return name
		}
	}
	return "default"
}

// Get returns the current value of a property key.
func (c *Context) Get(key string) (string, error) {
	acc, ok := registry[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("unknown property %q; known properties: %s", key, strings.Join(PropertyKeys(), ", "))
	}
	return acc.get(&c.Properties), nil
}

// Set updates a property and persists the active configuration.
func (c *Context) Set(key, value string) error {
	acc, ok := registry[normalizeKey(key)]
	if !ok {
		return fmt.Errorf("unknown property %q; known properties: %s", key, strings.Join(PropertyKeys(), ", "))
	}
	acc.set(&c.stored, value)
	if err := c.save(); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// Unset clears a property and persists the active configuration.
func (c *Context) Unset(key string) error {
	return c.Set(key, "")
}

func (c *Context) save() error {
	if err := c.Paths.EnsureConfigDir(); err != nil {
		return err
	}
	data, err := toml.Marshal(c.stored)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Paths.NamedConfigFile(c.ConfigName), data, 0600)
}

// ResourceDefaults returns the property-supplied default scope values used
// by combined resource arguments.
func (c *Context) ResourceDefaults() map[string]string {
	return map[string]string{
		"project":  c.Properties.Core.Project,
		"zone":     c.Properties.Compute.Zone,
		"region":   c.Properties.Compute.Region,
		"location": c.Properties.Compute.Region,
	}
}
