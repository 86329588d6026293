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
	"regexp"
	"sort"
	"strings"
)

// Named configuration names are constrained so they can double as file
// name suffixes.
var configNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// CreateConfiguration creates an empty named configuration. It does not
// activate it.
func CreateConfiguration(paths Paths, name string) error {
	if !configNameRe.MatchString(name) {
		return fmt.Errorf("invalid configuration name %q: use lowercase letters, digits and hyphens, starting with a letter", name)
	}
	if err := paths.EnsureConfigDir(); err != nil {
		return err
	}
	file := paths.NamedConfigFile(name)
	if _, err := os.Stat(file); err == nil {
		return fmt.Errorf("configuration %q already exists", name)
	}
	return os.WriteFile(file, nil, 0600)
}

// ActivateConfiguration makes an existing named configuration active for
// subsequent invocations.
func ActivateConfiguration(paths Paths, name string) error {
	if _, err := os.Stat(paths.NamedConfigFile(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("configuration %q does not exist; create it with: cloudctl config configurations create %s", name, name)
		}
		return err
	}
	if err := paths.EnsureConfigDir(); err != nil {
		return err
	}
	return os.WriteFile(paths.ActiveConfigFile(), []byte(name+"\n"), 0600)
}

// ListConfigurations returns the sorted names of all named configurations.
func ListConfigurations(paths Paths) ([]string, error) {
	entries, err := os.ReadDir(paths.NamedConfigDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutPrefix(e.Name(), "config_"); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
