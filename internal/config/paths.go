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

// Package config manages the user-level configuration directory: named
// configuration profiles with their properties, the credential store
// layout, and the fixed file names the rest of the tool consumes. The
// configuration context is constructed once at process start from the
// environment plus the active profile and is read-only afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the configuration directory location.
const ConfigDirEnv = "CLOUDCTL_CONFIG"

// ActiveConfigEnv overrides the active named configuration.
const ActiveConfigEnv = "CLOUDCTL_ACTIVE_CONFIG_NAME"

// Paths resolves the fixed layout of the configuration directory. All file
// and directory names below it are fixed strings; everything else in the
// tool goes through these accessors.
type Paths struct {
	// ConfigDir is the root of the user's configuration area.
	ConfigDir string
}

// NewPaths determines the configuration directory, honoring ConfigDirEnv.
func NewPaths() (Paths, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return Paths{ConfigDir: dir}, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot determine the configuration directory: %w; set %s", err, ConfigDirEnv)
	}
	return Paths{ConfigDir: filepath.Join(base, "cloudctl")}, nil
}

// CredentialsDir holds one JSON credential file per account.
func (p Paths) CredentialsDir() string {
	return filepath.Join(p.ConfigDir, "credentials")
}

// CredentialFile is the credential store entry for one account.
func (p Paths) CredentialFile(account string) string {
	return filepath.Join(p.CredentialsDir(), account+".json")
}

// LegacyCredentialsDir holds pre-store credential files for one account.
func (p Paths) LegacyCredentialsDir(account string) string {
	return filepath.Join(p.ConfigDir, "legacy_credentials", account)
}

// LogsDir holds per-invocation log files.
func (p Paths) LogsDir() string {
	return filepath.Join(p.ConfigDir, "logs")
}

// NamedConfigDir holds one properties file per named configuration.
func (p Paths) NamedConfigDir() string {
	return filepath.Join(p.ConfigDir, "configurations")
}

// NamedConfigFile is the properties file for one named configuration.
func (p Paths) NamedConfigFile(name string) string {
	return filepath.Join(p.NamedConfigDir(), "config_"+name)
}

// ActiveConfigFile records which named configuration is active.
func (p Paths) ActiveConfigFile() string {
	return filepath.Join(p.ConfigDir, "active_config")
}

// LastUpdateCheckFile caches update-checker state across invocations.
func (p Paths) LastUpdateCheckFile() string {
	return filepath.Join(p.ConfigDir, ".last_update_check.json")
}

// MetricsUUIDFile stores the anonymous client id for usage reporting.
func (p Paths) MetricsUUIDFile() string {
	return filepath.Join(p.ConfigDir, ".metricsUUID")
}

// EnsureConfigDir creates the configuration directory tree, failing with an
// actionable message when it is not writable.
func (p Paths) EnsureConfigDir() error {
	for _, dir := range []string{p.ConfigDir, p.CredentialsDir(), p.NamedConfigDir(), p.LogsDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("config directory %s is not writable: %w", p.ConfigDir, err)
		}
	}
	return nil
}
