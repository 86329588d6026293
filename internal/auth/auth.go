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

// Package auth manages the on-disk credential store: one JSON file per
// account under the credentials directory, plus the notion of an active
// account carried in configuration properties. Tokens are opaque to this
// package; it stores, lists, and revokes them.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/googleapis/cloudctl/internal/config"
)

// ErrNoCredentials reports that an operation requires a credentialed
// account and none is available.
var ErrNoCredentials = errors.New("no credentialed accounts; run: cloudctl auth login")

// accountRe loosely matches account identifiers (email-shaped or service
// account ids) so arbitrary strings cannot escape the credentials
// directory.
var accountRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+$`)

// Credential is one stored account credential. Token freshness is the
// caller's concern; Expiry is recorded so transports can decide whether a
// refresh is needed.
type Credential struct {
	// Account is the credentialed identity, e.g. user@example.com.
	Account string `json:"account"`

	// AccessToken is the bearer token presented to APIs.
	AccessToken string `json:"access_token"`

	// RefreshToken, when present, allows minting new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`

	// Expiry is when AccessToken stops being accepted.
	Expiry time.Time `json:"expiry,omitempty"`
}

// Expired reports whether the access token is past (or within a minute of)
// its expiry. A zero expiry never expires; such credentials come from
// environments that manage token lifetime externally.
func (c *Credential) Expired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry.Add(-time.Minute))
}

// Store reads and writes credentials under a configuration directory.
type Store struct {
	paths config.Paths
}

// NewStore returns a credential store over the given configuration paths.
func NewStore(paths config.Paths) *Store {
	return &Store{paths: paths}
}

func (s *Store) validate(account string) error {
	if !accountRe.MatchString(account) {
		return fmt.Errorf("invalid account %q", account)
	}
	return nil
}

// Write persists a credential for its account, creating the store
// directories on first use. The file is owner-readable only.
func (s *Store) Write(cred *Credential) error {
	if err := s.validate(cred.Account); err != nil {
		return err
	}
	if err := s.paths.EnsureConfigDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.paths.CredentialFile(cred.Account), data, 0600)
}

// Read loads the credential for one account.
func (s *Store) Read(account string) (*Credential, error) {
	if err := s.validate(account); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.paths.CredentialFile(account))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("account %s has no stored credential: %w", account, ErrNoCredentials)
	}
	if err != nil {
		return nil, err
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("credential for %s is corrupt: %w", account, err)
	}
	return &cred, nil
}

// List returns the sorted accounts with stored credentials.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.paths.CredentialsDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var accounts []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok && !e.IsDir() {
			accounts = append(accounts, name)
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}

// Revoke removes the stored credential for an account, along with any
// legacy credential files written by earlier releases.
func (s *Store) Revoke(account string) error {
	if err := s.validate(account); err != nil {
		return err
	}
	err := os.Remove(s.paths.CredentialFile(account))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("account %s has no stored credential: %w", account, ErrNoCredentials)
	}
	if err != nil {
		return err
	}
	// Legacy files are best effort; their absence is the common case.
	os.RemoveAll(s.paths.LegacyCredentialsDir(account))
	return nil
}

// ActiveCredential resolves the credential for the configured account. An
// empty account property with exactly one stored credential resolves to
// that credential; otherwise the account property decides.
func (s *Store) ActiveCredential(cfg *config.Context) (*Credential, error) {
	account := cfg.Properties.Core.Account
	if account == "" {
		accounts, err := s.List()
		if err != nil {
			return nil, err
		}
		switch len(accounts) {
		case 0:
			return nil, ErrNoCredentials
		case 1:
			account = accounts[0]
		default:
			return nil, fmt.Errorf("multiple credentialed accounts and none selected; run: cloudctl config set account ACCOUNT")
		}
	}
	return s.Read(account)
}
