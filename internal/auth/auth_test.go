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

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/googleapis/cloudctl/internal/config"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(config.Paths{ConfigDir: t.TempDir()})
}

func TestWriteReadRevoke(t *testing.T) {
	store := testStore(t)
	cred := &Credential{
		Account:     "alice@example.com",
		AccessToken: "ya29.token",
		Expiry:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := store.Write(cred); err != nil {
		t.Fatal(err)
	}
	got, err := store.Read("alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cred, got); diff != "" {
		t.Errorf("credential mismatch (-want +got):\n%s", diff)
	}
	if err := store.Revoke("alice@example.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Read("alice@example.com"); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("read after revoke: %v, want ErrNoCredentials", err)
	}
	if err := store.Revoke("alice@example.com"); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("second revoke: %v, want ErrNoCredentials", err)
	}
}

func TestList(t *testing.T) {
	store := testStore(t)
	names, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Errorf("empty store lists %v", names)
	}
	for _, account := range []string{"bob@example.com", "alice@example.com"} {
		if err := store.Write(&Credential{Account: account, AccessToken: "tok"}); err != nil {
			t.Fatal(err)
		}
	}
	names, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"alice@example.com", "bob@example.com"}, names); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidAccount(t *testing.T) {
	store := testStore(t)
	for _, account := range []string{"", "../../etc/passwd", "no-at-sign"} {
		if err := store.Write(&Credential{Account: account}); err == nil {
			t.Errorf("Write(%q) should fail", account)
		}
	}
}

func TestActiveCredential(t *testing.T) {
	store := testStore(t)
	cfg := &config.Context{}

	if _, err := store.ActiveCredential(cfg); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("empty store: %v, want ErrNoCredentials", err)
	}

	// A single stored credential is used without an account property.
	if err := store.Write(&Credential{Account: "alice@example.com", AccessToken: "a"}); err != nil {
		t.Fatal(err)
	}
	cred, err := store.ActiveCredential(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cred.Account != "alice@example.com" {
		t.Errorf("resolved account %q", cred.Account)
	}

	// Two credentials require an explicit selection.
	if err := store.Write(&Credential{Account: "bob@example.com", AccessToken: "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ActiveCredential(cfg); err == nil {
		t.Error("ambiguous account should fail")
	}
	cfg.Properties.Core.Account = "bob@example.com"
	cred, err = store.ActiveCredential(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cred.Account != "bob@example.com" {
		t.Errorf("resolved account %q", cred.Account)
	}
}

func TestExpired(t *testing.T) {
	for _, test := range []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"zero_never_expires", time.Time{}, false},
		{"future", time.Now().Add(time.Hour), false},
		{"within_refresh_window", time.Now().Add(30 * time.Second), true},
		{"past", time.Now().Add(-time.Hour), true},
	} {
		t.Run(test.name, func(t *testing.T) {
			cred := &Credential{Expiry: test.expiry}
			if got := cred.Expired(); got != test.want {
				t.Errorf("Expired() = %t, want %t", got, test.want)
			}
		})
	}
}
