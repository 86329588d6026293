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

// Package update nags about newer releases. It keeps a small cache file so
// the release endpoint is consulted at most once per interval, and never
// lets a check failure affect the invocation that triggered it.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/googleapis/cloudctl/internal/config"
	"github.com/googleapis/cloudctl/internal/filelock"
	"golang.org/x/mod/semver"
)

// DefaultInterval is how often the release endpoint is consulted.
const DefaultInterval = 24 * time.Hour

// state is the persisted cache, one JSON object in the config dir.
type state struct {
	LastCheck     time.Time `json:"last_check"`
	LatestVersion string    `json:"latest_version"`
}

// Checker decides whether to print an update notice.
type Checker struct {
	Paths config.Paths

	// Fetch returns the latest released version, e.g. "1.4.0". It is only
	// called when the cache is stale.
	Fetch func(ctx context.Context) (string, error)

	// Interval between fetches. Zero means DefaultInterval.
	Interval time.Duration

	now func() time.Time
}

// canonical normalizes a bare version to the x/mod "v" form, returning ""
// for anything unparseable.
func canonical(v string) string {
	if v == "" {
		return ""
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// Notice returns a message when a release newer than current is known, and
// "" otherwise. The cache file is refreshed at most once per interval;
// refresh failures leave the cache alone and produce no notice.
func (c *Checker) Notice(ctx context.Context, current string) (string, error) {
	interval := c.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}

	st, err := c.read()
	if err != nil {
		return "", err
	}
	if now().Sub(st.LastCheck) >= interval && c.Fetch != nil {
		latest, err := c.Fetch(ctx)
		if err != nil {
			// A dead release endpoint must not break the invocation.
			return "", nil
		}
		st = state{LastCheck: now(), LatestVersion: latest}
		if err := c.write(st); err != nil {
			return "", err
		}
	}

	cur, latest := canonical(current), canonical(st.LatestVersion)
	if cur == "" || latest == "" || semver.Compare(latest, cur) <= 0 {
		return "", nil
	}
	return fmt.Sprintf("Updates are available. Installed version is %s; the latest version is %s.", current, st.LatestVersion), nil
}

func (c *Checker) read() (state, error) {
	var st state
	data, err := os.ReadFile(c.Paths.LastUpdateCheckFile())
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt cache is treated as absent and rewritten.
		return state{}, nil
	}
	return st, nil
}

// write persists the cache under a file lock so concurrent invocations do
// not interleave partial writes.
func (c *Checker) write(st state) error {
	if err := c.Paths.EnsureConfigDir(); err != nil {
		return err
	}
	lock, err := filelock.Acquire(context.Background(), c.Paths.LastUpdateCheckFile()+".lock", 0)
	if err != nil {
		return err
	}
	defer lock.Unlock()
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Paths.LastUpdateCheckFile(), data, 0600)
}
