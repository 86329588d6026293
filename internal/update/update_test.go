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

package update

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/googleapis/cloudctl/internal/config"
)

func testChecker(t *testing.T, latest string) (*Checker, *int) {
	t.Helper()
	fetches := 0
	c := &Checker{
		Paths: config.Paths{ConfigDir: t.TempDir()},
		Fetch: func(ctx context.Context) (string, error) {
			fetches++
			return latest, nil
		},
	}
	return c, &fetches
}

func TestNoticeWhenOutdated(t *testing.T) {
	c, fetches := testChecker(t, "2.0.0")
	notice, err := c.Notice(t.Context(), "1.4.0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(notice, "2.0.0") {
		t.Errorf("notice = %q", notice)
	}
	if *fetches != 1 {
		t.Errorf("fetches = %d, want 1", *fetches)
	}
}

func TestSilentWhenCurrent(t *testing.T) {
	c, _ := testChecker(t, "1.4.0")
	for _, current := range []string{"1.4.0", "2.0.0"} {
		notice, err := c.Notice(t.Context(), current)
		if err != nil {
			t.Fatal(err)
		}
		if notice != "" {
			t.Errorf("Notice(current=%s) = %q, want silence", current, notice)
		}
	}
}

func TestCacheSkipsFetchWithinInterval(t *testing.T) {
	c, fetches := testChecker(t, "2.0.0")
	for range 3 {
		if _, err := c.Notice(t.Context(), "1.4.0"); err != nil {
			t.Fatal(err)
		}
	}
	if *fetches != 1 {
		t.Errorf("fetches = %d, want 1 (cache should absorb repeats)", *fetches)
	}
}

func TestStaleCacheRefetches(t *testing.T) {
	c, fetches := testChecker(t, "2.0.0")
	base := time.Now()
	c.now = func() time.Time { return base }
	if _, err := c.Notice(t.Context(), "1.4.0"); err != nil {
		t.Fatal(err)
	}
	c.now = func() time.Time { return base.Add(25 * time.Hour) }
	if _, err := c.Notice(t.Context(), "1.4.0"); err != nil {
		t.Fatal(err)
	}
	if *fetches != 2 {
		t.Errorf("fetches = %d, want 2", *fetches)
	}
}

func TestFetchFailureIsSilent(t *testing.T) {
	c := &Checker{
		Paths: config.Paths{ConfigDir: t.TempDir()},
		Fetch: func(ctx context.Context) (string, error) {
			return "", errors.New("release endpoint down")
		},
	}
	notice, err := c.Notice(t.Context(), "1.4.0")
	if err != nil {
		t.Fatal(err)
	}
	if notice != "" {
		t.Errorf("notice = %q, want silence on fetch failure", notice)
	}
}

func TestUnparseableVersionsAreSilent(t *testing.T) {
	c, _ := testChecker(t, "not-a-version")
	notice, err := c.Notice(t.Context(), "devel")
	if err != nil {
		t.Fatal(err)
	}
	if notice != "" {
		t.Errorf("notice = %q", notice)
	}
}
