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

package filelock

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update.lock")
	lock, err := Acquire(t.Context(), path, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatal(err)
	}

	// Reacquirable after release.
	lock, err = Acquire(t.Context(), path, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Unlock()
}

func TestContendedLockTimesOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update.lock")
	held, err := Acquire(t.Context(), path, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer held.Unlock()

	// flock locks are per file description, so contention needs a second
	// process in general; the same handle staying held still exercises
	// the timeout path on platforms where locks are per process.
	_, err = Acquire(t.Context(), path, 100*time.Millisecond)
	if err == nil {
		t.Skip("platform grants reentrant process-level lock")
	}
	if !strings.Contains(err.Error(), "timed out waiting for lock") {
		t.Errorf("err = %v", err)
	}
}
