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

// Package filelock serializes access to on-disk state shared between
// concurrent invocations, such as the update-check cache.
package filelock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// DefaultTimeout bounds how long Acquire waits for a contended lock.
const DefaultTimeout = 5 * time.Second

// Lock is a held exclusive file lock. Release it with Unlock.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive lock on path, retrying until timeout. A zero
// timeout means DefaultTimeout. The lock file is created if absent and
// left in place after release.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("timed out waiting for lock on %s; another invocation may be running", path)
	}
	return &Lock{fl: fl}, nil
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	return l.fl.Unlock()
}
