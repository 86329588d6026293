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

// Package progress draws a waiting spinner on a terminal. It is cosmetic:
// nothing reads it back and stopping it is always safe.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var frames = []rune{'|', '/', '-', '\\'}

// Spinner animates a message while a long operation runs. The zero value
// is not usable; construct with Start.
type Spinner struct {
	w       io.Writer
	message string

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// Start begins animating message on w, typically stderr. When w is not a
// terminal callers should pass quiet output handling upstream; the spinner
// itself does not detect terminals.
func Start(w io.Writer, message string) *Spinner {
	s := &Spinner{w: w, message: message, done: make(chan struct{})}
	go s.run()
	return s
}

func (s *Spinner) run() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.stopped {
				fmt.Fprintf(s.w, "\r%s %c", s.message, frames[i%len(frames)])
			}
			s.mu.Unlock()
		}
	}
}

// Stop halts the animation and clears the line. Stop is idempotent.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.done)
	fmt.Fprintf(s.w, "\r%*s\r", len(s.message)+2, "")
}
