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

// Package subproc executes external helper programs, either captured for
// plumbing steps or interactively in the foreground for commands like ssh.
package subproc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

// Run executes a program and captures its combined output, returning the
// output inside the error on failure. It is for non-interactive steps.
func Run(ctx context.Context, command string, arg ...string) error {
	cmd := exec.CommandContext(ctx, command, arg...)
	if output, err := cmd.CombinedOutput(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return notFoundError(command)
		}
		return fmt.Errorf("%v: %v\n%s", cmd, err, output)
	}
	return nil
}

// RunInteractive executes a program in the foreground, wired to the
// caller's terminal. SIGINT and SIGTERM are forwarded to the child rather
// than killing this process, so interactive sessions close cleanly. The
// child's exit code is returned inside an *exec.ExitError.
func RunInteractive(ctx context.Context, command string, arg ...string) error {
	path, err := exec.LookPath(command)
	if err != nil {
		return notFoundError(command)
	}
	cmd := exec.CommandContext(ctx, path, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", command, err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-signals:
				// Forwarding can only fail if the child already exited.
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err = cmd.Wait()
	close(done)
	return err
}

func notFoundError(command string) error {
	return fmt.Errorf("%s was not found on PATH; install it and try again", command)
}
