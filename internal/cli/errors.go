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

package cli

import (
	"errors"
	"strings"
)

// Exit codes follow the conventional argument-parser split: 0 success,
// 1 generic failure, 2 argument-parsing failure.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError is any argument-parsing failure: missing required flags,
// invalid choices, unrecognized flags or subcommands. The top-level
// dispatcher maps it to exit code 2.
type UsageError struct {
	// Command is the deepest command reached before the failure, used to
	// render a usage line.
	Command *Command
	Message string
}

func (e *UsageError) Error() string {
	if e.Command != nil && e.Command.UsageLine != "" {
		return e.Message + "\nUsage: " + e.Command.UsageLine
	}
	return e.Message
}

// ExitCode maps an error returned by Command.Run to a process exit code.
// It is the only place an uncaught error becomes a terminal status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	return ExitError
}

// CommandPath renders a command chain as the string a user would type.
func CommandPath(c *Command) string {
	parts := append([]string{c.Root().Name}, c.Path()...)
	return strings.Join(parts, " ")
}
