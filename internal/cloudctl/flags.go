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

package cloudctl

import (
	"fmt"

	"github.com/googleapis/cloudctl/internal/cli"
)

// must panics on a command-registration error. Registration runs once at
// startup from static definitions, so a failure is a programming error on
// par with a bad regexp literal.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// addGlobalFlags registers the flags valid on every command.
func addGlobalFlags(root *cli.Command) {
	must(root.Args().AddFlag(&cli.Argument{
		Name:   "--project",
		Help:   "The project for this invocation, overriding core/project.",
		Global: true,
	}))
	must(root.Args().AddFlag(&cli.Argument{
		Name:    "--format",
		Help:    "Output format for command results.",
		Choices: []string{"json", "yaml", "table", "text"},
		Global:  true,
	}))
	must(root.Args().AddFlag(&cli.Argument{
		Name:   "--quiet",
		Help:   "Disable interactive prompts, answering the default.",
		Type:   cli.BoolType,
		Global: true,
	}))
	must(root.Args().AddFlag(&cli.Argument{
		Name:   "--async",
		Help:   "Return immediately after starting the operation instead of waiting for it.",
		Type:   cli.BoolType,
		Global: true,
	}))
	must(root.Args().AddFlag(&cli.Argument{
		Name:    "--verbosity",
		Help:    "Log level for diagnostics on stderr.",
		Choices: []string{"debug", "info", "warning", "error"},
		Default: "warning",
		Global:  true,
	}))
}

// getString extracts a string field from a decoded JSON object, "" when
// absent or differently typed.
func getString(msg map[string]any, key string) string {
	v, _ := msg[key].(string)
	return v
}

// getList extracts a list field from a decoded JSON object.
func getList(msg map[string]any, key string) []any {
	v, _ := msg[key].([]any)
	return v
}

// usageLine renders the synopsis for a leaf under an optional track prefix.
func usageLine(track cli.ReleaseTrack, rest string) string {
	if p := track.Prefix(); p != "" {
		return fmt.Sprintf("cloudctl %s %s", p, rest)
	}
	return "cloudctl " + rest
}
