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
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/googleapis/cloudctl/internal/cli"
	"github.com/googleapis/cloudctl/internal/update"
)

//go:embed version.txt
var versionString string

// versionNotAvailable is reported when no VCS info is present, which occurs
// during local development builds.
const versionNotAvailable = "not available"

// releaseEndpoint serves the latest released version as plain text.
const releaseEndpoint = "https://dl.google.com/cloudctl/latest-version.txt"

// Version returns the version information for the binary, constructed
// following https://go.dev/ref/mod#versions.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return versionNotAvailable
	}
	return version(info)
}

func version(info *debug.BuildInfo) string {
	// Local development builds have no proper version tag, or carry
	// uncommitted changes indicated by the +dirty suffix.
	if info.Main.Version == "" || info.Main.Version == "(devel)" ||
		strings.HasSuffix(info.Main.Version, "+dirty") {
		return strings.TrimSpace(versionString)
	}
	return info.Main.Version
}

func newVersionCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "version",
		Short:     "print version information",
		UsageLine: "cloudctl version",
		Action: func(ctx context.Context, inv *cli.Invocation) error {
			fmt.Fprintf(e.stdout, "cloudctl %s\n", Version())
			return nil
		},
	}
}

// fetchLatestVersion asks the release endpoint for the newest version. It
// is only consulted when the update cache is stale.
func fetchLatestVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseEndpoint, nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release endpoint returned %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 128))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// maybeWarnAboutUpdates prints an update nag on stderr when a newer release
// is known. Failures are deliberately invisible.
func maybeWarnAboutUpdates(ctx context.Context, e *env) {
	checker := &update.Checker{Paths: e.cfg.Paths, Fetch: fetchLatestVersion}
	notice, err := checker.Notice(ctx, Version())
	if err != nil || notice == "" {
		return
	}
	fmt.Fprintln(e.stderr, notice)
}
