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
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/googleapis/cloudctl/internal/auth"
	"github.com/googleapis/cloudctl/internal/cli"
	"github.com/googleapis/cloudctl/internal/config"
	"github.com/googleapis/cloudctl/internal/lro"
	"github.com/googleapis/gax-go/v2"
)

// testEnv wires the command tree to a fake control plane and in-memory
// streams.
type testEnv struct {
	env    *env
	root   *cli.Command
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	t.Setenv(config.ConfigDirEnv, t.TempDir())
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	store := auth.NewStore(cfg.Paths)
	if err := store.Write(&auth.Credential{Account: "test@example.com", AccessToken: "tok"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Set("core/account", "test@example.com"); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	e := &env{
		cfg:      cfg,
		store:    store,
		endpoint: srv.URL,
		stdout:   stdout,
		stderr:   stderr,
		stdin:    strings.NewReader(""),
		lroOpts: &lro.Options{
			MaxWait: 5 * time.Second,
			Backoff: gax.Backoff{Initial: time.Millisecond, Max: time.Millisecond, Multiplier: 1},
		},
	}
	return &testEnv{env: e, root: newRootCommand(e), stdout: stdout, stderr: stderr}
}

// fakeCompute serves the create flow: insert returns an operation, the
// operation completes after two polls, and the instance is then readable.
func fakeCompute(t *testing.T, polls *atomic.Int64) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/projects/p1/zones/z1/instances", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("Authorization = %q", auth)
		}
		w.Write([]byte(`{"name": "operations/op-1"}`))
	})
	mux.HandleFunc("GET /v1/operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 2 {
			w.Write([]byte(`{"name": "operations/op-1", "done": false}`))
			return
		}
		w.Write([]byte(`{"name": "operations/op-1", "done": true}`))
	})
	mux.HandleFunc("GET /v1/projects/p1/zones/z1/instances/i1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "i1", "machineType": "e2-medium", "status": "RUNNING"}`))
	})
	return mux
}

func TestCreateWaitsForOperation(t *testing.T) {
	var polls atomic.Int64
	te := newTestEnv(t, fakeCompute(t, &polls))
	err := te.root.Run(t.Context(), []string{
		"compute", "instances", "create", "i1",
		"--project", "p1", "--zone", "z1",
		"--machine-type", "e2-medium", "--quiet",
	})
	if err != nil {
		t.Fatal(err)
	}
	if polls.Load() < 2 {
		t.Errorf("polls = %d, want at least 2", polls.Load())
	}
	if !strings.Contains(te.stdout.String(), "e2-medium") {
		t.Errorf("stdout should carry the created instance: %q", te.stdout.String())
	}
	if !strings.Contains(te.stderr.String(), "Created [projects/p1/zones/z1/instances/i1]") {
		t.Errorf("stderr = %q", te.stderr.String())
	}
}

func TestCreateAsyncNeverPolls(t *testing.T) {
	var polls atomic.Int64
	te := newTestEnv(t, fakeCompute(t, &polls))
	err := te.root.Run(t.Context(), []string{
		"compute", "instances", "create", "i1",
		"--project", "p1", "--zone", "z1",
		"--machine-type", "e2-medium", "--async", "--quiet",
	})
	if err != nil {
		t.Fatal(err)
	}
	if polls.Load() != 0 {
		t.Errorf("async create polled %d times", polls.Load())
	}
	if !strings.Contains(te.stdout.String(), "operations/op-1") {
		t.Errorf("stdout should carry the operation reference: %q", te.stdout.String())
	}
}

func TestCreateFullResourcePath(t *testing.T) {
	var polls atomic.Int64
	te := newTestEnv(t, fakeCompute(t, &polls))
	// A fully qualified positional needs no scope flags.
	err := te.root.Run(t.Context(), []string{
		"compute", "instances", "create", "projects/p1/zones/z1/instances/i1",
		"--machine-type", "e2-medium", "--quiet",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(te.stderr.String(), "Created [projects/p1/zones/z1/instances/i1]") {
		t.Errorf("stderr = %q", te.stderr.String())
	}
}

func TestCreateMissingScope(t *testing.T) {
	te := newTestEnv(t, http.NotFoundHandler())
	err := te.root.Run(t.Context(), []string{
		"compute", "instances", "create", "i1",
		"--machine-type", "e2-medium", "--quiet",
	})
	if err == nil || !strings.Contains(err.Error(), "could not determine the") {
		t.Errorf("err = %v", err)
	}
}

func TestDeleteAborted(t *testing.T) {
	te := newTestEnv(t, http.NotFoundHandler())
	te.env.stdin = strings.NewReader("n\n")
	err := te.root.Run(t.Context(), []string{
		"compute", "instances", "delete", "projects/p1/zones/z1/instances/i1",
	})
	if err == nil || !strings.Contains(err.Error(), "aborted") {
		t.Errorf("err = %v", err)
	}
}

func TestUnknownFlagSuggestion(t *testing.T) {
	te := newTestEnv(t, http.NotFoundHandler())
	err := te.root.Run(t.Context(), []string{
		"compute", "instances", "create", "i1", "--machine-type", "e2", "--zon", "z1",
	})
	if err == nil || !strings.Contains(err.Error(), "did you mean '--zone'") {
		t.Errorf("err = %v", err)
	}
	if cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("exit code = %d, want %d", cli.ExitCode(err), cli.ExitUsage)
	}
}

func TestAlternateTrackSuggestion(t *testing.T) {
	te := newTestEnv(t, http.NotFoundHandler())
	err := te.root.Run(t.Context(), []string{
		"compute", "instances", "simulate-maintenance-event", "i1",
	})
	if err == nil || !strings.Contains(err.Error(), "beta compute instances simulate-maintenance-event") {
		t.Errorf("err = %v", err)
	}
}

func TestConfigRoundTripThroughCLI(t *testing.T) {
	te := newTestEnv(t, http.NotFoundHandler())
	if err := te.root.Run(t.Context(), []string{"config", "set", "compute/zone", "us-east1-b"}); err != nil {
		t.Fatal(err)
	}
	if err := te.root.Run(t.Context(), []string{"config", "get", "compute/zone"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(te.stdout.String(), "us-east1-b") {
		t.Errorf("stdout = %q", te.stdout.String())
	}
}

func TestAuthLifecycleThroughCLI(t *testing.T) {
	te := newTestEnv(t, http.NotFoundHandler())
	te.env.stdin = strings.NewReader("ya29.fresh\n")
	if err := te.root.Run(t.Context(), []string{"auth", "login", "alice@example.com"}); err != nil {
		t.Fatal(err)
	}
	if te.env.cfg.Properties.Core.Account != "alice@example.com" {
		t.Errorf("active account = %q", te.env.cfg.Properties.Core.Account)
	}
	if err := te.root.Run(t.Context(), []string{"auth", "list"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(te.stdout.String(), "alice@example.com") {
		t.Errorf("stdout = %q", te.stdout.String())
	}
	if err := te.root.Run(t.Context(), []string{"auth", "revoke", "alice@example.com"}); err != nil {
		t.Fatal(err)
	}
	if te.env.cfg.Properties.Core.Account != "" {
		t.Errorf("revoke should clear the active account, got %q", te.env.cfg.Properties.Core.Account)
	}
}

func TestOperationsWaitSeveral(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/operations/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "` + strings.TrimPrefix(r.URL.Path, "/v1/") + `", "done": true}`))
	})
	te := newTestEnv(t, mux)
	err := te.root.Run(t.Context(), []string{
		"operations", "wait", "operations/a", "operations/b", "--format", "json",
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"operations/a", "operations/b"} {
		if !strings.Contains(te.stdout.String(), want) {
			t.Errorf("stdout missing %q: %q", want, te.stdout.String())
		}
	}
}

func TestVersionCommand(t *testing.T) {
	te := newTestEnv(t, http.NotFoundHandler())
	if err := te.root.Run(t.Context(), []string{"version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(te.stdout.String(), "cloudctl ") {
		t.Errorf("stdout = %q", te.stdout.String())
	}
}

func TestBareGroupIsUsageError(t *testing.T) {
	te := newTestEnv(t, http.NotFoundHandler())
	err := te.root.Run(t.Context(), []string{"compute"})
	if cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("exit code = %d, want %d (err = %v)", cli.ExitCode(err), cli.ExitUsage, err)
	}
}
