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

// Package cloudctl assembles the command surface: the root command tree,
// global flags, and the actions that glue parsing, configuration,
// credentials, transport, and output together.
package cloudctl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/googleapis/cloudctl/internal/auth"
	"github.com/googleapis/cloudctl/internal/cli"
	"github.com/googleapis/cloudctl/internal/config"
	"github.com/googleapis/cloudctl/internal/lro"
	"github.com/googleapis/cloudctl/internal/output"
	"github.com/googleapis/cloudctl/internal/transport"
)

// EndpointEnv overrides the control-plane endpoint, primarily for tests.
const EndpointEnv = "CLOUDCTL_API_ENDPOINT"

// Run executes the CLI with the given command line arguments. The returned
// error maps to the process exit code through cli.ExitCode.
func Run(ctx context.Context, args ...string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e := newEnv(cfg)
	setupLogger(verbosity(args, cfg))
	root := newRootCommand(e)
	if err := root.Run(ctx, args); err != nil {
		return err
	}
	maybeWarnAboutUpdates(ctx, e)
	return nil
}

// CommandTree builds the full command tree without running anything. It
// exists for reference-doc generation, which walks the tree to collect
// names, usage lines and flags.
func CommandTree() (*cli.Command, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return newRootCommand(newEnv(cfg)), nil
}

// env carries the per-invocation dependencies of every action. Tests
// substitute the endpoint and the streams.
type env struct {
	cfg      *config.Context
	store    *auth.Store
	endpoint string
	stdout   io.Writer
	stderr   io.Writer
	stdin    io.Reader

	// lroOpts tighten the waiter's poll schedule in tests. Nil uses the
	// defaults.
	lroOpts *lro.Options
}

func newEnv(cfg *config.Context) *env {
	endpoint := os.Getenv(EndpointEnv)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &env{
		cfg:      cfg,
		store:    auth.NewStore(cfg.Paths),
		endpoint: endpoint,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		stdin:    os.Stdin,
	}
}

// printer builds the output printer for one parsed invocation, honoring
// --format and --quiet with the configured format as fallback.
func (e *env) printer(ns *cli.Namespace) (*output.Printer, error) {
	spec := ns.GetString("format")
	if !ns.IsSpecified("format") && e.cfg.Properties.Core.Format != "" {
		spec = e.cfg.Properties.Core.Format
	}
	format, err := output.ParseFormat(spec)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(format, ns.GetBool("quiet"), e.stdout, e.stdin), nil
}

// resourceDefaults merges property-supplied scope defaults with the global
// --project flag.
func (e *env) resourceDefaults(ns *cli.Namespace) map[string]string {
	defaults := e.cfg.ResourceDefaults()
	if p := ns.GetString("project"); p != "" {
		defaults["project"] = p
	}
	return defaults
}

// project resolves the project for commands that do not take a combined
// resource argument.
func (e *env) project(ns *cli.Namespace) (string, error) {
	if p := ns.GetString("project"); p != "" {
		return p, nil
	}
	if p := e.cfg.Properties.Core.Project; p != "" {
		return p, nil
	}
	return "", fmt.Errorf("no project set; supply --project or run: cloudctl config set project PROJECT")
}

// storeTokens adapts the credential store to the transport's token source.
type storeTokens struct {
	store *auth.Store
	cfg   *config.Context
}

func (s storeTokens) Token(ctx context.Context) (string, error) {
	cred, err := s.store.ActiveCredential(s.cfg)
	if err != nil {
		return "", err
	}
	if cred.Expired() {
		return "", fmt.Errorf("the credential for %s has expired; run: cloudctl auth login", cred.Account)
	}
	return cred.AccessToken, nil
}

func (e *env) tokens() transport.TokenSource {
	return storeTokens{store: e.store, cfg: e.cfg}
}

func (e *env) computeClient() *transport.Client {
	return transport.NewClient(computeService(e.endpoint), e.tokens(), nil)
}

func (e *env) sourceClient() *transport.Client {
	return transport.NewClient(sourceService(e.endpoint), e.tokens(), nil)
}

func (e *env) operationPoller() *transport.OperationPoller {
	return transport.NewOperationPoller(e.computeClient(), apiVersion)
}

// setupLogger routes diagnostics through slog on stderr. Results go to
// stdout through internal/output only.
func setupLogger(level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	handler := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

// verbosity resolves the log level before the tree parses argv, so parsing
// itself can be logged. The flag is registered on the root as well and wins
// over the core/verbosity property.
func verbosity(args []string, cfg *config.Context) slog.Level {
	spec := cfg.Properties.Core.Verbosity
	for i, a := range args {
		if a == "--verbosity" && i+1 < len(args) {
			spec = args[i+1]
		}
		if v, ok := strings.CutPrefix(a, "--verbosity="); ok {
			spec = v
		}
	}
	switch spec {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// newRootCommand builds the full command tree. Groups served from alternate
// release tracks hang off the beta and alpha prefixes; the beta group loads
// lazily since most invocations never touch it.
func newRootCommand(e *env) *cli.Command {
	root := &cli.Command{
		Name:      "cloudctl",
		Short:     "cloudctl manages cloud resources",
		UsageLine: "cloudctl <group> <command> [arguments]",
		Track:     cli.GA,
		Commands: []*cli.Command{
			newConfigGroup(e),
			newAuthGroup(e),
			newOperationsGroup(e),
			newComputeGroup(e, cli.GA),
			newSourceGroup(e),
			newVersionCommand(e),
		},
	}
	beta := &cli.Command{
		Name:      "beta",
		Short:     "beta command groups, may change without notice",
		UsageLine: "cloudctl beta <group> <command> [arguments]",
		Track:     cli.Beta,
		Loader: func() []*cli.Command {
			return []*cli.Command{newComputeGroup(e, cli.Beta)}
		},
	}
	alpha := &cli.Command{
		Name:      "alpha",
		Short:     "alpha command groups, may change or vanish without notice",
		UsageLine: "cloudctl alpha <group> <command> [arguments]",
		Track:     cli.Alpha,
		Hidden:    true,
		Loader: func() []*cli.Command {
			return []*cli.Command{newComputeGroup(e, cli.Alpha)}
		},
	}
	root.Commands = append(root.Commands, beta, alpha)
	addGlobalFlags(root)
	root.Init()
	return root
}
