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
	"errors"
	"fmt"

	"github.com/googleapis/cloudctl/internal/argen"
	"github.com/googleapis/cloudctl/internal/auth"
	"github.com/googleapis/cloudctl/internal/cli"
	"github.com/googleapis/cloudctl/internal/sourcerepo"
)

func newSourceGroup(e *env) *cli.Command {
	repos := &cli.Command{
		Name:      "repos",
		Short:     "manage hosted source repositories",
		UsageLine: "cloudctl source repos <command> [arguments]",
		Commands: []*cli.Command{
			newReposClone(e),
			newReposList(e),
		},
	}
	return &cli.Command{
		Name:      "source",
		Short:     "work with hosted source",
		UsageLine: "cloudctl source <group> <command> [arguments]",
		Commands:  []*cli.Command{repos},
	}
}

func newReposClone(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "clone",
		Short:     "clone a hosted repository",
		UsageLine: "cloudctl source repos clone REPO [DIRECTORY] [flags]",
	}
	must(cmd.Args().AddPositional(&cli.Argument{
		Name:     "REPO",
		Dest:     "repo",
		Help:     "Name of the hosted repository.",
		Required: true,
	}))
	must(cmd.Args().AddPositional(&cli.Argument{
		Name: "DIRECTORY",
		Dest: "directory",
		Help: "Destination directory. Defaults to the repository name.",
	}))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		project, err := e.project(ns)
		if err != nil {
			return err
		}
		repo := ns.GetString("repo")
		dir := ns.GetString("directory")
		if dir == "" {
			dir = repo
		}
		// Anonymous clones are allowed for public repositories.
		cred, err := e.store.ActiveCredential(e.cfg)
		if err != nil && !errors.Is(err, auth.ErrNoCredentials) {
			return err
		}
		opts := sourcerepo.CloneOptions{
			URL:        sourcerepo.RepoURL(sourceHost, project, repo),
			Dir:        dir,
			Credential: cred,
			Progress:   e.stderr,
		}
		if err := sourcerepo.Clone(ctx, opts); err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "Cloned [%s] into [%s].\n", repo, dir)
		return nil
	}
	return cmd
}

func newReposList(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "list",
		Short:     "list hosted repositories in a project",
		UsageLine: "cloudctl source repos list [flags]",
	}
	method := must(sourceService(e.endpoint).Method("repos.list"))
	gen := must(argen.Generate(cmd, method, argen.Options{}))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		printer, err := e.printer(ns)
		if err != nil {
			return err
		}
		project, err := e.project(ns)
		if err != nil {
			return err
		}
		msg, err := gen.BuildRequest(ns)
		if err != nil {
			return err
		}
		out, err := e.sourceClient().Call(ctx, method, map[string]string{"project": project}, msg)
		if err != nil {
			return err
		}
		var rows [][]string
		for _, item := range getList(out, "repos") {
			repo, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rows = append(rows, []string{getString(repo, "name"), getString(repo, "url")})
		}
		return printer.PrintList([]string{"NAME", "URL"}, rows, out)
	}
	return cmd
}
