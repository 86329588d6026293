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

// Docgen regenerates the command reference from the live command tree.
// It is run through go:generate from cmd/cloudctl and writes a single
// markdown page, optionally rendered to HTML as well.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cbroglie/mustache"
	"github.com/googleapis/cloudctl/internal/cli"
	"github.com/googleapis/cloudctl/internal/cloudctl"
	urfavecli "github.com/urfave/cli/v3"
	"github.com/yuin/goldmark"
)

const pageTemplate = `# cloudctl command reference

Generated from the command tree. Do not edit by hand.
{{#commands}}

## cloudctl {{path}}

{{short}}

` + "```" + `
{{usage}}
` + "```" + `
{{#long}}

{{long}}
{{/long}}
{{#hasPositionals}}

Positional arguments:
{{/hasPositionals}}
{{#positionals}}
  - ` + "`{{name}}`" + ` {{help}}
{{/positionals}}
{{#hasFlags}}

Flags:
{{/hasFlags}}
{{#flags}}
  - ` + "`{{name}}`" + ` {{help}}
{{/flags}}
{{/commands}}
`

func main() {
	cmd := &urfavecli.Command{
		Name:      "docgen",
		Usage:     "regenerate the cloudctl command reference",
		UsageText: "docgen -out FILE [--html]",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:     "out",
				Usage:    "path of the markdown `file` to write",
				Required: true,
			},
			&urfavecli.BoolFlag{
				Name:  "html",
				Usage: "also write an HTML rendering next to the markdown file",
			},
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return run(cmd.String("out"), cmd.Bool("html"))
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(out string, html bool) error {
	root, err := cloudctl.CommandTree()
	if err != nil {
		return err
	}
	page, err := renderPage(root)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
		return err
	}
	if !html {
		return nil
	}
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(page), &buf); err != nil {
		return fmt.Errorf("rendering %s to HTML: %w", out, err)
	}
	htmlOut := strings.TrimSuffix(out, filepath.Ext(out)) + ".html"
	return os.WriteFile(htmlOut, buf.Bytes(), 0o644)
}

// renderPage walks the tree and renders one markdown section per runnable
// command, in walk order, which keeps groups adjacent to their commands.
func renderPage(root *cli.Command) (string, error) {
	var commands []map[string]any
	root.Walk(func(c *cli.Command) {
		if c.Hidden || c.IsGroup() || hiddenAncestor(c, root) {
			return
		}
		commands = append(commands, section(c))
	})
	return mustache.Render(pageTemplate, map[string]any{"commands": commands})
}

func hiddenAncestor(c, root *cli.Command) bool {
	for _, prefix := range prefixes(c.Path()) {
		if p := root.LookupPath(prefix); p != nil && p.Hidden {
			return true
		}
	}
	return false
}

func prefixes(path []string) [][]string {
	var out [][]string
	for i := 1; i < len(path); i++ {
		out = append(out, path[:i])
	}
	return out
}

func section(c *cli.Command) map[string]any {
	var flags []map[string]string
	for _, f := range c.Args().Flags() {
		if f.Hidden {
			continue
		}
		flags = append(flags, map[string]string{"name": f.Name, "help": f.Help})
	}
	var positionals []map[string]string
	for _, p := range c.Args().Positionals() {
		positionals = append(positionals, map[string]string{"name": p.Name, "help": p.Help})
	}
	return map[string]any{
		"path":           strings.Join(c.Path(), " "),
		"short":          c.Short,
		"usage":          c.UsageLine,
		"long":           strings.TrimSpace(c.Long),
		"flags":          flags,
		"hasFlags":       len(flags) > 0,
		"positionals":    positionals,
		"hasPositionals": len(positionals) > 0,
	}
}
