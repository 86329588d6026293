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
	"fmt"

	"github.com/googleapis/cloudctl/internal/argen"
	"github.com/googleapis/cloudctl/internal/cli"
	"github.com/googleapis/cloudctl/internal/lro"
)

func newOperationsGroup(e *env) *cli.Command {
	return &cli.Command{
		Name:      "operations",
		Short:     "inspect and wait on long-running operations",
		UsageLine: "cloudctl operations <command> [arguments]",
		Commands: []*cli.Command{
			newOperationsDescribe(e),
			newOperationsWait(e),
			newOperationsList(e),
		},
	}
}

func newOperationsDescribe(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "describe",
		Short:     "show the current state of an operation",
		UsageLine: "cloudctl operations describe OPERATION",
	}
	must(cmd.Args().AddPositional(&cli.Argument{
		Name:     "OPERATION",
		Dest:     "operation",
		Help:     "Operation resource name, bare or fully qualified.",
		Required: true,
	}))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		printer, err := e.printer(ns)
		if err != nil {
			return err
		}
		op, err := e.operationPoller().Poll(ctx, ns.GetString("operation"))
		if err != nil {
			return err
		}
		result := map[string]any{
			"name": op.GetName(),
			"done": op.GetDone(),
		}
		if s := op.GetError(); s != nil {
			result["error"] = map[string]any{
				"code":    s.GetCode(),
				"message": s.GetMessage(),
			}
		}
		return printer.Print(result)
	}
	return cmd
}

func newOperationsWait(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "wait",
		Short:     "wait for one or more operations to complete",
		UsageLine: "cloudctl operations wait OPERATION [OPERATION ...]",
	}
	must(cmd.Args().AddPositional(&cli.Argument{
		Name:     "OPERATION",
		Dest:     "operations",
		Help:     "Operation resource names to wait on concurrently.",
		Required: true,
		Repeated: true,
	}))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		printer, err := e.printer(ns)
		if err != nil {
			return err
		}
		names := ns.GetStringList("operations")
		ops, err := lro.WaitAll(ctx, e.operationPoller(), names, e.lroOpts)
		if err != nil {
			return err
		}
		for _, op := range ops {
			fmt.Fprintf(e.stderr, "Completed [%s].\n", op.GetName())
		}
		results := make([]any, len(ops))
		for i, op := range ops {
			results[i] = map[string]any{"name": op.GetName(), "done": op.GetDone()}
		}
		return printer.Print(results)
	}
	return cmd
}

func newOperationsList(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "list",
		Short:     "list recent operations in a project",
		UsageLine: "cloudctl operations list [flags]",
	}
	method := must(computeService(e.endpoint).Method("operations.list"))
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
		out, err := e.computeClient().Call(ctx, method, map[string]string{"project": project}, msg)
		if err != nil {
			return err
		}
		var rows [][]string
		for _, item := range getList(out, "operations") {
			op, ok := item.(map[string]any)
			if !ok {
				continue
			}
			status := "RUNNING"
			if done, _ := op["done"].(bool); done {
				status = "DONE"
			}
			rows = append(rows, []string{getString(op, "name"), status})
		}
		return printer.PrintList([]string{"NAME", "STATUS"}, rows, out)
	}
	return cmd
}
