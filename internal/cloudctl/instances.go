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

	"github.com/google/uuid"
	"github.com/googleapis/cloudctl/internal/argen"
	"github.com/googleapis/cloudctl/internal/cli"
	"github.com/googleapis/cloudctl/internal/iamutil"
	"github.com/googleapis/cloudctl/internal/lro"
	"github.com/googleapis/cloudctl/internal/progress"
	"github.com/googleapis/cloudctl/internal/resource"
	"github.com/googleapis/cloudctl/internal/subproc"
)

// observabilityRoles are granted to the instance's service account so the
// guest agents can write telemetry.
var observabilityRoles = []string{
	"roles/logging.logWriter",
	"roles/monitoring.metricWriter",
}

func newComputeGroup(e *env, track cli.ReleaseTrack) *cli.Command {
	instances := &cli.Command{
		Name:      "instances",
		Short:     "manage compute instances",
		UsageLine: usageLine(track, "compute instances <command> [arguments]"),
		Commands: []*cli.Command{
			newInstancesCreate(e, track),
			newInstancesDelete(e, track),
			newInstancesDescribe(e, track),
			newInstancesList(e, track),
			newInstancesSSH(e, track),
		},
	}
	if track != cli.GA {
		instances.Commands = append(instances.Commands, newInstancesSimulateMaintenance(e, track))
	}
	return &cli.Command{
		Name:      "compute",
		Short:     "manage compute resources",
		UsageLine: usageLine(track, "compute <group> <command> [arguments]"),
		Track:     track,
		Commands:  []*cli.Command{instances},
	}
}

func newInstancesCreate(e *env, track cli.ReleaseTrack) *cli.Command {
	cmd := &cli.Command{
		Name:      "create",
		Short:     "create a compute instance",
		UsageLine: usageLine(track, "compute instances create INSTANCE --machine-type TYPE [flags]"),
	}
	arg := must(resource.AddArg(cmd, instanceCollection,
		"The instance to create, as a bare name or a full resource path."))
	method := must(computeService(e.endpoint).Method("instances.insert"))
	gen := must(argen.Generate(cmd, method, argen.Options{
		Strict: true,
		Fields: map[string]argen.FieldInfo{
			"machine_type": {FlagName: "--machine-type"},
		},
	}))
	serviceAccount := must(cmd.Args().AddFlag(&cli.Argument{
		Name: "--service-account",
		Help: "Service account the instance runs as; it is granted the telemetry writer roles.",
	}))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		printer, err := e.printer(ns)
		if err != nil {
			return err
		}
		ref, err := arg.Resolve(ns, e.resourceDefaults(ns))
		if err != nil {
			return err
		}
		msg, err := gen.BuildRequest(ns)
		if err != nil {
			return err
		}
		msg["name"] = ref.Name()
		if sa := ns.GetString(serviceAccount.Dest); sa != "" {
			msg["serviceAccount"] = sa
		}
		// The request id makes retried inserts idempotent on the server.
		msg["requestId"] = uuid.NewString()

		client := e.computeClient()
		params := map[string]string{"project": ref.Param("project"), "zone": ref.Param("zone")}
		out, err := client.Call(ctx, method, params, msg)
		if err != nil {
			return err
		}
		opName := getString(out, "name")
		if ns.GetBool("async") {
			fmt.Fprintf(e.stderr, "Create in progress for [%s]: [%s]\n", ref.RelativeName(), opName)
			return printer.Print(out)
		}
		if _, err := e.waitFor(ctx, opName, ns); err != nil {
			return err
		}
		if sa := ns.GetString(serviceAccount.Dest); sa != "" {
			iamClient := &iamutil.RESTClient{Client: client, APIVersion: apiVersion}
			member := "serviceAccount:" + sa
			if err := iamutil.EnsureRoles(ctx, iamClient, "projects/"+ref.Param("project"), member, observabilityRoles); err != nil {
				return err
			}
		}
		getMethod := must(computeService(e.endpoint).Method("instances.get"))
		created, err := client.Call(ctx, getMethod, refParams(ref), nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "Created [%s].\n", ref.RelativeName())
		return printer.Print(created)
	}
	return cmd
}

func newInstancesDelete(e *env, track cli.ReleaseTrack) *cli.Command {
	cmd := &cli.Command{
		Name:      "delete",
		Short:     "delete a compute instance",
		UsageLine: usageLine(track, "compute instances delete INSTANCE [flags]"),
	}
	arg := must(resource.AddArg(cmd, instanceCollection, "The instance to delete."))
	method := must(computeService(e.endpoint).Method("instances.delete"))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		printer, err := e.printer(ns)
		if err != nil {
			return err
		}
		ref, err := arg.Resolve(ns, e.resourceDefaults(ns))
		if err != nil {
			return err
		}
		ok, err := printer.Confirm(fmt.Sprintf("Delete instance [%s]?", ref.RelativeName()))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("deletion aborted by user")
		}
		out, err := e.computeClient().Call(ctx, method, refParams(ref),
			map[string]any{"requestId": uuid.NewString()})
		if err != nil {
			return err
		}
		opName := getString(out, "name")
		if ns.GetBool("async") {
			fmt.Fprintf(e.stderr, "Delete in progress for [%s]: [%s]\n", ref.RelativeName(), opName)
			return printer.Print(out)
		}
		if _, err := e.waitFor(ctx, opName, ns); err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "Deleted [%s].\n", ref.RelativeName())
		return nil
	}
	return cmd
}

func newInstancesDescribe(e *env, track cli.ReleaseTrack) *cli.Command {
	cmd := &cli.Command{
		Name:      "describe",
		Short:     "show the full state of a compute instance",
		UsageLine: usageLine(track, "compute instances describe INSTANCE [flags]"),
	}
	arg := must(resource.AddArg(cmd, instanceCollection, "The instance to describe."))
	method := must(computeService(e.endpoint).Method("instances.get"))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		printer, err := e.printer(ns)
		if err != nil {
			return err
		}
		ref, err := arg.Resolve(ns, e.resourceDefaults(ns))
		if err != nil {
			return err
		}
		out, err := e.computeClient().Call(ctx, method, refParams(ref), nil)
		if err != nil {
			return err
		}
		return printer.Print(out)
	}
	return cmd
}

func newInstancesList(e *env, track cli.ReleaseTrack) *cli.Command {
	cmd := &cli.Command{
		Name:      "list",
		Short:     "list compute instances in a zone",
		UsageLine: usageLine(track, "compute instances list --zone ZONE [flags]"),
	}
	method := must(computeService(e.endpoint).Method("instances.list"))
	gen := must(argen.Generate(cmd, method, argen.Options{}))
	must(cmd.Args().AddFlag(&cli.Argument{
		Name: "--zone",
		Help: "The zone to list, overriding compute/zone.",
	}))

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
		zone := ns.GetString("zone")
		if zone == "" {
			zone = e.cfg.Properties.Compute.Zone
		}
		if zone == "" {
			return fmt.Errorf("no zone set; supply --zone or run: cloudctl config set compute/zone ZONE")
		}
		msg, err := gen.BuildRequest(ns)
		if err != nil {
			return err
		}
		out, err := e.computeClient().Call(ctx, method,
			map[string]string{"project": project, "zone": zone}, msg)
		if err != nil {
			return err
		}
		var rows [][]string
		for _, item := range getList(out, "instances") {
			inst, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rows = append(rows, []string{
				getString(inst, "name"),
				zone,
				getString(inst, "machineType"),
				getString(inst, "status"),
			})
		}
		return printer.PrintList([]string{"NAME", "ZONE", "MACHINE_TYPE", "STATUS"}, rows, out)
	}
	return cmd
}

func newInstancesSSH(e *env, track cli.ReleaseTrack) *cli.Command {
	cmd := &cli.Command{
		Name:      "ssh",
		Short:     "open an interactive shell on an instance",
		UsageLine: usageLine(track, "compute instances ssh INSTANCE [flags]"),
	}
	arg := must(resource.AddArg(cmd, instanceCollection, "The instance to connect to."))
	command := must(cmd.Args().AddFlag(&cli.Argument{
		Name: "--command",
		Help: "Remote command to run instead of an interactive shell.",
	}))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		ref, err := arg.Resolve(ns, e.resourceDefaults(ns))
		if err != nil {
			return err
		}
		host := fmt.Sprintf("%s.%s.%s", ref.Name(), ref.Param("zone"), ref.Param("project"))
		args := []string{host}
		if remote := ns.GetString(command.Dest); remote != "" {
			args = append(args, remote)
		}
		return subproc.RunInteractive(ctx, "ssh", args...)
	}
	return cmd
}

// newInstancesSimulateMaintenance is only served from the beta and alpha
// tracks; the GA tree suggests the track-prefixed spelling.
func newInstancesSimulateMaintenance(e *env, track cli.ReleaseTrack) *cli.Command {
	cmd := &cli.Command{
		Name:      "simulate-maintenance-event",
		Short:     "trigger a host maintenance event on an instance",
		UsageLine: usageLine(track, "compute instances simulate-maintenance-event INSTANCE [flags]"),
	}
	arg := must(resource.AddArg(cmd, instanceCollection, "The instance to migrate."))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		printer, err := e.printer(ns)
		if err != nil {
			return err
		}
		ref, err := arg.Resolve(ns, e.resourceDefaults(ns))
		if err != nil {
			return err
		}
		path := fmt.Sprintf("%s/%s:simulateMaintenanceEvent", apiVersion, ref.RelativeName())
		out, err := e.computeClient().CallPath(ctx, "POST", path, map[string]any{})
		if err != nil {
			return err
		}
		opName := getString(out, "name")
		if ns.GetBool("async") {
			return printer.Print(out)
		}
		if _, err := e.waitFor(ctx, opName, ns); err != nil {
			return err
		}
		return printer.Print(map[string]any{"name": opName, "done": true})
	}
	return cmd
}

// waitFor blocks on an operation with a spinner on stderr unless --quiet.
func (e *env) waitFor(ctx context.Context, opName string, ns *cli.Namespace) (map[string]any, error) {
	if opName == "" {
		return nil, fmt.Errorf("the service did not return an operation reference")
	}
	if !ns.GetBool("quiet") {
		spinner := progress.Start(e.stderr, fmt.Sprintf("Waiting for [%s]", opName))
		defer spinner.Stop()
	}
	op, err := lro.Wait(ctx, e.operationPoller(), opName, e.lroOpts)
	if err != nil {
		return nil, err
	}
	return map[string]any{"name": op.GetName(), "done": op.GetDone()}, nil
}

func refParams(ref *resource.Ref) map[string]string {
	params := map[string]string{}
	for _, p := range ref.Collection.Params() {
		params[p] = ref.Param(p)
	}
	return params
}
