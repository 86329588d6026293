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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/googleapis/cloudctl/internal/auth"
	"github.com/googleapis/cloudctl/internal/cli"
)

func newAuthGroup(e *env) *cli.Command {
	return &cli.Command{
		Name:      "auth",
		Short:     "manage credentialed accounts",
		UsageLine: "cloudctl auth <command> [arguments]",
		Commands: []*cli.Command{
			newAuthLogin(e),
			newAuthList(e),
			newAuthRevoke(e),
		},
	}
}

func accountPositional(cmd *cli.Command) {
	must(cmd.Args().AddPositional(&cli.Argument{
		Name:     "ACCOUNT",
		Dest:     "account",
		Help:     "Account identifier, e.g. user@example.com.",
		Required: true,
	}))
}

func newAuthLogin(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "login",
		Short:     "store a credential and make its account active",
		UsageLine: "cloudctl auth login ACCOUNT [--access-token-file FILE]",
	}
	accountPositional(cmd)
	tokenFile := must(cmd.Args().AddFlag(&cli.Argument{
		Name: "--access-token-file",
		Help: "File containing the access token. Reads from stdin when omitted.",
	}))

	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		ns := inv.Namespace
		account := ns.GetString("account")
		token, err := readToken(e, ns.GetString(tokenFile.Dest))
		if err != nil {
			return err
		}
		cred := &auth.Credential{Account: account, AccessToken: token}
		if err := e.store.Write(cred); err != nil {
			return err
		}
		if err := e.cfg.Set("core/account", account); err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "Logged in as [%s].\n", account)
		return nil
	}
	return cmd
}

func readToken(e *env, path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading access token: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	fmt.Fprint(e.stderr, "Access token: ")
	line, err := bufio.NewReader(e.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no access token provided")
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", fmt.Errorf("no access token provided")
	}
	return token, nil
}

func newAuthList(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "list",
		Short:     "list credentialed accounts",
		UsageLine: "cloudctl auth list",
	}
	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		printer, err := e.printer(inv.Namespace)
		if err != nil {
			return err
		}
		accounts, err := e.store.List()
		if err != nil {
			return err
		}
		var rows [][]string
		for _, account := range accounts {
			active := ""
			if account == e.cfg.Properties.Core.Account {
				active = "*"
			}
			rows = append(rows, []string{account, active})
		}
		return printer.PrintList([]string{"ACCOUNT", "ACTIVE"}, rows, accounts)
	}
	return cmd
}

func newAuthRevoke(e *env) *cli.Command {
	cmd := &cli.Command{
		Name:      "revoke",
		Short:     "remove the stored credential for an account",
		UsageLine: "cloudctl auth revoke ACCOUNT",
	}
	accountPositional(cmd)
	cmd.Action = func(ctx context.Context, inv *cli.Invocation) error {
		account := inv.Namespace.GetString("account")
		if err := e.store.Revoke(account); err != nil {
			return err
		}
		if e.cfg.Properties.Core.Account == account {
			if err := e.cfg.Unset("core/account"); err != nil {
				return err
			}
		}
		fmt.Fprintf(e.stderr, "Revoked credentials for [%s].\n", account)
		return nil
	}
	return cmd
}
