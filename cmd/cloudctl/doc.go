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

//go:generate go run ../../devtools/cmd/docgen -out ../../doc/reference.md

/*
Cloudctl manages cloud resources from the command line.

Usage:

	cloudctl <group> <command> [arguments]

The command groups are:

# config

View and edit properties of the active configuration, and manage named
configuration profiles:

	cloudctl config set PROPERTY VALUE
	cloudctl config get PROPERTY
	cloudctl config unset PROPERTY
	cloudctl config list
	cloudctl config configurations create NAME
	cloudctl config configurations activate NAME
	cloudctl config configurations list

# auth

Manage credentialed accounts:

	cloudctl auth login ACCOUNT [--access-token-file FILE]
	cloudctl auth list
	cloudctl auth revoke ACCOUNT

# compute

Manage compute resources:

	cloudctl compute instances create INSTANCE --machine-type TYPE [flags]
	cloudctl compute instances delete INSTANCE [flags]
	cloudctl compute instances describe INSTANCE [flags]
	cloudctl compute instances list --zone ZONE [flags]
	cloudctl compute instances ssh INSTANCE [flags]

# operations

Inspect and wait on long-running operations:

	cloudctl operations describe OPERATION
	cloudctl operations wait OPERATION [OPERATION ...]
	cloudctl operations list

# source

Work with hosted source repositories:

	cloudctl source repos clone REPO [DIRECTORY]
	cloudctl source repos list

Commands served from less stable release tracks are reached through the
"beta" and "alpha" prefixes, e.g.

	cloudctl beta compute instances simulate-maintenance-event INSTANCE

Global flags valid on every command:

	--project    project for this invocation, overriding core/project
	--format     output format: json, yaml, table, text
	--quiet      disable interactive prompts, answering the default
	--async      return immediately after starting an operation
	--verbosity  log level for diagnostics: debug, info, warning, error
	--flags-file YAML file mapping flag names to values, expanded in place
*/
package main
