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

package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// flagsFileArg injects flag values from a YAML file, expanded in place
// before parsing. The file maps flag names to scalars or lists:
//
//	--zone: us-east1-b
//	--tags:
//	  - serving
//	  - canary
//
// A flags file may reference further flags files; expansion is bounded to
// catch cycles.
const flagsFileArg = "--flags-file"

const maxFlagsFileDepth = 10

func expandFlagsFiles(args []string) ([]string, error) {
	return expandFlagsFilesDepth(args, maxFlagsFileDepth)
}

func expandFlagsFilesDepth(args []string, depth int) ([]string, error) {
	var out []string
	for i := 0; i < len(args); i++ {
		tok := args[i]
		var path string
		switch {
		case tok == flagsFileArg:
			if i+1 >= len(args) {
				return nil, fmt.Errorf("argument %s: expected one argument", flagsFileArg)
			}
			i++
			path = args[i]
		case strings.HasPrefix(tok, flagsFileArg+"="):
			path = tok[len(flagsFileArg)+1:]
		default:
			out = append(out, tok)
			continue
		}
		if depth == 0 {
			return nil, fmt.Errorf("%s: files nested too deeply, is there a reference cycle?", flagsFileArg)
		}
		expanded, err := readFlagsFile(path)
		if err != nil {
			return nil, err
		}
		expanded, err = expandFlagsFilesDepth(expanded, depth-1)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func readFlagsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("argument %s: %w", flagsFileArg, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("argument %s: %s: %w", flagsFileArg, path, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("argument %s: %s: the top level must map flag names to values", flagsFileArg, path)
	}
	// yaml.Node keeps document order, so flags apply in the order written.
	var out []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		name := key.Value
		if !strings.HasPrefix(name, "--") {
			return nil, fmt.Errorf("argument %s: %s: %q is not a flag name", flagsFileArg, path, name)
		}
		switch val.Kind {
		case yaml.ScalarNode:
			out = append(out, name+"="+val.Value)
		case yaml.SequenceNode:
			for _, item := range val.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("argument %s: %s: flag %s: list items must be scalars", flagsFileArg, path, name)
				}
				out = append(out, name+"="+item.Value)
			}
		default:
			return nil, fmt.Errorf("argument %s: %s: flag %s: the value must be a scalar or a list", flagsFileArg, path, name)
		}
	}
	return out, nil
}
