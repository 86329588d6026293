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

// Package output renders command results on stdout. Diagnostics never go
// through this package; they use slog on stderr.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format is a supported output format.
type Format string

const (
	JSON  Format = "json"
	YAML  Format = "yaml"
	Table Format = "table"
	Text  Format = "text"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case JSON, YAML, Table, Text:
		return Format(s), nil
	case "":
		return Text, nil
	default:
		return "", fmt.Errorf("unknown format %q (choose from json, yaml, table, text)", s)
	}
}

// Printer renders results in one format. Quiet additionally suppresses
// interactive prompts; it never suppresses requested results.
type Printer struct {
	Format Format
	Quiet  bool
	writer io.Writer
	input  io.Reader
}

// NewPrinter returns a printer over the given writer. input is consulted
// for confirmation prompts and may be nil when Quiet is set.
func NewPrinter(format Format, quiet bool, w io.Writer, input io.Reader) *Printer {
	return &Printer{Format: format, Quiet: quiet, writer: w, input: input}
}

// Print renders one result value. Text format prints flat key: value lines
// sorted by key for maps; table format needs PrintTable.
func (p *Printer) Print(data any) error {
	switch p.Format {
	case JSON:
		enc := json.NewEncoder(p.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case YAML:
		enc := yaml.NewEncoder(p.writer)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case Text:
		return p.printText(data)
	case Table:
		return fmt.Errorf("table format needs column headers; use PrintTable")
	default:
		return fmt.Errorf("unknown format %q", p.Format)
	}
}

func (p *Printer) printText(data any) error {
	switch v := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(p.writer, "%s: %v\n", k, v[k]); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(p.writer, v)
		return err
	}
}

// PrintTable renders rows under headers regardless of the configured
// format; list commands use it when the format is table.
func (p *Printer) PrintTable(headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(p.writer)
	headerAny := make([]any, len(headers))
	for i, h := range headers {
		headerAny[i] = h
	}
	table.Header(headerAny...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// PrintList renders a homogeneous list of records: as a table when the
// format is table or text, otherwise through Print.
func (p *Printer) PrintList(headers []string, rows [][]string, data any) error {
	switch p.Format {
	case Table, Text:
		return p.PrintTable(headers, rows)
	default:
		return p.Print(data)
	}
}

// Confirm asks the user to proceed. Quiet mode answers yes without
// prompting; a closed or absent input answers no.
func (p *Printer) Confirm(prompt string) (bool, error) {
	if p.Quiet {
		return true, nil
	}
	if p.input == nil {
		return false, nil
	}
	if _, err := fmt.Fprintf(p.writer, "%s (y/N) ", prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(p.input).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
