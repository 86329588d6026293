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
	"sort"
	"strings"
)

// maxSuggestionDistance is the largest edit distance at which a candidate
// is still offered as a "did you mean" suggestion.
const maxSuggestionDistance = 3

// choiceSuggester finds the closest match for a mistyped argument or
// command name. Aliases map alternate spellings to a canonical suggestion.
type choiceSuggester struct {
	// spelling -> name to suggest for it
	choices map[string]string
}

func newChoiceSuggester() *choiceSuggester {
	return &choiceSuggester{choices: map[string]string{}}
}

func (s *choiceSuggester) addChoices(names ...string) {
	for _, name := range names {
		if _, ok := s.choices[name]; !ok {
			s.choices[name] = name
		}
	}
}

// addAliases registers alternate spellings that should suggest canonical.
// An alias never overrides a real choice with the same spelling.
func (s *choiceSuggester) addAliases(aliases []string, canonical string) {
	for _, alias := range aliases {
		if _, ok := s.choices[alias]; !ok {
			s.choices[alias] = canonical
		}
	}
}

// suggest returns the canonical name closest to input, or "" when nothing
// is within the distance budget.
func (s *choiceSuggester) suggest(input string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	// Deterministic iteration so ties resolve stably.
	spellings := make([]string, 0, len(s.choices))
	for spelling := range s.choices {
		spellings = append(spellings, spelling)
	}
	sort.Strings(spellings)
	for _, spelling := range spellings {
		if d := editDistance(input, spelling); d < bestDist {
			bestDist = d
			best = s.choices[spelling]
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// suggestUnknownArgs builds the unrecognized-arguments error for the flags
// that matched nothing, attaching at most one suggestion per unknown.
func (c *Command) suggestUnknownArgs(unknown []string) error {
	suggester := newChoiceSuggester()
	for _, cmd := range c.chain() {
		for _, f := range cmd.Args().Flags() {
			if f.InvertedOf != "" {
				// Suggest only the positive spelling.
				continue
			}
			suggester.addChoices(f.Name)
			suggester.addAliases(f.SuggestionAliases, f.Name)
		}
	}
	var lines []string
	for _, u := range unknown {
		if suggestion := suggester.suggest(u); suggestion != "" {
			lines = append(lines, fmt.Sprintf("%s (did you mean '%s'?)", u, suggestion))
		} else {
			lines = append(lines, u)
		}
	}
	return &UsageError{
		Command: c,
		Message: fmt.Sprintf("unrecognized arguments:\n  %s", strings.Join(lines, "\n  ")),
	}
}

// unknownCommandError reports a bad subcommand name, suggesting the closest
// sibling and, failing that, the same command in another release track.
func (c *Command) unknownCommandError(name string) error {
	suggester := newChoiceSuggester()
	suggester.addChoices(c.SubcommandNames()...)
	if suggestion := suggester.suggest(name); suggestion != "" {
		return &UsageError{
			Command: c,
			Message: fmt.Sprintf("invalid choice: %q (did you mean '%s'?)", name, suggestion),
		}
	}
	if alternates := c.alternateTracks(name); len(alternates) > 0 {
		return &UsageError{
			Command: c,
			Message: fmt.Sprintf("invalid choice: %q\nThis command is available in one or more alternate release tracks. Try:\n  %s",
				name, strings.Join(alternates, "\n  ")),
		}
	}
	return &UsageError{
		Command: c,
		Message: fmt.Sprintf("invalid choice: %q", name),
	}
}

// alternateTracks looks for the same command path under a different release
// track and returns the full invocations that would work.
func (c *Command) alternateTracks(name string) []string {
	root := c.Root()
	path := append(c.Path(), name)
	// Strip an existing track prefix so GA paths can be probed from
	// track-prefixed ones and vice versa.
	bare := path
	if len(bare) > 0 && (bare[0] == "alpha" || bare[0] == "beta") {
		bare = bare[1:]
	}
	var out []string
	for _, track := range []ReleaseTrack{GA, Beta, Alpha} {
		candidate := bare
		if prefix := track.Prefix(); prefix != "" {
			candidate = append([]string{prefix}, bare...)
		}
		if sameStrings(candidate, path) {
			continue
		}
		if root.LookupPath(candidate) != nil {
			out = append(out, root.Name+" "+strings.Join(candidate, " "))
		}
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
