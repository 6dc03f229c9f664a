// Copyright 2019 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cavefile

import (
	"regexp"
	"strings"
)

// The explorer field is free text, but survey tools fill it in as
// <Explorer>a, b</Explorer><Surveyor>c, d</Surveyor>.
var explorersRegex = regexp.MustCompile(`<Explorer>(?P<explorers>.*)</Explorer><Surveyor>(?P<surveyors>.*)</Surveyor>`)

// Team is the explorer field split into its two lists.
type Team struct {
	Explorers []string
	Surveyors []string
}

// SplitExplorersRaw returns the unsplit explorer and surveyor text. ok is false when raw does not follow the
// Explorer/Surveyor pattern.
func SplitExplorersRaw(raw string) (explorers, surveyors string, ok bool) {
	m := explorersRegex.FindStringSubmatch(raw)
	if m == nil {
		return "", "", false
	}

	return m[explorersRegex.SubexpIndex("explorers")], m[explorersRegex.SubexpIndex("surveyors")], true
}

// SplitExplorers splits the explorer field into trimmed, comma separated names.
func SplitExplorers(raw string) (Team, bool) {
	if raw == "" {
		return Team{}, false
	}

	explorers, surveyors, ok := SplitExplorersRaw(raw)
	if !ok {
		return Team{}, false
	}

	return Team{Explorers: splitNames(explorers), Surveyors: splitNames(surveyors)}, true
}

func splitNames(s string) []string {
	names := strings.Split(s, ",")
	for i, name := range names {
		names[i] = strings.TrimSpace(name)
	}

	return names
}
