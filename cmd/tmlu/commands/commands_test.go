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

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/cavesurvey/tmlu/cmd/tmlu/cli"
	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

const (
	workingDir = "/user/caver/surveys"
	surveyPath = workingDir + "/survey.tmlu"
)

func readTestSurvey(t *testing.T) []byte {
	data, err := os.ReadFile("../../../libraries/cavefile/testdata/survey.tmlu")
	require.NoError(t, err)
	return data
}

func createFS(t *testing.T, files map[string][]byte) *filesys.InMemFS {
	all := map[string][]byte{surveyPath: readTestSurvey(t)}
	for path, data := range files {
		all[path] = data
	}

	return filesys.NewInMemFS([]string{workingDir}, all, workingDir)
}

// runCmd executes args against fs and returns the exit code along with everything written to stdout and stderr.
func runCmd(t *testing.T, fs filesys.ReadWriteFS, args ...string) (int, string, string) {
	prevNoColor := color.NoColor
	defer func() { color.NoColor = prevNoColor }()
	color.NoColor = true

	var out, errOut bytes.Buffer
	restore := cli.SetIO(&out, &errOut)
	defer restore()

	exitCode := Exec(context.Background(), fs, args)
	return exitCode, out.String(), errOut.String()
}

func TestConvertToJSON(t *testing.T) {
	fs := createFS(t, nil)

	exitCode, _, errOut := runCmd(t, fs, "convert", "survey.tmlu", "survey.json")
	require.Equal(t, 0, exitCode, errOut)
	assert.Contains(t, errOut, "Wrote 5 stations to")

	data, err := fs.ReadFile(workingDir + "/survey.json")
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))

	entries := gjson.ParseBytes(data)
	assert.Len(t, entries.Array(), 5)
	assert.Equal(t, 59.9139, entries.Get("0.start.latitude").Float())
	assert.Equal(t, 45.0, entries.Get("1.relative.azimuth").Float())
	assert.True(t, entries.Get("4.loop").Exists())
}

func TestConvertSameLocation(t *testing.T) {
	fs := createFS(t, nil)

	exitCode, _, errOut := runCmd(t, fs, "convert", "survey.tmlu", "survey.tmlu")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, errOut, "Could not move data")
}

func TestConvertUnknownType(t *testing.T) {
	fs := createFS(t, map[string][]byte{workingDir + "/survey.dat": readTestSurvey(t)})

	exitCode, _, errOut := runCmd(t, fs, "convert", "survey.dat", "survey.json")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, errOut, "Could not infer the type of 'survey.dat'.")
	assert.Contains(t, errOut, "--help")

	exitCode, _, errOut = runCmd(t, fs, "convert", "--src-type", "xml", "survey.dat", "survey.json")
	assert.Equal(t, 0, exitCode, errOut)

	exitCode, _, _ = runCmd(t, fs, "convert", "--src-type", "csv", "survey.dat", "survey.json")
	assert.Equal(t, 1, exitCode)
}

func TestConvertCompactLayout(t *testing.T) {
	fs := createFS(t, nil)

	exitCode, _, errOut := runCmd(t, fs, "convert", "--layout", "compact", "survey.tmlu", "compact.tmlu")
	require.Equal(t, 0, exitCode, errOut)

	compact, err := fs.ReadFile(workingDir + "/compact.tmlu")
	require.NoError(t, err)
	assert.NotContains(t, string(compact), "\n")

	exitCode, _, errOut = runCmd(t, fs, "convert", "compact.tmlu", "lines.tmlu")
	require.Equal(t, 0, exitCode, errOut)

	lines, err := fs.ReadFile(workingDir + "/lines.tmlu")
	require.NoError(t, err)
	assert.Equal(t, readTestSurvey(t), lines)
}

func TestJSON(t *testing.T) {
	fs := createFS(t, nil)

	exitCode, out, errOut := runCmd(t, fs, "json", "survey.tmlu")
	require.Equal(t, 0, exitCode, errOut)
	assert.Len(t, gjson.Parse(out).Array(), 5)
	assert.Equal(t, "2021-06-02", gjson.Get(out, "3.relative.date").String())

	exitCode, _, errOut = runCmd(t, fs, "json", "missing.tmlu")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, errOut, "Failed to read")
}

func TestCheck(t *testing.T) {
	original := readTestSurvey(t)
	selfClosed := bytes.Replace(original, []byte("<CM></CM>"), []byte("<CM/>"), 1)
	fs := createFS(t, map[string][]byte{workingDir + "/selfclosed.tmlu": selfClosed})

	exitCode, out, errOut := runCmd(t, fs, "check", "survey.tmlu")
	assert.Equal(t, 0, exitCode, errOut)
	assert.Equal(t, "survey.tmlu: ok\n", out)

	exitCode, out, _ = runCmd(t, fs, "check", "survey.tmlu", "selfclosed.tmlu")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out, "survey.tmlu: ok\n")
	assert.Contains(t, out, "selfclosed.tmlu: changed at line 12\n")
	assert.Contains(t, out, "- <CM/>\n  + <CM></CM>\n")

	exitCode, out, _ = runCmd(t, fs, "check", "--layout", "compact", "survey.tmlu")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out, "survey.tmlu: changed at line 1\n")

	exitCode, _, errOut = runCmd(t, fs, "check", "missing.tmlu")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, errOut, "Failed to read 'missing.tmlu'.")
}

func TestFirstLineDiff(t *testing.T) {
	tests := []struct {
		name     string
		original string
		encoded  string
		expected lineDiff
	}{
		{"changed line", "a\nb\nc", "a\nB\nc", lineDiff{Line: 2, Original: "b", Encoded: "B"}},
		{"first line", "a", "b", lineDiff{Line: 1, Original: "a", Encoded: "b"}},
		{"truncated", "a\nb", "a", lineDiff{Line: 2, Original: "b"}},
		{"extended", "a", "a\nb", lineDiff{Line: 2, Encoded: "b"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ld, err := firstLineDiff([]byte(test.original), []byte(test.encoded))
			require.NoError(t, err)
			assert.Equal(t, test.expected, ld)
		})
	}
}

func TestHighlightDiff(t *testing.T) {
	prevNoColor := color.NoColor
	defer func() { color.NoColor = prevNoColor }()

	color.NoColor = true
	assert.Equal(t, "- <CM/>\n  + <CM></CM>", highlightDiff("<CM/>", "<CM></CM>"))

	color.NoColor = false
	highlighted := highlightDiff("<L>1.2</L>", "<L>1.25</L>")
	assert.Contains(t, highlighted, "<L>1.2")
	assert.Contains(t, highlighted, color.GreenString("5"))
	assert.NotEqual(t, "<L>1.25</L>", highlighted)
}

func TestInfo(t *testing.T) {
	fs := createFS(t, nil)

	exitCode, out, errOut := runCmd(t, fs, "info", "survey.tmlu")
	require.Equal(t, 0, exitCode, errOut)

	assert.Contains(t, out, "Cave:             Grotte & Galerie\n")
	assert.Contains(t, out, "Stations:         5 (1 start, 3 relative, 1 closure)\n")
	assert.Contains(t, out, "Surveyed length:  7.45")
	assert.Contains(t, out, "Virtual length:   1.5")
	assert.Contains(t, out, "Surveyed:         2021-06-01 to 2021-06-02\n")
	assert.NotContains(t, out, "Dangling")
}

func TestExplorers(t *testing.T) {
	fs := createFS(t, nil)

	exitCode, out, errOut := runCmd(t, fs, "explorers", "survey.tmlu")
	require.Equal(t, 0, exitCode, errOut)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0\texplorers: Mr, Miyagi\tsurveyors: Bæ & Bu <oo>", lines[0])
	assert.Equal(t, "3\texplorers: Carla Tortelli, Diane Chambers, Sam Malone\tsurveyors: Lilith Sternin, Sam Malone, Norm Peterson", lines[1])
}

func TestPrintConfig(t *testing.T) {
	fs := createFS(t, map[string][]byte{
		workingDir + "/tmlu.yaml": []byte("table: doux\nlayout: compact\n"),
		workingDir + "/tmlu.toml": []byte("sheet = \"stations\"\n"),
		workingDir + "/bad.yaml":  []byte("tabel: doux\n"),
	})

	exitCode, out, _ := runCmd(t, fs, "config")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "{}\n", out)

	exitCode, out, _ = runCmd(t, fs, "--config", "tmlu.yaml", "config")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "table: doux\nlayout: compact\n", out)

	exitCode, out, _ = runCmd(t, fs, "--config", "tmlu.toml", "config")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "sheet: stations\n", out)

	exitCode, _, errOut := runCmd(t, fs, "--config", "bad.yaml", "config")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, errOut, "Failed to load config.")
}

func TestVersion(t *testing.T) {
	exitCode, out, _ := runCmd(t, createFS(t, nil), "version")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "tmlu version "+tmluVersion+"\n", out)
}

func TestUnknownCommand(t *testing.T) {
	exitCode, _, errOut := runCmd(t, createFS(t, nil), "explode")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, errOut, "Run 'tmlu --help' for usage.")
}

func TestSqliteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tmluPath := filepath.Join(dir, "survey.tmlu")
	dbPath := filepath.Join(dir, "survey.sqlite")
	outPath := filepath.Join(dir, "out.tmlu")
	cfgPath := filepath.Join(dir, "tmlu.yaml")

	require.NoError(t, os.WriteFile(tmluPath, readTestSurvey(t), 0644))
	require.NoError(t, os.WriteFile(cfgPath, []byte("table: doux\n"), 0644))

	exitCode, _, errOut := runCmd(t, filesys.LocalFS, "--config", cfgPath, "tmlu-to-sqlite", "-d", dbPath, "-t", tmluPath)
	require.Equal(t, 0, exitCode, errOut)

	// the default table was never written
	exitCode, _, _ = runCmd(t, filesys.LocalFS, "sqlite-to-tmlu", "-d", dbPath, "-t", outPath)
	assert.Equal(t, 1, exitCode)

	exitCode, _, errOut = runCmd(t, filesys.LocalFS, "--config", cfgPath, "sqlite-to-tmlu", "-d", dbPath, "-t", outPath)
	require.Equal(t, 0, exitCode, errOut)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	cf, err := cavefile.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "Grotte & Galerie", cf.Info.CaveName)
	require.Len(t, cf.Data, 5)
	assert.Equal(t, "Entrance", cf.Data[0].Name.String())
}
