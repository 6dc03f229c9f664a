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
	"strings"

	"github.com/attic-labs/kingpin"
	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/sirupsen/logrus"

	"github.com/cavesurvey/tmlu/cmd/tmlu/cli"
	"github.com/cavesurvey/tmlu/cmd/tmlu/errhand"
	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/utils/iohelp"
)

// lineDiff is the first line where a re-encoded document differs from its input. Line is 1 based.
type lineDiff struct {
	Line     int
	Original string
	Encoded  string
}

func Check(ctx context.Context, app *kingpin.Application, env *cli.Env) (*kingpin.CmdClause, cli.KingpinHandler) {
	cmd := app.Command("check", `Checks that cave files survive a round trip unchanged
Each file is decoded and encoded again, and the result is compared with the file byte for byte. The first differing line is printed for files that change. Files that omit optional elements, or that were written with another layout, are reported as changed.
`)
	layout := cmd.Flag(layoutParam, "layout to encode with").Enum("lines", "compact")
	files := cmd.Arg("files", "cave files to check").Required().Strings()

	return cmd, func(input string) int {
		l := env.Config.Layout
		if *layout != "" {
			l, _ = cavefile.ParseLayout(*layout)
		}

		exitCode := 0
		for _, file := range *files {
			same, verr := checkFile(env, file, l)
			if verr != nil {
				HandleVErrAndExitCode(verr)
				exitCode = 1
			} else if !same {
				exitCode = 1
			}
		}

		return exitCode
	}
}

func checkFile(env *cli.Env, path string, layout cavefile.Layout) (bool, errhand.VerboseError) {
	original, err := env.FS.ReadFile(path)
	if verr := errhand.BuildIf(err, "Failed to read '%s'.", path).Build(); verr != nil {
		return false, verr
	}

	cf, err := cavefile.Unmarshal(original)
	if verr := errhand.BuildIf(err, "Failed to decode '%s'.", path).Build(); verr != nil {
		return false, verr
	}

	encoded, err := cavefile.Marshal(cf, cavefile.WithLayout(layout))
	if verr := errhand.BuildIf(err, "Failed to encode '%s'.", path).Build(); verr != nil {
		return false, verr
	}

	if bytes.Equal(original, encoded) {
		cli.Printf("%s: %s\n", path, color.GreenString("ok"))
		return true, nil
	}

	ld, err := firstLineDiff(original, encoded)
	if err != nil {
		return false, errhand.BuildDError("Failed to compare '%s'.", path).AddCause(err).Build()
	}

	logrus.Debugf("%s: %d bytes in, %d bytes out", path, len(original), len(encoded))
	cli.Printf("%s: %s at line %d\n", path, color.RedString("changed"), ld.Line)
	cli.Printf("  %s\n", highlightDiff(ld.Original, ld.Encoded))

	return false, nil
}

// firstLineDiff finds the first line that differs between original and encoded. A document that is a prefix of the
// other differs at the first line past its end, which is compared as empty.
func firstLineDiff(original, encoded []byte) (lineDiff, error) {
	origLines, err := iohelp.ReadLines(bytes.NewReader(original))
	if err != nil {
		return lineDiff{}, err
	}

	encLines, err := iohelp.ReadLines(bytes.NewReader(encoded))
	if err != nil {
		return lineDiff{}, err
	}

	for i := 0; ; i++ {
		var o, e string
		oOk, eOk := i < len(origLines), i < len(encLines)
		if oOk {
			o = origLines[i]
		}
		if eOk {
			e = encLines[i]
		}

		if o != e || oOk != eOk {
			return lineDiff{Line: i + 1, Original: o, Encoded: e}, nil
		}

		if !oOk && !eOk {
			// the lines are equal, so the documents differ in line endings
			return lineDiff{Line: i}, nil
		}
	}
}

// highlightDiff renders the changes from original to encoded inline: removed text in red, added text in green.
// Without color both lines are printed in full.
func highlightDiff(original, encoded string) string {
	if color.NoColor {
		return "- " + original + "\n  + " + encoded
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(original, encoded, false))

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString(color.RedString("%s", d.Text))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(color.GreenString("%s", d.Text))
		default:
			sb.WriteString(d.Text)
		}
	}

	return sb.String()
}
