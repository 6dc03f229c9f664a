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
	"context"
	"strings"

	"github.com/attic-labs/kingpin"

	"github.com/cavesurvey/tmlu/cmd/tmlu/cli"
	"github.com/cavesurvey/tmlu/cmd/tmlu/errhand"
	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/mvdata"
)

func Explorers(ctx context.Context, app *kingpin.Application, env *cli.Env) (*kingpin.CmdClause, cli.KingpinHandler) {
	cmd := app.Command("explorers", `Lists the explorers and surveyors of each station
Only stations whose explorer field has the form <Explorer>a, b</Explorer><Surveyor>c, d</Surveyor> are listed.
`)
	srcType := cmd.Flag(srcTypeParam, "type of <file>").Enum(dataFormats...)
	flags := addMoveFlags(cmd)
	file := cmd.Arg("file", "survey to read").Required().String()

	return cmd, func(input string) int {
		opts, verr := flags.moveOptions(env.Config)
		if verr == nil {
			verr = printExplorers(ctx, env, mvdata.NewDataLocation(*file, *srcType), opts)
		}

		return HandleVErrAndExitCode(verr)
	}
}

func printExplorers(ctx context.Context, env *cli.Env, src mvdata.DataLocation, opts *mvdata.MoveOptions) errhand.VerboseError {
	cf, verr := readCaveFile(ctx, env, src, opts)
	if verr != nil {
		return verr
	}

	for _, r := range cf.Data {
		team, ok := cavefile.SplitExplorers(r.Explorer.String())
		if !ok {
			continue
		}

		cli.Printf("%d\texplorers: %s\tsurveyors: %s\n", r.ID, strings.Join(team.Explorers, ", "), strings.Join(team.Surveyors, ", "))
	}

	return nil
}
