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

	"github.com/attic-labs/kingpin"

	"github.com/cavesurvey/tmlu/cmd/tmlu/cli"
	"github.com/cavesurvey/tmlu/cmd/tmlu/errhand"
	"github.com/cavesurvey/tmlu/libraries/mvdata"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/table/typed/json"
	"github.com/cavesurvey/tmlu/libraries/utils/iohelp"
)

func JSON(ctx context.Context, app *kingpin.Application, env *cli.Env) (*kingpin.CmdClause, cli.KingpinHandler) {
	cmd := app.Command("json", `Prints the stations of a survey as json
Every station becomes an object keyed by its kind: start, relative (REAL and VIRTUAL stations) or loop.
`)
	srcType := cmd.Flag(srcTypeParam, "type of <file>").Enum(dataFormats...)
	flags := addMoveFlags(cmd)
	file := cmd.Arg("file", "survey to print").Required().String()

	return cmd, func(input string) int {
		opts, verr := flags.moveOptions(env.Config)
		if verr == nil {
			verr = printJSON(ctx, env, mvdata.NewDataLocation(*file, *srcType), opts)
		}

		return HandleVErrAndExitCode(verr)
	}
}

func printJSON(ctx context.Context, env *cli.Env, src mvdata.DataLocation, opts *mvdata.MoveOptions) errhand.VerboseError {
	rd, verr := openReader(ctx, env, src, opts)
	if verr != nil {
		return verr
	}

	mover := &mvdata.DataMover{
		Rd:        rd,
		Wr:        json.NewJSONWriter(iohelp.NopWrCloser(cli.CliOut), opts.JSONIndent),
		ContOnErr: opts.ContOnErr,
	}

	if _, _, err := mover.Move(ctx); err != nil {
		return errhand.BuildDError("Failed to convert %s to json.", src).AddCause(err).Build()
	}

	return nil
}

func openReader(ctx context.Context, env *cli.Env, src mvdata.DataLocation, opts *mvdata.MoveOptions) (table.TableReadCloser, errhand.VerboseError) {
	if verr := validateLocation(src, srcTypeParam); verr != nil {
		return nil, verr
	}

	if !src.Format.CanRead() {
		return nil, errhand.BuildDError("Cannot read from %s.", src).Build()
	}

	rd, err := src.NewReader(ctx, env.FS, opts)
	if err != nil {
		return nil, errhand.BuildDError("Failed to read %s.", src).AddCause(err).Build()
	}

	return rd, nil
}
