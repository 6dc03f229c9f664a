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
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/cavesurvey/tmlu/cmd/tmlu/cli"
	"github.com/cavesurvey/tmlu/cmd/tmlu/errhand"
	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/mvdata"
	"github.com/cavesurvey/tmlu/libraries/table"
)

func Info(ctx context.Context, app *kingpin.Application, env *cli.Env) (*kingpin.CmdClause, cli.KingpinHandler) {
	cmd := app.Command("info", `Prints a summary of a survey
Lengths and depths are summed exactly as written. Stations whose from or closure id matches no station are listed, but are not an error.
`)
	srcType := cmd.Flag(srcTypeParam, "type of <file>").Enum(dataFormats...)
	flags := addMoveFlags(cmd)
	file := cmd.Arg("file", "survey to summarize").Required().String()

	return cmd, func(input string) int {
		opts, verr := flags.moveOptions(env.Config)
		if verr == nil {
			verr = printInfo(ctx, env, mvdata.NewDataLocation(*file, *srcType), opts)
		}

		return HandleVErrAndExitCode(verr)
	}
}

func readCaveFile(ctx context.Context, env *cli.Env, src mvdata.DataLocation, opts *mvdata.MoveOptions) (*cavefile.CaveFile, errhand.VerboseError) {
	rd, verr := openReader(ctx, env, src, opts)
	if verr != nil {
		return nil, verr
	}
	defer rd.Close(ctx)

	cf, err := table.ReadCaveFile(ctx, rd)
	if err != nil {
		return nil, errhand.BuildDError("Failed to read %s.", src).AddCause(err).Build()
	}

	return cf, nil
}

func printInfo(ctx context.Context, env *cli.Env, src mvdata.DataLocation, opts *mvdata.MoveOptions) errhand.VerboseError {
	cf, verr := readCaveFile(ctx, env, src, opts)
	if verr != nil {
		return verr
	}

	s, err := cavefile.Summarize(cf)
	if verr := errhand.BuildIf(err, "Failed to summarize %s.", src).Build(); verr != nil {
		return verr
	}

	unit := cf.Info.Unit

	source := src.String()
	if data, err := env.FS.ReadFile(src.Path); err == nil {
		source += " (" + humanize.Bytes(uint64(len(data))) + ")"
	}

	cli.Println(color.CyanString("%s", source))
	cli.Printf("Cave:             %s\n", cf.Info.CaveName)
	cli.Println(printer.Sprintf("Stations:         %d (%d start, %d relative, %d closure)", s.Stations(), s.Starts, s.Relatives, s.Closures))
	cli.Printf("Surveyed length:  %s %s\n", s.SurveyedLength, unit)

	if s.Virtuals > 0 {
		cli.Println(printer.Sprintf("Virtual length:   %s %s in %d stations", s.VirtualLength, unit, s.Virtuals))
	}

	if !s.ExcludedLength.IsZero() {
		cli.Printf("Excluded length:  %s %s\n", s.ExcludedLength, unit)
	}

	if s.HasDepth {
		cli.Printf("Depth:            %s to %s %s (range %s %s)\n", s.MinDepth, s.MaxDepth, unit, s.DepthRange(), unit)
	}

	if s.FirstDate != "" {
		cli.Printf("Surveyed:         %s to %s\n", s.FirstDate, s.LastDate)
	}

	if len(s.Dangling) > 0 {
		cli.Println(color.YellowString("Dangling references: %d", len(s.Dangling)))
		for _, dr := range s.Dangling {
			cli.Println("  " + dr.String())
		}
	}

	return nil
}
