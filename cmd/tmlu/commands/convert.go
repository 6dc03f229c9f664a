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
	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cavesurvey/tmlu/cmd/tmlu/cli"
	"github.com/cavesurvey/tmlu/cmd/tmlu/errhand"
	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/mvdata"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/table/sqlfmt"
	"github.com/cavesurvey/tmlu/libraries/utils/config"
)

const (
	srcTypeParam   = "src-type"
	destTypeParam  = "dest-type"
	tableParam     = "table"
	sheetParam     = "sheet"
	layoutParam    = "layout"
	contOnErrParam = "continue"
)

var dataFormats = []string{"tmlu", "xml", "sqlite", "mysql", "postgres", "json", "xlsx", "sql"}

var printer = message.NewPrinter(language.English)

// moveFlags are the flags of commands that move stations between locations. Flags that are not given fall back to
// the config.
type moveFlags struct {
	table     *string
	sheet     *string
	layout    *string
	contOnErr *bool
}

func addMoveFlags(cmd *kingpin.CmdClause) *moveFlags {
	return &moveFlags{
		table:     cmd.Flag(tableParam, "station table of database and sql locations").String(),
		sheet:     cmd.Flag(sheetParam, "station sheet of xlsx locations").String(),
		layout:    cmd.Flag(layoutParam, "whitespace layout of written cave files").Enum("lines", "compact"),
		contOnErr: cmd.Flag(contOnErrParam, "skip stations that cannot be converted instead of failing").Bool(),
	}
}

func (f *moveFlags) moveOptions(cfg *config.Config) (*mvdata.MoveOptions, errhand.VerboseError) {
	dialect, err := sqlfmt.DialectForDriver(cfg.SQLDriver)
	if err != nil {
		return nil, errhand.BuildDError("Invalid sql driver.").AddCause(err).Build()
	}

	opts := &mvdata.MoveOptions{
		TableName:  cfg.Table,
		SheetName:  cfg.Sheet,
		Layout:     cfg.Layout,
		JSONIndent: cfg.JSONIndent,
		SQLDialect: dialect,
	}

	if *f.table != "" {
		opts.TableName = *f.table
	}

	if *f.sheet != "" {
		opts.SheetName = *f.sheet
	}

	if *f.layout != "" {
		layout, err := cavefile.ParseLayout(*f.layout)
		if err != nil {
			return nil, errhand.BuildDError("Invalid layout.").AddCause(err).Build()
		}
		opts.Layout = layout
	}

	opts.ContOnErr = *f.contOnErr
	return opts, nil
}

func Convert(ctx context.Context, app *kingpin.Application, env *cli.Env) (*kingpin.CmdClause, cli.KingpinHandler) {
	cmd := app.Command("convert", `Converts a survey from one location to another
The types of <src> and <dest> are inferred from their extensions (.tmlu, .xml, .sqlite, .sqlite3, .db, .json, .xlsx, .sql) or url schemes (mysql://, postgres://). Use --src-type and --dest-type when they cannot be inferred.
An existing <dest> is replaced. Nothing is written to <dest> unless every station is converted.
`)
	srcType := cmd.Flag(srcTypeParam, "type of <src>").Enum(dataFormats...)
	destType := cmd.Flag(destTypeParam, "type of <dest>").Enum(dataFormats...)
	flags := addMoveFlags(cmd)
	src := cmd.Arg("src", "file or database url to read").Required().String()
	dest := cmd.Arg("dest", "file or database url to write").Required().String()

	return cmd, func(input string) int {
		opts, verr := flags.moveOptions(env.Config)
		if verr == nil {
			verr = moveData(ctx, env, mvdata.NewDataLocation(*src, *srcType), mvdata.NewDataLocation(*dest, *destType), opts)
		}

		return HandleVErrAndExitCode(verr)
	}
}

func validateLocation(loc mvdata.DataLocation, typeParam string) errhand.VerboseError {
	if loc.Format == mvdata.InvalidDataFormat {
		return errhand.BuildDError("Could not infer the type of '%s'.", loc.Path).
			AddDetails("Use a supported extension or give the type with --%s.", typeParam).
			SetPrintUsage().
			Build()
	}

	return nil
}

func moveData(ctx context.Context, env *cli.Env, src, dest mvdata.DataLocation, opts *mvdata.MoveOptions) errhand.VerboseError {
	if verr := validateLocation(src, srcTypeParam); verr != nil {
		return verr
	}

	if verr := validateLocation(dest, destTypeParam); verr != nil {
		return verr
	}

	mover, dmce := mvdata.NewDataMover(ctx, env.FS, src, dest, opts)
	if dmce != nil {
		return errhand.BuildDError("Could not move data from %s to %s.", src, dest).AddCause(dmce).Build()
	}

	good, bad, err := mover.Move(ctx)
	if err != nil {
		if table.IsBadRow(err) {
			bdr := errhand.BuildDError("A bad station was encountered while moving data.")
			bdr.AddDetails(err.Error())
			bdr.AddDetails("These can be skipped using --%s.", contOnErrParam)
			return bdr.Build()
		}

		return errhand.BuildDError("An error occurred moving data.").AddCause(err).Build()
	}

	if bad > 0 {
		cli.PrintErrln(color.YellowString("%s", printer.Sprintf("Stations skipped: %d", bad)))
	}

	cli.PrintErrln(color.CyanString("%s", printer.Sprintf("Wrote %d stations to %s.", good, dest)))
	return nil
}
