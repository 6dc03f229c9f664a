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
	"github.com/cavesurvey/tmlu/libraries/mvdata"
)

const (
	databaseParam = "database"
	tmluParam     = "tmlu"
)

// addSqliteArgs adds the database and cave file flags shared by the sqlite commands.
func addSqliteArgs(cmd *kingpin.CmdClause) (db, tmlu *string) {
	db = cmd.Flag(databaseParam, "sqlite3 database filename").Short('d').Required().String()
	tmlu = cmd.Flag(tmluParam, "tmlu filename").Short('t').Required().String()
	return db, tmlu
}

func TmluToSqlite(ctx context.Context, app *kingpin.Application, env *cli.Env) (*kingpin.CmdClause, cli.KingpinHandler) {
	cmd := app.Command("tmlu-to-sqlite", `Writes the stations of a cave file to a sqlite database
The station table and its header table are dropped and re-created in a single transaction.
`)
	flags := addMoveFlags(cmd)
	db, tmlu := addSqliteArgs(cmd)

	return cmd, func(input string) int {
		opts, verr := flags.moveOptions(env.Config)
		if verr == nil {
			verr = moveData(ctx, env, mvdata.NewDataLocation(*tmlu, string(mvdata.TmluFile)), mvdata.NewDataLocation(*db, string(mvdata.SqliteDB)), opts)
		}

		return HandleVErrAndExitCode(verr)
	}
}

func SqliteToTmlu(ctx context.Context, app *kingpin.Application, env *cli.Env) (*kingpin.CmdClause, cli.KingpinHandler) {
	cmd := app.Command("sqlite-to-tmlu", `Writes the stations of a sqlite database to a cave file
Shapes are not stored in the database, so every station gets the default shape. The header is read from the header table when there is one.
`)
	flags := addMoveFlags(cmd)
	db, tmlu := addSqliteArgs(cmd)

	return cmd, func(input string) int {
		opts, verr := flags.moveOptions(env.Config)
		if verr == nil {
			verr = moveData(ctx, env, mvdata.NewDataLocation(*db, string(mvdata.SqliteDB)), mvdata.NewDataLocation(*tmlu, string(mvdata.TmluFile)), opts)
		}

		return HandleVErrAndExitCode(verr)
	}
}
