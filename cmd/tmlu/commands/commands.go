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
//
// This file incorporates work covered by the following copyright and
// permission notice:
//
// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package commands

import (
	"context"
	"strings"

	"github.com/attic-labs/kingpin"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/cavesurvey/tmlu/cmd/tmlu/cli"
	"github.com/cavesurvey/tmlu/cmd/tmlu/errhand"
	"github.com/cavesurvey/tmlu/libraries/utils/config"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

const appName = "tmlu"

var Commands = []cli.KingpinCommand{
	Convert,
	TmluToSqlite,
	SqliteToTmlu,
	JSON,
	Check,
	Info,
	Explorers,
	PrintConfig,
	Version,
}

// Exec parses args, applies the global flags and runs the selected command. It returns the process exit code.
func Exec(ctx context.Context, fs filesys.ReadWriteFS, args []string) int {
	app := kingpin.New(appName, "Converts cave surveys between cave files, databases, spreadsheets and json.")
	app.HelpFlag.Short('h')

	cfgPath := app.Flag("config", "yaml or toml config file; .toml files are read as toml").String()
	verbose := app.Flag("verbose", "show more").Short('v').Bool()
	noColor := app.Flag("no-color", "disable colored output").Bool()

	env := &cli.Env{FS: fs, Config: config.Default()}
	handlers := map[string]cli.KingpinHandler{}

	for _, cmdFunction := range Commands {
		command, handler := cmdFunction(ctx, app, env)
		handlers[command.FullCommand()] = handler
	}

	input, err := app.Parse(args)
	if err != nil {
		cli.PrintErrln(color.RedString("%s", err))
		cli.PrintErrln("Run '" + appName + " --help' for usage.")
		return 1
	}

	cli.InitColor(*noColor)

	if *cfgPath != "" {
		cfg, err := config.FromFile(fs, *cfgPath)
		if err != nil {
			return HandleVErrAndExitCode(errhand.BuildDError("Failed to load config.").AddCause(err).Build())
		}

		env.Config = cfg
	}

	logrus.SetLevel(env.Config.LogLevel)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	handler, ok := handlers[input]
	if !ok {
		cli.PrintErrln(color.RedString("unknown command '%s'", input))
		return 1
	}

	return handler(input)
}

// HandleVErrAndExitCode prints verr and returns the exit code for it.
func HandleVErrAndExitCode(verr errhand.VerboseError) int {
	if verr == nil {
		return 0
	}

	msg := verr.Verbose()
	if strings.TrimSpace(msg) != "" {
		cli.PrintErrln(msg)
	}

	if verr.ShouldPrintUsage() {
		cli.PrintErrln("Run '" + appName + " --help' for usage.")
	}

	return 1
}
