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

package cli

import (
	"context"

	"github.com/attic-labs/kingpin"

	"github.com/cavesurvey/tmlu/libraries/utils/config"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

// Env is what a command runs against. Handlers only read it after the command line is parsed.
type Env struct {
	FS     filesys.ReadWriteFS
	Config *config.Config
}

type KingpinHandler func(input string) (exitCode int)
type KingpinCommand func(ctx context.Context, app *kingpin.Application, env *Env) (*kingpin.CmdClause, KingpinHandler)
