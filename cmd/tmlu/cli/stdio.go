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

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var CliOut io.Writer = color.Output
var CliErr io.Writer = color.Error

// InitColor turns color off when asked to, or when stdout is not a terminal.
func InitColor(noColor bool) {
	fd := os.Stdout.Fd()
	if noColor || (!isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)) {
		color.NoColor = true
	}
}

// SetIO replaces the command output streams and returns a func that restores them.
func SetIO(out, err io.Writer) (restoreIO func()) {
	prevOut, prevErr := CliOut, CliErr
	CliOut, CliErr = out, err

	return func() {
		CliOut, CliErr = prevOut, prevErr
	}
}

func Println(a ...interface{}) {
	fmt.Fprintln(CliOut, a...)
}

func Print(a ...interface{}) {
	fmt.Fprint(CliOut, a...)
}

func Printf(format string, a ...interface{}) {
	fmt.Fprintf(CliOut, format, a...)
}

func PrintErrln(a ...interface{}) {
	fmt.Fprintln(CliErr, a...)
}

func PrintErr(a ...interface{}) {
	fmt.Fprint(CliErr, a...)
}

func PrintErrf(format string, a ...interface{}) {
	fmt.Fprintf(CliErr, format, a...)
}
