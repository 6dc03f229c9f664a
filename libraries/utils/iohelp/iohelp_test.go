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

package iohelp

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rlTests = []struct {
	inputStr      string
	expectedLines []string
}{
	{"line 1\nline 2\r\nline 3\n", []string{"line 1", "line 2", "line 3", ""}},
	{"line 1\nline 2\r\nline 3", []string{"line 1", "line 2", "line 3"}},
	{"\r\nline 1\nline 2\r\nline 3\r\r\r\n\n", []string{"", "line 1", "line 2", "line 3", "", ""}},
}

func TestReadLine(t *testing.T) {
	for _, test := range rlTests {
		br := bufio.NewReader(strings.NewReader(test.inputStr))

		var lines []string
		for done := false; !done; {
			var line string
			var err error
			line, done, err = ReadLine(br)
			require.NoError(t, err)
			lines = append(lines, line)
		}

		assert.Equal(t, test.expectedLines, lines)
	}
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("<a>\n<b>x</b>\n</a>"))
	require.NoError(t, err)
	assert.Equal(t, []string{"<a>", "<b>x</b>", "</a>"}, lines)

	lines, err = ReadLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

type trickleWriter struct {
	buf bytes.Buffer
}

func (w *trickleWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	return w.buf.Write(p[:1])
}

type stuckWriter struct{}

func (stuckWriter) Write(p []byte) (int, error) {
	return 0, nil
}

func TestWriteAll(t *testing.T) {
	tw := &trickleWriter{}
	require.NoError(t, WriteAll(tw, []byte("station")))
	assert.Equal(t, "station", tw.buf.String())

	assert.Equal(t, ErrShortWrite, WriteAll(stuckWriter{}, []byte("x")))
}

func TestWriteLine(t *testing.T) {
	buf := &bytes.Buffer{}
	wr := NopWrCloser(buf)

	require.NoError(t, WriteLine(wr, "DROP TABLE x;"))
	require.NoError(t, WriteLine(wr, ""))
	require.NoError(t, wr.Close())
	assert.Equal(t, "DROP TABLE x;\n\n", buf.String())
}
