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

package tmlu

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

var surveyPath = filepath.Join("..", "..", "..", "cavefile", "testdata", "survey.tmlu")

func TestReadWriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	expected, err := os.ReadFile(surveyPath)
	require.NoError(t, err)

	rd, err := OpenReader(filesys.LocalFS, surveyPath)
	require.NoError(t, err)
	assert.Equal(t, "Grotte & Galerie", rd.GetHeader().CaveName)

	fs := filesys.EmptyInMemFS("/")
	wr, err := OpenWriter(fs, "/out/survey.tmlu", rd.GetHeader())
	require.NoError(t, err)

	good, bad, err := table.PipeRows(ctx, rd, wr, false)
	require.NoError(t, err)
	assert.Equal(t, 5, good)
	assert.Equal(t, 0, bad)
	require.NoError(t, rd.Close(ctx))

	exists, _ := fs.Exists("/out/survey.tmlu")
	assert.False(t, exists)

	require.NoError(t, wr.Close(ctx))
	actual, err := fs.ReadFile("/out/survey.tmlu")
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(actual))

	assert.Error(t, wr.Close(ctx))
	assert.Error(t, rd.Close(ctx))
}

func TestReaderErrors(t *testing.T) {
	fs := filesys.NewInMemFS(nil, map[string][]byte{
		"/bad.tmlu": []byte("<CaveFile><Data><SRVD><ID>x</ID><TY>REAL</TY></SRVD></Data></CaveFile>"),
	}, "/")

	_, err := OpenReader(fs, "/missing.tmlu")
	assert.True(t, cavefile.IsIOFailure(err))

	_, err = OpenReader(fs, "/bad.tmlu")
	assert.True(t, cavefile.IsMalformedInput(err))
}

func TestWriterAbort(t *testing.T) {
	ctx := context.Background()
	fs := filesys.NewInMemFS(nil, map[string][]byte{"/survey.tmlu": []byte("previous")}, "/")

	wr, err := OpenWriter(fs, "/survey.tmlu", cavefile.NewHeader(), cavefile.WithLayout(cavefile.CompactLayout))
	require.NoError(t, err)

	r := cavefile.NewDefaultRecord()
	r.StationType = cavefile.TypeStart
	require.NoError(t, wr.WriteRow(ctx, &r))
	require.NoError(t, table.AbortOrClose(ctx, wr))

	data, err := fs.ReadFile("/survey.tmlu")
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
	assert.Error(t, wr.WriteRow(ctx, &r))
}

type failingWriteCloser struct {
	closed bool
}

func (w *failingWriteCloser) Write(p []byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func (w *failingWriteCloser) Close() error {
	w.closed = true
	return nil
}

func TestWriterIOFailure(t *testing.T) {
	ctx := context.Background()
	dest := &failingWriteCloser{}
	wr := NewWriter(dest, cavefile.NewHeader())

	err := wr.Close(ctx)
	assert.True(t, cavefile.IsIOFailure(err))
	assert.True(t, dest.closed)
}
