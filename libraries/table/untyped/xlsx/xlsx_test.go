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

package xlsx

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
	"github.com/cavesurvey/tmlu/libraries/utils/iohelp"
)

func testSurvey() *cavefile.CaveFile {
	hdr := cavefile.NewHeader()
	hdr.CaveName = "Sistema Sac Actun"
	hdr.FirstStartAbsoluteElevation = "7.5"

	start := cavefile.NewDefaultRecord()
	start.StationType = cavefile.TypeStart
	start.Latitude = "20.7"
	start.Longitude = "-87.4"
	start.Name = cavefile.Some("entrance")

	leg := cavefile.NewDefaultRecord()
	leg.StationType = cavefile.TypeReal
	leg.ID = 1
	leg.Azimuth = "45.0"
	leg.Length = "3.2"
	leg.Depth = "1.0"
	leg.Date = "2021-06-01"
	leg.Comment = cavefile.Some("low & wet")
	leg.Explorer = cavefile.Some("<Explorer>Ana</Explorer><Surveyor>Ben</Surveyor>")

	closure := cavefile.NewDefaultRecord()
	closure.StationType = cavefile.TypeClosure
	closure.ID = 2
	closure.FromID = 1
	closure.ClosureToID = 0

	return &cavefile.CaveFile{Info: hdr, Data: []cavefile.Record{start, leg, closure}}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	cf := testSurvey()

	buf := &bytes.Buffer{}
	wr, err := NewXLSXWriter(iohelp.NopWrCloser(buf), table.DefaultTableName, cf.Info)
	require.NoError(t, err)

	good, _, err := table.PipeRows(ctx, table.NewInMemTableReader(table.NewInMemTableFromCaveFile(cf)), wr, false)
	require.NoError(t, err)
	assert.Equal(t, 3, good)
	require.NoError(t, wr.Close(ctx))

	rd, err := NewXLSXReader(buf.Bytes(), table.DefaultTableName)
	require.NoError(t, err)

	actual, err := table.ReadCaveFile(ctx, rd)
	require.NoError(t, err)
	require.NoError(t, rd.Close(ctx))

	assert.Equal(t, cf, actual)
}

func TestMissingAndUnknownColumns(t *testing.T) {
	ctx := context.Background()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("legs")
	require.NoError(t, err)
	addStringRow(sheet, []string{"ID", "station_type", "length", "notes"})
	addStringRow(sheet, []string{"4", "REAL", "2.5", "ignored"})
	addStringRow(sheet, []string{"", "", "", ""})
	addStringRow(sheet, []string{"five", "REAL", "1.0"})
	addStringRow(sheet, []string{"6", "VIRTUAL"})

	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))

	rd, err := NewXLSXReader(buf.Bytes(), "legs")
	require.NoError(t, err)
	assert.Equal(t, cavefile.NewHeader(), rd.GetHeader())

	r, err := rd.ReadRow(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(4), r.ID)
	assert.Equal(t, "2.5", r.Length)
	assert.Equal(t, cavefile.DefaultNumber, r.Azimuth)
	assert.False(t, r.Comment.Set)

	_, err = rd.ReadRow(ctx)
	require.True(t, table.IsBadRow(err))
	assert.Contains(t, err.Error(), "row 4")

	r, err = rd.ReadRow(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(6), r.ID)
	assert.Equal(t, cavefile.TypeVirtual, r.StationType)
	assert.Equal(t, cavefile.DefaultNumber, r.Length)

	_, err = rd.ReadRow(ctx)
	assert.Error(t, err)
}

func TestMissingSheet(t *testing.T) {
	f := xlsx.NewFile()
	_, err := f.AddSheet("other")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))

	_, err = NewXLSXReader(buf.Bytes(), table.DefaultTableName)
	assert.True(t, cavefile.IsMalformedInput(err))

	_, err = NewXLSXReader([]byte("not a workbook"), table.DefaultTableName)
	assert.True(t, cavefile.IsMalformedInput(err))
}

func TestAbort(t *testing.T) {
	ctx := context.Background()
	fs := filesys.EmptyInMemFS("/")

	wr, err := OpenXLSXWriter(fs, "/survey.xlsx", table.DefaultTableName, cavefile.NewHeader())
	require.NoError(t, err)

	r := cavefile.NewDefaultRecord()
	require.NoError(t, wr.WriteRow(ctx, &r))
	require.NoError(t, wr.Abort(ctx))

	exists, _ := fs.Exists("/survey.xlsx")
	assert.False(t, exists)
}
