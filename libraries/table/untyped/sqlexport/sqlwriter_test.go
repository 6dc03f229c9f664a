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

package sqlexport

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/table/sqlfmt"
)

type StringBuilderCloser struct {
	strings.Builder
}

func (*StringBuilderCloser) Close() error {
	return nil
}

const insertPrefix = "INSERT INTO `survey_data` (`id`,`azimuth`,`closure_to_id`,`color`,`comment`,`date`,`depth`," +
	"`depth_in`,`down`,`excluded`,`explorer`,`from_id`,`inclination`,`latitude`,`left`,`length`,`locked`," +
	"`longitude`,`name`,`profile_type`,`right`,`section`,`station_type`,`up`,`seq`) VALUES "

func dropCreate(hdr cavefile.Header) string {
	return "DROP TABLE IF EXISTS `survey_data`;\n" +
		"DROP TABLE IF EXISTS `survey_data_info`;\n" +
		sqlfmt.MySQL.CreateInfoTableStmt("survey_data") + "\n" +
		sqlfmt.MySQL.InsertStmt("survey_data_info", table.HeaderColumnNames(), table.HeaderValues(&hdr)) + "\n" +
		sqlfmt.MySQL.CreateTableStmt("survey_data") + "\n"
}

func TestWriteRow(t *testing.T) {
	hdr := cavefile.NewHeader()
	hdr.CaveName = "Doux de Coly"

	start := cavefile.NewDefaultRecord()
	start.StationType = cavefile.TypeStart
	start.Name = cavefile.Some("Bob's pool")

	leg := cavefile.NewDefaultRecord()
	leg.StationType = cavefile.TypeReal
	leg.ID = 1
	leg.Comment = cavefile.Some(`sump \ 2`)

	tests := []struct {
		name           string
		rows           []cavefile.Record
		expectedOutput string
	}{
		{
			name:           "no rows",
			expectedOutput: dropCreate(hdr),
		},
		{
			name: "embedded quotes",
			rows: []cavefile.Record{start},
			expectedOutput: dropCreate(hdr) + insertPrefix +
				`(0,'0.0',0,'0',NULL,'2021-01-01','0.0','0.0','0.0','false',NULL,0,'0.0','0.0','0.0','0.0','false','0.0','Bob''s pool','0','0.0',NULL,'START','0.0',0);` + "\n",
		},
		{
			name: "two rows",
			rows: []cavefile.Record{start, leg},
			expectedOutput: dropCreate(hdr) + insertPrefix +
				`(0,'0.0',0,'0',NULL,'2021-01-01','0.0','0.0','0.0','false',NULL,0,'0.0','0.0','0.0','0.0','false','0.0','Bob''s pool','0','0.0',NULL,'START','0.0',0);` + "\n" +
				insertPrefix +
				`(1,'0.0',0,'0','sump \\ 2','2021-01-01','0.0','0.0','0.0','false',NULL,0,'0.0','0.0','0.0','0.0','false','0.0',NULL,'0','0.0',NULL,'REAL','0.0',1);` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			wr := &StringBuilderCloser{}
			w := OpenSQLExportWriter(wr, table.DefaultTableName, sqlfmt.MySQL, hdr)

			for i := range tt.rows {
				require.NoError(t, w.WriteRow(ctx, &tt.rows[i]))
			}

			require.NoError(t, w.Close(ctx))
			assert.Equal(t, tt.expectedOutput, wr.String())
		})
	}
}
