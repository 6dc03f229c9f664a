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
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/table/sqlfmt"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
	"github.com/cavesurvey/tmlu/libraries/utils/iohelp"
)

// SqlExportWriter is a TableWriter that writes SQL drop, create and insert statements that re-create a survey as a
// station table and its header table.
type SqlExportWriter struct {
	tableName       string
	dialect         sqlfmt.Dialect
	hdr             cavefile.Header
	closer          io.WriteCloser
	wr              *bufio.Writer
	rowsWritten     int
	writtenFirstRow bool
}

var _ table.TableWriteCloser = (*SqlExportWriter)(nil)
var _ table.TableAborter = (*SqlExportWriter)(nil)

// OpenSQLExportFile creates a writer for a script at path. Nothing is visible at path until the writer is closed.
func OpenSQLExportFile(fs filesys.WritableFS, path string, tableName string, dialect sqlfmt.Dialect, hdr cavefile.Header) (*SqlExportWriter, error) {
	wr, err := filesys.OpenAtomic(fs, path, os.ModePerm)
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	return OpenSQLExportWriter(wr, tableName, dialect, hdr), nil
}

// OpenSQLExportWriter returns a new SqlWriter for the table with the writer given.
func OpenSQLExportWriter(wr io.WriteCloser, tableName string, dialect sqlfmt.Dialect, hdr cavefile.Header) *SqlExportWriter {
	return &SqlExportWriter{
		tableName: tableName,
		dialect:   dialect,
		hdr:       hdr,
		closer:    wr,
		wr:        bufio.NewWriter(wr),
	}
}

// WriteRow will write a row to a table
func (w *SqlExportWriter) WriteRow(ctx context.Context, r *cavefile.Record) error {
	if w.closer == nil {
		return errors.New("already closed")
	}

	if err := w.maybeWriteDropCreate(); err != nil {
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	stmt := w.dialect.InsertStmt(w.tableName, sqlfmt.StationColumnNames(), sqlfmt.StationRowValues(table.RowValues(r), w.rowsWritten))
	if err := iohelp.WriteLine(w.wr, stmt); err != nil {
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	w.rowsWritten++
	return nil
}

func (w *SqlExportWriter) maybeWriteDropCreate() error {
	if w.writtenFirstRow {
		return nil
	}

	infoTable := table.InfoTableName(w.tableName)

	var b strings.Builder
	b.WriteString(w.dialect.DropTableIfExistsStmt(w.tableName))
	b.WriteRune('\n')
	b.WriteString(w.dialect.DropTableIfExistsStmt(infoTable))
	b.WriteRune('\n')
	b.WriteString(w.dialect.CreateInfoTableStmt(w.tableName))
	b.WriteRune('\n')
	b.WriteString(w.dialect.InsertStmt(infoTable, table.HeaderColumnNames(), table.HeaderValues(&w.hdr)))
	b.WriteRune('\n')
	b.WriteString(w.dialect.CreateTableStmt(w.tableName))

	if err := iohelp.WriteLine(w.wr, b.String()); err != nil {
		return err
	}

	w.writtenFirstRow = true
	return nil
}

// Close should flush all writes, release resources being held
func (w *SqlExportWriter) Close(ctx context.Context) error {
	if w.closer == nil {
		return errors.New("already closed")
	}

	// exporting an empty survey will not get any WriteRow calls, so write the drop / create here
	err := w.maybeWriteDropCreate()
	if err == nil {
		err = w.wr.Flush()
	}

	errCl := w.closer.Close()
	w.closer = nil

	if err != nil {
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	} else if errCl != nil {
		return cavefile.ErrIOFailure.Wrap(errCl, errCl.Error())
	}

	return nil
}

// Abort discards the script if the destination supports it.
func (w *SqlExportWriter) Abort(ctx context.Context) error {
	if w.closer == nil {
		return nil
	}

	closer := w.closer
	w.closer = nil

	if ab, ok := closer.(interface{ Abort() error }); ok {
		return ab.Abort()
	}

	return closer.Close()
}
