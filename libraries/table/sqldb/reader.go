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

package sqldb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/table/sqlfmt"
)

// SQLTableReader reads station records from a station table. Columns are matched by name: columns the table lacks
// keep their defaults and columns it has in addition are ignored. Rows are read in seq order when the table has a
// seq column.
type SQLTableReader struct {
	db      *sqlx.DB
	ownsDB  bool
	rows    *sqlx.Rows
	cols    []*table.Column
	hdr     cavefile.Header
	numRead int
}

var _ table.TableReadCloser = (*SQLTableReader)(nil)

// OpenSQLTableReader connects to dsn and reads tableName. Closing the reader closes the connection.
func OpenSQLTableReader(ctx context.Context, dsn DSN, tableName string) (*SQLTableReader, error) {
	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	rd, err := NewSQLTableReader(ctx, db, dsn.Dialect, tableName)
	if err != nil {
		db.Close()
		return nil, err
	}

	rd.ownsDB = true
	return rd, nil
}

// NewSQLTableReader reads tableName from db.
func NewSQLTableReader(ctx context.Context, db *sqlx.DB, dialect sqlfmt.Dialect, tableName string) (*SQLTableReader, error) {
	existing, err := tableColumns(ctx, db, dialect, tableName)
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, fmt.Sprintf("reading table '%s': %s", tableName, err.Error()))
	}

	var names []string
	var cols []*table.Column
	orderBy := ""
	for i := range table.Columns {
		if existing[table.Columns[i].Name] {
			names = append(names, table.Columns[i].Name)
			cols = append(cols, &table.Columns[i])
		}
	}

	if len(cols) == 0 {
		return nil, cavefile.ErrMalformedInput.New(fmt.Sprintf("table '%s' has none of the station columns", tableName))
	}

	if existing[sqlfmt.SeqColumn] {
		orderBy = sqlfmt.SeqColumn
	}

	hdr, err := readHeader(ctx, db, dialect, tableName)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryxContext(ctx, dialect.SelectStmt(tableName, names, orderBy))
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	logrus.Debugf("reading %d columns of table '%s'", len(cols), tableName)
	return &SQLTableReader{db: db, rows: rows, cols: cols, hdr: hdr}, nil
}

func tableColumns(ctx context.Context, db *sqlx.DB, dialect sqlfmt.Dialect, tableName string) (map[string]bool, error) {
	rows, err := db.QueryxContext(ctx, "SELECT * FROM "+dialect.QuoteIdentifier(tableName)+" WHERE 1=0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[strings.ToLower(name)] = true
	}

	return existing, nil
}

// readHeader reads the header table of tableName. A missing or empty header table yields the default header.
func readHeader(ctx context.Context, db *sqlx.DB, dialect sqlfmt.Dialect, tableName string) (cavefile.Header, error) {
	hdr := cavefile.NewHeader()
	infoTable := table.InfoTableName(tableName)

	existing, err := tableColumns(ctx, db, dialect, infoTable)
	if err != nil {
		logrus.Debugf("no header table '%s': %v", infoTable, err)
		return hdr, nil
	}

	var names []string
	var cols []table.HeaderColumn
	for _, col := range table.HeaderColumns {
		if existing[col.Name] {
			names = append(names, col.Name)
			cols = append(cols, col)
		}
	}

	if len(cols) == 0 {
		return hdr, nil
	}

	rows, err := db.QueryxContext(ctx, dialect.SelectStmt(infoTable, names, ""))
	if err != nil {
		return hdr, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}
	defer rows.Close()

	if !rows.Next() {
		return hdr, rows.Err()
	}

	vals, err := rows.SliceScan()
	if err != nil {
		return hdr, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	for i, col := range cols {
		if s, ok := sqlValueString(vals[i]); ok {
			col.SetString(&hdr, s)
		}
	}

	return hdr, nil
}

// sqlValueString converts a scanned value to text. It returns false for NULL.
func sqlValueString(val interface{}) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s, true
	case bool:
		return strconv.FormatBool(v), true
	}

	return fmt.Sprint(val), true
}

// GetHeader returns the header read from the header table.
func (rd *SQLTableReader) GetHeader() cavefile.Header {
	return rd.hdr
}

// ReadRow reads the next row. NULL in an optional column is an absent field and NULL in any other column keeps the
// field's default, except for integer columns where it makes the row a table.BadRow.
func (rd *SQLTableReader) ReadRow(ctx context.Context) (*cavefile.Record, error) {
	if rd.rows == nil {
		return nil, errors.New("already closed")
	}

	if !rd.rows.Next() {
		if err := rd.rows.Err(); err != nil {
			return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
		}

		return nil, io.EOF
	}

	rd.numRead++
	vals, err := rd.rows.SliceScan()
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	r := cavefile.NewDefaultRecord()
	var details []string
	for i, col := range rd.cols {
		s, ok := sqlValueString(vals[i])
		if !ok {
			if col.Kind == table.IntColumn {
				details = append(details, fmt.Sprintf("column %s is NULL", col.Name))
			}
			continue
		}

		if err := col.SetString(&r, s); err != nil {
			details = append(details, err.Error())
		}
	}

	if len(details) > 0 {
		return nil, table.NewBadRow(&r, rd.numRead, details...)
	}

	return &r, nil
}

// Close releases the result set, and the connection if the reader opened it.
func (rd *SQLTableReader) Close(ctx context.Context) error {
	if rd.rows == nil {
		return errors.New("already closed")
	}

	err := rd.rows.Close()
	rd.rows = nil

	if rd.ownsDB {
		if dbErr := rd.db.Close(); err == nil {
			err = dbErr
		}
	}

	return err
}
