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

	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/table/sqlfmt"
)

// SQLTableWriter replaces a station table and its header table inside one transaction. Close commits and Abort rolls
// back, leaving the previous tables in place.
type SQLTableWriter struct {
	db          *sqlx.DB
	ownsDB      bool
	tx          *sqlx.Tx
	tableName   string
	insert      string
	rowsWritten int
}

var _ table.TableWriteCloser = (*SQLTableWriter)(nil)
var _ table.TableAborter = (*SQLTableWriter)(nil)

// OpenSQLTableWriter connects to dsn and replaces tableName. Closing the writer closes the connection.
func OpenSQLTableWriter(ctx context.Context, dsn DSN, tableName string, hdr cavefile.Header) (*SQLTableWriter, error) {
	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	wr, err := NewSQLTableWriter(ctx, db, dsn.Dialect, tableName, hdr)
	if err != nil {
		db.Close()
		return nil, err
	}

	wr.ownsDB = true
	return wr, nil
}

// NewSQLTableWriter begins a transaction on db that drops and re-creates tableName and its header table.
func NewSQLTableWriter(ctx context.Context, db *sqlx.DB, dialect sqlfmt.Dialect, tableName string, hdr cavefile.Header) (*SQLTableWriter, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	infoTable := table.InfoTableName(tableName)
	stmts := []string{
		dialect.DropTableIfExistsStmt(tableName),
		dialect.DropTableIfExistsStmt(infoTable),
		dialect.CreateTableStmt(tableName),
		dialect.CreateInfoTableStmt(tableName),
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return nil, cavefile.ErrIOFailure.Wrap(err, pkgerrors.Wrapf(err, "creating table '%s'", tableName).Error())
		}
	}

	infoInsert := tx.Rebind(dialect.InsertPlaceholderStmt(infoTable, table.HeaderColumnNames()))
	if _, err := tx.ExecContext(ctx, infoInsert, table.HeaderValues(&hdr)...); err != nil {
		_ = tx.Rollback()
		return nil, cavefile.ErrIOFailure.Wrap(err, pkgerrors.Wrapf(err, "writing header to '%s'", infoTable).Error())
	}

	return &SQLTableWriter{
		db:        db,
		tx:        tx,
		tableName: tableName,
		insert:    tx.Rebind(dialect.InsertPlaceholderStmt(tableName, sqlfmt.StationColumnNames())),
	}, nil
}

// WriteRow inserts one station.
func (w *SQLTableWriter) WriteRow(ctx context.Context, r *cavefile.Record) error {
	if w.tx == nil {
		return errors.New("already closed")
	}

	vals := sqlfmt.StationRowValues(table.RowValues(r), w.rowsWritten)
	if _, err := w.tx.ExecContext(ctx, w.insert, vals...); err != nil {
		return cavefile.ErrIOFailure.Wrap(err, pkgerrors.Wrapf(err, "inserting station %d", r.ID).Error())
	}

	w.rowsWritten++
	return nil
}

// Close commits the transaction.
func (w *SQLTableWriter) Close(ctx context.Context) error {
	if w.tx == nil {
		return errors.New("already closed")
	}

	err := w.tx.Commit()
	w.tx = nil
	w.closeDB()

	if err != nil {
		return cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	logrus.Debugf("wrote %d rows to table '%s'", w.rowsWritten, w.tableName)
	return nil
}

// Abort rolls the transaction back.
func (w *SQLTableWriter) Abort(ctx context.Context) error {
	if w.tx == nil {
		return nil
	}

	err := w.tx.Rollback()
	w.tx = nil
	w.closeDB()

	return err
}

func (w *SQLTableWriter) closeDB() {
	if w.ownsDB {
		if err := w.db.Close(); err != nil {
			logrus.Errorf("closing database: %v", err)
		}
	}
}
