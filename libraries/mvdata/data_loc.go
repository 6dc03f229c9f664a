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

package mvdata

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/table/sqldb"
	"github.com/cavesurvey/tmlu/libraries/table/sqlfmt"
	"github.com/cavesurvey/tmlu/libraries/table/typed/json"
	"github.com/cavesurvey/tmlu/libraries/table/typed/tmlu"
	"github.com/cavesurvey/tmlu/libraries/table/untyped/sqlexport"
	"github.com/cavesurvey/tmlu/libraries/table/untyped/xlsx"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

// DataFormat is an enumeration of the valid data formats
type DataFormat string

const (
	// InvalidDataFormat is the format of a data location that isn't valid
	InvalidDataFormat DataFormat = "invalid"

	// TmluFile is the format of a data location that is a cave file
	TmluFile DataFormat = "tmlu"

	// SqliteDB is the format of a data location that is a sqlite database file
	SqliteDB DataFormat = "sqlite"

	// MysqlDB is the format of a data location that is a mysql server url
	MysqlDB DataFormat = "mysql"

	// PostgresDB is the format of a data location that is a postgres server url
	PostgresDB DataFormat = "postgres"

	// JsonFile is the format of a data location that is a json file
	JsonFile DataFormat = "json"

	// XlsxFile is the format of a data location that is a .xlsx file
	XlsxFile DataFormat = "xlsx"

	// SqlFile is the format of a data location that is a .sql file
	SqlFile DataFormat = "sql"
)

var ErrUnsupportedSource = errors.New("format cannot be read from")
var ErrUnsupportedDest = errors.New("format cannot be written to")

// ReadableStr returns a human readable string for a DataFormat
func (df DataFormat) ReadableStr() string {
	switch df {
	case TmluFile:
		return "cave file"
	case SqliteDB:
		return "sqlite database"
	case MysqlDB:
		return "mysql database"
	case PostgresDB:
		return "postgres database"
	case JsonFile:
		return "json file"
	case XlsxFile:
		return "xlsx file"
	case SqlFile:
		return "sql file"
	}

	return "invalid"
}

// IsDatabase returns true for formats that are reached through a database connection.
func (df DataFormat) IsDatabase() bool {
	return df == SqliteDB || df == MysqlDB || df == PostgresDB
}

// CanRead returns true if stations can be read from a location of this format.
func (df DataFormat) CanRead() bool {
	switch df {
	case TmluFile, SqliteDB, MysqlDB, PostgresDB, XlsxFile:
		return true
	}

	return false
}

// CanWrite returns true if stations can be written to a location of this format.
func (df DataFormat) CanWrite() bool {
	return df != InvalidDataFormat
}

// DFFromString returns a data format from a string
func DFFromString(dfStr string) DataFormat {
	switch strings.ToLower(dfStr) {
	case "tmlu", ".tmlu", "xml", ".xml":
		return TmluFile
	case "sqlite", ".sqlite", "sqlite3", ".sqlite3", ".db":
		return SqliteDB
	case "mysql":
		return MysqlDB
	case "postgres", "postgresql":
		return PostgresDB
	case "json", ".json":
		return JsonFile
	case "xlsx", ".xlsx":
		return XlsxFile
	case "sql", ".sql":
		return SqlFile
	}

	return InvalidDataFormat
}

// DataLocation is a file or database that stations can be read from or written to.
type DataLocation struct {
	// Path is a file path, or a server url for mysql and postgres
	Path string

	// Format is the format of the data at Path
	Format DataFormat
}

// NewDataLocation creates a DataLocation for path. When fileFmtStr is empty the format is inferred from the
// path's url scheme or file extension.
func NewDataLocation(path, fileFmtStr string) DataLocation {
	if fileFmtStr != "" {
		return DataLocation{path, DFFromString(fileFmtStr)}
	}

	if sqldb.IsServerURL(path) {
		scheme := strings.ToLower(path[:strings.Index(path, ":")])
		return DataLocation{path, DFFromString(scheme)}
	}

	return DataLocation{path, DFFromString(filepath.Ext(path))}
}

// String returns a string representation of the data location. Passwords in server urls are redacted.
func (dl DataLocation) String() string {
	path := dl.Path
	if dl.Format == MysqlDB || dl.Format == PostgresDB {
		if dsn, err := sqldb.ParseDSN(dl.Path); err == nil {
			path = dsn.Display
		}
	}

	return dl.Format.ReadableStr() + ":" + path
}

// IsFileType returns true if the location is a file on the filesystem.
func (dl DataLocation) IsFileType() bool {
	return dl.Format != InvalidDataFormat && dl.Format != MysqlDB && dl.Format != PostgresDB
}

// Exists returns true if the DataLocation already exists. Database servers are assumed to exist.
func (dl DataLocation) Exists(fs filesys.ReadableFS) bool {
	if !dl.IsFileType() {
		return dl.Format != InvalidDataFormat
	}

	exists, isDir := fs.Exists(dl.Path)
	return exists && !isDir
}

func (dl DataLocation) dsn() (sqldb.DSN, error) {
	dsn, err := sqldb.ParseDSN(dl.Path)
	if err != nil {
		return sqldb.DSN{}, cavefile.ErrIOFailure.Wrap(err, err.Error())
	}

	if string(dl.Format) != dsn.Dialect.DriverName() {
		return sqldb.DSN{}, fmt.Errorf("'%s' is not a %s", dsn.Display, dl.Format.ReadableStr())
	}

	return dsn, nil
}

// NewReader creates a TableReadCloser for the DataLocation. Database files are opened with the sqlite driver
// directly, so they must be on the local filesystem.
func (dl DataLocation) NewReader(ctx context.Context, fs filesys.ReadableFS, opts *MoveOptions) (table.TableReadCloser, error) {
	opts = opts.orDefault()

	switch dl.Format {
	case TmluFile:
		return tmlu.OpenReader(fs, dl.Path)

	case XlsxFile:
		return xlsx.OpenXLSXReader(fs, dl.Path, opts.SheetName)

	case SqliteDB, MysqlDB, PostgresDB:
		dsn, err := dl.dsn()
		if err != nil {
			return nil, err
		}

		return sqldb.OpenSQLTableReader(ctx, dsn, opts.TableName)
	}

	return nil, ErrUnsupportedSource
}

// NewWriter creates a TableWriteCloser that replaces the contents of the DataLocation. Nothing written is visible
// at the location until the writer is closed, and aborting the writer leaves the location as it was.
func (dl DataLocation) NewWriter(ctx context.Context, fs filesys.WritableFS, hdr cavefile.Header, opts *MoveOptions) (table.TableWriteCloser, error) {
	opts = opts.orDefault()

	switch dl.Format {
	case TmluFile:
		return tmlu.OpenWriter(fs, dl.Path, hdr, cavefile.WithLayout(opts.Layout))

	case JsonFile:
		return json.OpenJSONWriter(fs, dl.Path, opts.JSONIndent)

	case XlsxFile:
		return xlsx.OpenXLSXWriter(fs, dl.Path, opts.SheetName, hdr)

	case SqlFile:
		return sqlexport.OpenSQLExportFile(fs, dl.Path, opts.TableName, opts.SQLDialect, hdr)

	case SqliteDB, MysqlDB, PostgresDB:
		dsn, err := dl.dsn()
		if err != nil {
			return nil, err
		}

		return sqldb.OpenSQLTableWriter(ctx, dsn, opts.TableName, hdr)
	}

	return nil, ErrUnsupportedDest
}

// MoveOptions are the format specific settings used when opening readers and writers.
type MoveOptions struct {
	// TableName is the station table of database and sql script locations
	TableName string

	// SheetName is the station sheet of xlsx locations
	SheetName string

	// Layout is the whitespace layout of written cave files
	Layout cavefile.Layout

	// JSONIndent is the indent of written json files
	JSONIndent string

	// SQLDialect is the dialect of written sql scripts
	SQLDialect sqlfmt.Dialect

	// ContOnErr skips rows that cannot be converted instead of failing
	ContOnErr bool
}

// DefaultMoveOptions returns the options used when none are given.
func DefaultMoveOptions() *MoveOptions {
	return &MoveOptions{
		TableName:  table.DefaultTableName,
		SheetName:  table.DefaultTableName,
		Layout:     cavefile.LineLayout,
		JSONIndent: json.DefaultIndent,
		SQLDialect: sqlfmt.SQLite,
	}
}

func (opts *MoveOptions) orDefault() *MoveOptions {
	if opts == nil {
		return DefaultMoveOptions()
	}

	return opts
}
