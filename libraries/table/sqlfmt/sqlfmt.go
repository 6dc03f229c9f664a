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

package sqlfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cavesurvey/tmlu/libraries/table"
)

// SeqColumn records the position of each station in its document, so that a table can be read back in document
// order. Tables without it are read in whatever order the database returns.
const SeqColumn = "seq"

// Dialect selects the identifier quoting and string escaping of a SQL flavor.
type Dialect int

const (
	SQLite Dialect = iota
	MySQL
	Postgres
)

// DialectForDriver returns the dialect spoken by the named database/sql driver.
func DialectForDriver(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql":
		return Postgres, nil
	}

	return SQLite, fmt.Errorf("unsupported sql driver '%s'", driver)
}

// DriverName returns the name the dialect's driver registers with database/sql.
func (d Dialect) DriverName() string {
	switch d {
	case MySQL:
		return "mysql"
	case Postgres:
		return "postgres"
	default:
		return "sqlite"
	}
}

func (d Dialect) String() string {
	return d.DriverName()
}

// QuoteIdentifier quotes a table or column name.
func (d Dialect) QuoteIdentifier(s string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	}

	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func (d Dialect) quoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = d.QuoteIdentifier(name)
	}

	return strings.Join(quoted, ",")
}

// QuoteString quotes a string literal.
func (d Dialect) QuoteString(s string) string {
	if d == MySQL {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}

	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// ValueAsSqlString renders a column value as a literal. nil is NULL.
func (d Dialect) ValueAsSqlString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case string:
		return d.QuoteString(v)
	}

	panic(fmt.Sprintf("unexpected column value type %T", val))
}

// StationColumnNames returns the columns of a station table created by CreateTableStmt, in order.
func StationColumnNames() []string {
	return append(table.ColumnNames(), SeqColumn)
}

// CreateTableStmt returns the statement creating a station table.
func (d Dialect) CreateTableStmt(tableName string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(d.QuoteIdentifier(tableName))
	b.WriteString(" (\n")

	for _, col := range table.Columns {
		b.WriteString("  ")
		b.WriteString(d.QuoteIdentifier(col.Name))

		switch {
		case col.PK:
			b.WriteString(" INTEGER PRIMARY KEY")
		case col.Kind == table.IntColumn:
			b.WriteString(" INTEGER")
		case col.Kind == table.NullableTextColumn:
			b.WriteString(" TEXT NULL")
		default:
			b.WriteString(" TEXT")
		}

		b.WriteString(",\n")
	}

	b.WriteString("  ")
	b.WriteString(d.QuoteIdentifier(SeqColumn))
	b.WriteString(" INTEGER\n);")

	return b.String()
}

// CreateInfoTableStmt returns the statement creating the header table of a station table.
func (d Dialect) CreateInfoTableStmt(tableName string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(d.QuoteIdentifier(table.InfoTableName(tableName)))
	b.WriteString(" (\n")

	for i, col := range table.HeaderColumns {
		if i > 0 {
			b.WriteString(",\n")
		}

		b.WriteString("  ")
		b.WriteString(d.QuoteIdentifier(col.Name))
		b.WriteString(" TEXT")
	}

	b.WriteString("\n);")

	return b.String()
}

// DropTableIfExistsStmt returns a statement dropping the table if it exists.
func (d Dialect) DropTableIfExistsStmt(tableName string) string {
	return "DROP TABLE IF EXISTS " + d.QuoteIdentifier(tableName) + ";"
}

// InsertStmt returns an insert statement with literal values.
func (d Dialect) InsertStmt(tableName string, cols []string, vals []interface{}) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.QuoteIdentifier(tableName))
	b.WriteString(" (")
	b.WriteString(d.quoteIdentifiers(cols))
	b.WriteString(") VALUES (")

	for i, val := range vals {
		if i > 0 {
			b.WriteRune(',')
		}
		b.WriteString(d.ValueAsSqlString(val))
	}

	b.WriteString(");")

	return b.String()
}

// InsertPlaceholderStmt returns an insert statement with ? bind variables, to be rebound for the driver.
func (d Dialect) InsertPlaceholderStmt(tableName string, cols []string) string {
	return "INSERT INTO " + d.QuoteIdentifier(tableName) + " (" + d.quoteIdentifiers(cols) + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",") + ")"
}

// SelectStmt returns a query reading cols from a table, ordered by orderBy when it is not empty.
func (d Dialect) SelectStmt(tableName string, cols []string, orderBy string) string {
	q := "SELECT " + d.quoteIdentifiers(cols) + " FROM " + d.QuoteIdentifier(tableName)
	if orderBy != "" {
		q += " ORDER BY " + d.QuoteIdentifier(orderBy)
	}

	return q
}

// StationRowValues returns the values of a station row, seq last.
func StationRowValues(vals []interface{}, seq int) []interface{} {
	return append(vals, int64(seq))
}
