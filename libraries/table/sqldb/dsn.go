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
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table/sqlfmt"
)

const (
	MySQLScheme        = "mysql://"
	PostgresScheme     = "postgres://"
	PostgresLongScheme = "postgresql://"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DSN names a database and the dialect used to reach it.
type DSN struct {
	Dialect sqlfmt.Dialect
	// DataSource is the driver specific data source name.
	DataSource string
	// Display is safe to print: it never holds a password.
	Display string
}

// IsServerURL returns true if s is a mysql or postgres URL.
func IsServerURL(s string) bool {
	lwr := strings.ToLower(s)
	return strings.HasPrefix(lwr, MySQLScheme) || strings.HasPrefix(lwr, PostgresScheme) || strings.HasPrefix(lwr, PostgresLongScheme)
}

// ParseDSN converts a mysql:// or postgres:// URL into a driver data source name. Anything else is a sqlite
// database file path.
func ParseDSN(s string) (DSN, error) {
	lwr := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lwr, MySQLScheme):
		u, err := url.Parse(s)
		if err != nil {
			return DSN{}, err
		}

		cfg := mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}

		for k, vals := range u.Query() {
			if len(vals) > 0 {
				if cfg.Params == nil {
					cfg.Params = map[string]string{}
				}
				cfg.Params[k] = vals[len(vals)-1]
			}
		}

		return DSN{sqlfmt.MySQL, cfg.FormatDSN(), u.Redacted()}, nil

	case strings.HasPrefix(lwr, PostgresScheme), strings.HasPrefix(lwr, PostgresLongScheme):
		conn, err := pq.ParseURL(s)
		if err != nil {
			return DSN{}, err
		}

		display := s
		if u, err := url.Parse(s); err == nil {
			display = u.Redacted()
		}

		return DSN{sqlfmt.Postgres, conn, display}, nil
	}

	return DSN{sqlfmt.SQLite, s, s}, nil
}

// Open connects to the database.
func Open(ctx context.Context, dsn DSN) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, dsn.Dialect.DriverName(), dsn.DataSource)
	if err != nil {
		return nil, cavefile.ErrIOFailure.Wrap(err, "connecting to "+dsn.Display+": "+err.Error())
	}

	logrus.Debugf("connected to %s database %s", dsn.Dialect, dsn.Display)
	return db, nil
}
