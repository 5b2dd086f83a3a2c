package sqlstore

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

//go:embed schema_postgres.sql
var postgresSchema string

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqliteTimeLayout is fixed width so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// dialect captures what differs between SQLite and Postgres.
type dialect struct {
	name   string
	schema string

	// applied to every pooled connection through the DSN
	pragmas []string

	// numbered placeholders ($1, $2) instead of ?
	numbered bool
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite:
		return dialect{
			name:   DriverSQLite,
			schema: sqliteSchema,
			pragmas: []string{
				"journal_mode(WAL)",
				"synchronous(NORMAL)",
				"foreign_keys(1)",
				"busy_timeout(5000)",
			},
		}, nil
	case DriverPostgres:
		return dialect{
			name:     DriverPostgres,
			schema:   postgresSchema,
			numbered: true,
		}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// dsn appends the dialect's connection pragmas to a SQLite DSN.
func (d dialect) dsn(raw string) string {
	if len(d.pragmas) == 0 {
		return raw
	}

	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}

	params := make([]string, len(d.pragmas))
	for i, p := range d.pragmas {
		params[i] = "_pragma=" + p
	}

	return raw + sep + strings.Join(params, "&")
}

// rebind rewrites ? placeholders for the dialect.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder

	b.Grow(len(query) + 8)

	n := 0

	for _, r := range query {
		if r == '?' {
			n++

			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// timeArg converts a time into the value stored in timestamp columns.
func (d dialect) timeArg(t time.Time) any {
	if d.name == DriverSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}

	return t.UTC()
}

// isUniqueViolation reports whether err is a unique constraint failure.
func (d dialect) isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch code := liteErr.Code(); {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE, code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case code&0xff == sqlite3.SQLITE_CONSTRAINT:
			// primary result code only; the message names the constraint kind
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}

	return false
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}

	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// int64Args converts ids into query arguments.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return args
}

// timestamp scans both SQLite text timestamps and native Postgres timestamps.
type timestamp struct {
	time.Time
}

// Scan implements sql.Scanner.
func (ts *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		ts.Time = v.UTC()

		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		ts.Time = time.Time{}

		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (ts *timestamp) parse(s string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t.UTC()

			return nil
		}
	}

	return fmt.Errorf("unrecognised timestamp %q", s)
}
