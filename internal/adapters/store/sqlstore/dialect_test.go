package sqlstore

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	pg, err := dialectFor(DriverPostgres)
	require.NoError(t, err)

	lite, err := dialectFor(DriverSQLite)
	require.NoError(t, err)

	query := `SELECT id FROM resources WHERE id IN (?, ?) AND title = ?`

	assert.Equal(t, `SELECT id FROM resources WHERE id IN ($1, $2) AND title = $3`, pg.rebind(query))
	assert.Equal(t, query, lite.rebind(query))
}

func TestDSN(t *testing.T) {
	lite, err := dialectFor(DriverSQLite)
	require.NoError(t, err)

	assert.Equal(t,
		"file:feed.db?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		lite.dsn("file:feed.db"))
	assert.Contains(t, lite.dsn("file:feed.db?cache=shared"), "cache=shared&_pragma=")

	pg, err := dialectFor(DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/feed", pg.dsn("postgres://localhost/feed"))
}

func TestPlaceholders(t *testing.T) {
	assert.Empty(t, placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	pg, err := dialectFor(DriverPostgres)
	require.NoError(t, err)

	assert.True(t, pg.isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, pg.isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, pg.isUniqueViolation(errors.New("boom")))
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		src  any
	}{
		{"native time", want.In(time.FixedZone("KST", 9*3600))},
		{"fixed width text", want.Format(sqliteTimeLayout)},
		{"rfc3339 bytes", []byte(want.Format(time.RFC3339))},
		{"sqlite datetime", "2025-03-01 09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timestamp
			require.NoError(t, ts.Scan(tt.src))
			assert.True(t, want.Equal(ts.Time))
		})
	}

	var ts timestamp
	assert.Error(t, ts.Scan(42))
	assert.Error(t, ts.Scan("yesterday"))
}

func TestSQLiteTimeLayout_SortsLexically(t *testing.T) {
	lite, err := dialectFor(DriverSQLite)
	require.NoError(t, err)

	whole := lite.timeArg(time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC)).(string)
	fraction := lite.timeArg(time.Date(2025, 1, 1, 0, 0, 0, 500, time.UTC)).(string)

	assert.Less(t, fraction, whole)
}
