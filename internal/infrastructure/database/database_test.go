package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esekoir.db")

	db, err := Open(path)
	require.NoError(t, err)

	var applied int
	require.NoError(t, db.Conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)

	var currencies int
	require.NoError(t, db.Conn.QueryRow("SELECT COUNT(*) FROM currencies").Scan(&currencies))
	assert.Equal(t, 6, currencies)
}

func TestWithTxRollsBack(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = WithTx(context.Background(), db.Conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO site_settings (key, value, updated_at) VALUES ('k', '1', 0)"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.Conn.QueryRow("SELECT COUNT(*) FROM site_settings").Scan(&n))
	assert.Zero(t, n)
}

func TestSplitStatementsKeepsQuotedSemicolons(t *testing.T) {
	got := splitStatements("INSERT INTO t VALUES ('a;b');\nSELECT 1;  ;SELECT 'it''s'")
	assert.Equal(t, []string{"INSERT INTO t VALUES ('a;b')", "SELECT 1", "SELECT 'it''s'"}, got)
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.Panics(t, func() {
		_ = WithTx(context.Background(), db.Conn, func(tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO site_settings (key, value, updated_at) VALUES ('k', '1', 0)")
			require.NoError(t, err)
			panic("boom")
		})
	})

	var n int
	require.NoError(t, db.Conn.QueryRow("SELECT COUNT(*) FROM site_settings").Scan(&n))
	assert.Zero(t, n)
}
