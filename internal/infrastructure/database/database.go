// Package database opens the SQLite store used by the self-hosted backend
// and applies the embedded schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"esekoir/pkg/logger"
)

// MemoryDSN opens a private in-memory database. Pair it with a single
// connection or every connection sees its own empty database.
const MemoryDSN = ":memory:?_pragma=foreign_keys(1)"

type DB struct {
	Conn *sql.DB
}

// New opens dbPath, or a private in-memory database for ":memory:", and
// brings its schema up to date from migrationsFS.
func New(dbPath string, migrationsFS fs.FS) (*DB, error) {
	dsn, err := dsnFor(dbPath)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// One writer at a time; a single connection also keeps :memory: shared.
	conn.SetMaxOpenConns(1)

	db := &DB{Conn: conn}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", dbPath, err)
	}
	if err := db.runMigrations(migrationsFS); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate %s: %w", dbPath, err)
	}

	logger.Info("[database] sqlite ready at %s", dbPath)
	return db, nil
}

func dsnFor(dbPath string) (string, error) {
	if strings.HasPrefix(dbPath, ":memory:") {
		return MemoryDSN, nil
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(dbPath), err)
	}
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
}

// Open is New with the migrations compiled into the binary.
func Open(dbPath string) (*DB, error) {
	migrations, err := fs.Sub(EmbeddedMigrations, "migrations")
	if err != nil {
		return nil, err
	}
	return New(dbPath, migrations)
}

func (db *DB) Close() error {
	return db.Conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Conn.PingContext(ctx)
}

// runMigrations applies, in filename order, every .sql file in fsys that
// schema_migrations does not list yet. Each file runs in its own transaction.
func (db *DB) runMigrations(fsys fs.FS) error {
	ctx := context.Background()
	if _, err := db.Conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	done, err := appliedMigrations(ctx, db.Conn)
	if err != nil {
		return err
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		if done[name] {
			continue
		}
		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := applyMigration(ctx, db.Conn, name, string(script)); err != nil {
			return err
		}
		logger.Info("[database] applied %s", name)
	}
	return nil
}

func appliedMigrations(ctx context.Context, q Querier) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("load schema_migrations: %w", err)
	}
	defer rows.Close()

	done := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		done[name] = true
	}
	return done, rows.Err()
}

func applyMigration(ctx context.Context, conn *sql.DB, name, script string) error {
	return WithTx(ctx, conn, func(tx *sql.Tx) error {
		for i, stmt := range splitStatements(script) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("%s: statement %d: %w", name, i+1, err)
			}
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name)
		return err
	})
}

// splitStatements cuts a script at semicolons that sit outside single-quoted
// literals. An escaped quote ('') flips the state twice and so leaves it alone.
func splitStatements(script string) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	quoted := false
	start := 0
	for i := 0; i < len(script); i++ {
		switch script[i] {
		case '\'':
			quoted = !quoted
		case ';':
			if !quoted {
				add(script[start:i])
				start = i + 1
			}
		}
	}
	add(script[start:])
	return out
}
