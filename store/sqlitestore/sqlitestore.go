// Package sqlitestore is a [store.Store] on SQLite, one SQL table per
// [store.Table].
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sanjit-bhat/anchorage/store"
	"github.com/sanjit-bhat/anchorage/store/sqlitestore/migrations"
	_ "modernc.org/sqlite"
)

const migrationTable = "schema_migrations"

type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and applies embedded migrations.
// path ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	var dsn string
	if path == ":memory:" {
		dsn = path
	} else {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one connection, so ":memory:" is one database and writes never contend.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func tableName(t store.Table) (string, error) {
	if !store.Known(t) {
		return "", &store.UnknownTableError{Table: t}
	}
	return t.String(), nil
}

func (s *Store) Get(t store.Table, key []byte) ([]byte, bool, error) {
	return s.GetContext(context.Background(), t, key)
}

func (s *Store) GetContext(ctx context.Context, t store.Table, key []byte) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	name, err := tableName(t)
	if err != nil {
		return nil, false, err
	}
	var val []byte
	row := s.sqlDB.QueryRowContext(ctx, "SELECT val FROM "+name+" WHERE key = ?", key)
	if err := row.Scan(&val); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", name, err)
	}
	return val, true, nil
}

func (s *Store) Put(t store.Table, key, val []byte) error {
	return s.PutContext(context.Background(), t, key, val)
}

func (s *Store) PutContext(ctx context.Context, t store.Table, key, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := tableName(t)
	if err != nil {
		return err
	}
	if val == nil {
		val = []byte{}
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO `+name+` (key, val) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET val = excluded.val`,
		key,
		val,
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

// applyMigrations runs each embedded .sql file at most once.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	createSQL := `CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);`
	if _, err := sqlDB.Exec(createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range sqlFiles {
		var n int
		if err := sqlDB.QueryRow("SELECT COUNT(*) FROM "+migrationTable+" WHERE name = ?", file).Scan(&n); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if n > 0 {
			continue
		}
		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := extractUp(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		tx, err := sqlDB.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec("INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)", file, time.Now().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// extractUp returns the section after "-- +migrate Up",
// up to any "-- +migrate Down". files without markers run whole.
func extractUp(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	if i := strings.Index(content, up); i >= 0 {
		content = content[i+len(up):]
	}
	if i := strings.Index(content, down); i >= 0 {
		content = content[:i]
	}
	return content
}
