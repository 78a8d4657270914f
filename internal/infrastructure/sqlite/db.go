// Package sqlite persists workspace layout snapshots. Persistence is
// opt-in; the workspace itself never touches the store.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/connmux/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the sqlite connection and owns its lifecycle.
type DB struct {
	conn *sql.DB
}

// NewDB opens (or creates) the database at path, backs up any existing
// file, and applies pending migrations. The parent directory is created
// with 0700 permissions if missing.
func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	// Back up before migrating so a bad migration never eats the only
	// copy of someone's layouts.
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".bak"); err != nil {
			return nil, fmt.Errorf("backing up store: %w", err)
		}
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(wal)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		path,
	)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging store: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrating store: %w", err)
	}

	log.Info(log.CatStore, "layout store ready", "path", path)
	return &DB{conn: conn}, nil
}

// runMigrations applies pending embedded migrations in version order.
// The migrations are walked through migrate's iofs source driver, but
// applied directly over the ncruces connection: migrate's sqlite
// database adapter links a second driver that also registers itself as
// "sqlite3", which panics at process init.
func runMigrations(conn *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := conn.Exec(
		"CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)",
	); err != nil {
		return fmt.Errorf("creating version table: %w", err)
	}
	var current sql.NullInt64
	if err := conn.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	version, err := src.First()
	for ; err == nil; version, err = src.Next(version) {
		if current.Valid && int64(version) <= current.Int64 {
			continue
		}
		if err := applyMigration(conn, src, version); err != nil {
			return err
		}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("walking migrations: %w", err)
	}
	return nil
}

// applyMigration runs one up migration and records its version, both
// inside a single transaction.
func applyMigration(conn *sql.DB, src source.Driver, version uint) error {
	r, name, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}
	defer func() { _ = r.Close() }()
	stmts, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", name, err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(stmts)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("applying migration %s: %w", name, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("recording migration %s: %w", name, err)
	}
	return tx.Commit()
}

// LayoutStore returns the layout snapshot store backed by this database.
func (d *DB) LayoutStore() *LayoutStore {
	return newLayoutStore(d.conn)
}

// Connection returns the underlying *sql.DB.
func (d *DB) Connection() *sql.DB {
	return d.conn
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
