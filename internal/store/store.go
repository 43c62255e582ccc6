package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Config selects the backing database for the store. SQLite is the default
// and needs no DSN: the database file lives under DataDir (in-memory when
// DataDir is empty). Postgres and MySQL require an explicit DSN.
type Config struct {
	Driver  string // sqlite (default), postgres, mysql
	DSN     string
	DataDir string // sqlite only
}

// Store persists the back office's state: admin accounts, server-side
// sessions, and orders. It is the single owned handle for all storage;
// open it once at startup and thread it through dependency injection.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the configured database and runs migrations. It fails
// hard on any setup problem rather than limping along with a half-ready
// handle.
func Open(cfg Config) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch driver {
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			if cfg.DataDir == "" {
				dsn = ":memory:?_journal_mode=WAL"
			} else {
				if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
					return nil, fmt.Errorf("create data dir: %w", err)
				}
				dsn = filepath.Join(cfg.DataDir, "orderdesk.db") + "?_journal_mode=WAL&_busy_timeout=5000"
			}
		}
		db, err = sqlx.Connect("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}

	case "postgres":
		db, err = sqlx.Connect("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres database: %w", err)
		}

	case "mysql":
		dsn := cfg.DSN
		// Timestamps scan as time.Time only with parseTime enabled.
		if !strings.Contains(dsn, "parseTime") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
		db, err = sqlx.Connect("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported store driver: %q", driver)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind translates `?` placeholders to the driver's bindvar style.
func (s *Store) rebind(q string) string {
	return s.db.Rebind(q)
}

// insertID executes a named INSERT and returns the generated row ID.
// Postgres has no LastInsertId, so it goes through RETURNING instead.
func (s *Store) insertID(ctx context.Context, q string, arg interface{}) (int64, error) {
	if s.driver == "postgres" {
		rows, err := sqlx.NamedQueryContext(ctx, s.db, q+" RETURNING id", arg)
		if err != nil {
			return 0, err
		}
		defer rows.Close()
		if !rows.Next() {
			return 0, fmt.Errorf("insert returned no id")
		}
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		return id, rows.Err()
	}

	result, err := s.db.NamedExecContext(ctx, q, arg)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// isConflict reports whether err is a uniqueness violation from any of the
// supported drivers. The constraint is the arbiter for create races: two
// concurrent inserts of the same key must surface exactly one conflict here,
// never two silently-created duplicates.
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
