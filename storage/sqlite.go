package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite stores the slots as rows of a single key/value table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens, or creates, the database at path and brings its schema
// up to date.
func OpenSQLite(path string) (*SQLite, error) {
	if err := runMigrations(path); err != nil {
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	return &SQLite{db: db}, nil
}

// runMigrations applies every embedded up migration.
func runMigrations(path string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Close releases the database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Load(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("slot %q: %w", key, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("loading slot %q: %w", key, err)
	}
	return data, nil
}

const upsertSlot = `
	INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (s *SQLite) Save(key string, data []byte) error {
	if _, err := s.db.Exec(upsertSlot, key, data); err != nil {
		return fmt.Errorf("saving slot %q: %w", key, err)
	}
	return nil
}

// SaveAll saves every slot in a single transaction.
func (s *SQLite) SaveAll(slots map[string][]byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for key, data := range slots {
		if _, err := tx.Exec(upsertSlot, key, data); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("saving slot %q: %w", key, err)
		}
	}
	return tx.Commit()
}
