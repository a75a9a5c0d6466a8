package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLite keeps records in a single table of a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and prepares the schema.
// Use ":memory:" for a throwaway store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			record_type INTEGER NOT NULL,
			slot        INTEGER NOT NULL,
			data        BLOB NOT NULL,
			updated_at  INTEGER NOT NULL DEFAULT (unixepoch()),
			PRIMARY KEY (record_type, slot)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error creating records table: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Write(data []byte, typ RecordType, slot int) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.Exec(`
		INSERT INTO records (record_type, slot, data, updated_at)
		VALUES (?, ?, ?, unixepoch())
		ON CONFLICT(record_type, slot) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, uint8(typ), slot, data)
	return err
}

func (s *SQLite) Read(typ RecordType, slot int) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM records WHERE record_type = ? AND slot = ?`,
		uint8(typ), slot,
	).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return data, nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLite)(nil)
