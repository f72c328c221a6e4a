package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Contact dates are calendar days, not instants.
const dateLayout = "2006-01-02"

// SQLiteStore implements Store on a local SQLite file. It is the default
// backend when no DATABASE_URL is configured.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS friends (
		name         TEXT PRIMARY KEY,
		location     TEXT NOT NULL DEFAULT '',
		last_contact TEXT
	);
	CREATE TABLE IF NOT EXISTS cells (
		name  TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Friends returns rows in rowid order, which is insertion order.
func (s *SQLiteStore) Friends(ctx context.Context) ([]Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, location, last_contact FROM friends ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []Friend
	for rows.Next() {
		var f Friend
		var last sql.NullString
		if err := rows.Scan(&f.Name, &f.Location, &last); err != nil {
			return nil, err
		}
		if last.Valid && last.String != "" {
			t, err := time.Parse(dateLayout, last.String)
			if err != nil {
				return nil, fmt.Errorf("friend %q: bad last_contact %q: %w", f.Name, last.String, err)
			}
			f.LastContact = t
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

func (s *SQLiteStore) UpdateFriend(ctx context.Context, name string, patch FriendPatch) error {
	var last any
	if !patch.LastContact.IsZero() {
		last = patch.LastContact.UTC().Format(dateLayout)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE friends SET last_contact = ? WHERE name = ?`, last, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrFriendNotFound, name)
	}
	return nil
}

func (s *SQLiteStore) Scalar(ctx context.Context, cell Cell) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cells WHERE name = ?`, string(cell)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrCellNotFound, cell)
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SQLiteStore) SetScalars(ctx context.Context, values map[Cell]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for cell, v := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cells (name, value) VALUES (?, ?)
			 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
			string(cell), v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return tx.Commit()
}

// AddFriend inserts a roster row. Rows are normally added by the user
// directly in the store; this exists for provisioning and tests.
func (s *SQLiteStore) AddFriend(ctx context.Context, f Friend) error {
	var last any
	if !f.LastContact.IsZero() {
		last = f.LastContact.UTC().Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friends (name, location, last_contact) VALUES (?, ?, ?)`,
		f.Name, f.Location, last)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
