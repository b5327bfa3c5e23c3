package pubindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Store is an ImageCache backed by a SQLite database.
type Store struct {
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
	closed atomic.Bool
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations. Entries older than ttl are
// treated as missing; ttl 0 keeps them forever.
func NewStore(path string, ttl time.Duration) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// WAL lets renders write while other requests read; the busy timeout
	// makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		return s.db.Close()
	}
	return nil
}

// Get returns the image stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrCacheClosed
	}
	var data []byte
	var created int64
	err := s.db.QueryRowContext(ctx, `SELECT data, created_at FROM preview_images WHERE key = ?`, key).
		Scan(&data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 && s.now().Sub(time.Unix(created, 0)) > s.ttl {
		return nil, ErrCacheMiss
	}
	return data, nil
}

// Set stores data under key, replacing any previous entry.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO preview_images (key, data, size, created_at) VALUES (?, ?, ?, ?)`,
		key, data, len(data), s.now().Unix())
	return err
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM preview_images WHERE key = ?`, key)
	return err
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if s.closed.Load() {
		return ErrCacheClosed
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM preview_images`)
	return err
}

// Purge removes entries older than the store's ttl and returns how many
// were removed. It does nothing when the ttl is 0.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM preview_images WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns the number of cached images and their total size in bytes.
func (s *Store) Stats(ctx context.Context) (count int, size int64, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(size), 0) FROM preview_images`).Scan(&count, &size)
	return count, size, err
}
