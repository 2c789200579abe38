package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/client/storage"
	_ "modernc.org/sqlite"
)

// Store keeps tab scoped values in a local sqlite file so a session
// survives a restart of the client within the same tab scope.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ storage.Storage = (*Store)(nil)

// NewStore opens dsn. Use ":memory:" for tests.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Get(ctx context.Context, scope, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM tab_storage WHERE scope = ? AND key = ?`,
		scope, key,
	).Scan(&value)
	if err != nil {
		return "", mapNotFound(err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, scope, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tab_storage (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, value, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys in one transaction.
func (s *Store) Delete(ctx context.Context, scope string, keys ...string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM tab_storage WHERE scope = ? AND key = ?`, scope, k,
			); err != nil {
				return fmt.Errorf("sqlite delete %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *Store) PurgeScope(ctx context.Context, scope string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tab_storage WHERE scope = ?`, scope)
	return err
}

// DeleteStale removes every row not written since olderThan, across all
// scopes. Tabs that were closed without logging out leave such rows behind.
func (s *Store) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tab_storage WHERE updated_at < ?`, olderThan.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}
