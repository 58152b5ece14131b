// Package pg implements the service's persistence interfaces over PostgreSQL.
// Row-level security in the database remains a second enforcement layer
// beneath the authorization gate; nothing here relies on it for correctness.
package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Store wraps a database handle and implements the auth and agency store
// interfaces.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL using the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing handle (used by tests and the migrate command).
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw handle for readiness probes.
func (s *Store) DB() *sql.DB { return s.db }

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
