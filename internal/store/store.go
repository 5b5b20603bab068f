// To handle all database interactions. This is our
// data access layer, keeping SQL queries separate from business logic.

package store

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/vrsandeep/showtime-go/internal/apperr"
)

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// isUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY constraint.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// notFoundIfNoRows converts sql.ErrNoRows into a NotFound error and leaves
// every other error untouched.
func notFoundIfNoRows(err error, op, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		e := apperr.NotFoundf(op, format, args...)
		e.Err = err
		return e
	}
	return err
}

// expectAffected turns a zero-row mutation into a NotFound error.
func expectAffected(res sql.Result, op, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFoundf(op, format, args...)
	}
	return nil
}
