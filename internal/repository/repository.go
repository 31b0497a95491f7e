// Package repository implements all database queries for the event platform.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyJoined is returned when the same email joins an event twice.
var ErrAlreadyJoined = errors.New("user already joined this event")

// ErrConflict is returned when an update was based on a stale copy of the event.
var ErrConflict = errors.New("event was modified concurrently")

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a user search term into an ILIKE substring pattern
// with wildcard characters in the term matched literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
