package repository

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matches the lookup
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a constraint
	ErrConflict = errors.New("integrity constraint violation")
)

// isIntegrityViolation reports SQLSTATE class 23 errors from either driver
func isIntegrityViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code.Class() == "23" {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return true
	}
	return false
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// inClause renders "$start, $start+1, ..." and the matching args for an id list
func inClause(ids []int64, start int) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(start+i)
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}
