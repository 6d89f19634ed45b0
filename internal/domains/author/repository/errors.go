package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"booksite-backend/internal/domains/author/model"
)

const uniqueViolation = "23505"

// classify maps unique-constraint violations reported by any of the
// supported drivers onto the domain's duplicate errors. Other errors are
// returned unchanged.
func classify(err error) error {
	var detail string

	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	var liteErr sqlite3.Error
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		detail = pgErr.ConstraintName + " " + pgErr.Message
	case errors.As(err, &pqErr) && pqErr.Code == uniqueViolation:
		detail = pqErr.Constraint + " " + pqErr.Message
	case errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		detail = liteErr.Error()
	default:
		return err
	}

	detail = strings.ToLower(detail)
	switch {
	case strings.Contains(detail, strings.ToLower(model.FieldEmail)):
		return fmt.Errorf("%w: %w", model.ErrDuplicateEmail, err)
	case strings.Contains(detail, strings.ToLower(model.FieldUsername)):
		return fmt.Errorf("%w: %w", model.ErrDuplicateUsername, err)
	}
	return err
}
