package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Kind tags a storage failure so callers can react without parsing driver errors.
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindUniqueViolation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUniqueViolation:
		return "unique constraint"
	default:
		return "other"
	}
}

// Error is a storage failure surfaced by the gateway.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify wraps err as an *Error tagged with its Kind. nil stays nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return err
	}

	kind := KindOther
	switch {
	case errors.Is(err, sql.ErrNoRows):
		kind = KindNotFound
	case isUniqueViolation(err):
		kind = KindUniqueViolation
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// IsKind reports whether err carries a storage *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var storageErr *Error
	return errors.As(err, &storageErr) && storageErr.Kind == kind
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}
