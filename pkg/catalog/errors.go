package catalog

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorCode classifies catalog failures.
type ErrorCode int

const (
	// ErrConnectionFailure indicates the metadata store could not be reached
	// at bootstrap.
	ErrConnectionFailure ErrorCode = iota + 1

	// ErrMigrationFailure indicates a schema migration could not be applied.
	ErrMigrationFailure

	// ErrNotFound indicates a lookup, update or delete matched no rows.
	ErrNotFound

	// ErrConstraintViolation indicates the store rejected a write (duplicate
	// name, dangling peer reference).
	ErrConstraintViolation

	// ErrDecodeFailure indicates stored peer options could not be decoded
	// for a known peer type.
	ErrDecodeFailure

	// ErrInvalidConfig indicates a peer was submitted without a usable
	// configuration.
	ErrInvalidConfig

	// ErrInternalInconsistency indicates the store holds a value this
	// version cannot interpret.
	ErrInternalInconsistency

	// ErrConnectionLost indicates the supervised store connection has
	// terminated; no further operations will succeed on this Catalog.
	ErrConnectionLost

	// ErrInvalidArgument indicates a malformed request payload.
	ErrInvalidArgument

	// ErrStore covers any other backend error.
	ErrStore
)

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrConnectionFailure:
		return "ConnectionFailure"
	case ErrMigrationFailure:
		return "MigrationFailure"
	case ErrNotFound:
		return "NotFound"
	case ErrConstraintViolation:
		return "ConstraintViolation"
	case ErrDecodeFailure:
		return "DecodeFailure"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrInternalInconsistency:
		return "InternalInconsistency"
	case ErrConnectionLost:
		return "ConnectionLost"
	case ErrInvalidArgument:
		return "InvalidArgument"
	case ErrStore:
		return "Store"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Error is returned by every Catalog operation.
type Error struct {
	Code    ErrorCode
	Message string
	// Entity names the peer or flow the operation was about, if any.
	Entity string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Entity != "" {
		msg = fmt.Sprintf("%s (entity: %s)", msg, e.Entity)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a catalog error with the same code, so that
// errors.Is(err, &Error{Code: ErrNotFound}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, entity, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Entity: entity, Err: cause}
}

// CodeOf extracts the ErrorCode of err, or 0 if err is not a catalog error.
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return 0
}

// IsNotFound reports whether err is a NotFound catalog error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrNotFound }

// IsConstraintViolation reports whether err is a ConstraintViolation catalog error.
func IsConstraintViolation(err error) bool { return CodeOf(err) == ErrConstraintViolation }

// IsDecodeFailure reports whether err is a DecodeFailure catalog error.
func IsDecodeFailure(err error) bool { return CodeOf(err) == ErrDecodeFailure }

// IsConnectionLost reports whether err is a ConnectionLost catalog error.
func IsConnectionLost(err error) bool { return CodeOf(err) == ErrConnectionLost }

// mapPgError maps a backend error to a catalog error.
func mapPgError(err error, operation, entity string) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return newError(ErrNotFound, entity, fmt.Sprintf("%s: not found", operation), nil)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		// unique_violation, foreign_key_violation
		case "23505", "23503":
			return newError(ErrConstraintViolation, entity, fmt.Sprintf("%s: %s", operation, pgErr.Message), err)
		}
		return newError(ErrStore, entity, fmt.Sprintf("%s: database error [%s]", operation, pgErr.Code), err)
	}

	return newError(ErrStore, entity, operation, err)
}
