package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Rejection kinds. Every rejection is a caller input problem and is detected
// before anything is written.
var (
	ErrUnknownPerson         = errors.New("unknown person")
	ErrUnknownGame           = errors.New("unknown game")
	ErrMissingAmount         = errors.New("missing amount")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrUnsupportedGameForAdd = fmt.Errorf("add not supported: %w", ErrInvalidAmount)
	ErrInvalidActionType     = errors.New("invalid action type")
)

// Fault kinds. These are system problems, never the caller's.
var (
	ErrStoreFault  = errors.New("store fault")
	ErrLockTimeout = errors.New("score row busy")
)

// RejectionError carries a rejection kind and the message shown to the caller.
type RejectionError struct {
	Kind   error
	Detail string
}

func (e *RejectionError) Error() string {
	return e.Detail
}

func (e *RejectionError) Unwrap() error {
	return e.Kind
}

func reject(kind error, format string, args ...any) error {
	return &RejectionError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a caller input rejection.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// RejectionCode is the stable machine-readable name of a rejection kind.
func RejectionCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownPerson):
		return "unknown_person"
	case errors.Is(err, ErrUnknownGame):
		return "unknown_game"
	case errors.Is(err, ErrMissingAmount):
		return "missing_amount"
	case errors.Is(err, ErrUnsupportedGameForAdd):
		return "unsupported_game_for_add"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInvalidActionType):
		return "invalid_action_type"
	}
	return ""
}

// storeFault wraps a storage error so callers can tell it apart from a
// rejection. Lock contention gets its own kind because a resubmit may work.
func storeFault(op string, err error) error {
	if isLockFailure(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrLockTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFault, err)
}

func isLockFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40P01", // deadlock_detected
			"40001", // serialization_failure
			"55P03", // lock_not_available
			"57014": // query_canceled (lock_timeout / statement_timeout)
			return true
		}
	}
	return false
}
