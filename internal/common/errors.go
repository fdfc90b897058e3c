// Package common defines the error values shared by the storage backends,
// the service layer and the HTTP layer. Every failure a caller can observe is
// one of the *Error sentinels below (possibly wrapped); match them with
// errors.Is and classify them with KindOf.
package common

import (
	"errors"
	"fmt"
)

// Kind groups errors by how they are surfaced to clients.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAlreadyExists
	KindConsistency
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindConsistency:
		return "consistency"
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// Error is a stable, client-visible failure with a numeric code.
type Error struct {
	Code        int
	Name        string
	Description string
	Kind        Kind
}

func (e *Error) Error() string {
	return e.Description
}

var (
	// Not found.
	ErrUserNotFound  = &Error{4000, "UserNotFoundException", "The user with the id provided doesn't exist", KindNotFound}
	ErrBoardNotFound = &Error{4001, "BoardNotFoundException", "The board with the id provided doesn't exist", KindNotFound}
	ErrListNotFound  = &Error{4002, "ListNotFoundException", "The list with the id provided doesn't exist", KindNotFound}
	ErrCardNotFound  = &Error{4003, "CardNotFoundException", "The card with the id provided doesn't exist", KindNotFound}

	// Uniqueness violations.
	ErrEmailAlreadyExists           = &Error{4090, "EmailAlreadyExistsException", "A user with that email already exists", KindAlreadyExists}
	ErrBoardNameAlreadyExists       = &Error{4091, "BoardNameAlreadyExistsException", "A board with that name already exists", KindAlreadyExists}
	ErrListNameAlreadyExistsInBoard = &Error{4092, "ListNameAlreadyExistsInBoardException", "A list with that name already exists in the board", KindAlreadyExists}
	ErrCardNameAlreadyExists        = &Error{4093, "CardNameAlreadyExistsException", "A card with that name already exists in the list", KindAlreadyExists}

	// Store corruption: a membership points at an entity that is gone.
	ErrUsersBoardDoesNotExist = &Error{5001, "UsersBoardDoesNotExistException", "A board has a user that doesn't exist.", KindConsistency}
	ErrBoardsUserDoesNotExist = &Error{5002, "BoardsUserDoesNotExistException", "A user has a board that doesn't exist.", KindConsistency}

	// Backend failure (SQL backend only).
	ErrPersistence = &Error{5000, "PersistenceException", "The operation could not be persisted", KindPersistence}

	// Malformed input.
	ErrInvalidBody       = &Error{3000, "InvalidBodyException", "The request body is missing or invalid", KindValidation}
	ErrInvalidUserID     = &Error{3001, "InvalidUserIDException", "The user id must be a non-negative integer", KindValidation}
	ErrInvalidBoardID    = &Error{3002, "InvalidBoardIDException", "The board id must be a non-negative integer", KindValidation}
	ErrInvalidListID     = &Error{3003, "InvalidListIDException", "The list id must be a non-negative integer", KindValidation}
	ErrInvalidCardID     = &Error{3004, "InvalidCardIDException", "The card id must be a non-negative integer", KindValidation}
	ErrInvalidPaging     = &Error{3005, "InvalidPagingException", "skip and limit must be non-negative integers", KindValidation}
	ErrInvalidAuthHeader = &Error{3006, "InvalidAuthHeaderException", "The Authorization header must be 'Bearer <token>'", KindValidation}
	ErrInvalidToken      = &Error{3007, "InvalidTokenException", "The token provided doesn't belong to any user", KindValidation}
	ErrInvalidDate       = &Error{3008, "InvalidDateException", "The date is invalid or before the creation date", KindValidation}
	ErrInvalidField      = &Error{3009, "InvalidFieldException", "A required field is missing or malformed", KindValidation}
	ErrInvalidPosition   = &Error{3010, "InvalidPositionException", "The position must be a non-negative integer", KindValidation}

	// Authentication / authorization.
	ErrNoAuthentication   = &Error{4010, "NoAuthenticationException", "No authentication was provided", KindUnauthenticated}
	ErrInvalidCredentials = &Error{4011, "InvalidCredentialsException", "The email or password is incorrect", KindUnauthenticated}
	ErrIllegalUserAccess  = &Error{4030, "IllegalUserAccessException", "The authenticated user can't access this resource", KindForbidden}
)

// PersistenceError is a backend failure for a single operation: zero
// affected rows, a missing generated key or a driver error.
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError wraps err as a failure of op.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("db error: %s", e.Op)
	}
	return fmt.Sprintf("db error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPersistence) hold for every PersistenceError.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// AsError returns the *Error carried by err, if any. A PersistenceError
// resolves to ErrPersistence.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return ErrPersistence, true
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindInternal
}
