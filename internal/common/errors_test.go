package common

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistenceError_IsErrPersistence(t *testing.T) {
	err := NewPersistenceError("create user", errors.New("no rows affected"))

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.Equal(t, "db error: create user: no rows affected", err.Error())

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.Is(wrapped, ErrPersistence))
	assert.Equal(t, KindPersistence, KindOf(wrapped))
}

func TestPersistenceError_UnwrapsCause(t *testing.T) {
	err := NewPersistenceError("get user", sql.ErrConnDone)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
}

func TestPersistenceError_NilCause(t *testing.T) {
	err := NewPersistenceError("move card", nil)
	assert.Equal(t, "db error: move card", err.Error())
}

func TestAsError(t *testing.T) {
	e, ok := AsError(fmt.Errorf("lookup: %w", ErrBoardNotFound))
	require.True(t, ok)
	assert.Same(t, ErrBoardNotFound, e)
	assert.Equal(t, 4001, e.Code)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = AsError(nil)
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{ErrUserNotFound, KindNotFound},
		{ErrCardNameAlreadyExists, KindAlreadyExists},
		{ErrBoardsUserDoesNotExist, KindConsistency},
		{ErrInvalidAuthHeader, KindValidation},
		{ErrInvalidToken, KindValidation},
		{ErrNoAuthentication, KindUnauthenticated},
		{ErrIllegalUserAccess, KindForbidden},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "internal", Kind(99).String())
}
