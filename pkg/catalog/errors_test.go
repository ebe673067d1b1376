package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "NotFound", ErrNotFound.String())
	assert.Equal(t, "ConnectionLost", ErrConnectionLost.String())
	assert.Equal(t, "Unknown(99)", ErrorCode(99).String())
}

func TestErrorFormatting(t *testing.T) {
	err := newError(ErrDecodeFailure, "sf_prod", "unable to decode snowflake options for peer sf_prod", errors.New("bad tag"))
	assert.Equal(t,
		"DecodeFailure: unable to decode snowflake options for peer sf_prod (entity: sf_prod): bad tag",
		err.Error())

	assert.Equal(t, "NotFound: peer not found", newError(ErrNotFound, "", "peer not found", nil).Error())
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", newError(ErrStore, "p", "list peers", cause))

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &Error{Code: ErrStore})
	assert.NotErrorIs(t, err, &Error{Code: ErrNotFound})
	assert.Equal(t, ErrStore, CodeOf(err))
	assert.Equal(t, ErrorCode(0), CodeOf(cause))

	assert.True(t, IsNotFound(newError(ErrNotFound, "", "x", nil)))
	assert.True(t, IsConstraintViolation(newError(ErrConstraintViolation, "", "x", nil)))
	assert.True(t, IsDecodeFailure(newError(ErrDecodeFailure, "", "x", nil)))
	assert.True(t, IsConnectionLost(newError(ErrConnectionLost, "", "x", nil)))
	assert.False(t, IsNotFound(nil))
}

func TestMapPgError(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, mapPgError(nil, "op", ""))
	})

	t.Run("NoRows", func(t *testing.T) {
		err := mapPgError(pgx.ErrNoRows, "get peer id", "pg")
		assert.True(t, IsNotFound(err))
	})

	t.Run("UniqueViolation", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "peers_name_key"`}
		err := mapPgError(pgErr, "create peer", "pg")
		require.True(t, IsConstraintViolation(err))
		assert.Contains(t, err.Error(), `duplicate key value violates unique constraint "peers_name_key"`)
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("ForeignKeyViolation", func(t *testing.T) {
		err := mapPgError(&pgconn.PgError{Code: "23503", Message: "fk"}, "create flow entry", "f")
		assert.True(t, IsConstraintViolation(err))
	})

	t.Run("OtherPgError", func(t *testing.T) {
		err := mapPgError(&pgconn.PgError{Code: "57014", Message: "canceled"}, "list peers", "")
		assert.Equal(t, ErrStore, CodeOf(err))
		assert.Contains(t, err.Error(), "57014")
	})

	t.Run("Generic", func(t *testing.T) {
		err := mapPgError(errors.New("conn reset"), "list peers", "")
		assert.Equal(t, ErrStore, CodeOf(err))
	})

	t.Run("AlreadyMapped", func(t *testing.T) {
		orig := newError(ErrInternalInconsistency, "peer id 1", "bad type", nil)
		assert.Same(t, orig, mapPgError(orig, "op", ""))
	})
}

func TestWrapContextKeepsCode(t *testing.T) {
	err := wrapContext(newError(ErrNotFound, "missing", "peer not found", nil), "unable to get source peer id")
	require.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "unable to get source peer id: peer not found")

	plain := wrapContext(errors.New("x"), "ctx")
	assert.EqualError(t, plain, "ctx: x")
}
