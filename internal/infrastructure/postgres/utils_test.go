package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-fulfillment/internal/domain"
)

func TestClassify_ErroresDeDominioPasanTalCual(t *testing.T) {
	nf := &domain.NotFoundError{Resource: "pedido", ID: "x"}
	assert.Same(t, nf, classify("op", nf))

	pe := &domain.PersistenceError{Op: "previo", Retryable: true}
	assert.Same(t, pe, classify("op", pe))

	assert.NoError(t, classify("op", nil))
}

func TestClassify_CodigosReintentables(t *testing.T) {
	for _, code := range []string{codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation} {
		err := classify("commit", fmt.Errorf("envuelto: %w", &pgconn.PgError{Code: code}))
		assert.True(t, domain.IsRetryable(err), code)
		assert.Equal(t, domain.KindPersistence, domain.KindOf(err))
	}

	err := classify("commit", &pgconn.PgError{Code: "23514"})
	assert.False(t, domain.IsRetryable(err))
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestClassify_ContextoCanceladoNoEsReintentable(t *testing.T) {
	err := classify("iniciar transacción", context.Canceled)
	var pe *domain.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.False(t, pe.Retryable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseIsolation(t *testing.T) {
	cases := map[string]pgx.TxIsoLevel{
		"":                pgx.Serializable,
		"Serializable":    pgx.Serializable,
		"repeatable read": pgx.RepeatableRead,
		"read_committed":  pgx.ReadCommitted,
	}
	for in, want := range cases {
		got, err := ParseIsolation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseIsolation("snapshot")
	assert.Error(t, err)
}
