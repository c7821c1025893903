package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-fulfillment/internal/domain"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want domain.ErrorKind
	}{
		{&domain.ValidationError{Field: "status"}, domain.KindValidation},
		{&domain.NotFoundError{Resource: "pedido", ID: "x"}, domain.KindNotFound},
		{&domain.InvalidTransitionError{From: "draft", To: "shipped"}, domain.KindInvalidTransition},
		{&domain.InsufficientStockError{}, domain.KindInsufficientStock},
		{&domain.PersistenceError{Op: "commit", Err: errors.New("x")}, domain.KindPersistence},
		{fmt.Errorf("envuelto: %w", &domain.NotFoundError{Resource: "pedido"}), domain.KindNotFound},
		{errors.New("cualquier cosa"), domain.KindPersistence},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.KindOf(tc.err), "%v", tc.err)
	}
}

func TestPersistenceError_UnwrapAmbos(t *testing.T) {
	err := &domain.PersistenceError{Op: "commit", Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, domain.IsRetryable(err))
	assert.True(t, domain.IsRetryable(&domain.PersistenceError{Op: "commit", Err: errors.New("40001"), Retryable: true}))
}

func TestInsufficientStockError_Mensaje(t *testing.T) {
	err := &domain.InsufficientStockError{Shortages: []domain.StockShortage{
		{StockRecordID: "S2", Name: "Jabón", Available: decimal.NewFromInt(10), Required: decimal.NewFromInt(50)},
		{StockRecordID: "S3", Available: decimal.NewFromInt(0), Required: decimal.NewFromInt(1)},
	}}
	assert.Equal(t,
		"Stock insuficiente para Jabón. Disponible: 10, Requerido: 50; Stock insuficiente para producto. Disponible: 0, Requerido: 1",
		err.Error())
	assert.Equal(t, err.Error(), domain.UserMessage(err))
}

func TestUserMessage_NoExponeDetallesInternos(t *testing.T) {
	err := &domain.PersistenceError{Op: "insert", Err: errors.New(`duplicate key value violates unique constraint "stock_movements_movement_id_key"`)}
	assert.Equal(t, "no se pudieron guardar los cambios", domain.UserMessage(err))
	assert.Equal(t, "pedido no encontrado", domain.UserMessage(&domain.NotFoundError{Resource: "pedido", ID: "secret-uuid"}))
}
