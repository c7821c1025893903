package fulfillment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/erp-fulfillment/internal/domain"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
)

func newQuery(h *harness, slip *stubPackingSlip) *fulfillment.OrderQueryUseCase {
	// ve el estado confirmado al momento de construirse
	return fulfillment.NewOrderQueryUseCase(
		&memOrders{r: h.tx, s: h.tx.state},
		&memMovements{r: h.tx, s: h.tx.state},
		&memTransactions{s: h.tx.state},
		slip,
	)
}

func TestGetOrder_IncluyeStockYDestinosValidos(t *testing.T) {
	h := newHarness()
	h.tx.seedStock("S1", 20, 5)
	h.tx.seedOrder("O1", order.StatusConfirmed,
		line{stockID: "S1", qty: 5, price: 1000},
		line{stockID: "", qty: 1, price: 200},
	)

	out, err := newQuery(h, nil).GetOrder(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", out.Status)
	assert.Equal(t, []string{"processing", "cancelled"}, out.ValidNextStatuses)
	require.Len(t, out.Items, 2)
	require.NotNil(t, out.Items[0].OnHand)
	assert.Equal(t, "20", out.Items[0].OnHand.String())
	assert.Equal(t, "5", out.Items[0].Reserved.String())
	assert.Nil(t, out.Items[1].OnHand, "línea sin stock vinculado")
	assert.Equal(t, "2026-03-01", out.OrderDate)
}

func TestGetOrder_NoEncontrado(t *testing.T) {
	h := newHarness()
	_, err := newQuery(h, nil).GetOrder(context.Background(), "X")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = newQuery(h, nil).GetOrder(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovementsYTransactions_DespuesDeEntregar(t *testing.T) {
	h := newHarness()
	h.tx.seedStock("S1", 20, 0)
	h.tx.seedOrder("O1", order.StatusDraft, line{stockID: "S1", qty: 5, price: 1000})
	for _, s := range []order.Status{order.StatusConfirmed, order.StatusProcessing, order.StatusShipped, order.StatusDelivered} {
		h.mustChange(t, "O1", s)
	}

	q := newQuery(h, nil)
	movs, err := q.ListMovements(context.Background(), "O1")
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "SM-2026-0001", movs[0].MovementID)

	txns, err := q.ListTransactions(context.Background(), "O1")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "TXN-2026-0001", txns[0].TransactionID)
	assert.Equal(t, "5000", txns[0].Amount.String())
}

func TestPackingSlip_DevuelveNumeroDePedido(t *testing.T) {
	h := newHarness()
	h.tx.seedOrder("O1", order.StatusProcessing, line{stockID: "", qty: 1, price: 10})
	slip := &stubPackingSlip{}

	pdf, number, err := newQuery(h, slip).PackingSlip(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, "SO-2026-O1", number)
	assert.Equal(t, []byte("%PDF-stub"), pdf)
	require.NotNil(t, slip.got)
	assert.Equal(t, "O1", slip.got.ID)
}
