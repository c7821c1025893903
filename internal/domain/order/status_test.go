package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
)

// allowed tabla esperada escrita a mano, independiente del mapa del paquete.
var allowed = map[order.Status]map[order.Status]bool{
	order.StatusDraft:      {order.StatusConfirmed: true, order.StatusCancelled: true},
	order.StatusConfirmed:  {order.StatusProcessing: true, order.StatusCancelled: true},
	order.StatusProcessing: {order.StatusShipped: true, order.StatusCancelled: true},
	order.StatusShipped:    {order.StatusDelivered: true},
	order.StatusDelivered:  {},
	order.StatusCancelled:  {},
}

func TestCanTransition_TodosLosPares(t *testing.T) {
	for _, from := range order.Statuses() {
		for _, to := range order.Statuses() {
			want := allowed[from][to]
			assert.Equal(t, want, order.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_EstadoDesconocido(t *testing.T) {
	assert.False(t, order.CanTransition("archived", order.StatusConfirmed))
	assert.False(t, order.CanTransition(order.StatusDraft, "archived"))
}

func TestStatuses_OrdenDeCicloDeVida(t *testing.T) {
	assert.Equal(t, []order.Status{
		order.StatusDraft, order.StatusConfirmed, order.StatusProcessing,
		order.StatusShipped, order.StatusDelivered, order.StatusCancelled,
	}, order.Statuses())
}

func TestValidNextStatuses_DevuelveCopia(t *testing.T) {
	next := order.ValidNextStatuses(order.StatusDraft)
	assert.Equal(t, []order.Status{order.StatusConfirmed, order.StatusCancelled}, next)

	next[0] = order.StatusDelivered
	assert.Equal(t, []order.Status{order.StatusConfirmed, order.StatusCancelled}, order.ValidNextStatuses(order.StatusDraft),
		"modificar el resultado no altera la tabla")

	assert.Empty(t, order.ValidNextStatuses(order.StatusDelivered))
	assert.Empty(t, order.ValidNextStatuses("archived"))
}

func TestParseStatus(t *testing.T) {
	s, ok := order.ParseStatus("shipped")
	assert.True(t, ok)
	assert.Equal(t, order.StatusShipped, s)

	_, ok = order.ParseStatus("Shipped")
	assert.False(t, ok, "los valores son sensibles a mayúsculas")
	_, ok = order.ParseStatus("")
	assert.False(t, ok)
}

func TestIsTerminalYHoldsReservation(t *testing.T) {
	cases := []struct {
		status   order.Status
		terminal bool
		holds    bool
	}{
		{order.StatusDraft, false, false},
		{order.StatusConfirmed, false, true},
		{order.StatusProcessing, false, true},
		{order.StatusShipped, false, false},
		{order.StatusDelivered, true, false},
		{order.StatusCancelled, true, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.terminal, tc.status.IsTerminal())
			assert.Equal(t, tc.holds, tc.status.HoldsReservation())
			assert.True(t, tc.status.Valid())
		})
	}
	assert.False(t, order.Status("archived").IsTerminal())
}
