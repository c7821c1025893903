// Package order define el ciclo de vida del pedido de venta: estados y tabla de transiciones.
package order

// Status estado de negocio del pedido.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Estado de cumplimiento físico, independiente del estado de negocio.
const (
	FulfillmentUnfulfilled = "unfulfilled"
	FulfillmentFulfilled   = "fulfilled"
)

var allStatuses = []Status{
	StatusDraft,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// transitions origen -> destinos permitidos. Los estados terminales tienen lista vacía.
var transitions = map[Status][]Status{
	StatusDraft:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// Statuses devuelve todos los estados en orden de ciclo de vida.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus convierte un string al enum; ok=false si no es un estado reconocido.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", false
	}
	return st, true
}

// Valid indica si el valor pertenece al enum.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal indica que no hay transiciones de salida.
func (s Status) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// HoldsReservation indica que el pedido tiene stock reservado en este estado.
func (s Status) HoldsReservation() bool {
	return s == StatusConfirmed || s == StatusProcessing
}

// ValidNextStatuses destinos alcanzables desde from (copia; vacía para terminales o desconocidos).
func ValidNextStatuses(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition verifica que to esté en el conjunto permitido de from.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
