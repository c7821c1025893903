package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionTypeRevenue ingreso reconocido al entregar un pedido.
const TransactionTypeRevenue = "revenue"

// Transaction registro financiero inmutable: solo se inserta.
type Transaction struct {
	ID            string
	TransactionID string // TXN-<año>-<contador>
	Type          string
	Amount        decimal.Decimal
	Description   string
	ReferenceID   string // número de pedido
	OrderID       string
	CreatedAt     time.Time
}
