package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y motivos de movimiento de inventario.
const (
	MovementTypeStockIn  = "STOCK_IN"
	MovementTypeStockOut = "STOCK_OUT"

	MovementReasonOrderFulfillment = "ORDER_FULFILLMENT"
	MovementReasonInitialStock     = "INITIAL_STOCK"
)

// StockMovement registro inmutable del libro de movimientos: solo se inserta.
type StockMovement struct {
	ID            string
	MovementID    string // SM-<año>-<contador>
	Type          string
	Reason        string
	Quantity      decimal.Decimal // siempre positiva; el tipo indica el sentido
	ReferenceID   string          // número de pedido u otro documento origen
	StockRecordID string
	Notes         string
	CreatedAt     time.Time
}
