package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord unidad de inventario de producto terminado.
// Disponible para venta = OnHand - Reserved.
type StockRecord struct {
	ID        string
	SKU       string
	Name      string
	OnHand    decimal.Decimal // cantidad física, solo baja al despachar
	Reserved  decimal.Decimal // apartada para pedidos confirmados
	UpdatedAt time.Time
}

// Available cantidad disponible para vender.
func (s *StockRecord) Available() decimal.Decimal {
	return s.OnHand.Sub(s.Reserved)
}
