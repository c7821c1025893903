package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
)

// Order cabecera del pedido de venta. Se crea en draft por el flujo de captura de pedidos;
// el resto del ciclo de vida lo gobierna la máquina de estados.
type Order struct {
	ID                string
	OrderNumber       string // consecutivo legible, p. ej. SO-2026-0001
	CustomerName      string
	Status            order.Status
	FulfillmentStatus string // unfulfilled, fulfilled
	GrandTotal        decimal.Decimal
	OrderDate         time.Time
	Items             []*OrderItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem línea del pedido. Quantity es fija una vez redactado el pedido.
type OrderItem struct {
	ID            string
	OrderID       string
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	StockRecordID string       // vacío si la línea no está vinculada a inventario
	Stock         *StockRecord // registro vinculado; nil si no existe
}

// LinkedStockIDs IDs únicos de registros de stock existentes vinculados a las líneas.
func (o *Order) LinkedStockIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if it.StockRecordID == "" || it.Stock == nil {
			continue
		}
		if _, ok := seen[it.StockRecordID]; ok {
			continue
		}
		seen[it.StockRecordID] = struct{}{}
		ids = append(ids, it.StockRecordID)
	}
	return ids
}
