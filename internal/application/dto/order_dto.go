package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeStatusRequest body para PATCH /api/orders/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// StatusChangeError detalle de fallo: Kind estable para la UI, Message apto para mostrar.
type StatusChangeError struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// StatusChangeResult resultado estructurado de RequestStatusChange: nunca se lanza el error al caller.
type StatusChangeResult struct {
	Success bool               `json:"success"`
	OrderID string             `json:"order_id,omitempty"`
	Status  string             `json:"status,omitempty"`
	Error   *StatusChangeError `json:"error,omitempty"`
}

// OrderItemResponse línea de pedido con el stock vinculado.
type OrderItemResponse struct {
	ID            string           `json:"id"`
	Description   string           `json:"description"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	StockRecordID string           `json:"stock_record_id,omitempty"`
	StockName     string           `json:"stock_name,omitempty"`
	OnHand        *decimal.Decimal `json:"on_hand,omitempty"`
	Reserved      *decimal.Decimal `json:"reserved,omitempty"`
}

// OrderResponse pedido con líneas y destinos de estado válidos (para habilitar botones en la UI).
type OrderResponse struct {
	ID                string              `json:"id"`
	OrderNumber       string              `json:"order_number"`
	CustomerName      string              `json:"customer_name,omitempty"`
	Status            string              `json:"status"`
	FulfillmentStatus string              `json:"fulfillment_status"`
	GrandTotal        decimal.Decimal     `json:"grand_total"`
	OrderDate         string              `json:"order_date"`
	ValidNextStatuses []string            `json:"valid_next_statuses"`
	Items             []OrderItemResponse `json:"items"`
}

// NextStatusesResponse respuesta de GET /api/orders/statuses/:status/next.
type NextStatusesResponse struct {
	Status string   `json:"status"`
	Next   []string `json:"next"`
}

// StockMovementResponse movimiento del libro de inventario.
type StockMovementResponse struct {
	MovementID    string          `json:"movement_id"`
	Type          string          `json:"type"`
	Reason        string          `json:"reason"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceID   string          `json:"reference_id"`
	StockRecordID string          `json:"stock_record_id"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionResponse transacción financiera de un pedido.
type TransactionResponse struct {
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	ReferenceID   string          `json:"reference_id"`
	CreatedAt     time.Time       `json:"created_at"`
}
