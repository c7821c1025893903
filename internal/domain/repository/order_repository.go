package repository

import (
	"context"

	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
// Los Get devuelven nil, nil si el pedido no existe.
type OrderRepository interface {
	// GetWithItems carga el pedido con sus líneas y el registro de stock vinculado a cada una.
	GetWithItems(ctx context.Context, id string) (*entity.Order, error)
	// GetWithItemsForUpdate igual que GetWithItems pero bloquea la fila del pedido (SELECT FOR UPDATE).
	GetWithItemsForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status order.Status, fulfillmentStatus string) error
	Create(ctx context.Context, o *entity.Order) error
}
