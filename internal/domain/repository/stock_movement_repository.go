package repository

import (
	"context"

	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
)

// StockMovementRepository libro de movimientos de inventario (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// LastIDWithPrefix devuelve el MovementID mayor que empieza con prefix ("" si no hay).
	LastIDWithPrefix(ctx context.Context, prefix string) (string, error)
	ListByReference(ctx context.Context, referenceID string) ([]*entity.StockMovement, error)
}
