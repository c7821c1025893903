package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
)

// StockRecordRepository define el puerto para consultar/actualizar stock de producto terminado.
// Usado dentro de transacciones para garantizar consistencia.
type StockRecordRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	// LockForUpdate bloquea las filas (en orden ascendente de ID) y devuelve su estado actual.
	// Los IDs inexistentes no aparecen en el mapa.
	LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.StockRecord, error)
	// AddReserved suma delta a la cantidad reservada; el resultado nunca baja de cero.
	AddReserved(ctx context.Context, id string, delta decimal.Decimal) error
	// Deduct libera la reserva y descuenta la cantidad física en una sola actualización.
	Deduct(ctx context.Context, id string, quantity decimal.Decimal) error
	Create(ctx context.Context, s *entity.StockRecord) error
}
