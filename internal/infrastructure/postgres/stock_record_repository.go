package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-fulfillment/internal/domain"
	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

// GetByID obtiene un registro de producto terminado; nil, nil si no existe.
func (r *StockRecordRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `
		SELECT id, sku, name, on_hand, reserved, updated_at
		FROM finished_goods WHERE id = $1`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.SKU, &s.Name, &s.OnHand, &s.Reserved, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get finished good: %w", err)
	}
	return &s, nil
}

// LockForUpdate bloquea las filas (SELECT FOR UPDATE) en orden ascendente de id para que
// dos despachos concurrentes no se bloqueen mutuamente.
func (r *StockRecordRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.StockRecord, error) {
	out := make(map[string]*entity.StockRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `
		SELECT id, sku, name, on_hand, reserved, updated_at
		FROM finished_goods WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock finished goods: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ID, &s.SKU, &s.Name, &s.OnHand, &s.Reserved, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan finished good: %w", err)
		}
		out[s.ID] = &s
	}
	return out, rows.Err()
}

// AddReserved suma delta a reserved; nunca baja de cero.
func (r *StockRecordRepo) AddReserved(ctx context.Context, id string, delta decimal.Decimal) error {
	query := `
		UPDATE finished_goods
		SET reserved = GREATEST(reserved + $2, 0), updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("update reserved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "registro de stock", ID: id}
	}
	return nil
}

// Deduct descuenta on_hand y libera la misma cantidad de reserved en una sola sentencia.
// El CHECK on_hand >= 0 de la tabla hace de última barrera.
func (r *StockRecordRepo) Deduct(ctx context.Context, id string, quantity decimal.Decimal) error {
	query := `
		UPDATE finished_goods
		SET on_hand = on_hand - $2, reserved = GREATEST(reserved - $2, 0), updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("deduct stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "registro de stock", ID: id}
	}
	return nil
}

// Create persiste un registro de producto terminado.
func (r *StockRecordRepo) Create(ctx context.Context, s *entity.StockRecord) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO finished_goods (id, sku, name, on_hand, reserved, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, s.ID, s.SKU, s.Name, s.OnHand, s.Reserved).Scan(&s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ValidationError{Field: "sku", Reason: "ya existe"}
		}
		return fmt.Errorf("insert finished good: %w", err)
	}
	return nil
}
