package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, movement_id, type, reason, quantity, reference_id, stock_record_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MovementID, m.Type, m.Reason, m.Quantity, m.ReferenceID, m.StockRecordID, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// LastIDWithPrefix el movement_id más alto del prefijo. Se ordena por longitud primero
// para que SM-2026-10000 quede por encima de SM-2026-9999.
func (r *StockMovementRepo) LastIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	return lastIDWithPrefix(ctx, r.q, "stock_movements", "movement_id", prefix)
}

// ListByReference movimientos de un documento origen en orden cronológico.
func (r *StockMovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, movement_id, type, reason, quantity, reference_id, stock_record_id, notes, created_at
		FROM stock_movements WHERE reference_id = $1
		ORDER BY created_at, movement_id`
	rows, err := r.q.Query(ctx, query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.MovementID, &m.Type, &m.Reason, &m.Quantity,
			&m.ReferenceID, &m.StockRecordID, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// lastIDWithPrefix compartido por los libros con consecutivo anual. table y column son constantes del paquete.
func lastIDWithPrefix(ctx context.Context, q Querier, table, column, prefix string) (string, error) {
	query := fmt.Sprintf(`
		SELECT %[2]s FROM %[1]s
		WHERE %[2]s LIKE $1
		ORDER BY length(%[2]s) DESC, %[2]s DESC
		LIMIT 1`, table, column)
	var id string
	err := q.QueryRow(ctx, query, prefix+"-%").Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last %s: %w", column, err)
	}
	return id, nil
}
