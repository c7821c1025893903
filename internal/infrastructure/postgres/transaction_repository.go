package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro de transacciones financieras sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste una transacción.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transactions (id, transaction_id, type, amount, description, reference_id, order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TransactionID, t.Type, t.Amount, t.Description, t.ReferenceID, t.OrderID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// LastIDWithPrefix el transaction_id más alto del prefijo.
func (r *TransactionRepo) LastIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	return lastIDWithPrefix(ctx, r.q, "transactions", "transaction_id", prefix)
}

// ListByOrder transacciones del pedido.
func (r *TransactionRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Transaction, error) {
	query := `
		SELECT id, transaction_id, type, amount, description, reference_id, order_id, created_at
		FROM transactions WHERE order_id = $1
		ORDER BY created_at, transaction_id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.TransactionID, &t.Type, &t.Amount, &t.Description,
			&t.ReferenceID, &t.OrderID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
