package repository

import (
	"context"

	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
)

// TransactionRepository libro de transacciones financieras (solo inserción).
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	// LastIDWithPrefix devuelve el TransactionID mayor que empieza con prefix ("" si no hay).
	LastIDWithPrefix(ctx context.Context, prefix string) (string, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Transaction, error)
}
