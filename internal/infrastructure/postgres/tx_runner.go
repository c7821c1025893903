package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/erp-fulfillment/internal/application/fulfillment"
)

var _ fulfillment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxRunner construye el runner con el pool y el nivel de aislamiento
// ("serializable", "repeatable read", "read committed"; vacío = serializable).
func NewTxRunner(pool *pgxpool.Pool, isolation string) (*TxRunner, error) {
	level, err := ParseIsolation(isolation)
	if err != nil {
		return nil, err
	}
	return &TxRunner{pool: pool, opts: pgx.TxOptions{IsoLevel: level}}, nil
}

// ParseIsolation traduce el nombre de configuración al nivel de pgx.
func ParseIsolation(s string) (pgx.TxIsoLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "serializable":
		return pgx.Serializable, nil
	case "repeatable read", "repeatable_read":
		return pgx.RepeatableRead, nil
	case "read committed", "read_committed":
		return pgx.ReadCommitted, nil
	default:
		return "", fmt.Errorf("nivel de aislamiento no soportado: %q", s)
	}
}

// RunFulfillment inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los errores de dominio de fn pasan tal cual; los de la BD se devuelven como PersistenceError.
func (r *TxRunner) RunFulfillment(ctx context.Context, fn func(stores fulfillment.Stores) error) error {
	tx, err := r.pool.BeginTx(ctx, r.opts)
	if err != nil {
		return classify("iniciar transacción", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stores := fulfillment.Stores{
		Orders:       NewOrderRepository(tx),
		Stock:        NewStockRecordRepository(tx),
		Movements:    NewStockMovementRepository(tx),
		Transactions: NewTransactionRepository(tx),
		Sequences:    NewSequenceRepository(tx),
	}
	if err := fn(stores); err != nil {
		return classify("ejecutar transacción", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("confirmar transacción", err)
	}
	return nil
}
