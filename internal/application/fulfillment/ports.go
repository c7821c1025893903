package fulfillment

import (
	"context"
	"time"

	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/repository"
)

// Stores repositorios atados a una misma transacción (unidad de trabajo).
type Stores struct {
	Orders       repository.OrderRepository
	Stock        repository.StockRecordRepository
	Movements    repository.StockMovementRepository
	Transactions repository.TransactionRepository
	Sequences    repository.SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Si fn retorna error se hace Rollback; si no, Commit.
type TxRunner interface {
	RunFulfillment(ctx context.Context, fn func(stores Stores) error) error
}

// StatusChangedEvent se publica después del commit de una transición.
type StatusChangedEvent struct {
	OrderID           string    `json:"order_id"`
	OrderNumber       string    `json:"order_number"`
	From              string    `json:"from"`
	To                string    `json:"to"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// EventPublisher notifica transiciones confirmadas a otros sistemas.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, evt StatusChangedEvent) error
}

// Metrics registra el resultado de cada solicitud de cambio de estado.
type Metrics interface {
	ObserveStatusChange(from, to, result string, elapsed time.Duration)
}

// PackingSlipGenerator genera la remisión (PDF) de un pedido.
type PackingSlipGenerator interface {
	GeneratePackingSlip(ctx context.Context, o *entity.Order) ([]byte, error)
}

type noopPublisher struct{}

func (noopPublisher) PublishStatusChanged(context.Context, StatusChangedEvent) error { return nil }

type noopMetrics struct{}

func (noopMetrics) ObserveStatusChange(string, string, string, time.Duration) {}
