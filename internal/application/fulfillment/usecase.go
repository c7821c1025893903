package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-fulfillment/internal/application/dto"
	"github.com/jhoicas/erp-fulfillment/internal/domain"
	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
	"github.com/jhoicas/erp-fulfillment/internal/domain/sequence"
)

// Resultados reportados a Metrics.
const (
	resultSuccess = "success"
)

// Options ajustes opcionales del caso de uso.
type Options struct {
	// Location zona horaria que decide el año de los consecutivos (UTC por defecto).
	Location *time.Location
	// Now reloj inyectable (time.Now por defecto).
	Now func() time.Time
}

// OrderStatusUseCase máquina de estados del pedido: valida la transición y ejecuta
// reserva, liberación, descuento de stock y registro contable en una sola transacción.
type OrderStatusUseCase struct {
	txRunner  TxRunner
	publisher EventPublisher
	metrics   Metrics
	log       zerolog.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewOrderStatusUseCase construye el caso de uso. publisher y metrics pueden ser nil.
func NewOrderStatusUseCase(
	txRunner TxRunner,
	publisher EventPublisher,
	metrics Metrics,
	log zerolog.Logger,
	opts Options,
) *OrderStatusUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &OrderStatusUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		loc:       opts.Location,
		now:       opts.Now,
	}
}

// RequestStatusChange punto de entrada para la UI: nunca retorna error, siempre un resultado
// estructurado (success + kind + mensaje) y nunca deja cambios parciales.
func (uc *OrderStatusUseCase) RequestStatusChange(ctx context.Context, orderID, newStatus string) dto.StatusChangeResult {
	status, err := uc.ChangeStatus(ctx, orderID, newStatus)
	if err != nil {
		return dto.StatusChangeResult{
			Success: false,
			OrderID: orderID,
			Error: &dto.StatusChangeError{
				Kind:      string(domain.KindOf(err)),
				Message:   domain.UserMessage(err),
				Retryable: domain.IsRetryable(err),
			},
		}
	}
	return dto.StatusChangeResult{Success: true, OrderID: orderID, Status: string(status)}
}

// ValidNextStatuses expone la tabla de transiciones para un estado dado.
func (uc *OrderStatusUseCase) ValidNextStatuses(current string) ([]order.Status, error) {
	st, ok := order.ParseStatus(current)
	if !ok {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("valor no reconocido %q", current)}
	}
	return order.ValidNextStatuses(st), nil
}

// ChangeStatus variante tipada de RequestStatusChange: retorna el estado confirmado o un error
// de dominio (*ValidationError, *NotFoundError, *InvalidTransitionError,
// *InsufficientStockError, *PersistenceError).
func (uc *OrderStatusUseCase) ChangeStatus(ctx context.Context, orderID, newStatus string) (order.Status, error) {
	start := uc.now()
	orderID = strings.TrimSpace(orderID)

	// 1) Validación de forma: sin efectos secundarios
	if orderID == "" {
		return "", uc.fail("", newStatus, orderID, start, &domain.ValidationError{Field: "order_id", Reason: "requerido"})
	}
	target, ok := order.ParseStatus(newStatus)
	if !ok {
		return "", uc.fail("", newStatus, orderID, start,
			&domain.ValidationError{Field: "status", Reason: fmt.Sprintf("valor no reconocido %q", newStatus)})
	}

	var (
		from    order.Status
		changed *entity.Order
	)
	err := uc.txRunner.RunFulfillment(ctx, func(s Stores) error {
		// 2) Existencia: se relee el estado persistido dentro de la transacción
		o, err := s.Orders.GetWithItemsForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return &domain.NotFoundError{Resource: "pedido", ID: orderID}
		}
		from = o.Status

		// 3) Legalidad de la transición
		if !order.CanTransition(from, target) {
			return &domain.InvalidTransitionError{From: string(from), To: string(target)}
		}

		fulfillment := o.FulfillmentStatus
		switch target {
		case order.StatusConfirmed:
			err = uc.reserve(ctx, s, o)
		case order.StatusProcessing:
			// sin efectos de inventario
		case order.StatusShipped:
			err = uc.ship(ctx, s, o)
			fulfillment = order.FulfillmentFulfilled
		case order.StatusDelivered:
			err = uc.postRevenue(ctx, s, o)
			fulfillment = order.FulfillmentFulfilled
		case order.StatusCancelled:
			if from.HoldsReservation() {
				err = uc.release(ctx, s, o)
			}
		case order.StatusDraft:
			// ninguna transición llega a draft; CanTransition ya lo rechazó
			return &domain.InvalidTransitionError{From: string(from), To: string(target)}
		default:
			return fmt.Errorf("estado %q sin manejador de transición", target)
		}
		if err != nil {
			return err
		}

		if err := s.Orders.UpdateStatus(ctx, o.ID, target, fulfillment); err != nil {
			return err
		}
		o.Status = target
		o.FulfillmentStatus = fulfillment
		changed = o
		return nil
	})
	if err != nil {
		return "", uc.fail(from, string(target), orderID, start, err)
	}

	uc.metrics.ObserveStatusChange(string(from), string(target), resultSuccess, uc.now().Sub(start))
	uc.log.Info().
		Str("order_id", changed.ID).
		Str("order_number", changed.OrderNumber).
		Str("from", string(from)).
		Str("to", string(target)).
		Str("fulfillment_status", changed.FulfillmentStatus).
		Msg("estado de pedido actualizado")

	// El estado ya está confirmado: un fallo al publicar solo se registra.
	evt := StatusChangedEvent{
		OrderID:           changed.ID,
		OrderNumber:       changed.OrderNumber,
		From:              string(from),
		To:                string(target),
		FulfillmentStatus: changed.FulfillmentStatus,
		OccurredAt:        uc.now().UTC(),
	}
	if err := uc.publisher.PublishStatusChanged(ctx, evt); err != nil {
		uc.log.Error().Err(err).Str("order_id", changed.ID).Msg("publicar cambio de estado")
	}
	return target, nil
}

// fail normaliza el error (lo desconocido pasa a PersistenceError), lo registra y lo mide.
func (uc *OrderStatusUseCase) fail(from order.Status, to, orderID string, start time.Time, err error) error {
	kind := domain.KindOf(err)
	if kind == domain.KindPersistence && !errors.Is(err, domain.ErrPersistence) {
		err = &domain.PersistenceError{Op: "cambiar estado del pedido", Err: err}
	}
	toLabel := to
	if !order.Status(to).Valid() {
		toLabel = "unknown"
	}
	uc.metrics.ObserveStatusChange(string(from), toLabel, strings.ToLower(string(kind)), uc.now().Sub(start))

	ev := uc.log.Warn()
	if kind == domain.KindPersistence {
		ev = uc.log.Error()
	}
	ev.Err(err).
		Str("order_id", orderID).
		Str("from", string(from)).
		Str("to", to).
		Str("kind", string(kind)).
		Msg("cambio de estado rechazado")
	return err
}

// reserve aparta stock: reserved += cantidad por cada línea con stock vinculado.
func (uc *OrderStatusUseCase) reserve(ctx context.Context, s Stores, o *entity.Order) error {
	for _, it := range o.Items {
		if it.Stock == nil {
			continue
		}
		if err := s.Stock.AddReserved(ctx, it.StockRecordID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// release devuelve la reserva hecha al confirmar.
func (uc *OrderStatusUseCase) release(ctx context.Context, s Stores, o *entity.Order) error {
	for _, it := range o.Items {
		if it.Stock == nil {
			continue
		}
		if err := s.Stock.AddReserved(ctx, it.StockRecordID, it.Quantity.Neg()); err != nil {
			return err
		}
	}
	return nil
}

// ship verifica existencias de todas las líneas antes de tocar nada, luego descuenta
// reserva y existencia física y registra un movimiento STOCK_OUT por línea.
func (uc *OrderStatusUseCase) ship(ctx context.Context, s Stores, o *entity.Order) error {
	locked, err := s.Stock.LockForUpdate(ctx, o.LinkedStockIDs())
	if err != nil {
		return err
	}

	// Verificación previa: la demanda se acumula por registro para que dos líneas
	// del mismo producto no dejen la existencia en negativo.
	required := make(map[string]decimal.Decimal, len(locked))
	for _, it := range o.Items {
		if _, ok := locked[it.StockRecordID]; !ok {
			continue
		}
		required[it.StockRecordID] = required[it.StockRecordID].Add(it.Quantity)
	}
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var shortages []domain.StockShortage
	for _, id := range ids {
		rec := locked[id]
		if rec.OnHand.LessThan(required[id]) {
			shortages = append(shortages, domain.StockShortage{
				StockRecordID: id,
				Name:          rec.Name,
				Available:     rec.OnHand,
				Required:      required[id],
			})
		}
	}
	if len(shortages) > 0 {
		return &domain.InsufficientStockError{Shortages: shortages}
	}

	now := uc.now()
	alloc, err := newAllocator(ctx, s, sequence.KindStockMovement, now.In(uc.loc).Year(), s.Movements.LastIDWithPrefix)
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, ok := locked[it.StockRecordID]; !ok {
			continue
		}
		if err := s.Stock.Deduct(ctx, it.StockRecordID, it.Quantity); err != nil {
			return err
		}
		movementID, err := alloc.next(ctx)
		if err != nil {
			return err
		}
		mov := &entity.StockMovement{
			MovementID:    movementID,
			Type:          entity.MovementTypeStockOut,
			Reason:        entity.MovementReasonOrderFulfillment,
			Quantity:      it.Quantity,
			ReferenceID:   o.OrderNumber,
			StockRecordID: it.StockRecordID,
			Notes:         fmt.Sprintf("auto-deducted for order %s", o.OrderNumber),
			CreatedAt:     now,
		}
		if err := s.Movements.Create(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}

// postRevenue registra el ingreso por el total del pedido.
func (uc *OrderStatusUseCase) postRevenue(ctx context.Context, s Stores, o *entity.Order) error {
	now := uc.now()
	alloc, err := newAllocator(ctx, s, sequence.KindTransaction, now.In(uc.loc).Year(), s.Transactions.LastIDWithPrefix)
	if err != nil {
		return err
	}
	txnID, err := alloc.next(ctx)
	if err != nil {
		return err
	}
	return s.Transactions.Create(ctx, &entity.Transaction{
		TransactionID: txnID,
		Type:          entity.TransactionTypeRevenue,
		Amount:        o.GrandTotal,
		Description:   fmt.Sprintf("Revenue from order %s", o.OrderNumber),
		ReferenceID:   o.OrderNumber,
		OrderID:       o.ID,
		CreatedAt:     now,
	})
}
