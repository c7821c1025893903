package fulfillment

import (
	"context"
	"strings"

	"github.com/jhoicas/erp-fulfillment/internal/application/dto"
	"github.com/jhoicas/erp-fulfillment/internal/domain"
	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
	"github.com/jhoicas/erp-fulfillment/internal/domain/repository"
)

// OrderQueryUseCase lecturas de solo consulta para la UI (fuera de transacción).
type OrderQueryUseCase struct {
	orderRepo       repository.OrderRepository
	movementRepo    repository.StockMovementRepository
	transactionRepo repository.TransactionRepository
	packingSlip     PackingSlipGenerator
}

// NewOrderQueryUseCase construye el caso de uso.
func NewOrderQueryUseCase(
	orderRepo repository.OrderRepository,
	movementRepo repository.StockMovementRepository,
	transactionRepo repository.TransactionRepository,
	packingSlip PackingSlipGenerator,
) *OrderQueryUseCase {
	return &OrderQueryUseCase{
		orderRepo:       orderRepo,
		movementRepo:    movementRepo,
		transactionRepo: transactionRepo,
		packingSlip:     packingSlip,
	}
}

func (uc *OrderQueryUseCase) load(ctx context.Context, id string) (*entity.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "requerido"}
	}
	o, err := uc.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, &domain.NotFoundError{Resource: "pedido", ID: id}
	}
	return o, nil
}

// GetOrder pedido con líneas, stock vinculado y destinos válidos.
func (uc *OrderQueryUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// ListMovements movimientos de inventario que referencian el número del pedido.
func (uc *OrderQueryUseCase) ListMovements(ctx context.Context, id string) ([]dto.StockMovementResponse, error) {
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := uc.movementRepo.ListByReference(ctx, o.OrderNumber)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			MovementID:    m.MovementID,
			Type:          m.Type,
			Reason:        m.Reason,
			Quantity:      m.Quantity,
			ReferenceID:   m.ReferenceID,
			StockRecordID: m.StockRecordID,
			Notes:         m.Notes,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out, nil
}

// ListTransactions transacciones financieras del pedido.
func (uc *OrderQueryUseCase) ListTransactions(ctx context.Context, id string) ([]dto.TransactionResponse, error) {
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := uc.transactionRepo.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TransactionResponse{
			TransactionID: t.TransactionID,
			Type:          t.Type,
			Amount:        t.Amount,
			Description:   t.Description,
			ReferenceID:   t.ReferenceID,
			CreatedAt:     t.CreatedAt,
		})
	}
	return out, nil
}

// PackingSlip genera la remisión en PDF. Devuelve también el número de pedido para el nombre del archivo.
func (uc *OrderQueryUseCase) PackingSlip(ctx context.Context, id string) ([]byte, string, error) {
	o, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.packingSlip.GeneratePackingSlip(ctx, o)
	if err != nil {
		return nil, "", err
	}
	return pdf, o.OrderNumber, nil
}

// ToOrderResponse mapea la entidad a la respuesta de la API.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	next := order.ValidNextStatuses(o.Status)
	resp := &dto.OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerName:      o.CustomerName,
		Status:            string(o.Status),
		FulfillmentStatus: o.FulfillmentStatus,
		GrandTotal:        o.GrandTotal,
		OrderDate:         o.OrderDate.Format("2006-01-02"),
		ValidNextStatuses: make([]string, 0, len(next)),
		Items:             make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	for _, s := range next {
		resp.ValidNextStatuses = append(resp.ValidNextStatuses, string(s))
	}
	for _, it := range o.Items {
		item := dto.OrderItemResponse{
			ID:            it.ID,
			Description:   it.Description,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			StockRecordID: it.StockRecordID,
		}
		if it.Stock != nil {
			onHand, reserved := it.Stock.OnHand, it.Stock.Reserved
			item.StockName = it.Stock.Name
			item.OnHand = &onHand
			item.Reserved = &reserved
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
