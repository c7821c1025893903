package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-fulfillment/internal/domain"
	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
	"github.com/jhoicas/erp-fulfillment/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const selectOrder = `
	SELECT id, order_number, customer_name, status, fulfillment_status, grand_total, order_date, created_at, updated_at
	FROM orders WHERE id = $1`

// GetWithItems carga el pedido con sus líneas y el stock vinculado.
func (r *OrderRepo) GetWithItems(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, selectOrder, id)
}

// GetWithItemsForUpdate igual que GetWithItems pero bloquea la fila del pedido.
func (r *OrderRepo) GetWithItemsForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, selectOrder+" FOR UPDATE", id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	var (
		o      entity.Order
		status string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &status, &o.FulfillmentStatus,
		&o.GrandTotal, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = order.Status(status)

	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepo) listItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.description, oi.quantity, oi.unit_price, oi.stock_record_id,
		       fg.id, fg.sku, fg.name, fg.on_hand, fg.reserved, fg.updated_at
		FROM order_items oi
		LEFT JOIN finished_goods fg ON fg.id = oi.stock_record_id
		WHERE oi.order_id = $1
		ORDER BY oi.line_no, oi.id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var list []*entity.OrderItem
	for rows.Next() {
		var (
			it                   entity.OrderItem
			stockRecordID        *string
			fgID, fgSKU, fgName  *string
			fgOnHand, fgReserved decimal.NullDecimal
			fgUpdatedAt          *time.Time
		)
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.Description, &it.Quantity, &it.UnitPrice, &stockRecordID,
			&fgID, &fgSKU, &fgName, &fgOnHand, &fgReserved, &fgUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if stockRecordID != nil {
			it.StockRecordID = *stockRecordID
		}
		if fgID != nil {
			it.Stock = &entity.StockRecord{
				ID:       *fgID,
				SKU:      deref(fgSKU),
				Name:     deref(fgName),
				OnHand:   fgOnHand.Decimal,
				Reserved: fgReserved.Decimal,
			}
			if fgUpdatedAt != nil {
				it.Stock.UpdatedAt = *fgUpdatedAt
			}
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateStatus persiste el estado de negocio y el de cumplimiento.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status order.Status, fulfillmentStatus string) error {
	query := `
		UPDATE orders SET status = $2, fulfillment_status = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, string(status), fulfillmentStatus)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "pedido", ID: id}
	}
	return nil
}

// Create persiste el pedido y sus líneas (usado por el seed y los tests de integración).
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = order.StatusDraft
	}
	if o.FulfillmentStatus == "" {
		o.FulfillmentStatus = order.FulfillmentUnfulfilled
	}
	query := `
		INSERT INTO orders (id, order_number, customer_name, status, fulfillment_status, grand_total, order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		o.ID, o.OrderNumber, o.CustomerName, string(o.Status), o.FulfillmentStatus, o.GrandTotal, o.OrderDate,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ValidationError{Field: "order_number", Reason: "ya existe"}
		}
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, line_no, description, quantity, unit_price, stock_record_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, it := range o.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.OrderID = o.ID
		var stockRecordID *string
		if it.StockRecordID != "" {
			stockRecordID = &it.StockRecordID
		}
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, o.ID, i+1, it.Description, it.Quantity, it.UnitPrice, stockRecordID,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
