package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
	"github.com/jhoicas/erp-fulfillment/internal/infrastructure/postgres"
)

// demoLine producto de ejemplo y cantidad pedida.
type demoLine struct {
	name   string
	onHand int64
	qty    int64
	price  int64
}

var demoLines = []demoLine{
	{name: "Jabón artesanal lavanda", onHand: 100, qty: 5, price: 12000},
	{name: "Crema hidratante 250ml", onHand: 50, qty: 3, price: 38000},
}

// seedDemo crea un registro de stock por línea y un pedido draft que los referencia,
// todo en una transacción. Cada ejecución usa SKUs y número de pedido nuevos.
func seedDemo(ctx context.Context, pool *pgxpool.Pool, now time.Time) (*entity.Order, error) {
	suffix := uuid.New().String()[:8]
	o := &entity.Order{
		OrderNumber:  fmt.Sprintf("SO-%d-%s", now.Year(), suffix),
		CustomerName: "Cliente demo",
		Status:       order.StatusDraft,
		OrderDate:    now,
	}

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		stockRepo := postgres.NewStockRecordRepository(tx)
		total := decimal.Zero
		for i, l := range demoLines {
			rec := &entity.StockRecord{
				SKU:      fmt.Sprintf("DEMO-%s-%d", suffix, i+1),
				Name:     l.name,
				OnHand:   decimal.NewFromInt(l.onHand),
				Reserved: decimal.Zero,
			}
			if err := stockRepo.Create(ctx, rec); err != nil {
				return err
			}
			qty, price := decimal.NewFromInt(l.qty), decimal.NewFromInt(l.price)
			o.Items = append(o.Items, &entity.OrderItem{
				Description:   l.name,
				Quantity:      qty,
				UnitPrice:     price,
				StockRecordID: rec.ID,
				Stock:         rec,
			})
			total = total.Add(qty.Mul(price))
		}
		o.GrandTotal = total
		return postgres.NewOrderRepository(tx).Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}
