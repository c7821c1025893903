package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
)

func sampleOrder() *entity.Order {
	return &entity.Order{
		ID:                "O1",
		OrderNumber:       "SO-2026-0001",
		CustomerName:      "Distribuidora Andina",
		Status:            order.StatusProcessing,
		FulfillmentStatus: "unfulfilled",
		GrandTotal:        decimal.NewFromInt(5200),
		OrderDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []*entity.OrderItem{
			{
				ID: "I1", Description: "Crema hidratante 250ml",
				Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1000),
				StockRecordID: "S1",
				Stock:         &entity.StockRecord{ID: "S1", SKU: "FG-001", Name: "Crema hidratante"},
			},
			{ID: "I2", Description: "Flete", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(200)},
		},
	}
}

func TestGeneratePackingSlip_DevuelvePDF(t *testing.T) {
	g := NewPackingSlipGenerator("ERP Demo S.A.S.")

	out, err := g.GeneratePackingSlip(context.Background(), sampleOrder())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
	assert.Greater(t, len(out), 1000)
}

func TestGeneratePackingSlip_PedidoSinLineas(t *testing.T) {
	o := sampleOrder()
	o.Items = nil
	o.CustomerName = ""

	out, err := NewPackingSlipGenerator("ERP Demo").GeneratePackingSlip(context.Background(), o)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGeneratePackingSlip_PedidoNil(t *testing.T) {
	_, err := NewPackingSlipGenerator("ERP Demo").GeneratePackingSlip(context.Background(), nil)
	assert.Error(t, err)
}

func TestMoney_FormatoEspañol(t *testing.T) {
	g := NewPackingSlipGenerator("x")
	out := g.money(decimal.RequireFromString("12345.5"))
	assert.True(t, len(out) > 0 && out[0] == '$')
	assert.Contains(t, out, ",50", "separador decimal en español")
}
