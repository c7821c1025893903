// Package pdf genera la remisión (packing slip) de un pedido con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + REMISIÓN   │  N° Pedido + Fecha + Código  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE + Estado / Cumplimiento                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Descripción | SKU | Cant. | P.Unit | Subtotal    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + firmas de despacho y recibido                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/erp-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/domain/order"
)

var _ fulfillment.PackingSlipGenerator = (*PackingSlipGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[order.Status]string{
	order.StatusDraft:      "Borrador",
	order.StatusConfirmed:  "Confirmado",
	order.StatusProcessing: "En alistamiento",
	order.StatusShipped:    "Despachado",
	order.StatusDelivered:  "Entregado",
	order.StatusCancelled:  "Cancelado",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// PackingSlipGenerator implementa fulfillment.PackingSlipGenerator usando Maroto v2.
type PackingSlipGenerator struct {
	companyName string
	printer     *message.Printer
}

// NewPackingSlipGenerator construye el generador. Los números se formatean en español (1.234,50).
func NewPackingSlipGenerator(companyName string) *PackingSlipGenerator {
	return &PackingSlipGenerator{
		companyName: companyName,
		printer:     message.NewPrinter(language.Spanish),
	}
}

// GeneratePackingSlip genera el PDF y devuelve sus bytes.
func (g *PackingSlipGenerator) GeneratePackingSlip(_ context.Context, o *entity.Order) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("pdf: pedido nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión "+o.OrderNumber, true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.customerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.itemRows(o.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(o))
	m.AddRows(line.NewRow(12))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remisión: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *PackingSlipGenerator) headerRow(o *entity.Order) core.Row {
	return row.New(24).Add(
		col.New(5).Add(
			text.New(g.companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("REMISIÓN DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(3).Add(
			text.New(o.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+o.OrderDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
		col.New(4).Add(code.NewBar(o.OrderNumber, props.Barcode{
			Percent: 90,
			Center:  true,
		})),
	)
}

func (g *PackingSlipGenerator) customerRow(o *entity.Order) core.Row {
	status := statusLabels[o.Status]
	if status == "" {
		status = string(o.Status)
	}
	fulfillment := "Pendiente"
	if o.FulfillmentStatus == order.FulfillmentFulfilled {
		fulfillment = "Cumplido"
	}
	return row.New(14).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(o.CustomerName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(4).Add(
			text.New("Estado: "+status, props.Text{Size: 8, Align: align.Right, Top: 2}),
			text.New("Cumplimiento: "+fulfillment, props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("SKU", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func (g *PackingSlipGenerator) itemRows(items []*entity.OrderItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		sku := "-"
		if it.Stock != nil {
			sku = it.Stock.SKU
		}
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(it.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(sku, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(g.quantity(it.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.money(it.UnitPrice.Mul(it.Quantity)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func (g *PackingSlipGenerator) totalRow(o *entity.Order) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(g.money(o.GrandTotal), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func signatureRow() core.Row {
	sign := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Size: 8, Align: align.Center}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 5, Color: colorGray}),
		)
	}
	return row.New(14).Add(sign("Despachado por"), sign("Recibido por"))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *PackingSlipGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

// quantity sin decimales si la cantidad es entera.
func (g *PackingSlipGenerator) quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return g.printer.Sprintf("%d", d.IntPart())
	}
	return g.printer.Sprintf("%.2f", d.InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
