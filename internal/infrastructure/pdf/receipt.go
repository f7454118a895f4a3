package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
)

// GenerateReceipt recibo de venta:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  Negocio + Tel               │  RECIBO N° + Fecha           │
//	│  CLIENTE: Nombre / Tel                                      │
//	│  TABLA: Cant | Descripción | P.Unit | Subtotal              │
//	│  TOTAL                                   QR (número)        │
//	└─────────────────────────────────────────────────────────────┘
func (g *Generator) GenerateReceipt(r *entity.Receipt) ([]byte, error) {
	m := g.newDocument("Recibo " + r.Number)

	m.AddRows(g.receiptHeaderRow(r))
	if r.Provisional {
		m.AddRows(provisionalRow())
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(receiptTableHeaderRow())
	for _, l := range r.Lines {
		m.AddRows(receiptLineRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(receiptTotalRow(r))

	if r.Notes != "" {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Observaciones: "+r.Notes, props.Text{Size: 8, Top: 3, Color: colorGray}),
		)))
	}
	return render(m)
}

func (g *Generator) receiptHeaderRow(r *entity.Receipt) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.business.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tel: "+nonEmpty(g.business.Phone, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+g.local(r.Date).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// provisionalRow aviso para números derivados del reloj.
func provisionalRow() core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New("NÚMERO PROVISIONAL: el contador no estaba disponible al emitir este recibo.", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: colorWarning, Top: 1,
		}),
	))
}

func customerRow(r *entity.Receipt) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(r.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Tel: "+nonEmpty(r.CustomerPhone, "—"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func receiptTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func receiptLineRow(l entity.ReceiptLine) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(6).Add(text.New(l.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New("$"+formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New("$"+formatMoney(l.Subtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// receiptTotalRow total a la izquierda del QR con el número del recibo.
func receiptTotalRow(r *entity.Receipt) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(r.Number, props.Rect{Percent: 90, Center: true})),
		col.New(3),
		col.New(3).Add(text.New("TOTAL A PAGAR:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 4,
		})),
		col.New(3).Add(text.New(fmt.Sprintf("$%s", formatMoney(r.Total())), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 4,
		})),
	)
}
