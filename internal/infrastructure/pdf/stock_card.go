package pdf

import (
	"strconv"

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

// GenerateStockCard tarjeta de kardex: una fila por movimiento en orden de registro.
func (g *Generator) GenerateStockCard(p *entity.StockProduct) ([]byte, error) {
	m := g.newDocument("Kardex " + p.Name)

	m.AddRows(row.New(16).Add(
		col.New(8).Add(
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Creado: "+g.local(p.CreatedAt).Format("02/01/2006"), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("KARDEX", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("Actualizado: "+g.local(p.LastUpdated).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(cardHeaderRow())
	for _, mv := range p.Movements {
		m.AddRows(g.cardMovementRow(mv))
	}
	return render(m)
}

func cardHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Entrada", 1, align.Right),
		h("Salida", 1, align.Right),
		h("Total", 1, align.Right),
		h("Saldo", 1, align.Right),
		h("Observaciones", 4, align.Left),
		h("Firma", 2, align.Left),
	)
}

func (g *Generator) cardMovementRow(mv entity.StockMovement) core.Row {
	num := func(n int64, size int) core.Col {
		return col.New(size).Add(text.New(strconv.FormatInt(n, 10), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}))
	}
	str := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Top: 1, Left: 1}))
	}
	return row.New(7).Add(
		str(g.local(mv.Date).Format("02/01/2006"), 2),
		num(mv.StockedIn, 1),
		num(mv.StockedOut, 1),
		num(mv.TotalStock, 1),
		num(mv.Balance, 1),
		str(nonEmpty(mv.Remarks, "—"), 4),
		str(nonEmpty(mv.Sign, "—"), 2),
	)
}
