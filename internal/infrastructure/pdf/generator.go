// Package pdf genera los documentos imprimibles con Maroto v2: el recibo de venta
// y la tarjeta de kardex de un producto.
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cep-backoffice/internal/application/receipt"
	"github.com/jhoicas/cep-backoffice/internal/application/stock"
)

var (
	_ receipt.PDFGenerator   = (*Generator)(nil)
	_ stock.CardPDFGenerator = (*Generator)(nil)
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 140, Green: 30, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 190, Green: 60, Blue: 20}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// Business datos del negocio impresos en el encabezado.
type Business struct {
	Name     string
	Phone    string
	Location *time.Location // zona para las fechas impresas; nil = UTC
}

// Generator implementa receipt.PDFGenerator y stock.CardPDFGenerator.
type Generator struct {
	business Business
}

// NewGenerator construye el generador.
func NewGenerator(b Business) *Generator { return &Generator{business: b} }

func (g *Generator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.business.Name, true).
		Build()
	return maroto.New(cfg)
}

func (g *Generator) local(t time.Time) time.Time {
	if g.business.Location == nil {
		return t.UTC()
	}
	return t.In(g.business.Location)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney puntos de miles y coma decimal solo si hay centavos.
// Ej: 25000 → "25.000", 89900.5 → "89.900,50"
func formatMoney(d decimal.Decimal) string {
	intPart, frac, _ := strings.Cut(d.StringFixed(2), ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf)
	if frac != "00" {
		out += "," + frac
	}
	return out
}
