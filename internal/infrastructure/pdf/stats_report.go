// Package pdf genera el reporte PDF de una conciliación de activos con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + alcance (base, equipo, rango)             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: apertura / movimiento neto / cierre               │
//	│  MOVIMIENTOS: compras, transferencias, asignaciones, bajas  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Equipo | Compras | Entradas | Salidas | ... | Neto  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del alcance + fecha de generación               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

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

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/application/ledger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 45, Green: 62, Blue: 38}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 150, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ledger.StatsReportRenderer = (*StatsReportGenerator)(nil)

// StatsReportGenerator implementa ledger.StatsReportRenderer usando Maroto v2.
type StatsReportGenerator struct{}

// NewStatsReportGenerator construye el generador.
func NewStatsReportGenerator() *StatsReportGenerator { return &StatsReportGenerator{} }

// RenderStats genera el PDF y devuelve sus bytes.
func (g *StatsReportGenerator) RenderStats(stats *dto.StatsResponse, generatedAt time.Time) ([]byte, error) {
	if stats == nil {
		return nil, fmt.Errorf("pdf: estadísticas vacías")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Conciliación de activos", true).
		WithAuthor("asset-ledger", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(stats))
	m.AddRows(movementsRow(stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	rows := breakdownRows(stats.Breakdown)
	if len(rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el alcance.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(rows...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(stats, generatedAt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(stats *dto.StatsResponse) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New("CONCILIACIÓN DE ACTIVOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Modo de bajas: "+stats.ExpenditureMode, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Base: "+nonEmpty(stats.BaseID, "todas"), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New("Equipo: "+nonEmpty(stats.EquipmentTypeID, "todos"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Periodo: %s a %s", nonEmpty(stats.StartDate, "inicio"), stats.EndDate), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func summaryRow(stats *dto.StatsResponse) core.Row {
	box := func(label string, v decimal.Decimal, c *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
			text.New(formatQuantity(v), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Top: 6, Color: c,
			}),
		)
	}
	net := colorPrimary
	if stats.NetMovement.IsNegative() {
		net = colorAlert
	}
	return row.New(18).Add(
		box("Balance de apertura", stats.OpeningBalance, colorPrimary),
		box("Movimiento neto", stats.NetMovement, net),
		box("Balance de cierre", stats.ClosingBalance, colorPrimary),
	)
}

func movementsRow(stats *dto.StatsResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2})
	}
	value := func(v decimal.Decimal) core.Component {
		return text.New(formatQuantity(v), props.Text{Size: 8, Align: align.Right, Right: 1})
	}
	return row.New(24).Add(
		col.New(3).Add(
			label("Compras:"),
			label("Transferencias entrada:"),
			label("Transferencias salida:"),
		),
		col.New(3).Add(
			value(stats.Purchases),
			value(stats.TransfersIn),
			value(stats.TransfersOut),
		),
		col.New(3).Add(
			label("Asignado:"),
			label("Devuelto:"),
			label("Pendiente:"),
			label("Dado de baja:"),
		),
		col.New(3).Add(
			value(stats.AssignedTotal),
			value(stats.ReturnedTotal),
			value(stats.OutstandingTotal),
			value(stats.ExpendedTotal),
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
		h("Equipo", 2, align.Left),
		h("Compras", 2, align.Right),
		h("Entradas", 2, align.Right),
		h("Salidas", 2, align.Right),
		h("Asignado", 1, align.Right),
		h("Bajas", 1, align.Right),
		h("Neto", 2, align.Right),
	)
}

// breakdownLine una fila de la tabla: los totales de un tipo de equipo en cada sección.
type breakdownLine struct {
	name                                        string
	purchases, in, out, assigned, expended, net decimal.Decimal
}

// breakdownRows une las secciones del desglose por tipo de equipo, en el orden de Net
// (que ya viene ordenado por nombre e incluye todo equipo con movimiento).
func breakdownRows(b dto.StatsBreakdown) []core.Row {
	lines := map[string]*breakdownLine{}
	var order []string
	get := func(e dto.BreakdownEntry) *breakdownLine {
		l, ok := lines[e.EquipmentTypeID]
		if !ok {
			l = &breakdownLine{name: e.EquipmentTypeName}
			lines[e.EquipmentTypeID] = l
			order = append(order, e.EquipmentTypeID)
		}
		return l
	}
	for _, e := range b.Net {
		get(e).net = e.Total
	}
	for _, e := range b.Purchases {
		get(e).purchases = e.Total
	}
	for _, e := range b.TransfersIn {
		get(e).in = e.Total
	}
	for _, e := range b.TransfersOut {
		get(e).out = e.Total
	}
	for _, e := range b.Assigned {
		get(e).assigned = e.Total
	}
	for _, e := range b.Expended {
		get(e).expended = e.Total
	}

	cell := func(v decimal.Decimal, size int) core.Col {
		return col.New(size).Add(text.New(formatQuantity(v), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(order))
	for _, id := range order {
		l := lines[id]
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(nonEmpty(l.name, id), props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			cell(l.purchases, 2),
			cell(l.in, 2),
			cell(l.out, 2),
			cell(l.assigned, 1),
			cell(l.expended, 1),
			cell(l.net, 2),
		))
	}
	return result
}

func footerRow(stats *dto.StatsResponse, generatedAt time.Time) core.Row {
	ref := strings.Join([]string{
		"base=" + stats.BaseID,
		"equipment=" + stats.EquipmentTypeID,
		"from=" + stats.StartDate,
		"to=" + stats.EndDate,
		"closing=" + stats.ClosingBalance.String(),
	}, ";")
	return row.New(34).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Generado: "+generatedAt.UTC().Format("2006-01-02 15:04 MST"), props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Balance de cierre = apertura + compras + entradas - salidas - asignado - bajas.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
			text.New("Solo las transferencias completadas afectan los balances.", props.Text{
				Size: 7, Top: 18, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQuantity inserta puntos de miles en la parte entera y conserva los decimales.
// Ej: "25000" → "25.000", "-1234.5" → "-1.234,5"
func formatQuantity(v decimal.Decimal) string {
	s := v.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf)
	if hasFrac {
		out += "," + frac
	}
	return out
}
