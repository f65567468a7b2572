// Package pdf genera el extracto de un préstamo (cronograma de amortización) en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Extracto de préstamo  │  ID préstamo + fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: nombre, teléfono, cupo y deuda actual              │
//	│  CONDICIONES: monto, tasa, plazo, cuota, vigencia            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: N° | Vence | Cuota | Interés | Capital | Saldo       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: total pagado / total intereses      + QR del ID    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

var _ lending.StatementRenderer = (*StatementGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// StatementGenerator implementa lending.StatementRenderer usando Maroto v2.
type StatementGenerator struct {
	printer *message.Printer
}

// NewStatementGenerator construye el generador. Los montos se agrupan según tag
// (language.English: 1,234,567.89).
func NewStatementGenerator(tag language.Tag) *StatementGenerator {
	return &StatementGenerator{printer: message.NewPrinter(tag)}
}

// Render genera el PDF y devuelve sus bytes.
func (g *StatementGenerator) Render(loan *entity.Loan, customer *entity.Customer, rows []credit.Installment) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Extracto de préstamo", true).
		WithAuthor("Credit Approval System", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(loan))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.customerRow(customer))
	m.AddRows(g.termsRow(loan))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableRows(rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(loan, rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *StatementGenerator) headerRow(loan *entity.Loan) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("EXTRACTO DE PRÉSTAMO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+string(loan.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(loan.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
			}),
			text.New("Aprobado: "+loan.StartDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Vence: "+loan.EndDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func (g *StatementGenerator) customerRow(c *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.FullName(), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tel: %s   |   Cupo aprobado: %s   |   Deuda actual: %s",
				c.PhoneNumber, g.money(c.ApprovedLimit), g.money(c.CurrentDebt),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func (g *StatementGenerator) termsRow(l *entity.Loan) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CONDICIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Monto: %s   |   Tasa anual: %s%%   |   Plazo: %d meses   |   Cuota: %s   |   Cuotas pagadas a tiempo: %d",
				g.money(l.LoanAmount), l.InterestRate.StringFixed(2), l.Tenure,
				g.money(l.MonthlyInstallment), l.EMIsPaidOnTime,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
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
		h("N°", 1, align.Center),
		h("Vence", 2, align.Center),
		h("Cuota", 2, align.Right),
		h("Interés", 2, align.Right),
		h("Capital", 2, align.Right),
		h("Saldo", 3, align.Right),
	)
}

// tableRows una fila por cuota.
func (g *StatementGenerator) tableRows(rows []credit.Installment) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, row.New(6).Add(
			cell(fmt.Sprint(r.Number), 1, align.Center),
			cell(r.DueDate.Format(dateLayout), 2, align.Center),
			cell(g.money(r.Payment), 2, align.Right),
			cell(g.money(r.Interest), 2, align.Right),
			cell(g.money(r.Principal), 2, align.Right),
			cell(g.money(r.Balance), 3, align.Right),
		))
	}
	return out
}

func (g *StatementGenerator) totalsRow(loan *entity.Loan, rows []credit.Installment) core.Row {
	paid, interest := decimal.Zero, decimal.Zero
	for _, r := range rows {
		paid = paid.Add(r.Payment)
		interest = interest.Add(r.Interest)
	}
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(loan.ID, props.Rect{Percent: 90, Center: true})),
		col.New(3),
		col.New(3).Add(
			label("Total a pagar:", 2),
			label("Total intereses:", 8),
		),
		col.New(3).Add(
			value(g.money(paid), 2),
			value(g.money(interest), 8),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money "1234567.5" -> "1,234,567.50" con los separadores del idioma del printer.
func (g *StatementGenerator) money(d decimal.Decimal) string {
	abs := d.Abs().Round(credit.MoneyPlaces)
	_, frac, _ := strings.Cut(abs.StringFixed(credit.MoneyPlaces), ".")
	sign := ""
	if d.IsNegative() && !abs.IsZero() {
		sign = "-"
	}
	return sign + g.printer.Sprintf("%d", abs.IntPart()) + "." + frac
}
