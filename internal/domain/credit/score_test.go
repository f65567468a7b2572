package credit_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

var now = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

type failure struct {
	op, customerID string
	err            error
}

// spyReporter registra los fallos reportados.
type spyReporter struct{ failures []failure }

func (s *spyReporter) ReportFailure(op, customerID string, err error) {
	s.failures = append(s.failures, failure{op, customerID, err})
}

func newCustomer(income, limit, debt string) *entity.Customer {
	return &entity.Customer{
		ID:            "cust-1",
		FirstName:     "Ana",
		LastName:      "Pérez",
		Age:           35,
		PhoneNumber:   "3001234567",
		MonthlyIncome: dec(income),
		ApprovedLimit: dec(limit),
		CurrentDebt:   dec(debt),
	}
}

// closedLoan préstamo ya cerrado (PAID) que empezó en start.
func closedLoan(amount string, tenure, paid int, start time.Time) *entity.Loan {
	return &entity.Loan{
		ID:                 "loan-" + start.Format("20060102"),
		CustomerID:         "cust-1",
		LoanAmount:         dec(amount),
		Tenure:             tenure,
		InterestRate:       dec("10"),
		MonthlyInstallment: dec("1000"),
		EMIsPaidOnTime:     paid,
		StartDate:          start,
		EndDate:            credit.LoanEndDate(start, tenure),
		Status:             entity.LoanStatusPaid,
	}
}

// activeLoan préstamo aprobado cuya fecha de fin sigue en el futuro.
func activeLoan(amount, installment string, tenure, paid int, start time.Time) *entity.Loan {
	l := closedLoan(amount, tenure, paid, start)
	l.Status = entity.LoanStatusApproved
	l.MonthlyInstallment = dec(installment)
	return l
}

func engine() *credit.ScoreEngine {
	return credit.NewScoreEngine(credit.FixedClock{T: now}, nil)
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos base
// ──────────────────────────────────────────────────────────────────────────────

func TestScore_SinHistorialEs100(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	assert.Equal(t, 100, engine().Score(c, nil))
	assert.Equal(t, 100, engine().Score(c, []*entity.Loan{}))
}

func TestScore_SobreendeudadoEs0(t *testing.T) {
	c := newCustomer("100000", "3600000", "3600000.01")
	history := []*entity.Loan{closedLoan("100000", 12, 12, date(2020, time.January, 1))}
	assert.Equal(t, 0, engine().Score(c, history))
	assert.Equal(t, 0, engine().Score(c, nil))
}

// La regla es estricta: deuda igual al cupo no anula el puntaje.
func TestScore_DeudaIgualAlCupoNoEsSobreendeudamiento(t *testing.T) {
	c := newCustomer("100000", "3600000", "3600000")
	assert.Equal(t, 100, engine().Score(c, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Penalizaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestScore_PenalizaPagosAtrasadosEnPrestamosCerrados(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	// 6 de 12 cuotas: ratio 0,5 -> 100 - 0,5*30 = 85
	history := []*entity.Loan{closedLoan("100000", 12, 6, date(2024, time.March, 1))}
	assert.Equal(t, 85, engine().Score(c, history))
}

func TestScore_PrestamoVigenteCuentaMesesTranscurridos(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	start := date(2026, time.April, 10) // 6 meses antes de now

	alDia := []*entity.Loan{activeLoan("100000", "4707.35", 24, 6, start)}
	assert.Equal(t, 100, engine().Score(c, alDia))

	atrasado := []*entity.Loan{activeLoan("100000", "4707.35", 24, 3, start)}
	assert.Equal(t, 85, engine().Score(c, atrasado))
}

func TestScore_MesesTranscurridosNoExcedenElPlazo(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	l := activeLoan("100000", "8791.59", 12, 12, date(2020, time.January, 1))
	l.EndDate = date(2027, time.January, 31) // fin aún futuro: cuenta como vigente
	assert.Equal(t, 100, engine().Score(c, []*entity.Loan{l}))
}

func TestScore_InicioFuturoNoEsperaCuotas(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	l := activeLoan("100000", "8791.59", 12, 0, date(2027, time.January, 1))
	assert.Equal(t, 100, engine().Score(c, []*entity.Loan{l}))
}

// El resultado se trunca: 100 - 12,5 = 87,5 -> 87.
func TestScore_TruncaHaciaAbajo(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	history := []*entity.Loan{closedLoan("100000", 12, 7, date(2023, time.May, 1))}
	assert.Equal(t, 87, engine().Score(c, history))
}

// Razones periódicas (1/3, 2/3, 1/9) cuya penalización exacta es entera o se trunca;
// el resultado debe coincidir con la fórmula evaluada sin redondeos intermedios.
func TestScore_PenalizacionesExactas(t *testing.T) {
	start := date(2020, time.January, 1)
	tests := []struct {
		name    string
		limit   string
		history []*entity.Loan
		want    int
	}{
		{
			name:    "1 de 3 cuotas: 100 - (2/3)*30 = 80",
			limit:   "3600000",
			history: []*entity.Loan{closedLoan("10000", 3, 1, start)},
			want:    80,
		},
		{
			name:    "2 de 3 cuotas: 100 - (1/3)*30 = 90",
			limit:   "3600000",
			history: []*entity.Loan{closedLoan("10000", 3, 2, start)},
			want:    90,
		},
		{
			name:    "1 de 6 cuotas: 100 - (5/6)*30 = 75",
			limit:   "3600000",
			history: []*entity.Loan{closedLoan("10000", 6, 1, start)},
			want:    75,
		},
		{
			name:  "3 de 9 cuotas entre dos préstamos: 100 - (2/3)*30 = 80",
			limit: "3600000",
			history: []*entity.Loan{
				closedLoan("10000", 3, 1, start),
				closedLoan("10000", 6, 2, date(2021, time.March, 1)),
			},
			want: 80,
		},
		{
			name:    "8 de 9 cuotas: 100 - (1/9)*30 = 96,67 -> 96",
			limit:   "3600000",
			history: []*entity.Loan{closedLoan("10000", 9, 8, start)},
			want:    96,
		},
		{
			name:    "9 de 10 cuotas no penaliza",
			limit:   "3600000",
			history: []*entity.Loan{closedLoan("10000", 10, 9, start)},
			want:    100,
		},
		{
			name:    "cumplimiento 1/3 y utilización 1,0: 100 - 20 - 4 = 76",
			limit:   "300000",
			history: []*entity.Loan{closedLoan("300000", 3, 1, start)},
			want:    76,
		},
		{
			name:    "cumplimiento 2/3 y utilización 0,9: 100 - 10 - 2 = 88",
			limit:   "300000",
			history: []*entity.Loan{closedLoan("270000", 3, 2, start)},
			want:    88,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCustomer("100000", tt.limit, "0")
			score, err := engine().Compute(c, tt.history)
			require.NoError(t, err)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestScore_PenalizaCantidadDePrestamos(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	var history []*entity.Loan
	for i := 0; i < 7; i++ {
		history = append(history, closedLoan("100000", 12, 12, date(2020, time.Month(i+1), 1)))
	}
	// (7 - 5) * 3 = 6
	assert.Equal(t, 94, engine().Score(c, history))
}

func TestScore_PenalizaPrestamosDelAnioEnCurso(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	var history []*entity.Loan
	for m := time.January; m <= time.April; m++ {
		start := date(2026, m, 1)
		elapsed := int(now.Month() - m)
		history = append(history, activeLoan("100000", "8791.59", 12, elapsed, start))
	}
	// (4 - 2) * 5 = 10
	assert.Equal(t, 90, engine().Score(c, history))
}

func TestScore_PenalizaUtilizacion(t *testing.T) {
	c := newCustomer("50000", "1000000", "0")
	history := []*entity.Loan{
		closedLoan("650000", 12, 12, date(2020, time.January, 1)),
		closedLoan("650000", 12, 12, date(2021, time.January, 1)),
	}
	// utilización 1,3 -> (1,3 - 0,8) * 20 = 10
	assert.Equal(t, 90, engine().Score(c, history))
}

func TestScore_AcotadoACero(t *testing.T) {
	c := newCustomer("10000", "100000", "0")
	var history []*entity.Loan
	for i := 0; i < 30; i++ {
		history = append(history, closedLoan("100000", 12, 0, date(2026, time.January, 1+i%28)))
	}
	assert.Equal(t, 0, engine().Score(c, history))
}

func TestScore_IndependienteDelOrden(t *testing.T) {
	c := newCustomer("80000", "2900000", "0")
	history := []*entity.Loan{
		closedLoan("900000", 24, 20, date(2022, time.June, 1)),
		activeLoan("400000", "18829.39", 24, 4, date(2026, time.February, 1)),
		closedLoan("1200000", 12, 12, date(2021, time.March, 1)),
		activeLoan("300000", "26654.64", 12, 9, date(2026, time.January, 5)),
		closedLoan("250000", 6, 2, date(2026, time.March, 1)),
	}
	reversed := make([]*entity.Loan, len(history))
	for i, l := range history {
		reversed[len(history)-1-i] = l
	}
	a := engine().Score(c, history)
	b := engine().Score(c, reversed)
	assert.Equal(t, a, b)
	assert.True(t, a >= 0 && a <= 100)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallos internos
// ──────────────────────────────────────────────────────────────────────────────

func TestCompute_HistorialInvalidoEsErrorDeCalculo(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	bad := closedLoan("100000", 12, 12, date(2020, time.January, 1))
	bad.Tenure = -1

	_, err := engine().Compute(c, []*entity.Loan{bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCalculationFailure)

	_, err = engine().Compute(c, []*entity.Loan{nil})
	assert.ErrorIs(t, err, domain.ErrCalculationFailure)
}

func TestScore_FalloInternoDevuelveCeroYReporta(t *testing.T) {
	spy := &spyReporter{}
	e := credit.NewScoreEngine(credit.FixedClock{T: now}, spy)
	c := newCustomer("100000", "3600000", "0")
	bad := closedLoan("-5", 12, 12, date(2020, time.January, 1))

	assert.Equal(t, 0, e.Score(c, []*entity.Loan{bad}))
	require.Len(t, spy.failures, 1)
	assert.Equal(t, "credit_score", spy.failures[0].op)
	assert.Equal(t, "cust-1", spy.failures[0].customerID)
	assert.True(t, errors.Is(spy.failures[0].err, domain.ErrCalculationFailure))
}

// panicClock simula un colaborador que falla de forma inesperada.
type panicClock struct{}

func (panicClock) Now() time.Time { panic("reloj no disponible") }

func TestCompute_RecuperaPanicos(t *testing.T) {
	e := credit.NewScoreEngine(panicClock{}, nil)
	c := newCustomer("100000", "3600000", "0")
	score, err := e.Compute(c, []*entity.Loan{closedLoan("1000", 1, 1, date(2020, time.January, 1))})
	assert.Equal(t, 0, score)
	assert.ErrorIs(t, err, domain.ErrCalculationFailure)
}

func TestNewScoreEngine_ValoresPorDefecto(t *testing.T) {
	e := credit.NewScoreEngine(nil, nil)
	assert.IsType(t, credit.SystemClock{}, e.Clock())
	assert.WithinDuration(t, time.Now(), e.Clock().Now(), time.Minute)
}
