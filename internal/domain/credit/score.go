package credit

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

// Límites del puntaje.
const (
	MinScore = 0
	MaxScore = 100
)

// Umbral de cumplimiento: paid/expected < 9/10.
const (
	onTimeThresholdNum = 9
	onTimeThresholdDen = 10
)

// Parámetros de las penalizaciones del puntaje.
var (
	onTimePenaltyWeight    = decimal.NewFromInt(30)
	loanCountAllowance     = 5
	loanCountPenaltyWeight = decimal.NewFromInt(3)
	yearLoansAllowance     = 2
	yearLoansPenaltyWeight = decimal.NewFromInt(5)
	utilizationThreshold   = decimal.RequireFromString("0.8")
	utilizationWeight      = decimal.NewFromInt(20)
)

// FailureReporter colaborador de observabilidad para fallos internos de cálculo.
// Un puntaje 0 por fallo debe quedar reportado, no confundirse con un 0 legítimo.
type FailureReporter interface {
	ReportFailure(op, customerID string, err error)
}

// NopReporter descarta los reportes.
type NopReporter struct{}

// ReportFailure no hace nada.
func (NopReporter) ReportFailure(string, string, error) {}

// ScoreEngine calcula el puntaje crediticio (0-100) a partir del historial de préstamos.
type ScoreEngine struct {
	clock    Clock
	reporter FailureReporter
}

// NewScoreEngine construye el motor. clock y reporter nil usan SystemClock y NopReporter.
func NewScoreEngine(clock Clock, reporter FailureReporter) *ScoreEngine {
	if clock == nil {
		clock = SystemClock{}
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &ScoreEngine{clock: clock, reporter: reporter}
}

// Clock reloj usado por el motor (lo comparte el Decider).
func (e *ScoreEngine) Clock() Clock { return e.clock }

// Score devuelve el puntaje del cliente. Ante cualquier fallo interno devuelve 0
// (nunca un puntaje favorable) y reporta el error.
func (e *ScoreEngine) Score(customer *entity.Customer, loans []*entity.Loan) int {
	score, err := e.Compute(customer, loans)
	if err != nil {
		customerID := ""
		if customer != nil {
			customerID = customer.ID
		}
		e.reporter.ReportFailure("credit_score", customerID, err)
		return MinScore
	}
	return score
}

// Compute calcula el puntaje y devuelve el error (envuelto en ErrCalculationFailure)
// en lugar de degradarlo. Independiente del orden de loans.
//
//  1. deuda actual > cupo aprobado -> 0
//  2. sin historial -> 100
//  3. 100 menos penalizaciones independientes, truncado y acotado a [0, 100]
func (e *ScoreEngine) Compute(customer *entity.Customer, loans []*entity.Loan) (score int, err error) {
	defer func() {
		if r := recover(); r != nil {
			score = MinScore
			err = fmt.Errorf("%w: %v", domain.ErrCalculationFailure, r)
		}
	}()

	if customer == nil {
		return MinScore, fmt.Errorf("%w: cliente nil", domain.ErrCalculationFailure)
	}
	if customer.CurrentDebt.GreaterThan(customer.ApprovedLimit) {
		return MinScore, nil
	}
	if len(loans) == 0 {
		return MaxScore, nil
	}

	now := e.clock.Now()
	var (
		expected, paid int64
		volume         = decimal.Zero
		yearLoans      int
	)
	for _, l := range loans {
		if err := validateHistory(l); err != nil {
			return MinScore, err
		}
		paid += int64(l.EMIsPaidOnTime)
		expected += int64(expectedEMIs(l, now))
		volume = volume.Add(l.LoanAmount)
		if l.StartDate.Year() == now.Year() {
			yearLoans++
		}
	}

	total := fraction{num: decimal.NewFromInt(MaxScore), den: one}

	// paid/expected < 0.9  <=>  paid*10 < expected*9
	if expected > 0 && paid*onTimeThresholdDen < expected*onTimeThresholdNum {
		// (1 - paid/expected)*30 = (expected-paid)*30 / expected
		total = total.sub(decimal.NewFromInt(expected-paid).Mul(onTimePenaltyWeight), decimal.NewFromInt(expected))
	}

	if n := len(loans); n > loanCountAllowance {
		total = total.sub(decimal.NewFromInt(int64(n-loanCountAllowance)).Mul(loanCountPenaltyWeight), one)
	}

	if yearLoans > yearLoansAllowance {
		total = total.sub(decimal.NewFromInt(int64(yearLoans-yearLoansAllowance)).Mul(yearLoansPenaltyWeight), one)
	}

	// volume/limit > 0.8  <=>  volume - 0.8*limit > 0; penalización (volume - 0.8*limit)*20 / limit
	if limit := customer.ApprovedLimit; limit.IsPositive() {
		excess := volume.Sub(utilizationThreshold.Mul(limit))
		if excess.IsPositive() {
			total = total.sub(excess.Mul(utilizationWeight), limit)
		}
	}

	return clampScore(total.truncate()), nil
}

// expectedEMIs cuotas que ya deberían haberse pagado. Préstamo cerrado: todo el plazo;
// vigente: meses calendario transcurridos desde el inicio, sin exceder el plazo.
func expectedEMIs(l *entity.Loan, now time.Time) int {
	if !l.IsActive(now) {
		return l.Tenure
	}
	elapsed := monthsBetween(l.StartDate, now)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > l.Tenure {
		return l.Tenure
	}
	return elapsed
}

// monthsBetween diferencia en meses calendario (año*12 + mes), ignorando el día.
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func validateHistory(l *entity.Loan) error {
	if l == nil {
		return fmt.Errorf("%w: préstamo nil en el historial", domain.ErrCalculationFailure)
	}
	if l.Tenure < 0 || l.EMIsPaidOnTime < 0 || l.LoanAmount.IsNegative() {
		return fmt.Errorf("%w: préstamo %s con datos inválidos (plazo=%d, cuotas=%d, monto=%s)",
			domain.ErrCalculationFailure, l.ID, l.Tenure, l.EMIsPaidOnTime, l.LoanAmount)
	}
	return nil
}

// fraction num/den exacta (den > 0). Las penalizaciones se acumulan sin dividir y el
// puntaje se trunca una sola vez al final.
type fraction struct {
	num, den decimal.Decimal
}

// sub devuelve f - n/d.
func (f fraction) sub(n, d decimal.Decimal) fraction {
	return fraction{num: f.num.Mul(d).Sub(n.Mul(f.den)), den: f.den.Mul(d)}
}

// truncate parte entera hacia cero.
func (f fraction) truncate() int64 {
	q, _ := f.num.QuoRem(f.den, 0)
	return q.IntPart()
}

func clampScore(v int64) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return int(v)
}
