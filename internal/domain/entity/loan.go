package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un préstamo.
const (
	LoanStatusPending  = "PENDING"
	LoanStatusApproved = "APPROVED"
	LoanStatusRejected = "REJECTED"
	LoanStatusPaid     = "PAID"
)

// Loan representa un préstamo de un cliente.
// StartDate y EndDate se manejan como fechas (sin hora relevante).
type Loan struct {
	ID                 string
	CustomerID         string
	LoanAmount         decimal.Decimal
	Tenure             int             // meses
	InterestRate       decimal.Decimal // tasa anual en porcentaje
	MonthlyInstallment decimal.Decimal
	EMIsPaidOnTime     int
	StartDate          time.Time
	EndDate            time.Time
	Status             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RepaymentsLeft cuotas pendientes: max(0, Tenure - EMIsPaidOnTime).
func (l *Loan) RepaymentsLeft() int {
	left := l.Tenure - l.EMIsPaidOnTime
	if left < 0 {
		return 0
	}
	return left
}

// IsActive indica si el préstamo está vigente a la fecha de now:
// aprobado y con fecha de fin estrictamente posterior a hoy.
func (l *Loan) IsActive(now time.Time) bool {
	return l.Status == LoanStatusApproved && DateOf(l.EndDate).After(DateOf(now))
}

// IsValidLoanStatus valida los estados admitidos.
func IsValidLoanStatus(s string) bool {
	switch s {
	case LoanStatusPending, LoanStatusApproved, LoanStatusRejected, LoanStatusPaid:
		return true
	}
	return false
}

// DateOf trunca t a medianoche UTC de su fecha calendario.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
