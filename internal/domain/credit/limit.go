package credit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

var (
	limitIncomeMultiple = decimal.NewFromInt(36)
	limitRoundingUnit   = decimal.NewFromInt(100_000)
)

// ApprovedLimit cupo aprobado derivado del ingreso mensual:
// 36 * ingreso redondeado (half-up) al múltiplo de 100.000 más cercano.
func ApprovedLimit(monthlyIncome decimal.Decimal) decimal.Decimal {
	raw := limitIncomeMultiple.Mul(monthlyIncome)
	return raw.DivRound(limitRoundingUnit, 0).Mul(limitRoundingUnit)
}

// LoanEndDate fecha de fin alineada a fin de mes: último día del mes en que cae
// start + tenure meses. Ej: start 2026-10-15, 24 meses -> 2028-10-31.
func LoanEndDate(start time.Time, tenureMonths int) time.Time {
	s := entity.DateOf(start)
	firstOfMonth := time.Date(s.Year(), s.Month()+time.Month(tenureMonths), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1)
}
