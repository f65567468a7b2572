package credit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

// Installment una fila del cronograma de amortización.
type Installment struct {
	Number    int
	DueDate   time.Time
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal // saldo después del pago
}

// Schedule cronograma de amortización francés (cuota fija) a partir de start.
// Interés de cada periodo = saldo * r, redondeado a 2 decimales. La última cuota
// absorbe el residuo de redondeo para que el saldo termine exactamente en 0.
func Schedule(principal, annualRate decimal.Decimal, tenureMonths int, start time.Time) ([]Installment, error) {
	emi, err := ComputeEMI(principal, annualRate, tenureMonths)
	if err != nil {
		return nil, err
	}
	r := annualRate.Div(hundred).Div(twelve)
	first := entity.DateOf(start)

	out := make([]Installment, 0, tenureMonths)
	balance := principal
	for i := 1; i <= tenureMonths; i++ {
		interest := balance.Mul(r).Round(MoneyPlaces)
		princ := emi.Sub(interest)
		if i == tenureMonths || princ.GreaterThan(balance) {
			princ = balance
		}
		balance = balance.Sub(princ)
		out = append(out, Installment{
			Number:    i,
			DueDate:   addMonthsClamped(first, i),
			Payment:   princ.Add(interest),
			Interest:  interest,
			Principal: princ,
			Balance:   balance,
		})
	}
	return out, nil
}

// addMonthsClamped suma meses sin desbordar al mes siguiente (31-ene + 1 -> 28/29-feb).
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}
