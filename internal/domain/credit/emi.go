// Package credit contiene el núcleo de decisión de crédito: cálculo de cuota (EMI),
// puntaje crediticio, corrección de tasa y decisión de elegibilidad.
// Todas las funciones son puras y síncronas; la persistencia y la concurrencia son
// responsabilidad del llamador.
package credit

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
)

// MoneyPlaces decimales de los montos monetarios y tasas.
const MoneyPlaces = 2

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	one     = decimal.NewFromInt(1)
)

// ComputeEMI calcula la cuota mensual fija de un préstamo.
//
//	r   = tasaAnual / 100 / 12
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// Con tasa 0 la cuota es P / n. En ambos casos el resultado se redondea a 2 decimales
// (half-up). principal > 0, annualRate >= 0 y tenureMonths > 0; si no, ErrInvalidArgument.
func ComputeEMI(principal, annualRate decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if tenureMonths <= 0 {
		return decimal.Zero, fmt.Errorf("%w: plazo debe ser positivo (%d)", domain.ErrInvalidArgument, tenureMonths)
	}
	if !principal.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: monto debe ser positivo (%s)", domain.ErrInvalidArgument, principal)
	}
	if annualRate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: tasa no puede ser negativa (%s)", domain.ErrInvalidArgument, annualRate)
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	if annualRate.IsZero() {
		return principal.DivRound(n, MoneyPlaces), nil
	}

	r := annualRate.Div(hundred).Div(twelve)
	if r.IsZero() {
		// tasa tan pequeña que se anula a la precisión de división
		return principal.DivRound(n, MoneyPlaces), nil
	}
	growth := one.Add(r).Pow(n) // precisión acotada; el DivRound final fija los 2 decimales
	num := principal.Mul(r).Mul(growth)
	den := growth.Sub(one)
	return num.DivRound(den, MoneyPlaces), nil
}
