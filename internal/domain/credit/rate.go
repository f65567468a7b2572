package credit

import "github.com/shopspring/decimal"

// Tasas mínimas por franja de puntaje (porcentaje anual).
var (
	FloorRateMidBand = decimal.NewFromInt(12)  // 30 < score <= 50
	FloorRateLowBand = decimal.NewFromInt(16)  // 10 < score <= 30
	UnbankableRate   = decimal.NewFromInt(100) // score <= 10; el préstamo se rechaza igual
)

// CorrectInterestRate ajusta la tasa solicitada según la franja del puntaje:
//
//	score > 50        -> tasa solicitada
//	30 < score <= 50  -> max(12, solicitada)
//	10 < score <= 30  -> max(16, solicitada)
//	score <= 10       -> 100 (indica "no bancarizable", no es una tasa a cobrar)
//
// El resultado se cuantiza a 2 decimales.
func CorrectInterestRate(score int, requested decimal.Decimal) decimal.Decimal {
	var rate decimal.Decimal
	switch {
	case score > 50:
		rate = requested
	case score > 30:
		rate = decimal.Max(FloorRateMidBand, requested)
	case score > 10:
		rate = decimal.Max(FloorRateLowBand, requested)
	default:
		rate = UnbankableRate
	}
	return rate.Round(MoneyPlaces)
}
