package credit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

func decider(reporter credit.FailureReporter) *credit.Decider {
	return credit.NewDecider(credit.NewScoreEngine(credit.FixedClock{T: now}, reporter), reporter)
}

func request(amount, rate string, tenure int) credit.LoanRequest {
	return credit.LoanRequest{Amount: dec(amount), InterestRate: dec(rate), Tenure: tenure}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de negocio
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_ClienteNuevoAprobado(t *testing.T) {
	c := newCustomer("100000", credit.ApprovedLimit(dec("100000")).String(), "0")
	require.True(t, dec("3600000").Equal(c.ApprovedLimit))

	d, err := decider(nil).Decide(c, nil, request("500000", "12", 24))
	require.NoError(t, err)
	assert.True(t, d.Approved)
	assert.Equal(t, credit.ReasonApproved, d.Reason)
	assert.Equal(t, "Loan approved.", d.Message)
	assert.Equal(t, 100, d.CreditScore)
	assert.Equal(t, "12.00", d.CorrectedInterestRate.StringFixed(2))
	assert.Equal(t, "23536.74", d.MonthlyInstallment.StringFixed(2))
}

func TestDecide_SobreendeudadoRechazaPorPuntaje(t *testing.T) {
	c := newCustomer("100000", "3600000", "3700000")

	d, err := decider(nil).Decide(c, nil, request("10000", "10", 12))
	require.NoError(t, err)
	assert.False(t, d.Approved)
	assert.Equal(t, credit.ReasonLowScore, d.Reason)
	assert.Equal(t, "Credit score is too low.", d.Message)
	assert.Equal(t, 0, d.CreditScore)
	assert.Equal(t, "100.00", d.CorrectedInterestRate.StringFixed(2))
	assert.True(t, d.MonthlyInstallment.IsPositive(), "la cuota se informa aunque se rechace")
}

// Deuda exactamente igual al cupo: el puntaje se conserva y el rechazo es por cupo.
func TestDecide_CupoAgotadoRechazaPorCupo(t *testing.T) {
	c := newCustomer("100000", "3600000", "3600000")

	d, err := decider(nil).Decide(c, nil, request("1000", "10", 12))
	require.NoError(t, err)
	assert.False(t, d.Approved)
	assert.Equal(t, 100, d.CreditScore)
	assert.Equal(t, credit.ReasonLimitExceeded, d.Reason)
}

func TestDecide_MontoSuperaCupoDisponible(t *testing.T) {
	c := newCustomer("100000", "3600000", "3200000")

	d, err := decider(nil).Decide(c, nil, request("500000", "12", 24))
	require.NoError(t, err)
	assert.False(t, d.Approved)
	assert.Equal(t, credit.ReasonLimitExceeded, d.Reason)
	assert.Equal(t, "Requested loan amount exceeds remaining approved limit.", d.Message)
	assert.Equal(t, 100, d.CreditScore)
	assert.Equal(t, "23536.74", d.MonthlyInstallment.StringFixed(2))
}

func TestDecide_CargaDeCuotasSuperaMitadDelIngreso(t *testing.T) {
	c := newCustomer("40000", "1400000", "0")
	history := []*entity.Loan{activeLoan("300000", "15000", 24, 5, date(2026, time.May, 1))}

	d, err := decider(nil).Decide(c, history, request("100000", "12", 12))
	require.NoError(t, err)
	assert.False(t, d.Approved)
	assert.Equal(t, credit.ReasonEMIBurden, d.Reason)
	assert.Equal(t, credit.MsgEMIBurden, d.Message)
	assert.Equal(t, 100, d.CreditScore)
	assert.Equal(t, "8884.88", d.MonthlyInstallment.StringFixed(2))
}

func TestDecide_PrestamosCerradosNoSumanCarga(t *testing.T) {
	c := newCustomer("40000", "1400000", "0")
	// mismo préstamo pero ya pagado: 5 de 24 cuotas -> 100 - 23,75 = 76
	history := []*entity.Loan{closedLoan("300000", 24, 5, date(2024, time.May, 1))}

	d, err := decider(nil).Decide(c, history, request("100000", "12", 12))
	require.NoError(t, err)
	assert.True(t, d.Approved, d.Message)
	assert.Equal(t, 76, d.CreditScore)
	assert.Equal(t, "12.00", d.CorrectedInterestRate.StringFixed(2))
}

// La verificación de carga va antes que la de puntaje.
func TestDecide_PrimerVetoGana(t *testing.T) {
	c := newCustomer("1000", "3600000", "3700000")

	d, err := decider(nil).Decide(c, nil, request("100000", "10", 12))
	require.NoError(t, err)
	assert.False(t, d.Approved)
	assert.Equal(t, credit.ReasonEMIBurden, d.Reason)
	assert.Equal(t, 0, d.CreditScore)
	assert.Equal(t, "100.00", d.CorrectedInterestRate.StringFixed(2))
}

func TestDecide_FranjaMediaCorrigeTasa(t *testing.T) {
	c := newCustomer("50000", "1000000", "0")
	// utilización 3,8 -> 100 - 3,0*20 = 40
	history := []*entity.Loan{closedLoan("3800000", 12, 12, date(2020, time.January, 1))}

	d, err := decider(nil).Decide(c, history, request("100000", "8", 12))
	require.NoError(t, err)
	assert.True(t, d.Approved, d.Message)
	assert.Equal(t, 40, d.CreditScore)
	assert.Equal(t, "12.00", d.CorrectedInterestRate.StringFixed(2))
	assert.Equal(t, "8884.88", d.MonthlyInstallment.StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestDecide_Idempotente(t *testing.T) {
	c := newCustomer("80000", "2900000", "150000")
	history := []*entity.Loan{
		activeLoan("150000", "7061.09", 24, 5, date(2026, time.May, 20)),
		closedLoan("90000", 6, 5, date(2025, time.January, 1)),
	}
	dd := decider(nil)
	req := request("250000", "11", 36)

	a, err := dd.Decide(c, history, req)
	require.NoError(t, err)
	b, err := dd.Decide(c, history, req)
	require.NoError(t, err)

	assert.Equal(t, a.Approved, b.Approved)
	assert.Equal(t, a.Reason, b.Reason)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.CreditScore, b.CreditScore)
	assert.True(t, a.CorrectedInterestRate.Equal(b.CorrectedInterestRate))
	assert.True(t, a.MonthlyInstallment.Equal(b.MonthlyInstallment))
}

func TestDecide_EntradasInvalidas(t *testing.T) {
	c := newCustomer("100000", "3600000", "0")
	for name, req := range map[string]credit.LoanRequest{
		"monto cero":     request("0", "10", 12),
		"monto negativo": request("-100", "10", 12),
		"tasa negativa":  request("1000", "-1", 12),
		"plazo cero":     request("1000", "10", 0),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decider(nil).Decide(c, nil, req)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}

	_, err := decider(nil).Decide(nil, nil, request("1000", "10", 12))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestDecide_FalloInternoRechazaConTasaSolicitada(t *testing.T) {
	spy := &spyReporter{}
	dd := credit.NewDecider(credit.NewScoreEngine(panicClock{}, spy), spy)
	c := newCustomer("100000", "3600000", "0")
	history := []*entity.Loan{closedLoan("1000", 1, 1, date(2020, time.January, 1))}

	d, err := dd.Decide(c, history, request("50000", "10.5", 12))
	require.NoError(t, err)
	assert.False(t, d.Approved)
	assert.Equal(t, credit.ReasonInternalError, d.Reason)
	assert.Equal(t, "Internal error during eligibility check.", d.Message)
	assert.Equal(t, "10.5", d.CorrectedInterestRate.String())
	assert.Equal(t, "0.00", d.MonthlyInstallment.StringFixed(2))

	require.Len(t, spy.failures, 2)
	assert.Equal(t, "credit_score", spy.failures[0].op)
	assert.Equal(t, "eligibility", spy.failures[1].op)
	assert.ErrorIs(t, spy.failures[1].err, domain.ErrCalculationFailure)
}

func TestActiveInstallments(t *testing.T) {
	history := []*entity.Loan{
		activeLoan("100000", "1000.50", 24, 3, date(2026, time.July, 1)),
		activeLoan("200000", "2000.25", 24, 8, date(2026, time.February, 1)),
		closedLoan("50000", 12, 12, date(2024, time.January, 1)),
		nil,
	}
	assert.Equal(t, "3000.75", credit.ActiveInstallments(history, now).StringFixed(2))
}
