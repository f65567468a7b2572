package credit

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

// Reason código estable del resultado de la decisión (logs y métricas).
type Reason string

const (
	ReasonApproved      Reason = "approved"
	ReasonEMIBurden     Reason = "emi_burden"
	ReasonLowScore      Reason = "low_score"
	ReasonLimitExceeded Reason = "limit_exceeded"
	ReasonInternalError Reason = "internal_error"
)

// Mensajes devueltos al cliente por cada resultado.
const (
	MsgApproved      = "Loan approved."
	MsgEMIBurden     = "Sum of current EMIs (including potential new loan) exceeds 50% of monthly salary."
	MsgLowScore      = "Credit score is too low."
	MsgLimitExceeded = "Requested loan amount exceeds remaining approved limit."
	MsgInternalError = "Internal error during eligibility check."
)

// LowScoreCutoff puntaje máximo con el que se rechaza cualquier préstamo.
const LowScoreCutoff = 10

var maxIncomeShare = decimal.RequireFromString("0.5")

// LoanRequest términos solicitados por el cliente.
type LoanRequest struct {
	Amount       decimal.Decimal
	InterestRate decimal.Decimal // anual, porcentaje
	Tenure       int             // meses
}

// Validate rechaza montos no positivos, tasas negativas y plazos no positivos.
func (r LoanRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: loan_amount debe ser positivo", domain.ErrInvalidArgument)
	}
	if r.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest_rate no puede ser negativa", domain.ErrInvalidArgument)
	}
	if r.Tenure <= 0 {
		return fmt.Errorf("%w: tenure debe ser positivo", domain.ErrInvalidArgument)
	}
	return nil
}

// Decision resultado de la evaluación. CorrectedInterestRate y MonthlyInstallment se
// informan también en los rechazos.
type Decision struct {
	Approved              bool
	Reason                Reason
	Message               string
	CreditScore           int
	CorrectedInterestRate decimal.Decimal
	MonthlyInstallment    decimal.Decimal
}

// Decider decide la elegibilidad de un préstamo en una sola pasada, sin estado.
type Decider struct {
	scores   *ScoreEngine
	reporter FailureReporter
}

// NewDecider construye el decisor sobre el motor de puntaje.
func NewDecider(scores *ScoreEngine, reporter FailureReporter) *Decider {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Decider{scores: scores, reporter: reporter}
}

// Decide evalúa la solicitud. Las verificaciones son vetos en orden y la primera que
// falla determina el rechazo:
//
//  1. puntaje y tasa corregida
//  2. cuota candidata con la tasa corregida
//  3. cuotas activas + candidata > 50% del ingreso mensual
//  4. puntaje <= 10
//  5. monto > cupo aprobado - deuda actual
//
// Solo devuelve error para entradas inválidas (ErrInvalidArgument). Un fallo interno
// se degrada a rechazo con la tasa solicitada sin modificar.
func (d *Decider) Decide(customer *entity.Customer, loans []*entity.Loan, req LoanRequest) (dec Decision, err error) {
	if err := req.Validate(); err != nil {
		return Decision{}, err
	}
	if customer == nil {
		return Decision{}, fmt.Errorf("%w: cliente requerido", domain.ErrInvalidArgument)
	}
	defer func() {
		if r := recover(); r != nil {
			dec = d.internalFailure(customer, req, fmt.Errorf("%w: %v", domain.ErrCalculationFailure, r))
			err = nil
		}
	}()

	score := d.scores.Score(customer, loans)
	rate := CorrectInterestRate(score, req.InterestRate)
	emi, emiErr := ComputeEMI(req.Amount, rate, req.Tenure)
	if emiErr != nil {
		return d.internalFailure(customer, req, fmt.Errorf("%w: %v", domain.ErrCalculationFailure, emiErr)), nil
	}

	dec = Decision{
		CreditScore:           score,
		CorrectedInterestRate: rate,
		MonthlyInstallment:    emi,
	}

	burden := ActiveInstallments(loans, d.scores.Clock().Now()).Add(emi)
	switch {
	case burden.GreaterThan(customer.MonthlyIncome.Mul(maxIncomeShare)):
		dec.Reason, dec.Message = ReasonEMIBurden, MsgEMIBurden
	case score <= LowScoreCutoff:
		dec.Reason, dec.Message = ReasonLowScore, MsgLowScore
	case req.Amount.GreaterThan(customer.RemainingLimit()):
		dec.Reason, dec.Message = ReasonLimitExceeded, MsgLimitExceeded
	default:
		dec.Approved = true
		dec.Reason, dec.Message = ReasonApproved, MsgApproved
	}
	return dec, nil
}

func (d *Decider) internalFailure(customer *entity.Customer, req LoanRequest, cause error) Decision {
	d.reporter.ReportFailure("eligibility", customer.ID, cause)
	return Decision{
		Approved:              false,
		Reason:                ReasonInternalError,
		Message:               MsgInternalError,
		CorrectedInterestRate: req.InterestRate,
		MonthlyInstallment:    decimal.Zero.Round(MoneyPlaces),
	}
}

// ActiveInstallments suma las cuotas de los préstamos vigentes a la fecha now.
func ActiveInstallments(loans []*entity.Loan, now time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range loans {
		if l != nil && l.IsActive(now) {
			sum = sum.Add(l.MonthlyInstallment)
		}
	}
	return sum
}
