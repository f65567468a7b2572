package lending

import (
	"context"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

// EligibilityUseCase consulta de elegibilidad sin efectos: no persiste nada.
type EligibilityUseCase struct {
	customers repository.CustomerRepository
	loans     repository.LoanRepository
	decider   *credit.Decider
	metrics   Metrics
	log       *logger.Logger
}

// NewEligibilityUseCase construye el caso de uso.
func NewEligibilityUseCase(
	customers repository.CustomerRepository,
	loans repository.LoanRepository,
	decider *credit.Decider,
	metrics Metrics,
	log *logger.Logger,
) *EligibilityUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &EligibilityUseCase{
		customers: customers,
		loans:     loans,
		decider:   decider,
		metrics:   metrics,
		log:       log.Component("eligibility"),
	}
}

// Check evalúa la solicitud contra el historial actual del cliente.
func (uc *EligibilityUseCase) Check(ctx context.Context, in dto.EligibilityRequest) (*dto.EligibilityResponse, error) {
	req := toLoanRequest(in)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	customer, history, err := loadHistory(ctx, uc.customers, uc.loans, in.CustomerID)
	if err != nil {
		return nil, err
	}

	dec, err := uc.decider.Decide(customer, history, req)
	if err != nil {
		return nil, err
	}
	uc.metrics.ObserveDecision("check_eligibility", dec.Reason)
	logDecision(uc.log, customer, dec)

	return &dto.EligibilityResponse{
		CustomerID:            customer.ID,
		Approval:              dec.Approved,
		InterestRate:          in.InterestRate,
		CorrectedInterestRate: dec.CorrectedInterestRate,
		Tenure:                in.Tenure,
		MonthlyInstallment:    dec.MonthlyInstallment,
		Message:               dec.Message,
		CreditScore:           dec.CreditScore,
	}, nil
}

func toLoanRequest(in dto.EligibilityRequest) credit.LoanRequest {
	return credit.LoanRequest{Amount: in.LoanAmount, InterestRate: in.InterestRate, Tenure: in.Tenure}
}

// logDecision rechazos a info, fallos internos a error.
func logDecision(log *logger.Logger, c *entity.Customer, dec credit.Decision) {
	switch dec.Reason {
	case credit.ReasonApproved:
		log.Debug().Str("customer_id", c.ID).Int("credit_score", dec.CreditScore).Msg("préstamo elegible")
	case credit.ReasonInternalError:
		log.Error().Str("customer_id", c.ID).Msg(dec.Message)
	default:
		log.Info().
			Str("customer_id", c.ID).
			Str("reason", string(dec.Reason)).
			Int("credit_score", dec.CreditScore).
			Str("corrected_interest_rate", dec.CorrectedInterestRate.String()).
			Msg("préstamo rechazado")
	}
}
