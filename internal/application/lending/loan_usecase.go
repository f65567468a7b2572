package lending

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

const dateLayout = "2006-01-02"

// LoanUseCase alta y consulta de préstamos.
type LoanUseCase struct {
	tx        TxRunner
	customers repository.CustomerRepository
	loans     repository.LoanRepository
	decider   *credit.Decider
	clock     credit.Clock
	scores    *ScoreUseCase
	metrics   Metrics
	log       *logger.Logger
}

// LoanDeps dependencias de LoanUseCase.
type LoanDeps struct {
	Tx        TxRunner
	Customers repository.CustomerRepository
	Loans     repository.LoanRepository
	Decider   *credit.Decider
	Clock     credit.Clock
	Scores    *ScoreUseCase // opcional: invalida el puntaje en caché tras aprobar
	Metrics   Metrics
	Log       *logger.Logger
}

// NewLoanUseCase construye el caso de uso.
func NewLoanUseCase(d LoanDeps) *LoanUseCase {
	if d.Clock == nil {
		d.Clock = credit.SystemClock{}
	}
	if d.Metrics == nil {
		d.Metrics = nopMetrics{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &LoanUseCase{
		tx:        d.Tx,
		customers: d.Customers,
		loans:     d.Loans,
		decider:   d.Decider,
		clock:     d.Clock,
		scores:    d.Scores,
		metrics:   d.Metrics,
		log:       d.Log.Component("loans"),
	}
}

// Create evalúa y, si se aprueba, registra el préstamo. Lectura, decisión y escritura
// ocurren en una sola transacción con la fila del cliente bloqueada, de modo que dos
// solicitudes concurrentes del mismo cliente no pueden exceder juntas el cupo.
func (uc *LoanUseCase) Create(ctx context.Context, in dto.CreateLoanRequest) (*dto.CreateLoanResponse, error) {
	req := toLoanRequest(in)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer_id es obligatorio", domain.ErrInvalidArgument)
	}

	var (
		dec  credit.Decision
		loan *entity.Loan
	)
	err := uc.tx.RunLending(ctx, func(customerRepo repository.CustomerRepository, loanRepo repository.LoanRepository) error {
		customer, err := customerRepo.GetByIDForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
		}
		history, err := loanRepo.ListByCustomer(ctx, customer.ID)
		if err != nil {
			return err
		}

		dec, err = uc.decider.Decide(customer, history, req)
		if err != nil {
			return err
		}
		logDecision(uc.log, customer, dec)
		if !dec.Approved {
			return nil
		}

		now := uc.clock.Now()
		start := entity.DateOf(now)
		loan = &entity.Loan{
			ID:                 uuid.New().String(),
			CustomerID:         customer.ID,
			LoanAmount:         req.Amount,
			Tenure:             req.Tenure,
			InterestRate:       dec.CorrectedInterestRate,
			MonthlyInstallment: dec.MonthlyInstallment,
			EMIsPaidOnTime:     0,
			StartDate:          start,
			EndDate:            credit.LoanEndDate(start, req.Tenure),
			Status:             entity.LoanStatusApproved,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := loanRepo.Create(ctx, loan); err != nil {
			return err
		}
		return customerRepo.UpdateDebt(ctx, customer.ID, customer.CurrentDebt.Add(req.Amount))
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveDecision("create_loan", dec.Reason)
	resp := &dto.CreateLoanResponse{
		CustomerID:         in.CustomerID,
		LoanApproved:       dec.Approved,
		Message:            dec.Message,
		MonthlyInstallment: dec.MonthlyInstallment,
	}
	if loan != nil {
		resp.LoanID = &loan.ID
		uc.metrics.ObserveLoanCreated()
		if uc.scores != nil {
			uc.scores.Invalidate(ctx, loan.CustomerID)
		}
		uc.log.Info().Str("customer_id", loan.CustomerID).Str("loan_id", loan.ID).
			Str("loan_amount", loan.LoanAmount.String()).Msg("préstamo creado")
	}
	return resp, nil
}

// Get detalle de un préstamo con los datos del cliente.
func (uc *LoanUseCase) Get(ctx context.Context, loanID string) (*dto.LoanDetailResponse, error) {
	loan, err := uc.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, fmt.Errorf("%w: préstamo %s", domain.ErrNotFound, loanID)
	}
	customer, err := loadCustomer(ctx, uc.customers, loan.CustomerID)
	if err != nil {
		return nil, err
	}
	return &dto.LoanDetailResponse{
		LoanID: loan.ID,
		Customer: dto.LoanCustomer{
			ID:          customer.ID,
			FirstName:   customer.FirstName,
			LastName:    customer.LastName,
			PhoneNumber: customer.PhoneNumber,
			Age:         customer.Age,
		},
		LoanAmount:         loan.LoanAmount,
		InterestRate:       loan.InterestRate,
		MonthlyInstallment: loan.MonthlyInstallment,
		Tenure:             loan.Tenure,
		Status:             loan.Status,
		StartDate:          loan.StartDate.Format(dateLayout),
		EndDate:            loan.EndDate.Format(dateLayout),
	}, nil
}

// ListActiveByCustomer préstamos vigentes del cliente, más recientes primero.
func (uc *LoanUseCase) ListActiveByCustomer(ctx context.Context, customerID string) ([]dto.LoanItemResponse, error) {
	_, history, err := loadHistory(ctx, uc.customers, uc.loans, customerID)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	out := make([]dto.LoanItemResponse, 0, len(history))
	for _, l := range history {
		if !l.IsActive(now) {
			continue
		}
		out = append(out, dto.LoanItemResponse{
			LoanID:             l.ID,
			LoanAmount:         l.LoanAmount,
			InterestRate:       l.InterestRate,
			MonthlyInstallment: l.MonthlyInstallment,
			RepaymentsLeft:     l.RepaymentsLeft(),
			Status:             l.Status,
		})
	}
	return out, nil
}
