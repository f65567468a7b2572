package lending

import (
	"context"
	"fmt"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
)

// StatementUseCase genera el extracto (cronograma de amortización) de un préstamo.
type StatementUseCase struct {
	customers repository.CustomerRepository
	loans     repository.LoanRepository
	renderer  StatementRenderer
}

// NewStatementUseCase construye el caso de uso.
func NewStatementUseCase(customers repository.CustomerRepository, loans repository.LoanRepository, renderer StatementRenderer) *StatementUseCase {
	return &StatementUseCase{customers: customers, loans: loans, renderer: renderer}
}

// Download devuelve el documento del préstamo loanID.
func (uc *StatementUseCase) Download(ctx context.Context, loanID string) ([]byte, error) {
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
	rows, err := credit.Schedule(loan.LoanAmount, loan.InterestRate, loan.Tenure, loan.StartDate)
	if err != nil {
		return nil, fmt.Errorf("cronograma préstamo %s: %w", loan.ID, err)
	}
	doc, err := uc.renderer.Render(loan, customer, rows)
	if err != nil {
		return nil, fmt.Errorf("generar extracto: %w", err)
	}
	return doc, nil
}
