package repository

import (
	"context"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

// LoanRepository define el puerto de persistencia para Loan.
type LoanRepository interface {
	Create(ctx context.Context, loan *entity.Loan) error
	GetByID(ctx context.Context, id string) (*entity.Loan, error)
	// ListByCustomer todos los préstamos del cliente, más recientes primero.
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Loan, error)
	// Upsert inserta o reemplaza por ID (ingesta masiva).
	Upsert(ctx context.Context, loan *entity.Loan) error
}
