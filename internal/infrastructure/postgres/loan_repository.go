package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
)

var _ repository.LoanRepository = (*LoanRepo)(nil)

const loanColumns = `id, customer_id, loan_amount, tenure, interest_rate, monthly_installment,
	emis_paid_on_time, start_date, end_date, status, created_at, updated_at`

// LoanRepo implementación de LoanRepository (usable con pool o tx).
type LoanRepo struct {
	q Querier
}

// NewLoanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoanRepository(q Querier) *LoanRepo {
	return &LoanRepo{q: q}
}

// Create persiste un préstamo.
func (r *LoanRepo) Create(ctx context.Context, l *entity.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, loanArgs(l)...)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: loan %s", domain.ErrDuplicate, l.ID)
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: customer %s", domain.ErrNotFound, l.CustomerID)
		}
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

// GetByID obtiene un préstamo por ID; (nil, nil) si no existe.
func (r *LoanRepo) GetByID(ctx context.Context, id string) (*entity.Loan, error) {
	l, err := scanLoan(r.q.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return l, nil
}

// ListByCustomer préstamos del cliente, más recientes primero.
func (r *LoanRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Loan, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE customer_id = $1 ORDER BY start_date DESC, created_at DESC`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()
	var list []*entity.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Upsert inserta o reemplaza el préstamo por ID.
func (r *LoanRepo) Upsert(ctx context.Context, l *entity.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			loan_amount = EXCLUDED.loan_amount,
			tenure = EXCLUDED.tenure,
			interest_rate = EXCLUDED.interest_rate,
			monthly_installment = EXCLUDED.monthly_installment,
			emis_paid_on_time = EXCLUDED.emis_paid_on_time,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			status = EXCLUDED.status,
			updated_at = now()`
	if _, err := r.q.Exec(ctx, query, loanArgs(l)...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: customer %s", domain.ErrNotFound, l.CustomerID)
		}
		return fmt.Errorf("upsert loan: %w", err)
	}
	return nil
}

func loanArgs(l *entity.Loan) []any {
	return []any{
		l.ID, l.CustomerID, l.LoanAmount, l.Tenure, l.InterestRate, l.MonthlyInstallment,
		l.EMIsPaidOnTime, l.StartDate, l.EndDate, l.Status, l.CreatedAt, l.UpdatedAt,
	}
}

func scanLoan(row pgx.Row) (*entity.Loan, error) {
	var l entity.Loan
	err := row.Scan(
		&l.ID, &l.CustomerID, &l.LoanAmount, &l.Tenure, &l.InterestRate, &l.MonthlyInstallment,
		&l.EMIsPaidOnTime, &l.StartDate, &l.EndDate, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
