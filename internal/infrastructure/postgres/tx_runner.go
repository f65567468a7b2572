package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
)

// Ensure TxRunner implements lending.TxRunner.
var _ lending.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLending inicia una transacción, ejecuta fn con repos de clientes y préstamos atados a
// la tx y hace Commit o Rollback. El SELECT ... FOR UPDATE de GetByIDForUpdate se mantiene
// hasta el Commit.
func (r *TxRunner) RunLending(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	loanRepo repository.LoanRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCustomerRepository(tx), NewLoanRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping verifica la conexión para /health.
func (r *TxRunner) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
