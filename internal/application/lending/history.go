package lending

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
)

// loadHistory carga el cliente y su historial de préstamos en paralelo.
// Cliente inexistente -> ErrNotFound.
func loadHistory(
	ctx context.Context,
	customers repository.CustomerRepository,
	loans repository.LoanRepository,
	customerID string,
) (*entity.Customer, []*entity.Loan, error) {
	var (
		customer *entity.Customer
		history  []*entity.Loan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := loadCustomer(gctx, customers, customerID)
		customer = c
		return err
	})
	g.Go(func() error {
		l, err := loans.ListByCustomer(gctx, customerID)
		history = l
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return customer, history, nil
}
