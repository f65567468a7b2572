package lending_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

func TestCreateLoan_AprobadoPersisteYActualizaDeuda(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.register(t, "9876543210", "100000")

	resp, err := e.loans.Create(ctx, loanRequest(c.CustomerID, "500000", "12", 24))
	require.NoError(t, err)
	require.True(t, resp.LoanApproved)
	require.NotNil(t, resp.LoanID)
	assert.Equal(t, credit.MsgApproved, resp.Message)
	assert.Equal(t, "23536.74", resp.MonthlyInstallment.StringFixed(2))

	loan, err := e.store.Loans().GetByID(ctx, *resp.LoanID)
	require.NoError(t, err)
	require.NotNil(t, loan)
	assert.Equal(t, entity.LoanStatusApproved, loan.Status)
	assert.Equal(t, date(2026, time.October, 15), loan.StartDate)
	assert.Equal(t, date(2028, time.October, 31), loan.EndDate)
	assert.Equal(t, 0, loan.EMIsPaidOnTime)
	assert.True(t, dec("12").Equal(loan.InterestRate))

	customer, err := e.customers.Get(ctx, c.CustomerID)
	require.NoError(t, err)
	assert.True(t, dec("500000").Equal(customer.CurrentDebt))

	assert.Equal(t, 1, e.metrics.created)
	assert.Contains(t, e.metrics.decisions, "create_loan:approved")
	assert.Equal(t, []string{c.CustomerID}, e.cache.invalidated)
}

func TestCreateLoan_RechazadoNoPersiste(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.register(t, "9876543210", "100000")

	resp, err := e.loans.Create(ctx, loanRequest(c.CustomerID, "4000000", "12", 24))
	require.NoError(t, err)
	assert.False(t, resp.LoanApproved)
	assert.Nil(t, resp.LoanID)
	assert.NotEmpty(t, resp.Message)

	history, err := e.store.Loans().ListByCustomer(ctx, c.CustomerID)
	require.NoError(t, err)
	assert.Empty(t, history)
	customer, err := e.customers.Get(ctx, c.CustomerID)
	require.NoError(t, err)
	assert.True(t, customer.CurrentDebt.IsZero())
	assert.Zero(t, e.metrics.created)
	assert.Empty(t, e.cache.invalidated)
}

func TestCreateLoan_Errores(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.loans.Create(ctx, loanRequest("no-existe", "1000", "10", 12))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.loans.Create(ctx, loanRequest("", "1000", "10", 12))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	c := e.register(t, "9876543210", "100000")
	_, err = e.loans.Create(ctx, loanRequest(c.CustomerID, "1000", "10", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

// Solicitudes concurrentes del mismo cliente: entre todas no pueden superar el cupo.
func TestCreateLoan_ConcurrenciaRespetaCupo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	// cupo 10.000.000: cabe un solo préstamo de 6.000.000; la carga de cuotas no es limitante
	c, err := e.customers.Register(ctx, dto.RegisterCustomerRequest{
		FirstName: "Laura", LastName: "Gómez", Age: 31,
		MonthlyIncome: dec("1000000"), PhoneNumber: "9876543210", ApprovedLimit: dec("10000000"),
	})
	require.NoError(t, err)
	const workers = 12

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		approved int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := e.loans.Create(ctx, loanRequest(c.CustomerID, "6000000", "10", 120))
			if assert.NoError(t, err) && resp.LoanApproved {
				mu.Lock()
				approved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, approved)
	customer, err := e.customers.Get(ctx, c.CustomerID)
	require.NoError(t, err)
	assert.True(t, dec("6000000").Equal(customer.CurrentDebt), "deuda %s", customer.CurrentDebt)

	history, err := e.store.Loans().ListByCustomer(ctx, c.CustomerID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestLoanGet_DetalleConCliente(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.register(t, "9876543210", "100000")
	resp, err := e.loans.Create(ctx, loanRequest(c.CustomerID, "100000", "10", 12))
	require.NoError(t, err)
	require.NotNil(t, resp.LoanID)

	detail, err := e.loans.Get(ctx, *resp.LoanID)
	require.NoError(t, err)
	assert.Equal(t, *resp.LoanID, detail.LoanID)
	assert.Equal(t, c.CustomerID, detail.Customer.ID)
	assert.Equal(t, "Laura", detail.Customer.FirstName)
	assert.Equal(t, "8791.59", detail.MonthlyInstallment.StringFixed(2))
	assert.Equal(t, 12, detail.Tenure)
	assert.Equal(t, "2026-10-15", detail.StartDate)
	assert.Equal(t, "2027-10-31", detail.EndDate)

	_, err = e.loans.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListActiveByCustomer_SoloVigentesRecientesPrimero(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.register(t, "9876543210", "100000")

	e.seedLoan(t, &entity.Loan{
		ID: "viejo", CustomerID: c.CustomerID, LoanAmount: dec("50000"), Tenure: 12,
		InterestRate: dec("9"), MonthlyInstallment: dec("4372.60"), EMIsPaidOnTime: 12,
		StartDate: date(2022, time.January, 1), EndDate: date(2022, time.December, 31),
		Status: entity.LoanStatusApproved,
	})
	e.seedLoan(t, &entity.Loan{
		ID: "pagado", CustomerID: c.CustomerID, LoanAmount: dec("50000"), Tenure: 36,
		InterestRate: dec("9"), MonthlyInstallment: dec("1590.00"), EMIsPaidOnTime: 36,
		StartDate: date(2025, time.January, 1), EndDate: date(2027, time.December, 31),
		Status: entity.LoanStatusPaid,
	})
	e.seedLoan(t, &entity.Loan{
		ID: "anterior", CustomerID: c.CustomerID, LoanAmount: dec("80000"), Tenure: 24,
		InterestRate: dec("11"), MonthlyInstallment: dec("3728.63"), EMIsPaidOnTime: 5,
		StartDate: date(2026, time.March, 1), EndDate: date(2028, time.March, 31),
		Status: entity.LoanStatusApproved,
	})
	resp, err := e.loans.Create(ctx, loanRequest(c.CustomerID, "100000", "10", 12))
	require.NoError(t, err)
	require.True(t, resp.LoanApproved, resp.Message)

	items, err := e.loans.ListActiveByCustomer(ctx, c.CustomerID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, *resp.LoanID, items[0].LoanID)
	assert.Equal(t, 12, items[0].RepaymentsLeft)
	assert.Equal(t, "anterior", items[1].LoanID)
	assert.Equal(t, 19, items[1].RepaymentsLeft)

	_, err = e.loans.ListActiveByCustomer(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
