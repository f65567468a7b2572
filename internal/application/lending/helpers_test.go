package lending_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/memory"
)

var now = time.Date(2026, time.October, 15, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// spyMetrics registra las observaciones.
type spyMetrics struct {
	mu        sync.Mutex
	decisions []string
	created   int
	hits      int
	misses    int
	ingested  map[string][2]int
}

func (m *spyMetrics) ObserveDecision(op string, reason credit.Reason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, op+":"+string(reason))
}

func (m *spyMetrics) ObserveLoanCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *spyMetrics) ObserveCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *spyMetrics) ObserveIngest(kind string, upserted, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ingested == nil {
		m.ingested = map[string][2]int{}
	}
	m.ingested[kind] = [2]int{upserted, skipped}
}

// mapCache caché de puntajes en un map; err fuerza fallos.
type mapCache struct {
	mu          sync.Mutex
	items       map[string]entity.CreditScore
	invalidated []string
	err         error
}

func newMapCache() *mapCache { return &mapCache{items: map[string]entity.CreditScore{}} }

func (c *mapCache) Get(_ context.Context, id string) (*entity.CreditScore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	s, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *mapCache) Set(_ context.Context, s *entity.CreditScore) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.items[s.CustomerID] = *s
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
	delete(c.items, id)
	return c.err
}

// env casos de uso armados sobre el almacén en memoria con reloj fijo.
type env struct {
	store       *memory.Store
	metrics     *spyMetrics
	cache       *mapCache
	customers   *lending.CustomerUseCase
	eligibility *lending.EligibilityUseCase
	scores      *lending.ScoreUseCase
	loans       *lending.LoanUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	clock := credit.FixedClock{T: now}
	engine := credit.NewScoreEngine(clock, nil)
	decider := credit.NewDecider(engine, nil)
	metrics := &spyMetrics{}
	cache := newMapCache()

	scores := lending.NewScoreUseCase(store.Customers(), store.Loans(), engine, cache, metrics, nil)
	return &env{
		store:       store,
		metrics:     metrics,
		cache:       cache,
		customers:   lending.NewCustomerUseCase(store.Customers(), clock, nil),
		eligibility: lending.NewEligibilityUseCase(store.Customers(), store.Loans(), decider, metrics, nil),
		scores:      scores,
		loans: lending.NewLoanUseCase(lending.LoanDeps{
			Tx:        store,
			Customers: store.Customers(),
			Loans:     store.Loans(),
			Decider:   decider,
			Clock:     clock,
			Scores:    scores,
			Metrics:   metrics,
		}),
	}
}

// register da de alta un cliente con el ingreso indicado.
func (e *env) register(t *testing.T, phone, income string) *dto.CustomerResponse {
	t.Helper()
	c, err := e.customers.Register(context.Background(), dto.RegisterCustomerRequest{
		FirstName:     "Laura",
		LastName:      "Gómez",
		Age:           31,
		MonthlyIncome: dec(income),
		PhoneNumber:   phone,
	})
	require.NoError(t, err)
	return c
}

// seedLoan inserta un préstamo histórico directamente en el almacén.
func (e *env) seedLoan(t *testing.T, l *entity.Loan) {
	t.Helper()
	require.NoError(t, e.store.Loans().Upsert(context.Background(), l))
}

func loanRequest(customerID, amount, rate string, tenure int) dto.EligibilityRequest {
	return dto.EligibilityRequest{
		CustomerID:   customerID,
		LoanAmount:   dec(amount),
		InterestRate: dec(rate),
		Tenure:       tenure,
	}
}
