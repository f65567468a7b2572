// Package memory implementa los repositorios en memoria del proceso (desarrollo y tests).
// Las escrituras dentro de RunLending quedan en espera y se aplican al confirmar;
// GetByIDForUpdate toma un mutex por cliente que se libera al terminar la transacción.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
)

var (
	_ lending.TxRunner              = (*Store)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.LoanRepository     = (*LoanRepo)(nil)
)

// Store datos compartidos por los repos en memoria.
type Store struct {
	mu        sync.RWMutex
	customers map[string]*entity.Customer
	phones    map[string]string // phone -> id
	loans     map[string]*entity.Loan

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		customers: make(map[string]*entity.Customer),
		phones:    make(map[string]string),
		loans:     make(map[string]*entity.Loan),
		locks:     make(map[string]*sync.Mutex),
	}
}

// Customers repo de clientes fuera de transacción.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// Loans repo de préstamos fuera de transacción.
func (s *Store) Loans() *LoanRepo { return &LoanRepo{s: s} }

// Ping siempre disponible.
func (s *Store) Ping(context.Context) error { return nil }

// RunLending ejecuta fn con repos transaccionales. Si fn falla, nada de lo escrito se aplica.
func (s *Store) RunLending(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	loanRepo repository.LoanRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txScope{held: make(map[string]*sync.Mutex)}
	defer tx.release()

	if err := fn(&CustomerRepo{s: s, tx: tx}, &LoanRepo{s: s, tx: tx}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range tx.ops {
		op()
	}
	return nil
}

// txScope escrituras pendientes y locks tomados por una transacción.
type txScope struct {
	held map[string]*sync.Mutex
	ops  []func() // se ejecutan con s.mu tomado
}

// write fuera de una transacción verifica y escribe bajo un mismo s.mu.Lock; dentro de
// una, verifica al registrar la operación y difiere la escritura al commit.
func (s *Store) write(tx *txScope, check func() error, op func()) error {
	if tx != nil {
		s.mu.RLock()
		err := check()
		s.mu.RUnlock()
		if err != nil {
			return err
		}
		tx.ops = append(tx.ops, op)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := check(); err != nil {
		return err
	}
	op()
	return nil
}

func (tx *txScope) release() {
	for _, m := range tx.held {
		m.Unlock()
	}
}

func (s *Store) lockCustomer(tx *txScope, id string) {
	if _, ok := tx.held[id]; ok {
		return
	}
	s.locksMu.Lock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	s.locksMu.Unlock()

	m.Lock()
	tx.held[id] = m
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

// CustomerRepo repositorio de clientes en memoria.
type CustomerRepo struct {
	s  *Store
	tx *txScope
}

// Create inserta el cliente; teléfono repetido -> ErrDuplicate.
func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	cp := *c
	return r.s.write(r.tx, func() error {
		_, dupPhone := r.s.phones[cp.PhoneNumber]
		_, dupID := r.s.customers[cp.ID]
		if dupPhone || dupID {
			return fmt.Errorf("%w: phone_number %s", domain.ErrDuplicate, cp.PhoneNumber)
		}
		return nil
	}, func() {
		r.s.customers[cp.ID] = &cp
		r.s.phones[cp.PhoneNumber] = cp.ID
	})
}

// GetByID obtiene el cliente; (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyCustomer(r.s.customers[id]), nil
}

// GetByIDForUpdate dentro de una transacción bloquea al cliente hasta su fin.
func (r *CustomerRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	if r.tx != nil {
		r.s.lockCustomer(r.tx, id)
	}
	return r.GetByID(ctx, id)
}

// GetByPhone obtiene el cliente por teléfono.
func (r *CustomerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.phones[phone]
	if !ok {
		return nil, nil
	}
	return copyCustomer(r.s.customers[id]), nil
}

// UpdateDebt fija la deuda actual.
func (r *CustomerRepo) UpdateDebt(_ context.Context, id string, debt decimal.Decimal) error {
	return r.s.write(r.tx, func() error {
		if _, ok := r.s.customers[id]; !ok {
			return domain.ErrNotFound
		}
		return nil
	}, func() {
		if c, ok := r.s.customers[id]; ok {
			c.CurrentDebt = debt
		}
	})
}

// Upsert por ID; conserva CreatedAt. Teléfono de otro cliente -> ErrDuplicate.
func (r *CustomerRepo) Upsert(_ context.Context, c *entity.Customer) error {
	cp := *c
	return r.s.write(r.tx, func() error {
		if owner, ok := r.s.phones[cp.PhoneNumber]; ok && owner != cp.ID {
			return fmt.Errorf("%w: phone_number %s", domain.ErrDuplicate, cp.PhoneNumber)
		}
		return nil
	}, func() {
		if prev, ok := r.s.customers[cp.ID]; ok {
			cp.CreatedAt = prev.CreatedAt
			delete(r.s.phones, prev.PhoneNumber)
		}
		r.s.customers[cp.ID] = &cp
		r.s.phones[cp.PhoneNumber] = cp.ID
	})
}

// List clientes por fecha de alta.
func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	all := make([]*entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		all = append(all, copyCustomer(c))
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Préstamos
// ──────────────────────────────────────────────────────────────────────────────

// LoanRepo repositorio de préstamos en memoria.
type LoanRepo struct {
	s  *Store
	tx *txScope
}

// Create inserta el préstamo; el cliente debe existir.
func (r *LoanRepo) Create(_ context.Context, l *entity.Loan) error {
	cp := *l
	return r.s.write(r.tx, func() error {
		if _, dup := r.s.loans[cp.ID]; dup {
			return fmt.Errorf("%w: loan %s", domain.ErrDuplicate, cp.ID)
		}
		return r.customerExists(cp.CustomerID)
	}, func() { r.s.loans[cp.ID] = &cp })
}

// GetByID obtiene el préstamo; (nil, nil) si no existe.
func (r *LoanRepo) GetByID(_ context.Context, id string) (*entity.Loan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyLoan(r.s.loans[id]), nil
}

// ListByCustomer préstamos del cliente, más recientes primero.
func (r *LoanRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Loan, error) {
	r.s.mu.RLock()
	var out []*entity.Loan
	for _, l := range r.s.loans {
		if l.CustomerID == customerID {
			out = append(out, copyLoan(l))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

// Upsert inserta o reemplaza por ID.
func (r *LoanRepo) Upsert(_ context.Context, l *entity.Loan) error {
	cp := *l
	return r.s.write(r.tx, func() error {
		return r.customerExists(cp.CustomerID)
	}, func() { r.s.loans[cp.ID] = &cp })
}

// customerExists se llama con s.mu tomado.
func (r *LoanRepo) customerExists(id string) error {
	if _, ok := r.s.customers[id]; !ok {
		return fmt.Errorf("%w: customer %s", domain.ErrNotFound, id)
	}
	return nil
}

func copyCustomer(c *entity.Customer) *entity.Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func copyLoan(l *entity.Loan) *entity.Loan {
	if l == nil {
		return nil
	}
	cp := *l
	return &cp
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
