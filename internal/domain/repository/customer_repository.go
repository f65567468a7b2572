package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Los Get devuelven (nil, nil) cuando el registro no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetByIDForUpdate bloquea la fila del cliente hasta el fin de la transacción
	// (SELECT ... FOR UPDATE). Fuera de una tx equivale a GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	// UpdateDebt fija la deuda actual del cliente.
	UpdateDebt(ctx context.Context, id string, debt decimal.Decimal) error
	// Upsert inserta o actualiza por ID (ingesta masiva); el teléfono puede cambiar.
	// Teléfono ya asignado a otro cliente -> ErrDuplicate.
	Upsert(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}
