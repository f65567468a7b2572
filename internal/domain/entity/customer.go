package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente del sistema de crédito.
// ApprovedLimit es el tope de deuda; CurrentDebt la suma del capital de préstamos activos.
type Customer struct {
	ID            string
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string // único
	MonthlyIncome decimal.Decimal
	ApprovedLimit decimal.Decimal
	CurrentDebt   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName nombre y apellido separados por espacio.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// RemainingLimit cupo disponible: ApprovedLimit - CurrentDebt.
func (c *Customer) RemainingLimit() decimal.Decimal {
	return c.ApprovedLimit.Sub(c.CurrentDebt)
}
