package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterCustomerRequest body para POST /api/register.
// ApprovedLimit es opcional: si va vacío o en cero se deriva del ingreso.
type RegisterCustomerRequest struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	PhoneNumber   string          `json:"phone_number"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	CustomerID    string          `json:"customer_id"`
	Name          string          `json:"name"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	PhoneNumber   string          `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
	CurrentDebt   decimal.Decimal `json:"current_debt"`
}

// CustomerListResponse página de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreditScoreResponse puntaje (posiblemente en caché) de GET /api/customers/:id/credit-score.
type CreditScoreResponse struct {
	CustomerID   string    `json:"customer_id"`
	CreditScore  int       `json:"credit_score"`
	CalculatedAt time.Time `json:"calculated_at"`
	Cached       bool      `json:"cached"`
}
