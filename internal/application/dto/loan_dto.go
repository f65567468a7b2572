package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EligibilityRequest body de POST /api/check-eligibility y POST /api/create-loan.
type EligibilityRequest struct {
	CustomerID   string          `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Tenure       int             `json:"tenure"`
}

// CreateLoanRequest mismo cuerpo que la consulta de elegibilidad.
type CreateLoanRequest = EligibilityRequest

// EligibilityResponse resultado de POST /api/check-eligibility.
type EligibilityResponse struct {
	CustomerID            string          `json:"customer_id"`
	Approval              bool            `json:"approval"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	CorrectedInterestRate decimal.Decimal `json:"corrected_interest_rate"`
	Tenure                int             `json:"tenure"`
	MonthlyInstallment    decimal.Decimal `json:"monthly_installment"`
	Message               string          `json:"message"`
	CreditScore           int             `json:"credit_score"`
}

// CreateLoanResponse resultado de POST /api/create-loan. LoanID es null si se rechaza.
type CreateLoanResponse struct {
	LoanID             *string         `json:"loan_id"`
	CustomerID         string          `json:"customer_id"`
	LoanApproved       bool            `json:"loan_approved"`
	Message            string          `json:"message"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
}

// LoanCustomer datos del cliente embebidos en el detalle de un préstamo.
type LoanCustomer struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

// LoanDetailResponse GET /api/view-loan/:loan_id.
type LoanDetailResponse struct {
	LoanID             string          `json:"loan_id"`
	Customer           LoanCustomer    `json:"customer"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	Tenure             int             `json:"tenure"`
	Status             string          `json:"status"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
}

// LoanItemResponse elemento de GET /api/view-loans/:customer_id.
type LoanItemResponse struct {
	LoanID             string          `json:"loan_id"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	RepaymentsLeft     int             `json:"repayments_left"`
	Status             string          `json:"status"`
}

// IngestRequest body de POST /api/ingest-data. Vacíos = archivos configurados.
type IngestRequest struct {
	CustomerFile string `json:"customer_file"`
	LoanFile     string `json:"loan_file"`
}

// IngestResult conteos de una ingesta.
type IngestResult struct {
	CustomersUpserted int `json:"customers_upserted"`
	CustomersSkipped  int `json:"customers_skipped"`
	LoansUpserted     int `json:"loans_upserted"`
	LoansSkipped      int `json:"loans_skipped"`
}

// IngestStatus estado del trabajo de ingesta en segundo plano.
type IngestStatus struct {
	Running    bool          `json:"running"`
	StartedAt  *time.Time    `json:"started_at,omitempty"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	LastResult *IngestResult `json:"last_result,omitempty"`
	LastError  string        `json:"last_error,omitempty"`
}
