package lending

import (
	"context"
	"time"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Si fn devuelve error no se persiste nada de lo escrito dentro.
type TxRunner interface {
	RunLending(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		loanRepo repository.LoanRepository,
	) error) error
}

// ScoreCache guarda puntajes derivados. Nunca es la fuente de verdad:
// un fallo del caché se trata como ausencia.
type ScoreCache interface {
	// Get devuelve (nil, nil) si no hay entrada.
	Get(ctx context.Context, customerID string) (*entity.CreditScore, error)
	Set(ctx context.Context, score *entity.CreditScore) error
	Invalidate(ctx context.Context, customerID string) error
}

// Metrics colaborador de métricas del flujo de préstamos.
type Metrics interface {
	ObserveDecision(op string, reason credit.Reason)
	ObserveLoanCreated()
	ObserveCache(hit bool)
	ObserveIngest(kind string, upserted, skipped int)
}

// StatementRenderer genera el documento del cronograma de un préstamo.
type StatementRenderer interface {
	Render(loan *entity.Loan, customer *entity.Customer, rows []credit.Installment) ([]byte, error)
}

// SheetRecord fila de una planilla: encabezado normalizado -> valor crudo.
type SheetRecord struct {
	Line   int
	Fields map[string]string
}

// SheetReader lectura de planillas de ingesta.
type SheetReader interface {
	ReadRecords(ctx context.Context, path string) ([]SheetRecord, error)
	// ParseDate interpreta una celda de fecha (texto o serial de la planilla).
	ParseDate(raw string) (time.Time, error)
}

// nopMetrics descarta todo.
type nopMetrics struct{}

func (nopMetrics) ObserveDecision(string, credit.Reason) {}
func (nopMetrics) ObserveLoanCreated()                   {}
func (nopMetrics) ObserveCache(bool)                     {}
func (nopMetrics) ObserveIngest(string, int, int)        {}
