package lending

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

// Espacios de UUIDs deterministas para registros importados: reimportar la misma
// planilla actualiza en lugar de duplicar.
var (
	customerNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("credit-approval-system/customer"))
	loanNamespace     = uuid.NewSHA1(uuid.NameSpaceOID, []byte("credit-approval-system/loan"))
)

// ImportedCustomerID ID interno del cliente con customer_id sheetID en la planilla.
func ImportedCustomerID(sheetID string) string {
	return uuid.NewSHA1(customerNamespace, []byte(normalizeNumeric(sheetID))).String()
}

// Encabezados admitidos (normalizados: minúsculas, solo letras y dígitos).
var (
	colCustomerID     = []string{"customerid"}
	colFirstName      = []string{"firstname"}
	colLastName       = []string{"lastname"}
	colAge            = []string{"age"}
	colPhone          = []string{"phonenumber", "phone"}
	colMonthlyIncome  = []string{"monthlysalary", "monthlyincome"}
	colApprovedLimit  = []string{"approvedlimit"}
	colCurrentDebt    = []string{"currentdebt"}
	colLoanID         = []string{"loanid"}
	colLoanAmount     = []string{"loanamount"}
	colTenure         = []string{"tenure"}
	colInterestRate   = []string{"interestrate"}
	colInstallment    = []string{"monthlypayment", "monthlyrepayment", "monthlyinstallment", "monthlyrepaymentemi"}
	colEMIsPaidOnTime = []string{"emispaidontime"}
	colStartDate      = []string{"dateofapproval", "startdate"}
	colEndDate        = []string{"enddate"}
)

// IngestUseCase carga masiva de clientes y préstamos desde planillas.
// Las filas con errores se registran y se omiten; el resto se persiste (upsert).
type IngestUseCase struct {
	customers repository.CustomerRepository
	loans     repository.LoanRepository
	reader    SheetReader
	scores    *ScoreUseCase
	clock     credit.Clock
	metrics   Metrics
	log       *logger.Logger
}

// NewIngestUseCase construye el caso de uso.
func NewIngestUseCase(
	customers repository.CustomerRepository,
	loans repository.LoanRepository,
	reader SheetReader,
	clock credit.Clock,
	metrics Metrics,
	log *logger.Logger,
) *IngestUseCase {
	if clock == nil {
		clock = credit.SystemClock{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &IngestUseCase{
		customers: customers,
		loans:     loans,
		reader:    reader,
		clock:     clock,
		metrics:   metrics,
		log:       log.Component("ingest"),
	}
}

// WithScores descarta el puntaje en caché de cada cliente tocado por una corrida.
func (uc *IngestUseCase) WithScores(scores *ScoreUseCase) *IngestUseCase {
	uc.scores = scores
	return uc
}

// Run importa primero clientes y luego préstamos. Los clientes se identifican por el
// customer_id de la planilla (ImportedCustomerID); un préstamo cuyo customer_id no
// corresponde a un cliente importado se intenta como ID interno.
func (uc *IngestUseCase) Run(ctx context.Context, customerPath, loanPath string) (*dto.IngestResult, error) {
	customerRows, err := uc.reader.ReadRecords(ctx, customerPath)
	if err != nil {
		return nil, fmt.Errorf("leer clientes %s: %w", customerPath, err)
	}
	loanRows, err := uc.reader.ReadRecords(ctx, loanPath)
	if err != nil {
		return nil, fmt.Errorf("leer préstamos %s: %w", loanPath, err)
	}

	res := &dto.IngestResult{}
	touched := make(map[string]struct{})
	defer uc.invalidateScores(ctx, touched)

	for _, rec := range customerRows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		c, err := uc.parseCustomer(rec)
		if err == nil {
			if err = uc.customers.Upsert(ctx, c); err == nil {
				touched[c.ID] = struct{}{}
				res.CustomersUpserted++
				continue
			}
		}
		res.CustomersSkipped++
		uc.log.Error().Err(err).Str("file", customerPath).Int("line", rec.Line).Msg("fila de cliente omitida")
	}
	uc.metrics.ObserveIngest("customers", res.CustomersUpserted, res.CustomersSkipped)

	for _, rec := range loanRows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		l, err := uc.parseLoan(ctx, rec)
		if err == nil {
			err = uc.loans.Upsert(ctx, l)
		}
		if err != nil {
			res.LoansSkipped++
			uc.log.Error().Err(err).Str("file", loanPath).Int("line", rec.Line).Msg("fila de préstamo omitida")
			continue
		}
		touched[l.CustomerID] = struct{}{}
		res.LoansUpserted++
	}
	uc.metrics.ObserveIngest("loans", res.LoansUpserted, res.LoansSkipped)

	uc.log.Info().
		Int("customers", res.CustomersUpserted).Int("customers_skipped", res.CustomersSkipped).
		Int("loans", res.LoansUpserted).Int("loans_skipped", res.LoansSkipped).
		Msg("ingesta finalizada")
	return res, nil
}

// invalidateScores usa un contexto propio: corre también cuando ctx ya fue cancelado.
func (uc *IngestUseCase) invalidateScores(ctx context.Context, ids map[string]struct{}) {
	if uc.scores == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for id := range ids {
		uc.scores.Invalidate(ctx, id)
	}
}

func (uc *IngestUseCase) parseCustomer(rec SheetRecord) (*entity.Customer, error) {
	f := fields(rec)
	sheetID, err := f.text(colCustomerID, true)
	if err != nil {
		return nil, err
	}
	c := &entity.Customer{ID: ImportedCustomerID(sheetID)}
	if c.FirstName, err = f.text(colFirstName, true); err != nil {
		return nil, err
	}
	if c.LastName, err = f.text(colLastName, true); err != nil {
		return nil, err
	}
	if c.Age, err = f.integer(colAge, true); err != nil {
		return nil, err
	}
	if c.PhoneNumber, err = f.text(colPhone, true); err != nil {
		return nil, err
	}
	c.PhoneNumber = normalizeNumeric(c.PhoneNumber)
	if c.MonthlyIncome, err = f.money(colMonthlyIncome, true); err != nil {
		return nil, err
	}
	if c.ApprovedLimit, err = f.money(colApprovedLimit, false); err != nil {
		return nil, err
	}
	if c.ApprovedLimit.IsZero() {
		c.ApprovedLimit = credit.ApprovedLimit(c.MonthlyIncome)
	}
	if c.CurrentDebt, err = f.money(colCurrentDebt, false); err != nil {
		return nil, err
	}
	if c.MonthlyIncome.IsNegative() || c.CurrentDebt.IsNegative() {
		return nil, fmt.Errorf("montos negativos en la fila")
	}
	now := uc.clock.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	return c, nil
}

func (uc *IngestUseCase) parseLoan(ctx context.Context, rec SheetRecord) (*entity.Loan, error) {
	f := fields(rec)
	sheetCustomer, err := f.text(colCustomerID, true)
	if err != nil {
		return nil, err
	}
	customerID, err := uc.resolveCustomer(ctx, normalizeNumeric(sheetCustomer))
	if err != nil {
		return nil, err
	}
	sheetLoan, err := f.text(colLoanID, true)
	if err != nil {
		return nil, err
	}

	l := &entity.Loan{
		ID:         uuid.NewSHA1(loanNamespace, []byte(normalizeNumeric(sheetLoan))).String(),
		CustomerID: customerID,
		Status:     entity.LoanStatusApproved,
	}
	if l.LoanAmount, err = f.money(colLoanAmount, true); err != nil {
		return nil, err
	}
	if l.Tenure, err = f.integer(colTenure, true); err != nil {
		return nil, err
	}
	if l.InterestRate, err = f.money(colInterestRate, true); err != nil {
		return nil, err
	}
	if l.MonthlyInstallment, err = f.money(colInstallment, false); err != nil {
		return nil, err
	}
	if l.EMIsPaidOnTime, err = f.integer(colEMIsPaidOnTime, false); err != nil {
		return nil, err
	}
	if !l.LoanAmount.IsPositive() || l.Tenure <= 0 || l.InterestRate.IsNegative() || l.EMIsPaidOnTime < 0 {
		return nil, fmt.Errorf("préstamo %s con términos inválidos", sheetLoan)
	}
	if l.MonthlyInstallment.IsZero() {
		if l.MonthlyInstallment, err = credit.ComputeEMI(l.LoanAmount, l.InterestRate, l.Tenure); err != nil {
			return nil, err
		}
	}

	rawStart, err := f.text(colStartDate, true)
	if err != nil {
		return nil, err
	}
	if l.StartDate, err = uc.reader.ParseDate(rawStart); err != nil {
		return nil, fmt.Errorf("fecha de inicio %q: %w", rawStart, err)
	}
	l.StartDate = entity.DateOf(l.StartDate)
	rawEnd, _ := f.text(colEndDate, false)
	if rawEnd == "" {
		l.EndDate = credit.LoanEndDate(l.StartDate, l.Tenure)
	} else if l.EndDate, err = uc.reader.ParseDate(rawEnd); err != nil {
		return nil, fmt.Errorf("fecha de fin %q: %w", rawEnd, err)
	}
	l.EndDate = entity.DateOf(l.EndDate)

	now := uc.clock.Now()
	l.CreatedAt, l.UpdatedAt = now, now
	return l, nil
}

// resolveCustomer cliente importado con ese customer_id o, si no existe, cliente con ese ID interno.
func (uc *IngestUseCase) resolveCustomer(ctx context.Context, sheetID string) (string, error) {
	for _, id := range []string{ImportedCustomerID(sheetID), sheetID} {
		c, err := uc.customers.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if c != nil {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("cliente %s no encontrado", sheetID)
}

// recordFields acceso tipado a una fila por alias de encabezado.
type recordFields map[string]string

func fields(rec SheetRecord) recordFields { return recordFields(rec.Fields) }

func (f recordFields) text(aliases []string, required bool) (string, error) {
	for _, a := range aliases {
		if v, ok := f[a]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	if required {
		return "", fmt.Errorf("columna %s vacía o ausente", aliases[0])
	}
	return "", nil
}

func (f recordFields) integer(aliases []string, required bool) (int, error) {
	v, err := f.text(aliases, required)
	if err != nil || v == "" {
		return 0, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("columna %s: entero inválido %q", aliases[0], v)
	}
	return int(d.IntPart()), nil
}

func (f recordFields) money(aliases []string, required bool) (decimal.Decimal, error) {
	v, err := f.text(aliases, required)
	if err != nil {
		return decimal.Zero, err
	}
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("columna %s: número inválido %q", aliases[0], v)
	}
	return d.Round(credit.MoneyPlaces), nil
}

// normalizeNumeric "9876543210.0" -> "9876543210" (celdas numéricas leídas como texto);
// otros valores sin cambio.
func normalizeNumeric(s string) string {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok || strings.Trim(frac, "0") != "" {
		return s
	}
	if _, err := strconv.ParseUint(whole, 10, 64); err != nil {
		return s
	}
	return whole
}

// NormalizeHeader clave de encabezado: minúsculas, solo letras y dígitos.
func NormalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
