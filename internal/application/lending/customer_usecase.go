package lending

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

var zeroMoney = decimal.Zero.Round(credit.MoneyPlaces)

// CustomerUseCase alta y consulta de clientes.
type CustomerUseCase struct {
	repo  repository.CustomerRepository
	clock credit.Clock
	log   *logger.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, clock credit.Clock, log *logger.Logger) *CustomerUseCase {
	if clock == nil {
		clock = credit.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CustomerUseCase{repo: repo, clock: clock, log: log.Component("customers")}
}

// Register da de alta un cliente. El cupo se deriva del ingreso si no viene informado.
func (uc *CustomerUseCase) Register(ctx context.Context, in dto.RegisterCustomerRequest) (*dto.CustomerResponse, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByPhone(ctx, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: phone_number %s ya registrado", domain.ErrDuplicate, in.PhoneNumber)
	}

	limit := in.ApprovedLimit
	if limit.IsZero() {
		limit = credit.ApprovedLimit(in.MonthlyIncome)
	}
	now := uc.clock.Now()
	customer := &entity.Customer{
		ID:            uuid.New().String(),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Age:           in.Age,
		PhoneNumber:   in.PhoneNumber,
		MonthlyIncome: in.MonthlyIncome,
		ApprovedLimit: limit,
		CurrentDebt:   zeroMoney,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", customer.ID).Str("approved_limit", limit.String()).Msg("cliente registrado")
	return toCustomerResponse(customer), nil
}

// Get obtiene un cliente por ID.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// List lista clientes paginados.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerListResponse{
		Items: make([]dto.CustomerResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, c := range list {
		out.Items = append(out.Items, *toCustomerResponse(c))
	}
	return out, nil
}

func validateRegistration(in dto.RegisterCustomerRequest) error {
	var problems []string
	if in.FirstName == "" {
		problems = append(problems, "first_name es obligatorio")
	}
	if in.LastName == "" {
		problems = append(problems, "last_name es obligatorio")
	}
	if in.Age <= 0 {
		problems = append(problems, "age debe ser positivo")
	}
	if in.MonthlyIncome.IsNegative() {
		problems = append(problems, "monthly_income no puede ser negativo")
	}
	if in.ApprovedLimit.IsNegative() {
		problems = append(problems, "approved_limit no puede ser negativo")
	}
	if !validPhone(in.PhoneNumber) {
		problems = append(problems, "phone_number inválido")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, strings.Join(problems, "; "))
	}
	return nil
}

// validPhone dígitos (opcionalmente con + inicial), entre 7 y 15.
func validPhone(p string) bool {
	p = strings.TrimPrefix(p, "+")
	if len(p) < 7 || len(p) > 15 {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		CustomerID:    c.ID,
		Name:          c.FullName(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Age:           c.Age,
		PhoneNumber:   c.PhoneNumber,
		MonthlyIncome: c.MonthlyIncome,
		ApprovedLimit: c.ApprovedLimit,
		CurrentDebt:   c.CurrentDebt,
	}
}

// loadCustomer obtiene el cliente o ErrNotFound.
func loadCustomer(ctx context.Context, repo repository.CustomerRepository, id string) (*entity.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: customer_id es obligatorio", domain.ErrInvalidArgument)
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}
