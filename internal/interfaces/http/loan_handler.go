package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

// LoanHandler maneja elegibilidad, creación y consulta de préstamos.
type LoanHandler struct {
	eligibility *lending.EligibilityUseCase
	loans       *lending.LoanUseCase
	statements  *lending.StatementUseCase
	log         *logger.Logger
}

// NewLoanHandler construye el handler.
func NewLoanHandler(eligibility *lending.EligibilityUseCase, loans *lending.LoanUseCase, statements *lending.StatementUseCase, log *logger.Logger) *LoanHandler {
	return &LoanHandler{eligibility: eligibility, loans: loans, statements: statements, log: log}
}

// CheckEligibility godoc
// @Summary      Evaluar elegibilidad de un préstamo (sin persistir)
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EligibilityRequest  true  "customer_id, loan_amount, interest_rate, tenure"
// @Success      200   {object}  dto.EligibilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/check-eligibility [post]
func (h *LoanHandler) CheckEligibility(c *fiber.Ctx) error {
	var in dto.EligibilityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.eligibility.Check(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateLoan godoc
// @Summary      Crear préstamo: 201 si se aprueba, 200 con loan_id null si se rechaza
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLoanRequest  true  "customer_id, loan_amount, interest_rate, tenure"
// @Success      201   {object}  dto.CreateLoanResponse
// @Success      200   {object}  dto.CreateLoanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/create-loan [post]
func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	var in dto.CreateLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.loans.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	status := fiber.StatusOK
	if out.LoanApproved {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// ViewLoan GET /api/view-loan/:loan_id
func (h *LoanHandler) ViewLoan(c *fiber.Ctx) error {
	out, err := h.loans.Get(c.UserContext(), c.Params("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ViewLoans GET /api/view-loans/:customer_id (préstamos vigentes)
func (h *LoanHandler) ViewLoans(c *fiber.Ctx) error {
	out, err := h.loans.ListActiveByCustomer(c.UserContext(), c.Params("customer_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Extracto PDF con el cronograma de amortización
// @Tags         loans
// @Produce      application/pdf
// @Param        loan_id  path  string  true  "ID del préstamo"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/loans/{loan_id}/statement.pdf [get]
func (h *LoanHandler) Statement(c *fiber.Ctx) error {
	id := c.Params("loan_id")
	doc, err := h.statements.Download(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="loan-`+id+`.pdf"`)
	return c.Send(doc)
}
