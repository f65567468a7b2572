package http

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/observability"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/config"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC    *lending.CustomerUseCase
	ScoreUC       *lending.ScoreUseCase
	EligibilityUC *lending.EligibilityUseCase
	LoanUC        *lending.LoanUseCase
	StatementUC   *lending.StatementUseCase
	IngestJob     *lending.IngestJob
	Ingest        config.IngestConfig
	Metrics       *observability.Metrics
	Checks        map[string]HealthCheck
	Version       string
	// SwaggerFile documento OpenAPI servido en /docs; se omite si no existe.
	SwaggerFile string
	Log         *logger.Logger
}

// NewApp crea la aplicación Fiber con recover y el manejador de errores JSON.
func NewApp(name string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "error interno"
			if fe, ok := err.(*fiber.Error); ok {
				code, msg = fe.Code, fe.Message
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: strconv.Itoa(code), Message: msg})
		},
	})
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	if deps.Metrics != nil {
		app.Use(requestMetrics(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	// Swagger UI: http://localhost:<port>/docs
	if deps.SwaggerFile != "" {
		if _, err := os.Stat(deps.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.SwaggerFile,
				Path:     "docs",
				Title:    "Credit Approval API",
			}))
		} else {
			log.Warn().Str("file", deps.SwaggerFile).Msg("documento OpenAPI no encontrado, /docs deshabilitado")
		}
	}

	app.Get("/health", NewHealthHandler(deps.Version, deps.Checks).Health)

	api := app.Group("/api")

	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.ScoreUC, log)
	api.Post("/register", customerHandler.Register)
	api.Get("/customers", customerHandler.List)
	api.Get("/customers/:id", customerHandler.GetByID)
	api.Get("/customers/:id/credit-score", customerHandler.CreditScore)

	loanHandler := NewLoanHandler(deps.EligibilityUC, deps.LoanUC, deps.StatementUC, log)
	api.Post("/check-eligibility", loanHandler.CheckEligibility)
	api.Post("/create-loan", loanHandler.CreateLoan)
	api.Get("/view-loan/:loan_id", loanHandler.ViewLoan)
	api.Get("/view-loans/:customer_id", loanHandler.ViewLoans)
	api.Get("/loans/:loan_id/statement.pdf", loanHandler.Statement)

	if deps.IngestJob != nil {
		ingestHandler := NewIngestHandler(deps.IngestJob, deps.Ingest, log)
		api.Post("/ingest-data", ingestHandler.Start)
		api.Get("/ingest-data/status", ingestHandler.Status)
	}
}

// requestMetrics registra la duración de cada solicitud por ruta y estado.
func requestMetrics(m *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.ObserveRequest(c.Method(), c.Route().Path, strconv.Itoa(status), time.Since(start))
		return err
	}
}
