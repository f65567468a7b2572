package http

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/config"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

// IngestHandler dispara la ingesta de planillas en segundo plano.
type IngestHandler struct {
	job *lending.IngestJob
	cfg config.IngestConfig
	log *logger.Logger
}

// NewIngestHandler construye el handler. Los archivos se buscan siempre dentro de cfg.DataDir.
func NewIngestHandler(job *lending.IngestJob, cfg config.IngestConfig, log *logger.Logger) *IngestHandler {
	return &IngestHandler{job: job, cfg: cfg, log: log}
}

// Start godoc
// @Summary      Iniciar ingesta de clientes y préstamos
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IngestRequest  false  "nombres de archivo dentro del directorio de datos"
// @Success      202   {object}  dto.MessageResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ingest-data [post]
func (h *IngestHandler) Start(c *fiber.Ctx) error {
	var in dto.IngestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	customerPath := h.cfg.CustomerPath()
	if in.CustomerFile != "" {
		customerPath = filepath.Join(h.cfg.DataDir, filepath.Base(in.CustomerFile))
	}
	loanPath := h.cfg.LoanPath()
	if in.LoanFile != "" {
		loanPath = filepath.Join(h.cfg.DataDir, filepath.Base(in.LoanFile))
	}
	if err := h.job.Start(customerPath, loanPath); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MessageResponse{Message: "ingesta iniciada"})
}

// Status GET /api/ingest-data/status
func (h *IngestHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.job.Status())
}
