package http

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
)

// HealthCheck verifica una dependencia (base de datos, caché).
type HealthCheck func(ctx context.Context) error

// HealthHandler GET /health.
type HealthHandler struct {
	version string
	checks  map[string]HealthCheck
}

// NewHealthHandler construye el handler.
func NewHealthHandler(version string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

// Health godoc
// @Summary      Estado del servicio y sus dependencias
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	var failing []string
	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			failing = append(failing, name)
		}
	}

	resp := dto.HealthResponse{
		Status:    "ok",
		Message:   "API is running",
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if len(failing) > 0 {
		resp.Status = "degraded"
		resp.Message = "dependencias no disponibles: " + strings.Join(failing, ", ")
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
