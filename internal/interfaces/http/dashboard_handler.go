package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jcamargo/stocktrack-api/internal/application/dto"
	"github.com/jcamargo/stocktrack-api/internal/application/usecase"
)

// DashboardHandler expone los KPIs del tablero (protegido, solo lectura).
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// KPIs godoc
// @Summary      KPIs del tablero
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardKPIs
// @Router       /api/dashboard/kpis [get]
func (h *DashboardHandler) KPIs(c *fiber.Ctx) error {
	out, err := h.uc.KPIs(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
