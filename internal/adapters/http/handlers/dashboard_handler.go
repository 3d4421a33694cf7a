package handlers

import (
	"prestaclick/internal/core/services"
	"prestaclick/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles pipeline overview endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Pipeline handles the pipeline overview
// @Summary Pipeline overview
// @Description Count applications per status, including zeroes for empty statuses
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/pipeline [get]
func (h *DashboardHandler) Pipeline(c *fiber.Ctx) error {
	pipeline, err := h.dashboardService.GetPipeline(c.Context(), requestTenantID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to get pipeline")
	}

	return response.Success(c, "Pipeline retrieved", pipeline)
}
