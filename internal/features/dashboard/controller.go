package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DashboardController struct {
	service DashboardService
	logger  *zap.Logger
}

func NewDashboardController(service DashboardService, logger *zap.Logger) *DashboardController {
	return &DashboardController{
		service: service,
		logger:  logger,
	}
}

// AdminStats godoc
// @Summary Portal-wide statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} dashboard.AdminStats
// @Security BearerAuth
// @Router /api/admin/dashboard-stats [get]
func (dc *DashboardController) AdminStats(c *fiber.Ctx) error {
	stats, err := dc.service.AdminStats(c.Context())
	if err != nil {
		dc.logger.Error("failed to compute admin stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load dashboard statistics",
		})
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// DoctorStats godoc
// @Summary Clinical workload statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} dashboard.DoctorStats
// @Security BearerAuth
// @Router /api/doctor/dashboard-stats [get]
func (dc *DashboardController) DoctorStats(c *fiber.Ctx) error {
	stats, err := dc.service.DoctorStats(c.Context())
	if err != nil {
		dc.logger.Error("failed to compute doctor stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load dashboard statistics",
		})
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}
