package dashboard

import (
	"go-medidiagnose/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	controller *DashboardController
}

func NewDashboardApi(controller *DashboardController) *DashboardApi {
	return &DashboardApi{
		controller: controller,
	}
}

func (api *DashboardApi) Setup(app *fiber.App) {
	app.Get("/api/admin/dashboard-stats",
		middleware.AuthMiddleware(),
		middleware.RequireAdmin(),
		api.controller.AdminStats,
	)

	app.Get("/api/doctor/dashboard-stats",
		middleware.AuthMiddleware(),
		middleware.RequireStaff(),
		api.controller.DoctorStats,
	)
}
