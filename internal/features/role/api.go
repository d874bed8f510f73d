package role

import (
	"go-medidiagnose/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
}

func NewRoleApi(controller *RoleController) *RoleApi {
	return &RoleApi{
		controller: controller,
	}
}

// Setup registers role routes (admin only)
func (h *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/admin/roles", middleware.AuthMiddleware(), middleware.RequireAdmin())

	roles.Post("/", h.controller.CreateRole)
	roles.Get("/", h.controller.ListRoles)
}
