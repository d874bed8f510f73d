package permission

import (
	"go-medidiagnose/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermissionApi struct {
	controller *PermissionController
}

func NewPermissionApi(controller *PermissionController) *PermissionApi {
	return &PermissionApi{
		controller: controller,
	}
}

// Setup registers permission routes (admin only)
func (h *PermissionApi) Setup(app *fiber.App) {
	perms := app.Group("/api/admin/permissions", middleware.AuthMiddleware(), middleware.RequireAdmin())

	perms.Post("/", h.controller.CreatePermission)
	perms.Get("/", h.controller.ListPermissions)
}
