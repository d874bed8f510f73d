package user

import (
	"go-medidiagnose/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
}

func NewUserApi(controller *UserController) *UserApi {
	return &UserApi{
		controller: controller,
	}
}

// Setup registers the admin user CRUD routes
func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/admin/users", middleware.AuthMiddleware(), middleware.RequireAdmin())

	users.Get("/", h.controller.ListUsers)
	users.Post("/", h.controller.CreateUser)
	users.Get("/export", h.controller.ExportUsers)
	users.Get("/:id", h.controller.GetUser)
	users.Patch("/:id", h.controller.UpdateUser)
	users.Delete("/:id", h.controller.DeleteUser)

	users.Patch("/:id/status", h.controller.UpdateUserStatus)
	users.Patch("/:id/roles", h.controller.UpdateUserRoles)
	users.Patch("/:id/permissions", h.controller.UpdateUserPermissions)
}
