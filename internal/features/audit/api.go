package audit

import (
	"go-medidiagnose/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
}

func NewAuditApi(controller *AuditController) *AuditApi {
	return &AuditApi{
		controller: controller,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	logs := app.Group("/api/admin/audit-logs", middleware.AuthMiddleware(), middleware.RequireAdmin())

	logs.Get("/", h.controller.ListLogs)
}
