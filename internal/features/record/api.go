package record

import (
	"go-medidiagnose/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecordApi struct {
	controller *RecordController
}

func NewRecordApi(controller *RecordController) *RecordApi {
	return &RecordApi{
		controller: controller,
	}
}

// Setup registers the doctor-facing read routes
func (h *RecordApi) Setup(app *fiber.App) {
	doctor := app.Group("/api/doctor", middleware.AuthMiddleware(), middleware.RequireStaff())

	doctor.Get("/recent-scans", h.controller.RecentScans)
	doctor.Get("/recent-patients", h.controller.RecentPatients)
	doctor.Get("/patients", h.controller.ListPatients)
	doctor.Get("/patients/:id/scans", h.controller.PatientScans)
	doctor.Get("/scan/:id", h.controller.GetScan)
}
