package appointment

import (
	"go-medidiagnose/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AppointmentApi struct {
	controller *AppointmentController
}

func NewAppointmentApi(controller *AppointmentController) *AppointmentApi {
	return &AppointmentApi{
		controller: controller,
	}
}

// Setup registers the booking routes. Booking and "mine" need only a valid
// token; the management views are staff-gated.
func (h *AppointmentApi) Setup(app *fiber.App) {
	appts := app.Group("/api/appointments", middleware.AuthMiddleware())

	appts.Post("/", h.controller.Book)
	appts.Get("/mine", h.controller.Mine)

	appts.Get("/", middleware.RequireStaff(), h.controller.List)
	appts.Patch("/:id/status", middleware.RequireStaff(), h.controller.UpdateStatus)
}
