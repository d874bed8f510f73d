package appointment

import (
	"errors"
	"strconv"
	"time"

	"go-medidiagnose/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AppointmentController struct {
	AppointmentService AppointmentService
}

func NewAppointmentController(appointmentService AppointmentService) *AppointmentController {
	return &AppointmentController{
		AppointmentService: appointmentService,
	}
}

type BookRequest struct {
	DoctorID  string    `json:"doctor_id"`
	Service   string    `json:"service"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Notes     string    `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func claimsFrom(c *fiber.Ctx) (*utils.UserClaims, bool) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	return claims, ok
}

// Book godoc
// @Summary      Book an appointment
// @Description  Books a slot with a doctor; overlapping slots are rejected
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        input body BookRequest true "Booking"
// @Success      201  {object} Appointment
// @Failure      400  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /api/appointments [post]
func (ctrl *AppointmentController) Book(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.DoctorID == "" || req.Service == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "doctor_id and service are required",
		})
	}

	appt, err := ctrl.AppointmentService.Book(c.Context(), BookInput{
		PatientID: claims.UserID,
		DoctorID:  req.DoctorID,
		Service:   req.Service,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrDoctorNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrPastWindow):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(appt)
}

// Mine lists the calling patient's appointments.
func (ctrl *AppointmentController) Mine(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	appts, err := ctrl.AppointmentService.ListForPatient(c.Context(), claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch appointments",
		})
	}
	return c.JSON(appts)
}

// List is the staff view with status/doctor filters.
func (ctrl *AppointmentController) List(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	appts, total, err := ctrl.AppointmentService.List(c.Context(), c.Query("status"), c.Query("doctor_id"), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch appointments",
		})
	}

	return c.JSON(fiber.Map{
		"appointments": appts,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// UpdateStatus moves an appointment through the closed status machine.
func (ctrl *AppointmentController) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := ctrl.AppointmentService.UpdateStatus(c.Context(), c.Params("id"), Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrInvalidTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update appointment"})
		}
	}

	return c.JSON(fiber.Map{"message": "Appointment updated"})
}
