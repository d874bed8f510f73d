package system

import (
	"go-medidiagnose/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	db *database.MongoDB
}

func NewHealthApi(db *database.MongoDB) *HealthApi {
	return &HealthApi{db: db}
}

// Setup registers health check route
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Check if the server and its database are up
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	if err := h.db.DB.Client().Ping(c.Context(), nil); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"database": "unreachable",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "ok",
		"database": "connected",
	})
}
