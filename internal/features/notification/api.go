package notification

import (
	"go-medidiagnose/internal/middleware"
	"go-medidiagnose/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
}

func NewNotificationApi(controller *NotificationController) *NotificationApi {
	return &NotificationApi{
		controller: controller,
	}
}

// Setup registers the notification routes and the websocket endpoint.
// Browsers cannot set headers on websocket upgrades, so /ws authenticates
// with a token query parameter instead of the Authorization header.
func (h *NotificationApi) Setup(app *fiber.App) {
	notifications := app.Group("/api/notifications", middleware.AuthMiddleware())
	notifications.Get("/", h.controller.List)
	notifications.Patch("/:id/read", h.controller.MarkRead)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		claims, err := utils.ValidateToken(c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}
		c.Locals("user_id", claims.UserID)
		return c.Next()
	})
	app.Get("/ws", websocket.New(h.controller.HandleWebSocket))
}
