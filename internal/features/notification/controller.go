package notification

import (
	"strconv"

	"go-medidiagnose/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	NotificationService NotificationService
	Hub                 *Hub
}

func NewNotificationController(notificationService NotificationService, hub *Hub) *NotificationController {
	return &NotificationController{
		NotificationService: notificationService,
		Hub:                 hub,
	}
}

// List returns the caller's newest notifications.
func (ctrl *NotificationController) List(c *fiber.Ctx) error {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	notifications, err := ctrl.NotificationService.ListForUser(c.Context(), claims.UserID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch notifications",
		})
	}
	return c.JSON(notifications)
}

func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := ctrl.NotificationService.MarkRead(c.Context(), c.Params("id"), claims.UserID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}
	return c.JSON(fiber.Map{"message": "Notification read"})
}

// HandleWebSocket keeps the connection registered until the client goes
// away. Pushes happen from the service; reads here only detect close.
func (ctrl *NotificationController) HandleWebSocket(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		c.Close()
		return
	}

	ctrl.Hub.Register(userID, c)
	defer func() {
		ctrl.Hub.Unregister(userID, c)
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
