package permission

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type PermissionController struct {
	PermissionService PermissionService
}

func NewPermissionController(permissionService PermissionService) *PermissionController {
	return &PermissionController{
		PermissionService: permissionService,
	}
}

type CreatePermissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreatePermission godoc
// @Summary      Create a permission
// @Description  Create a named permission; duplicate names are rejected
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input body CreatePermissionRequest true "Permission"
// @Success      201  {object} Permission
// @Failure      400  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /api/admin/permissions [post]
func (ctrl *PermissionController) CreatePermission(c *fiber.Ctx) error {
	var req CreatePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	perm, err := ctrl.PermissionService.CreatePermission(c.Context(), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrNameTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create permission"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(perm)
}

// ListPermissions godoc
// @Summary      List permissions
// @Tags         admin
// @Produce      json
// @Success      200  {array} Permission
// @Router       /api/admin/permissions [get]
func (ctrl *PermissionController) ListPermissions(c *fiber.Ctx) error {
	perms, err := ctrl.PermissionService.ListPermissions(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch permissions",
		})
	}
	if perms == nil {
		perms = []Permission{}
	}
	return c.JSON(perms)
}
